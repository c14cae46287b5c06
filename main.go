package main

import (
	"os"

	"github.com/mvg01/liargame/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
