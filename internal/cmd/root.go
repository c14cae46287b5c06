// Package cmd implements the liargame command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "liargame",
	Short: "Find-the-impostor word game against language-model agents",
	Long: `liargame runs a social-deduction word game: you and three AI agents
describe a secret keyword, except that one agent is an impostor who only
knows the category. Talk, vote, and see whether the impostor survives.`,
	SilenceUsage: true,
}

var (
	cfgFile string
	envFile string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}
