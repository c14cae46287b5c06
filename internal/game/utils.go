package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"sync"
)

// Source supplies uniformly distributed integers in [0, n)
type Source interface {
	IntN(n int) int
}

type cryptoSource struct{}

func (cryptoSource) IntN(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// fallback to math/rand if crypto fails
		return rand.IntN(n)
	}
	return int(v.Int64())
}

// DefaultSource draws from crypto/rand
var DefaultSource Source = cryptoSource{}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Synchronized makes src safe for concurrent use, e.g. a seeded *rand.Rand
// shared by many sessions
func Synchronized(src Source) Source {
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

// Pick returns a uniformly chosen element of ids
func Pick(src Source, ids []string) string {
	return ids[src.IntN(len(ids))]
}

// Shuffle returns a uniformly random permutation of ids without modifying it
func Shuffle(src Source, ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
