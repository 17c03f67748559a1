package rng

import (
	cryptoRand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Source is the uniform [0,1) generator every draw in the engine goes through.
type Source interface {
	Float64() float64
}

// lockedSource serialises draws from one generator; the engine is shared by
// every session.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Default returns a ChaCha8 stream keyed once from crypto/rand. Each call owns
// its own stream.
func Default() Source {
	var seed [32]byte
	// crypto/rand.Read does not fail since go 1.24
	_, _ = cryptoRand.Read(seed[:])
	return &lockedSource{r: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded returns a replayable PCG stream for tests and simulation.
func NewSeeded(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, 0))}
}
