package round

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Rand is the random source used for bucket and member draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG source seeded from the system entropy pool.
func NewRand() *rand.Rand {
	var seed [16]byte
	_, _ = cryptorand.Read(seed[:])
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

// NewSeededRand returns a deterministic PCG source for reproducible games.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
