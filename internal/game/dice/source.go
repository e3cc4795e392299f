package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It is not
// reproducible and must not be used inside an encounter.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// SeededSource is a reproducible Source. Two SeededSources created with the
// same seed yield the same sequence for the same sequence of calls.
type SeededSource struct {
	mu   sync.Mutex
	seed int64
	rng  *mrand.Rand
}

// NewSeededSource returns a SeededSource for seed.
//
// Postcondition: Seed() == seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{seed: seed, rng: mrand.New(mrand.NewSource(seed))}
}

// Seed returns the seed the source was created with.
func (s *SeededSource) Seed() int64 {
	return s.seed
}

// Intn returns a value in [0, n) from the seeded sequence.
//
// Precondition: n > 0.
func (s *SeededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// NewSeed draws a fresh non-negative seed from crypto/rand, for callers that
// want an unpredictable but recordable encounter.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int64(binary.BigEndian.Uint64(buf[:]) >> 1)
}
