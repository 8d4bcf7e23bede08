package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
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

// SeededSource is a deterministic Source. Two SeededSources built from the
// same seed produce the same sequence, which makes whole turns reproducible.
type SeededSource struct {
	mu   sync.Mutex
	seed int64
	rng  *mrand.Rand
}

// NewSeededSource returns a SeededSource for seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{
		seed: seed,
		rng:  mrand.New(mrand.NewSource(seed)),
	}
}

// Intn returns a deterministic int in [0, n).
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

// Seed returns the seed the source was built from.
func (s *SeededSource) Seed() int64 { return s.seed }
