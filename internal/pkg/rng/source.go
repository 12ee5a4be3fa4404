package rng

import (
	"math/rand"
	"sync"
)

//go:generate mockgen -destination=mock/mock_source.go -package=rngmock github.com/cursedmounds/kurgan-api/internal/pkg/rng Source

// Source yields uniform draws in [0, 1). Combat rolls take a Source rather
// than a *Mulberry: attack resolution is intentionally not reproducible,
// while character generation must be. Tests substitute a fixed sequence.
type Source interface {
	Next() float64
}

// Ensure Mulberry can stand in as a Source where a test wants a seeded one.
var _ Source = (*Mulberry)(nil)

// SystemSource draws from the process-wide math/rand generator.
type SystemSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSystemSource creates an unseeded source for live combat rolls.
func NewSystemSource() *SystemSource {
	return &SystemSource{r: rand.New(rand.NewSource(rand.Int63()))} // #nosec G404 // gameplay rolls, not crypto
}

// Next returns a uniform draw in [0, 1).
func (s *SystemSource) Next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
