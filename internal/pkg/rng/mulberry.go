// Package rng provides the deterministic PRNG that seeds all daily content
// generation, plus an injectable source for rolls that are deliberately
// non-reproducible (combat).
package rng

// Mulberry implements the Mulberry32 seeded pseudo-random number generator.
// A given seed produces the same draw sequence on every platform; all
// intermediate arithmetic is unsigned 32-bit so ports in other runtimes
// stay bit-compatible.
type Mulberry struct {
	state uint32
	seed  uint32
}

// New creates a generator from a 32-bit seed.
func New(seed uint32) *Mulberry {
	return &Mulberry{state: seed, seed: seed}
}

// Seed returns the seed this generator was constructed with.
func (m *Mulberry) Seed() uint32 {
	return m.seed
}

// Reset rewinds the generator to its initial seed.
func (m *Mulberry) Reset() {
	m.state = m.seed
}

// Next returns the next draw as a float64 in [0, 1).
func (m *Mulberry) Next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// IntBetween returns a uniform integer in [min, max], inclusive on both ends.
func (m *Mulberry) IntBetween(min, max int) int {
	return int(m.Next()*float64(max-min+1)) + min
}

// Index returns a uniform index in [0, n). n must be positive.
func (m *Mulberry) Index(n int) int {
	return int(m.Next() * float64(n))
}
