package heightmap

import "math/rand"

// RandomSource supplies seeded, reproducible uniform draws.
// Uniform must return values in [0, 1).
type RandomSource interface {
	Seed(seed uint64)
	Uniform() float64
}

// LCG parameters (Numerical Recipes).
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
	lcgModulus           = 1 << 32
)

// LCG is the reference random source: a 32-bit linear congruential generator.
// Its output is fully specified, so maps built with it are reproducible on any
// platform.
type LCG struct {
	state uint32
}

// NewLCG returns an LCG seeded with seed.
func NewLCG(seed uint64) *LCG {
	l := &LCG{}
	l.Seed(seed)
	return l
}

// Seed folds the 64-bit seed into the 32-bit state.
func (l *LCG) Seed(seed uint64) {
	l.state = uint32(seed) ^ uint32(seed>>32)
}

// Uniform advances the generator and returns state / 2^32.
func (l *LCG) Uniform() float64 {
	l.state = l.state*lcgMultiplier + lcgIncrement
	return float64(l.state) / lcgModulus
}

// StdSource adapts math/rand to RandomSource.
type StdSource struct {
	rng *rand.Rand
}

// NewStdSource returns a math/rand backed source seeded with seed.
func NewStdSource(seed uint64) *StdSource {
	s := &StdSource{}
	s.Seed(seed)
	return s
}

// Seed replaces the underlying generator with a freshly seeded one.
func (s *StdSource) Seed(seed uint64) {
	s.rng = rand.New(rand.NewSource(int64(seed)))
}

// Uniform returns a draw in [0, 1).
func (s *StdSource) Uniform() float64 {
	return s.rng.Float64()
}
