// Package heightmap builds tileable height maps with the diamond-square
// (recursive midpoint displacement) algorithm.
package heightmap

import (
	"fmt"
	"time"
)

// Factor bounds. Out-of-range factors are clamped, never rejected.
const (
	MinFactor = 2
	MaxFactor = 14
)

// Float is the set of element types a height map can hold.
type Float interface {
	~float32 | ~float64
}

// Perturbation selects how the random term of each displacement is scaled.
type Perturbation uint8

const (
	// PerturbLiteral evaluates (r*scale*2)/scale with scale = offset*step.
	// The scale cancels, so every level is perturbed by roughly 2r.
	PerturbLiteral Perturbation = iota

	// PerturbAttenuated uses 2r*step/((side-1)*offset): the perturbation
	// halves with every level and shrinks as the offset grows.
	PerturbAttenuated
)

// String returns the config name of the mode.
func (p Perturbation) String() string {
	switch p {
	case PerturbLiteral:
		return "literal"
	case PerturbAttenuated:
		return "attenuated"
	default:
		return fmt.Sprintf("perturbation(%d)", uint8(p))
	}
}

// ParsePerturbation converts a config name into a Perturbation.
func ParsePerturbation(s string) (Perturbation, error) {
	switch s {
	case "", "literal":
		return PerturbLiteral, nil
	case "attenuated":
		return PerturbAttenuated, nil
	default:
		return 0, fmt.Errorf("unknown perturbation %q", s)
	}
}

// Generator owns a square, toroidal height map of side 2^factor+1 and
// regenerates it in place on every Build.
//
// A Generator is not safe for concurrent use.
type Generator[T Float] struct {
	factor       int
	side         int
	offset       T
	seed         uint64
	perturbation Perturbation
	source       RandomSource
	grid         []T
}

// New creates a generator with an explicit seed. The factor is clamped to
// [MinFactor, MaxFactor]. The grid starts zeroed; call Build to fill it.
func New[T Float](factor int, offset T, seed uint64) (*Generator[T], error) {
	if err := checkOffset(offset); err != nil {
		return nil, err
	}

	factor = clampFactor(factor)
	side := 1<<factor + 1

	return &Generator[T]{
		factor: factor,
		side:   side,
		offset: offset,
		seed:   seed,
		source: &LCG{},
		grid:   make([]T, side*side),
	}, nil
}

// NewTimeSeeded is like New but seeds from the wall clock.
func NewTimeSeeded[T Float](factor int, offset T) (*Generator[T], error) {
	return New(factor, offset, uint64(time.Now().UnixNano()))
}

// Side returns the width and height of the map.
func (g *Generator[T]) Side() int { return g.side }

// Factor returns the clamped size factor.
func (g *Generator[T]) Factor() int { return g.factor }

// Seed returns the seed the next Build will use.
func (g *Generator[T]) Seed() uint64 { return g.seed }

// Offset returns the smoothing offset the next Build will use.
func (g *Generator[T]) Offset() T { return g.offset }

// Perturbation returns the current perturbation mode.
func (g *Generator[T]) Perturbation() Perturbation { return g.perturbation }

// SetSeed changes the seed. The grid is left as is until the next Build.
func (g *Generator[T]) SetSeed(seed uint64) { g.seed = seed }

// SetOffset changes the offset. The grid is left as is until the next Build.
func (g *Generator[T]) SetOffset(offset T) error {
	if err := checkOffset(offset); err != nil {
		return err
	}
	g.offset = offset
	return nil
}

// SetPerturbation changes the perturbation mode for subsequent builds.
func (g *Generator[T]) SetPerturbation(p Perturbation) { g.perturbation = p }

// SetSource replaces the random source. A nil source restores the LCG.
func (g *Generator[T]) SetSource(src RandomSource) {
	if src == nil {
		src = &LCG{}
	}
	g.source = src
}

// Map returns a copy of the grid in row-major order (index = y*side + x).
func (g *Generator[T]) Map() []T {
	out := make([]T, len(g.grid))
	copy(out, g.grid)
	return out
}

// Value returns the cell at linear index pos.
func (g *Generator[T]) Value(pos int) (T, error) {
	if pos < 0 || pos >= len(g.grid) {
		return 0, fmt.Errorf("value at %d (cells %d): %w", pos, len(g.grid), ErrOutOfRange)
	}
	return g.grid[pos], nil
}

// ValueAt returns the cell at (x, y), wrapping both coordinates around the map.
func (g *Generator[T]) ValueAt(x, y int) T {
	return g.grid[g.index(x, y)]
}

// Build regenerates the whole grid from the current seed and offset.
// The same seed, offset, mode and source always produce the same grid.
func (g *Generator[T]) Build() {
	side := g.side
	offset := g.offset

	g.source.Seed(g.seed)
	clear(g.grid)

	// Corners double as the first square step.
	g.grid[0] = g.draw() / offset
	g.grid[side-1] = g.draw() / offset
	g.grid[side*side-side] = g.draw() / offset
	g.grid[side*side-1] = g.draw() / offset

	for step := side - 1; step > 1; step /= 2 {
		half := step / 2
		scale := g.scale(step)

		// Diamond phase: centre of every square.
		for y := 0; y < side-1; y += step {
			for x := 0; x < side-1; x += step {
				c1 := g.read(x, y)
				c2 := g.read(x, y+step)
				c3 := g.read(x+step, y)
				c4 := g.read(x+step, y+step)
				g.write(x+half, y+half, (c1+c2+c3+c4+g.perturb(scale))/5)
			}
		}

		// Square phase: edge midpoints on the checkerboard lattice.
		for y := 0; y <= side-1; y += half {
			for x := (y + half) % step; x <= side-1; x += step {
				c1 := g.read(x, y-half)
				c2 := g.read(x+half, y)
				c3 := g.read(x, y+half)
				c4 := g.read(x-half, y)
				g.write(x, y, (c1+c2+c3+c4+g.perturb(scale))/5)
			}
		}
	}
}

// scale returns the per-level scale term for the current mode.
func (g *Generator[T]) scale(step int) T {
	if g.perturbation == PerturbAttenuated {
		return T(step) / (T(g.side-1) * g.offset)
	}
	return g.offset * T(step)
}

// perturb draws the random term of one displacement.
func (g *Generator[T]) perturb(scale T) T {
	r := g.draw()
	if g.perturbation == PerturbAttenuated {
		return T(r * 2 * scale)
	}
	return (r * scale * 2) / scale
}

func (g *Generator[T]) draw() T {
	return T(g.source.Uniform())
}

func (g *Generator[T]) read(x, y int) T {
	return g.grid[g.index(x, y)]
}

func (g *Generator[T]) write(x, y int, v T) {
	g.grid[g.index(x, y)] = v
}

// index maps (x, y) onto the buffer, wrapping on both axes.
func (g *Generator[T]) index(x, y int) int {
	return Wrap(y, g.side)*g.side + Wrap(x, g.side)
}

// Wrap returns a modulo m, always in [0, m).
func Wrap(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func clampFactor(factor int) int {
	if factor < MinFactor {
		return MinFactor
	}
	if factor > MaxFactor {
		return MaxFactor
	}
	return factor
}

func checkOffset[T Float](offset T) error {
	if !(offset > 0) {
		return fmt.Errorf("offset %v: %w", offset, ErrInvalidOffset)
	}
	return nil
}
