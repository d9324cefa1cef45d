package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/heightmap/heightmap"
)

// MapStats holds summary statistics for one built height map.
type MapStats struct {
	Run    int     `csv:"run"`
	Side   int     `csv:"side"`
	Seed   uint64  `csv:"seed"`
	Offset float64 `csv:"offset"`

	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"std"`
	P10    float64 `csv:"p10"`
	P50    float64 `csv:"p50"`
	P90    float64 `csv:"p90"`

	// Mean absolute difference to the right and lower neighbours, wrapped.
	Roughness float64 `csv:"roughness"`
}

// ComputeMapStats summarises a row-major side*side grid.
// Returns zero stats for an empty grid.
func ComputeMapStats[T heightmap.Float](grid []T, side int) MapStats {
	n := len(grid)
	if n == 0 || side <= 0 || n != side*side {
		return MapStats{Side: side}
	}

	values := make([]float64, n)
	for i, v := range grid {
		values[i] = float64(v)
	}

	mean, std := stat.MeanStdDev(values, nil)
	if n == 1 {
		std = 0
	}

	s := MapStats{
		Side:      side,
		Min:       floats.Min(values),
		Max:       floats.Max(values),
		Mean:      mean,
		StdDev:    std,
		Roughness: Roughness(values, side),
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return s
}

// Roughness returns the mean absolute difference between each cell and its
// right and lower neighbours. Neighbours wrap around the edges.
func Roughness(values []float64, side int) float64 {
	if side <= 0 || len(values) != side*side {
		return 0
	}

	var sum float64
	for y := 0; y < side; y++ {
		row := y * side
		below := heightmap.Wrap(y+1, side) * side
		for x := 0; x < side; x++ {
			v := values[row+x]
			sum += math.Abs(values[row+heightmap.Wrap(x+1, side)] - v)
			sum += math.Abs(values[below+x] - v)
		}
	}
	return sum / float64(2*len(values))
}

// LogValue implements slog.LogValuer for structured logging.
func (s MapStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("run", s.Run),
		slog.Int("side", s.Side),
		slog.Uint64("seed", s.Seed),
		slog.Float64("offset", s.Offset),
		slog.Float64("min", s.Min),
		slog.Float64("max", s.Max),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.StdDev),
		slog.Float64("p10", s.P10),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("roughness", s.Roughness),
	)
}

// LogStats logs the map stats using slog.
func (s MapStats) LogStats() {
	slog.Info("stats", "map", s)
}
