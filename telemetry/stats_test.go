package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/heightmap/heightmap"
)

func TestComputeMapStats(t *testing.T) {
	// 3x3 ramp 1..9
	grid := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	s := ComputeMapStats(grid, 3)

	if s.Min != 1 || s.Max != 9 {
		t.Errorf("min/max = %v/%v, want 1/9", s.Min, s.Max)
	}
	if math.Abs(s.Mean-5) > 1e-12 {
		t.Errorf("mean = %v, want 5", s.Mean)
	}
	// Sample standard deviation of 1..9
	if math.Abs(s.StdDev-math.Sqrt(7.5)) > 1e-9 {
		t.Errorf("std = %v, want %v", s.StdDev, math.Sqrt(7.5))
	}
	if s.P50 != 5 {
		t.Errorf("p50 = %v, want 5", s.P50)
	}
	if s.P10 > s.P50 || s.P50 > s.P90 {
		t.Errorf("percentiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
}

func TestComputeMapStatsEmpty(t *testing.T) {
	s := ComputeMapStats([]float32{}, 0)
	if s.Mean != 0 || s.StdDev != 0 || s.Roughness != 0 {
		t.Error("empty grid should return zero stats")
	}

	// Length mismatch is treated as empty
	s = ComputeMapStats([]float64{1, 2, 3}, 2)
	if s.Mean != 0 {
		t.Errorf("mismatched grid mean = %v, want 0", s.Mean)
	}
}

func TestRoughness(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		side   int
		want   float64
	}{
		{"flat", []float64{3, 3, 3, 3, 3, 3, 3, 3, 3}, 3, 0},
		{"checker 2x2", []float64{0, 1, 1, 0}, 2, 1},
		// Every right step is 1 except the wrap (-2); every down step is 0
		{"columns", []float64{0, 1, 2, 0, 1, 2, 0, 1, 2}, 3, (1 + 1 + 2) * 3.0 / 18},
		{"mismatch", []float64{1, 2}, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Roughness(tt.values, tt.side); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Roughness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsOfBuiltMap(t *testing.T) {
	g, err := heightmap.New(5, 0.5, 1234)
	if err != nil {
		t.Fatal(err)
	}
	g.Build()

	s := ComputeMapStats(g.Map(), g.Side())
	if s.Side != 33 {
		t.Errorf("side = %d, want 33", s.Side)
	}
	if s.Min < 0 {
		t.Errorf("min = %v, want >= 0 for non-negative draws", s.Min)
	}
	if s.Min > s.Mean || s.Mean > s.Max {
		t.Errorf("mean %v outside [%v, %v]", s.Mean, s.Min, s.Max)
	}
	if s.Roughness <= 0 {
		t.Errorf("roughness = %v, want > 0", s.Roughness)
	}
}
