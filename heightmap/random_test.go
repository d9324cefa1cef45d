package heightmap

import (
	"math"
	"testing"
)

func TestLCGSequence(t *testing.T) {
	l := NewLCG(1234)
	want := []float64{0.7143076679203659, 0.20701311994343996, 0.7495418272446841, 0.3460624306462705}
	for i, w := range want {
		if got := l.Uniform(); math.Abs(got-w) > 1e-15 {
			t.Errorf("draw %d = %v, want %v", i, got, w)
		}
	}
}

func TestLCGReseed(t *testing.T) {
	l := NewLCG(0)
	first := []float64{l.Uniform(), l.Uniform(), l.Uniform()}
	l.Seed(0)
	for i, w := range first {
		if got := l.Uniform(); got != w {
			t.Errorf("draw %d after reseed = %v, want %v", i, got, w)
		}
	}
}

func TestSourcesStayInUnitInterval(t *testing.T) {
	sources := map[string]RandomSource{
		"lcg": NewLCG(987654321),
		"std": NewStdSource(987654321),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 10000; i++ {
				if v := src.Uniform(); v < 0 || v >= 1 {
					t.Fatalf("draw %d = %v outside [0,1)", i, v)
				}
			}
		})
	}
}
