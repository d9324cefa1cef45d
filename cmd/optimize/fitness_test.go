package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/heightmap/heightmap"
)

func newTestEvaluator(t *testing.T, target float64) *FitnessEvaluator {
	t.Helper()
	cfg := loadConfig(t)
	cfg.Generator.Factor = 4
	cfg.Generator.Perturbation = "attenuated"
	cfg.Optimize.TargetRoughness = target
	if err := cfg.Finalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.Perturbation != heightmap.PerturbAttenuated {
		t.Fatalf("perturbation = %v", cfg.Derived.Perturbation)
	}
	return NewFitnessEvaluator(NewParamVector(cfg), []uint64{42, 1042, 2042}, cfg)
}

// With attenuated perturbation every height scales with 1/offset.
func TestEvaluateRoughnessScalesWithOffset(t *testing.T) {
	fe := newTestEvaluator(t, 0.05)

	fe.Evaluate([]float64{0.5})
	r1 := fe.LastRoughness()
	fe.Evaluate([]float64{2})
	r2 := fe.LastRoughness()

	if r1 <= r2 {
		t.Fatalf("roughness at 0.5 (%v) not above roughness at 2 (%v)", r1, r2)
	}
	if got := r1 * 0.5 / (r2 * 2); math.Abs(got-1) > 1e-9 {
		t.Errorf("roughness*offset ratio = %v, want 1", got)
	}
}

func TestEvaluateFitnessAtTarget(t *testing.T) {
	probe := newTestEvaluator(t, 1)
	probe.Evaluate([]float64{1})
	target := probe.LastRoughness()

	fe := newTestEvaluator(t, target)
	if got := fe.Evaluate([]float64{1}); got > 1e-20 {
		t.Errorf("fitness at target = %v, want 0", got)
	}
	if worse := fe.Evaluate([]float64{4}); worse <= 0 {
		t.Errorf("fitness away from target = %v, want > 0", worse)
	}

	best := fe.BestStats()
	if len(best) != 3 {
		t.Fatalf("best stats has %d entries, want 3", len(best))
	}
	for i, s := range best {
		if s.Offset != 1 {
			t.Errorf("best[%d].Offset = %v, want 1", i, s.Offset)
		}
		if s.Run != i {
			t.Errorf("best[%d].Run = %d", i, s.Run)
		}
	}
}

func TestEvaluateLeavesBaseConfig(t *testing.T) {
	fe := newTestEvaluator(t, 0.05)
	before := fe.baseConfig.Generator.Offset
	fe.Evaluate([]float64{3})
	if fe.baseConfig.Generator.Offset != before {
		t.Errorf("base offset changed to %v", fe.baseConfig.Generator.Offset)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"75s", "1m15s"},
		{"3725s", "1h02m05s"},
	}
	for _, tt := range tests {
		d, _ := time.ParseDuration(tt.in)
		if got := formatDuration(d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
