package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/heightmap/config"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestParamVectorLogScale(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Optimize.OffsetMin = 0.01
	cfg.Optimize.OffsetMax = 100
	pv := NewParamVector(cfg)

	tests := []struct {
		raw, norm float64
	}{
		{0.01, 0},
		{1, 0.5},
		{100, 1},
	}
	for _, tt := range tests {
		if got := pv.Normalize([]float64{tt.raw})[0]; math.Abs(got-tt.norm) > 1e-12 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.raw, got, tt.norm)
		}
		if got := pv.Denormalize([]float64{tt.norm})[0]; math.Abs(got-tt.raw) > 1e-9*tt.raw {
			t.Errorf("Denormalize(%v) = %v, want %v", tt.norm, got, tt.raw)
		}
	}
}

func TestParamVectorDefaultClamped(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Generator.Offset = 50
	cfg.Optimize.OffsetMin = 0.1
	cfg.Optimize.OffsetMax = 10
	pv := NewParamVector(cfg)

	if got := pv.DefaultVector()[0]; got != 10 {
		t.Errorf("default = %v, want 10", got)
	}
	if pv.Dim() != 1 {
		t.Errorf("Dim = %d, want 1", pv.Dim())
	}
}

func TestParamVectorClampAndApply(t *testing.T) {
	cfg := loadConfig(t)
	pv := NewParamVector(cfg)
	lo, hi := cfg.Optimize.OffsetMin, cfg.Optimize.OffsetMax

	if got := pv.Clamp([]float64{lo / 2})[0]; got != lo {
		t.Errorf("Clamp below = %v, want %v", got, lo)
	}
	if got := pv.Clamp([]float64{hi * 2})[0]; got != hi {
		t.Errorf("Clamp above = %v, want %v", got, hi)
	}

	pv.ApplyToConfig(cfg, []float64{hi * 2})
	if cfg.Generator.Offset != hi {
		t.Errorf("applied offset = %v, want %v", cfg.Generator.Offset, hi)
	}
	if got := pv.ExtractFromConfig(cfg); got[0] != hi {
		t.Errorf("ExtractFromConfig = %v, want [%v]", got, hi)
	}
}
