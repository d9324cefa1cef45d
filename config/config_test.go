package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/heightmap/heightmap"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Generator.Factor != 8 {
		t.Errorf("factor = %d, want 8", cfg.Generator.Factor)
	}
	if cfg.Derived.Side != 257 {
		t.Errorf("side = %d, want 257", cfg.Derived.Side)
	}
	if cfg.Derived.Perturbation != heightmap.PerturbLiteral {
		t.Errorf("perturbation = %v, want literal", cfg.Derived.Perturbation)
	}
	if cfg.Derived.Unit != time.Microsecond {
		t.Errorf("unit = %v, want 1µs", cfg.Derived.Unit)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("generator:\n  factor: 30\n  perturbation: attenuated\n  precision: float32\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Overridden
	if cfg.Derived.Side != 1<<heightmap.MaxFactor+1 {
		t.Errorf("side = %d, want clamped %d", cfg.Derived.Side, 1<<heightmap.MaxFactor+1)
	}
	if cfg.Derived.Perturbation != heightmap.PerturbAttenuated {
		t.Errorf("perturbation = %v, want attenuated", cfg.Derived.Perturbation)
	}
	if cfg.Generator.Precision != "float32" {
		t.Errorf("precision = %q, want float32", cfg.Generator.Precision)
	}

	// Kept from defaults
	if cfg.Generator.Offset != 0.096 {
		t.Errorf("offset = %v, want default 0.096", cfg.Generator.Offset)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero offset", "generator:\n  offset: 0\n"},
		{"negative offset", "generator:\n  offset: -1\n"},
		{"precision", "generator:\n  precision: float128\n"},
		{"perturbation", "generator:\n  perturbation: wild\n"},
		{"source", "generator:\n  source: dice\n"},
		{"palette", "output:\n  palette: neon\n"},
		{"unit", "benchmark:\n  unit: fortnight\n"},
		{"offset range", "optimize:\n  offset_min: 2\n  offset_max: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Generator.Seed = 1234
	cfg.Generator.Offset = 0.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Generator.Seed != 1234 || back.Generator.Offset != 0.5 {
		t.Errorf("round trip lost values: seed=%d offset=%v", back.Generator.Seed, back.Generator.Offset)
	}
}

func TestNewSource(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, ok := cfg.NewSource(1).(*heightmap.LCG); !ok {
		t.Error("default source should be *heightmap.LCG")
	}
	cfg.Generator.Source = "math"
	if _, ok := cfg.NewSource(1).(*heightmap.StdSource); !ok {
		t.Error("math source should be *heightmap.StdSource")
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
