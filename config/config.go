// Package config provides configuration loading and access for the height map tools.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/heightmap/heightmap"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tool configuration parameters.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Output    OutputConfig    `yaml:"output"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Preview   PreviewConfig   `yaml:"preview"`
	Optimize  OptimizeConfig  `yaml:"optimize"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GeneratorConfig holds the diamond-square parameters.
type GeneratorConfig struct {
	Factor       int     `yaml:"factor"`       // Side = 2^factor + 1, clamped to [2, 14]
	Offset       float64 `yaml:"offset"`       // Higher = flatter terrain
	Seed         uint64  `yaml:"seed"`         // 0 = time based
	Precision    string  `yaml:"precision"`    // float32 | float64
	Perturbation string  `yaml:"perturbation"` // literal | attenuated
	Source       string  `yaml:"source"`       // lcg | math
}

// OutputConfig controls which artifacts are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"` // Empty = no files
	GridCSV bool   `yaml:"grid_csv"`
	PNG     bool   `yaml:"png"`
	TIFF    bool   `yaml:"tiff"`
	BMP     bool   `yaml:"bmp"`
	Palette string `yaml:"palette"` // gray | terrain
	Tile    int    `yaml:"tile"`    // Repeat the map tile x tile times in images
}

// BenchmarkConfig controls the build timer log.
type BenchmarkConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
	Unit    string `yaml:"unit"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // e.g. ":2112"; empty disables the endpoint
}

// PreviewConfig holds interactive preview window settings.
type PreviewConfig struct {
	WindowWidth   int `yaml:"window_width"`
	WindowHeight  int `yaml:"window_height"`
	TargetFPS     int `yaml:"target_fps"`
	TextureFactor int `yaml:"texture_factor"`
}

// OptimizeConfig holds offset search parameters.
type OptimizeConfig struct {
	TargetRoughness float64 `yaml:"target_roughness"` // Mean absolute neighbour difference
	Seeds           int     `yaml:"seeds"`
	MaxEvals        int     `yaml:"max_evals"`
	OffsetMin       float64 `yaml:"offset_min"`
	OffsetMax       float64 `yaml:"offset_max"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	Side         int                    // 2^clamped factor + 1
	Perturbation heightmap.Perturbation // Parsed Generator.Perturbation
	Unit         time.Duration          // Parsed Benchmark.Unit
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it again after changing fields programmatically.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate rejects values the tools cannot run with.
func (c *Config) Validate() error {
	g := c.Generator
	if !(g.Offset > 0) {
		return fmt.Errorf("generator.offset %v: %w", g.Offset, heightmap.ErrInvalidOffset)
	}
	switch g.Precision {
	case "float32", "float64":
	default:
		return fmt.Errorf("generator.precision %q: want float32 or float64", g.Precision)
	}
	if _, err := heightmap.ParsePerturbation(g.Perturbation); err != nil {
		return fmt.Errorf("generator.perturbation: %w", err)
	}
	switch g.Source {
	case "lcg", "math":
	default:
		return fmt.Errorf("generator.source %q: want lcg or math", g.Source)
	}
	switch c.Output.Palette {
	case "gray", "terrain":
	default:
		return fmt.Errorf("output.palette %q: want gray or terrain", c.Output.Palette)
	}
	if _, ok := units[c.Benchmark.Unit]; !ok {
		return fmt.Errorf("benchmark.unit %q: unknown unit", c.Benchmark.Unit)
	}
	o := c.Optimize
	if !(o.OffsetMin > 0) || o.OffsetMax <= o.OffsetMin {
		return fmt.Errorf("optimize offset range [%v, %v] is empty", o.OffsetMin, o.OffsetMax)
	}
	return nil
}

var units = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	factor := c.Generator.Factor
	if factor < heightmap.MinFactor {
		factor = heightmap.MinFactor
	}
	if factor > heightmap.MaxFactor {
		factor = heightmap.MaxFactor
	}
	c.Derived.Side = 1<<factor + 1

	c.Derived.Perturbation, _ = heightmap.ParsePerturbation(c.Generator.Perturbation)
	c.Derived.Unit = units[c.Benchmark.Unit]

	if c.Output.Tile < 1 {
		c.Output.Tile = 1
	}
	if c.Optimize.Seeds < 1 {
		c.Optimize.Seeds = 1
	}
}

// NewSource returns the configured random source, seeded with seed.
func (c *Config) NewSource(seed uint64) heightmap.RandomSource {
	if c.Generator.Source == "math" {
		return heightmap.NewStdSource(seed)
	}
	return heightmap.NewLCG(seed)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
