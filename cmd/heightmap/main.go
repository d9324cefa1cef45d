// Command heightmap builds diamond-square height maps and writes stats and images.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/heightmap/config"
	"github.com/pthm-cable/heightmap/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	factor := flag.Int("factor", -1, "Size factor, side = 2^factor+1 (-1 = use config)")
	offset := flag.Float64("offset", 0, "Smoothing offset (0 = use config)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config, then time-based)")
	precision := flag.String("precision", "", "float32 or float64 (empty = use config)")
	perturbation := flag.String("perturbation", "", "literal or attenuated (empty = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV, images and config snapshot")
	runs := flag.Int("runs", 1, "Number of maps to build; the seed increases by one per run")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address and wait for Ctrl-C")
	logStats := flag.Bool("log-stats", true, "Output map stats via slog")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *factor >= 0 {
		cfg.Generator.Factor = *factor
	}
	if *offset != 0 {
		cfg.Generator.Offset = *offset
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}
	if *precision != "" {
		cfg.Generator.Precision = *precision
	}
	if *perturbation != "" {
		cfg.Generator.Perturbation = *perturbation
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Set up seed
	if cfg.Generator.Seed == 0 {
		cfg.Generator.Seed = uint64(time.Now().UnixNano())
	}

	metrics := telemetry.NewMetrics()
	srv := metrics.Serve(cfg.Metrics.Addr)

	out, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	opts := Options{
		Config:   cfg,
		Runs:     *runs,
		LogStats: *logStats,
		Output:   out,
		Metrics:  metrics,
	}

	slog.Info("generating",
		"side", cfg.Derived.Side,
		"offset", cfg.Generator.Offset,
		"seed", cfg.Generator.Seed,
		"precision", cfg.Generator.Precision,
		"perturbation", cfg.Derived.Perturbation.String(),
		"runs", *runs,
	)

	if cfg.Generator.Precision == "float32" {
		_, err = Run[float32](opts)
	} else {
		_, err = Run[float64](opts)
	}
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if srv != nil {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		slog.Info("serving metrics until interrupted", "addr", cfg.Metrics.Addr)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics shutdown", "error", err)
		}
	}
}
