package main

import (
	"fmt"
	"image"

	"github.com/pthm-cable/heightmap/benchmark"
	"github.com/pthm-cable/heightmap/config"
	"github.com/pthm-cable/heightmap/export"
	"github.com/pthm-cable/heightmap/heightmap"
	"github.com/pthm-cable/heightmap/telemetry"
)

// Options configures a batch of builds.
type Options struct {
	Config   *config.Config
	Runs     int
	LogStats bool
	Output   *telemetry.OutputManager // nil = no files
	Metrics  *telemetry.Metrics       // nil = no metrics
}

// Run builds opts.Runs maps with consecutive seeds, analysing and exporting each.
// It returns the stats of every run.
func Run[T heightmap.Float](opts Options) ([]telemetry.MapStats, error) {
	cfg := opts.Config
	gen := cfg.Generator
	runs := max(opts.Runs, 1)

	g, err := heightmap.New(gen.Factor, T(gen.Offset), gen.Seed)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	g.SetPerturbation(cfg.Derived.Perturbation)
	g.SetSource(cfg.NewSource(gen.Seed))

	palette, err := export.ParsePalette(cfg.Output.Palette)
	if err != nil {
		return nil, err
	}

	bench := benchmark.New(fmt.Sprintf("diamond-square side %d", g.Side()), cfg.Derived.Unit)
	if cfg.Benchmark.Enabled {
		bench.WithLogPath(cfg.Benchmark.LogPath)
	} else {
		bench.WithLogPath("")
	}
	if opts.Metrics != nil {
		bench.WithObserver(opts.Metrics.BuildDuration)
	}

	perf := telemetry.NewPerfCollector(runs)
	cells := g.Side() * g.Side()
	all := make([]telemetry.MapStats, 0, runs)

	for run := 0; run < runs; run++ {
		g.SetSeed(gen.Seed + uint64(run))
		perf.StartRun()

		perf.StartPhase(telemetry.PhaseBuild)
		bench.Start()
		g.Build()
		if _, err := bench.Stop(); err != nil {
			return all, fmt.Errorf("run %d: %w", run, err)
		}

		perf.StartPhase(telemetry.PhaseAnalyze)
		grid := g.Map()
		stats := telemetry.ComputeMapStats(grid, g.Side())
		stats.Run = run
		stats.Seed = g.Seed()
		stats.Offset = float64(g.Offset())
		opts.Metrics.Record(stats)
		if opts.LogStats {
			stats.LogStats()
		}
		if err := opts.Output.WriteStats(stats); err != nil {
			return all, err
		}

		perf.StartPhase(telemetry.PhaseExport)
		if err := exportRun(opts.Output, cfg.Output, palette, run, grid, g.Side()); err != nil {
			return all, fmt.Errorf("run %d: %w", run, err)
		}

		perf.EndRun()
		all = append(all, stats)
	}

	ps := perf.Stats(cells)
	ps.LogStats()
	if err := opts.Output.WritePerf(ps, runs); err != nil {
		return all, err
	}
	return all, nil
}

// exportRun writes the configured artifacts for one map.
func exportRun[T heightmap.Float](om *telemetry.OutputManager, oc config.OutputConfig, palette export.Palette, run int, grid []T, side int) error {
	if om == nil {
		return nil
	}

	if oc.GridCSV {
		if err := telemetry.WriteGrid(om, fmt.Sprintf("grid_%03d.csv", run), grid, side); err != nil {
			return err
		}
	}

	if !oc.PNG && !oc.TIFF && !oc.BMP {
		return nil
	}

	values, tiledSide := export.Tile(export.Normalize(grid), side, oc.Tile)

	var colored image.Image
	if oc.PNG || oc.BMP {
		colored = export.ColorImage(values, tiledSide, palette)
	}
	if oc.PNG {
		if err := export.WriteFile(om.Path(fmt.Sprintf("map_%03d.png", run)), colored, export.EncodePNG); err != nil {
			return err
		}
	}
	if oc.BMP {
		if err := export.WriteFile(om.Path(fmt.Sprintf("map_%03d.bmp", run)), colored, export.EncodeBMP); err != nil {
			return err
		}
	}
	if oc.TIFF {
		gray := export.Gray16Image(values, tiledSide)
		if err := export.WriteFile(om.Path(fmt.Sprintf("map_%03d.tiff", run)), gray, export.EncodeTIFF); err != nil {
			return err
		}
	}
	return nil
}
