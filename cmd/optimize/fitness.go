package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/heightmap/config"
	"github.com/pthm-cable/heightmap/heightmap"
	"github.com/pthm-cable/heightmap/telemetry"
)

// FitnessEvaluator builds maps for each seed and scores their roughness.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []uint64
	baseConfig *config.Config
	target     float64

	// Best run tracking
	mu            sync.Mutex
	bestFitness   float64
	bestStats     []telemetry.MapStats
	lastRoughness float64 // mean roughness from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      baseCfg.Optimize.TargetRoughness,
		bestFitness: math.Inf(1),
	}
}

// BestStats returns the per-seed map stats from the best evaluation.
func (fe *FitnessEvaluator) BestStats() []telemetry.MapStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestStats
}

// LastRoughness returns the mean roughness from the most recent evaluation.
func (fe *FitnessEvaluator) LastRoughness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastRoughness
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the squared relative error of the mean roughness against the target.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Build all seeds in parallel
	results := make([]telemetry.MapStats, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = buildStats(cfg, s)
			results[idx].Run = idx
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += r.Roughness
	}
	mean := total / float64(len(results))
	fitness := fe.fitness(mean)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestStats = results
	}
	fe.lastRoughness = mean
	fe.mu.Unlock()

	return fitness
}

func (fe *FitnessEvaluator) fitness(roughness float64) float64 {
	if fe.target <= 0 {
		return roughness * roughness
	}
	rel := (roughness - fe.target) / fe.target
	return rel * rel
}

// buildStats builds one float64 map with cfg's generator settings.
func buildStats(cfg *config.Config, seed uint64) telemetry.MapStats {
	g, err := heightmap.New(cfg.Generator.Factor, cfg.Generator.Offset, seed)
	if err != nil {
		return telemetry.MapStats{Seed: seed, Roughness: math.Inf(1)}
	}
	g.SetPerturbation(cfg.Derived.Perturbation)
	g.SetSource(cfg.NewSource(seed))
	g.Build()

	stats := telemetry.ComputeMapStats(g.Map(), g.Side())
	stats.Seed = seed
	stats.Offset = cfg.Generator.Offset
	return stats
}

// copyConfig returns a copy of the base config. Config holds no shared references.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
