package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/sysinfo"
	"github.com/pthm-cable/cybertank/telemetry"
)

// FitnessEvaluator runs headless tanks on synthetic telemetry and scores
// how long the fish survives.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	feedEvery   int // ticks between scripted feedings (0 = never)
	cores       int
	statsWindow float64

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config, feedEvery int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		feedEvery:   feedEvery,
		cores:       4,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the window stats of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single tank run.
type runResult struct {
	survivalTicks int // tick the fish died on, or maxTicks if it survived
	windowStats   []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
				windows: result.windowStats,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedWindows []telemetry.WindowStats
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedWindows = r.windows
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestSeedWindows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation runs one headless tank until the fish dies or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{survivalTicks: fe.maxTicks}
	eco, err := game.New(game.Options{
		Config:         cfg,
		Seed:           seed,
		Cores:          fe.cores,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		// Only reachable with an output dir; score as an instant death
		result.survivalTicks = 0
		return result
	}
	defer eco.Close()

	src := sysinfo.NewSynthetic(fe.cores)
	feeder := rand.New(rand.NewSource(seed + 1))
	width := float64(eco.Tank().Width())

	for eco.TickCount() < fe.maxTicks {
		if fe.feedEvery > 0 && eco.TickCount()%fe.feedEvery == 0 {
			eco.AddFood(feeder.Float64() * width)
		}
		eco.Tick(src.Snapshot())

		if diedAt, dead := eco.Fish().DiedAt(); dead {
			result.survivalTicks = diedAt
			break
		}
	}
	return result
}

// copyConfig returns a copy of the base config. Config holds only value
// fields, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs that
// survive equally long.
func computeFitness(survivalTicks int, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightEnergy  = 0.4
	qualityWeightOxygen  = 0.3
	qualityWeightFeeding = 0.3

	qualityWarmupWindows = 1 // skip first N windows
)

// computeQuality scores fish health in [0, 1] from window stats: gauges
// kept near half full and dropped food actually eaten.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	energy := make([]float64, 0, len(valid))
	oxygen := make([]float64, 0, len(valid))
	var dropped, eaten int
	for _, w := range valid {
		if w.FishState == "dead" {
			break
		}
		energy = append(energy, w.FishEnergyMean/fe.baseConfig.Fish.EnergyMax)
		oxygen = append(oxygen, w.FishOxygenMean/fe.baseConfig.Fish.OxygenMax)
		dropped += w.FoodDropped
		eaten += w.FoodEaten
	}
	if len(energy) == 0 {
		return 0
	}

	health := func(fill float64) float64 {
		d := (fill - 0.5) / 0.3
		return math.Exp(-d * d)
	}
	energyScore := health(stat.Mean(energy, nil))
	oxygenScore := health(stat.Mean(oxygen, nil))

	feedingScore := 0.0
	if dropped > 0 {
		feedingScore = float64(eaten) / float64(dropped)
	}

	return clamp01(qualityWeightEnergy*energyScore +
		qualityWeightOxygen*oxygenScore +
		qualityWeightFeeding*feedingScore)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
