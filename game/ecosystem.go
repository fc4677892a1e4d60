// Package game owns the tank ecosystem: it builds every entity, drives them
// through one tick in a fixed order, and exposes the feed and food entry
// points used by the input hook.
package game

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/sysinfo"
	"github.com/pthm-cable/cybertank/systems"
	"github.com/pthm-cable/cybertank/telemetry"
)

// Ecosystem is the single orchestrator of the tank. Tick must be called from
// one goroutine; AddFood, FeedAt, Settings and SetSettings are safe to call
// from any goroutine.
type Ecosystem struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world   *ecs.World
	tank    *systems.Tank
	pool    *systems.GasPool
	cells   *systems.CellSystem
	food    *systems.FoodSystem
	plant   *systems.Plant
	fish    *systems.Fish
	bubbles *systems.BubbleFlow

	// Last known value of every telemetry signal
	signals sysinfo.Snapshot

	// Guarded by mu
	mu       sync.Mutex
	pending  []float64
	settings config.Settings

	tick int

	// Telemetry
	perf             *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
}

// New creates an ecosystem with one cell per core, a two-node plant, a
// bubble flow in the middle of the tank and a single fish.
func New(opts Options) (*Ecosystem, error) {
	opts = opts.withDefaults()
	cfg := opts.Config

	rng := rand.New(rand.NewSource(opts.Seed))
	world := ecs.NewWorld()
	tank := systems.NewTank(cfg.Derived.TankWidth, cfg.Derived.TankHeight, cfg.Tank)
	width := float64(tank.Width())

	e := &Ecosystem{
		cfg:      cfg,
		rng:      rng,
		seed:     opts.Seed,
		world:    world,
		tank:     tank,
		pool:     systems.NewGasPool(cfg.Gas.InitialOxygen, cfg.Gas.InitialCarbonDioxide, cfg.Gas.EnergyYield),
		cells:    systems.NewCellSystem(world, opts.Cores, tank, rng, cfg.Cell),
		food:     systems.NewFoodSystem(world, cfg.Food),
		plant:    systems.NewPlant(rng.Float64()*width, tank, rng, cfg.Plant, cfg.Derived.GrowthChance),
		fish:     systems.NewFish(tank, rng, cfg.Fish),
		bubbles:  systems.NewBubbleFlow(width/2, rng, cfg.Bubble),
		settings: opts.Settings,

		perf:          opts.Perf,
		collector:     telemetry.NewCollector(opts.StatsWindowSec, cfg.Derived.DT),
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
	}
	e.settings.Normalize()
	e.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.EventHistorySize, cfg.Events)
	e.fish.OnStateChange = e.onFishStateChange

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	e.outputManager = om

	slog.Info("ecosystem created",
		"seed", opts.Seed,
		"cores", opts.Cores,
		"tank_width", tank.Width(),
		"tank_height", tank.Height(),
	)
	return e, nil
}

// Tick advances the whole tank by one step using the latest telemetry.
// Signals missing from snap keep their last known value.
func (e *Ecosystem) Tick(snap sysinfo.Snapshot) {
	e.signals = mergeSignals(e.signals, snap)
	settings := e.Settings()

	e.startTick()

	e.startPhase(systems.PhaseDrain)
	e.drainFood()

	e.startPhase(systems.PhaseTank)
	e.tank.Tick(e.tankInput(settings))

	e.startPhase(systems.PhaseCells)
	if e.signals.HasCPU {
		e.cells.SetActivity(e.signals.CPU)
	}
	e.cells.Update(e.tank, e.pool)

	e.startPhase(systems.PhaseFood)
	e.food.Update(e.tank)

	e.startPhase(systems.PhasePlant)
	if e.plant.Update(e.tank, e.pool) {
		e.collector.Record(telemetry.NewPlantGrowthEvent(e.tick, e.plant.Len()))
		slog.Debug("plant grew", "tick", e.tick, "nodes", e.plant.Len())
	}

	e.startPhase(systems.PhaseFish)
	e.fish.Update(e.tank, e.pool, e)

	e.startPhase(systems.PhaseBubbles)
	if e.signals.HasNetwork {
		e.bubbles.SetUploadSpeed(e.signals.Network.Sent)
	}
	e.bubbles.Update(e.tank, e.pool)

	e.tick++

	e.startPhase(telemetry.PhaseTelemetry)
	e.observe()
	e.flushTelemetry()

	e.endTick()
}

// tankInput converts the held signals into tank telemetry.
func (e *Ecosystem) tankInput(settings config.Settings) systems.TankInput {
	s := e.signals
	return systems.TankInput{
		MemoryUsed:    s.Memory.PhysicalUsed,
		SwapUsed:      s.Memory.SwapUsed,
		PhysicalShare: s.Memory.PhysicalShare(),
		MemoryValid:   s.HasMemory,
		Light:         s.Light,
		LightValid:    s.HasLight,
		DiskWrite:     s.DiskIO.Write,
		DiskRead:      s.DiskIO.Read,
		DiskUsage:     s.DiskUsage,
		NetRecv:       s.Network.Recv,
		SandFixed:     settings.SandFixed,
		SandRatio:     settings.SandRatio,
	}
}

func (e *Ecosystem) onFishStateChange(from, to systems.FishState) {
	e.collector.Record(telemetry.NewStateChangeEvent(e.tick, from.String(), to.String()))
	if to == systems.FishDead {
		slog.Info("fish died",
			"tick", e.tick,
			"from", from.String(),
			"energy", e.fish.Energy().Value(),
			"oxygen", e.fish.Oxygen().Value(),
			"carbon", e.fish.Carbon().Value(),
		)
		return
	}
	slog.Debug("fish state changed", "tick", e.tick, "from", from.String(), "to", to.String())
}

func (e *Ecosystem) startTick() {
	if e.perf != nil {
		e.perf.StartTick()
	}
}

func (e *Ecosystem) startPhase(phase string) {
	if e.perf != nil {
		e.perf.StartPhase(phase)
	}
}

func (e *Ecosystem) endTick() {
	if e.perf != nil {
		e.perf.EndTick()
	}
}

// Settings returns the current user settings.
func (e *Ecosystem) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// SetSettings replaces the user settings. They apply from the next tick.
func (e *Ecosystem) SetSettings(s config.Settings) {
	s.Normalize()
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
}

// TickCount returns the number of completed ticks.
func (e *Ecosystem) TickCount() int { return e.tick }

// Fish returns the tank's fish.
func (e *Ecosystem) Fish() *systems.Fish { return e.fish }

// Pool returns the dissolved gas pool.
func (e *Ecosystem) Pool() *systems.GasPool { return e.pool }

// Tank returns the tank boundaries.
func (e *Ecosystem) Tank() *systems.Tank { return e.tank }

// Seed returns the RNG seed the ecosystem was created with.
func (e *Ecosystem) Seed() int64 { return e.seed }

// Close flushes and closes telemetry output.
func (e *Ecosystem) Close() error {
	return e.outputManager.Close()
}
