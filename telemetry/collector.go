package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is the per-tick state the collector aggregates.
type Sample struct {
	Oxygen        float64
	CarbonDioxide float64
	CellActivity  []float64

	FishState  string
	FishEnergy float64
	FishOxygen float64
	FishCarbon float64

	Food       int
	Bubbles    int
	PlantNodes int

	WaterLine   float64
	SandSurface float64
	Light       float64
}

// Collector accumulates samples and events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int
	dt                  float64

	windowStartTick int

	// Per-tick series for the current window
	oxygen     []float64
	co2        []float64
	activity   []float64
	fishEnergy []float64
	fishOxygen []float64
	fishCarbon []float64
	last       Sample

	// Event counters for the current window
	stateChanges int
	surfacings   int
	sleeps       int
	fishDeaths   int
	foodDropped  int
	foodEaten    int
	carbonEaten  float64
	plantGrowths int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Observe records one tick of state.
func (c *Collector) Observe(s Sample) {
	c.oxygen = append(c.oxygen, s.Oxygen)
	c.co2 = append(c.co2, s.CarbonDioxide)
	c.activity = append(c.activity, s.CellActivity...)
	if s.FishState != "dead" {
		c.fishEnergy = append(c.fishEnergy, s.FishEnergy)
		c.fishOxygen = append(c.fishOxygen, s.FishOxygen)
		c.fishCarbon = append(c.fishCarbon, s.FishCarbon)
	}
	c.last = s
	c.last.CellActivity = nil
}

// Record counts a discrete event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventStateChange:
		c.stateChanges++
		switch ev.To {
		case "surface":
			c.surfacings++
		case "sleep":
			c.sleeps++
		case "dead":
			c.fishDeaths++
		}
	case EventPlantGrowth:
		c.plantGrowths++
	case EventFoodDropped:
		c.foodDropped++
	case EventFoodEaten:
		c.foodEaten++
		c.carbonEaten += ev.Amount
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets the window.
func (c *Collector) Flush(currentTick int) WindowStats {
	act := Summarize(c.activity)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		GasTotal: c.last.Oxygen + c.last.CarbonDioxide,

		ActivityMean: act.Mean,
		ActivityStd:  act.Std,
		ActivityP10:  act.P10,
		ActivityP50:  act.P50,
		ActivityP90:  act.P90,

		FishState:      c.last.FishState,
		FishEnergyMean: mean(c.fishEnergy),
		FishOxygenMean: mean(c.fishOxygen),
		FishCarbonMean: mean(c.fishCarbon),
		StateChanges:   c.stateChanges,
		Surfacings:     c.surfacings,
		Sleeps:         c.sleeps,
		FishDeaths:     c.fishDeaths,

		FoodDropped: c.foodDropped,
		FoodEaten:   c.foodEaten,
		CarbonEaten: c.carbonEaten,
		FoodCount:   c.last.Food,

		PlantNodes:   c.last.PlantNodes,
		PlantGrowths: c.plantGrowths,
		Bubbles:      c.last.Bubbles,

		WaterLine:   c.last.WaterLine,
		SandSurface: c.last.SandSurface,
		Light:       c.last.Light,
	}
	if len(c.oxygen) > 0 {
		stats.OxygenMean, stats.OxygenStd = stat.PopMeanStdDev(c.oxygen, nil)
		stats.OxygenMin, stats.OxygenMax = floats.Min(c.oxygen), floats.Max(c.oxygen)
		stats.CO2Mean = stat.Mean(c.co2, nil)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.oxygen = c.oxygen[:0]
	c.co2 = c.co2[:0]
	c.activity = c.activity[:0]
	c.fishEnergy = c.fishEnergy[:0]
	c.fishOxygen = c.fishOxygen[:0]
	c.fishCarbon = c.fishCarbon[:0]
	c.stateChanges = 0
	c.surfacings = 0
	c.sleeps = 0
	c.fishDeaths = 0
	c.foodDropped = 0
	c.foodEaten = 0
	c.carbonEaten = 0
	c.plantGrowths = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}
