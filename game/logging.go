package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/cybertank/systems"
)

// LogWorldState logs the current tank, gas and fish state.
func (e *Ecosystem) LogWorldState() {
	o2, co2 := e.pool.Levels()
	f := e.fish
	slog.Info("world",
		"tick", e.tick,
		"water_line", e.tank.WaterLine(),
		"sand_surface", e.tank.SandSurface(),
		"sand_base", e.tank.SandBase(),
		"light", e.tank.Light(),
		"oxygen", o2,
		"co2", co2,
		"cells", e.cells.Len(),
		"plant_nodes", e.plant.Len(),
		"food", e.food.Len(),
		"bubbles", e.bubbles.Live(),
		"fish_state", f.State().String(),
		"fish_energy", f.Energy().Value(),
		"fish_oxygen", f.Oxygen().Value(),
		"fish_carbon", f.Carbon().Value(),
		"fish_eaten", f.Eaten(),
	)
}

// LogPerfStats logs the per-phase timing breakdown, slowest first.
func (e *Ecosystem) LogPerfStats(reg *systems.SystemRegistry) {
	if e.perf == nil {
		return
	}
	stats := e.perf.Stats()
	attrs := []any{
		"tick", e.tick,
		"avg_tick", stats.AvgTickDuration.Round(time.Microsecond).String(),
	}
	for _, phase := range stats.SortedPhases() {
		attrs = append(attrs, reg.GetName(phase), stats.PhaseAvg[phase].Round(time.Microsecond).String())
	}
	slog.Info("perf breakdown", attrs...)
}
