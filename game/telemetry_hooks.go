package game

import (
	"log/slog"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/telemetry"
)

// observe feeds this tick's state to the stats collector.
func (e *Ecosystem) observe() {
	o2, co2 := e.pool.Levels()

	activity := make([]float64, 0, e.cells.Len())
	e.cells.Each(func(_ components.Body, core components.CellCore, _ components.Physiology) {
		activity = append(activity, core.Activity)
	})

	f := e.fish
	e.collector.Observe(telemetry.Sample{
		Oxygen:        o2,
		CarbonDioxide: co2,
		CellActivity:  activity,
		FishState:     f.State().String(),
		FishEnergy:    f.Energy().Value(),
		FishOxygen:    f.Oxygen().Value(),
		FishCarbon:    f.Carbon().Value(),
		Food:          e.food.Len(),
		Bubbles:       e.bubbles.Live(),
		PlantNodes:    e.plant.Len(),
		WaterLine:     e.tank.WaterLine(),
		SandSurface:   e.tank.SandSurface(),
		Light:         e.tank.Light(),
	})
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (e *Ecosystem) flushTelemetry() {
	if !e.collector.ShouldFlush(e.tick) {
		return
	}

	stats := e.collector.Flush(e.tick)

	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	if e.logStats {
		stats.LogStats()
		if e.perf != nil {
			e.perf.Stats().LogStats()
		}
	}

	if e.outputManager != nil {
		if err := e.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if e.perf != nil {
			if err := e.outputManager.WritePerf(e.perf.Stats(), stats.WindowEndTick); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		}
	}

	for _, bm := range e.bookmarkDetector.Check(stats) {
		if e.logStats {
			bm.LogBookmark()
		}
		if e.outputManager != nil {
			if err := e.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if e.snapshotDir != "" {
			e.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current state to disk.
func (e *Ecosystem) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(e.createSnapshot(bookmark), e.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", e.tick)
}

// createSnapshot builds a snapshot from the current state.
func (e *Ecosystem) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	o2, co2 := e.pool.Levels()
	snapshot := &telemetry.Snapshot{
		Version:       telemetry.SnapshotVersion,
		RNGSeed:       e.seed,
		Tick:          e.tick,
		TankWidth:     e.tank.Width(),
		TankHeight:    e.tank.Height(),
		WaterLine:     e.tank.WaterLine(),
		SandSurface:   e.tank.SandSurface(),
		SandBase:      e.tank.SandBase(),
		Light:         e.tank.Light(),
		Oxygen:        o2,
		CarbonDioxide: co2,
		Bookmark:      bookmark,
	}

	e.cells.Each(func(body components.Body, _ components.CellCore, phys components.Physiology) {
		snapshot.Cells = append(snapshot.Cells, bodyState(body, phys))
	})
	for _, n := range e.plant.Nodes() {
		snapshot.Plant = append(snapshot.Plant, bodyState(n.Body, n.Phys))
	}
	e.food.Each(func(body components.Body, item components.FoodItem) {
		snapshot.Food = append(snapshot.Food, telemetry.BodyState{
			X: body.Pos.X, Y: body.Pos.Y, VelX: body.Vel.X, VelY: body.Vel.Y, Carbon: item.Carbon,
		})
	})

	f := e.fish
	snapshot.Fish = telemetry.FishSnapshot{
		BodyState: telemetry.BodyState{
			X:      f.Body.Pos.X,
			Y:      f.Body.Pos.Y,
			VelX:   f.Body.Vel.X,
			VelY:   f.Body.Vel.Y,
			Carbon: f.Carbon().Value(),
			Energy: f.Energy().Value(),
		},
		State:  f.State().String(),
		Oxygen: f.Oxygen().Value(),
		Eaten:  f.Eaten(),
		Age:    f.Age(),
	}
	return snapshot
}

func bodyState(body components.Body, phys components.Physiology) telemetry.BodyState {
	return telemetry.BodyState{
		X:      body.Pos.X,
		Y:      body.Pos.Y,
		VelX:   body.Vel.X,
		VelY:   body.Vel.Y,
		Carbon: phys.Carbon.Value(),
		Energy: phys.Energy.Value(),
	}
}
