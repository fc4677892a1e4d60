package game

import (
	"slices"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/systems"
)

// Snapshot is a read-only copy of everything a renderer draws. It shares no
// memory with the ecosystem.
type Snapshot struct {
	Tick     int
	Settings config.Settings

	Tank    TankView
	Oxygen  float64
	CO2     float64
	Cells   []CellView
	Plant   []systems.PlantNode
	Bubbles []systems.Bubble
	Food    []FoodView
	Fish    FishView
}

// GasBalance returns (O2-CO2)/(O2+CO2): +1 is all oxygen, -1 all carbon
// dioxide. An empty pool is balanced.
func (s Snapshot) GasBalance() float64 {
	total := s.Oxygen + s.CO2
	if total <= 0 {
		return 0
	}
	return (s.Oxygen - s.CO2) / total
}

// TankView is the tank layout.
type TankView struct {
	Width, Height int
	WaterLine     float64
	SandSurface   float64
	SandBase      float64
	Light         float64
	Tint          float64
	Targets       [3]float64 // water, sand, base lines the layout eases towards
	Ripple        systems.SurfaceRipple
	Time          int

	WaveX        float64
	WaveMax      float64
	OutwardWaves []systems.SandWave
	InwardWaves  []systems.SandWave
}

// SurfaceY returns the rippled water surface height at x.
func (t TankView) SurfaceY(x float64) float64 {
	return t.WaterLine + t.Ripple.Offset(x, t.Time)
}

// CellView is one core's cell.
type CellView struct {
	Pos      components.Vec2
	Radius   float64
	Activity float64
	Core     int
}

// FoodView is one pellet.
type FoodView struct {
	Pos     components.Vec2
	Carbon  float64
	Sinking bool
}

// FishView is the fish and its gauges.
type FishView struct {
	Pos        components.Vec2
	Vel        components.Vec2
	State      systems.FishState
	Frame      int
	FacingLeft bool
	Energy     components.Gauge
	Oxygen     components.Gauge
	Carbon     components.Gauge
	Eaten      int
	Age        int
	Goal       components.Vec2
	Info       string
}

// Snapshot copies the current state for rendering.
func (e *Ecosystem) Snapshot() Snapshot {
	t := e.tank
	outward, inward := t.Waves()
	o2, co2 := e.pool.Levels()

	s := Snapshot{
		Tick:     e.tick,
		Settings: e.Settings(),
		Tank: TankView{
			Width:        t.Width(),
			Height:       t.Height(),
			WaterLine:    t.WaterLine(),
			SandSurface:  t.SandSurface(),
			SandBase:     t.SandBase(),
			Light:        t.Light(),
			Tint:         t.Tint(),
			Targets:      t.Targets(),
			Ripple:       t.Ripple(),
			Time:         t.Time(),
			WaveX:        outward.X,
			WaveMax:      outward.MaxRadius(),
			OutwardWaves: slices.Clone(outward.Waves()),
			InwardWaves:  slices.Clone(inward.Waves()),
		},
		Oxygen:  o2,
		CO2:     co2,
		Cells:   make([]CellView, 0, e.cells.Len()),
		Plant:   slices.Clone(e.plant.Nodes()),
		Bubbles: slices.Clone(e.bubbles.Bubbles()),
		Food:    make([]FoodView, 0, e.food.Len()),
	}

	e.cells.Each(func(body components.Body, core components.CellCore, _ components.Physiology) {
		s.Cells = append(s.Cells, CellView{Pos: body.Pos, Radius: core.Radius, Activity: core.Activity, Core: core.Core})
	})
	e.food.Each(func(body components.Body, item components.FoodItem) {
		s.Food = append(s.Food, FoodView{Pos: body.Pos, Carbon: item.Carbon, Sinking: item.SinkDelay == 0})
	})

	f := e.fish
	s.Fish = FishView{
		Pos:        f.Body.Pos,
		Vel:        f.Body.Vel,
		State:      f.State(),
		Frame:      f.Frame(),
		FacingLeft: f.FacingLeft(),
		Energy:     f.Energy(),
		Oxygen:     f.Oxygen(),
		Carbon:     f.Carbon(),
		Eaten:      f.Eaten(),
		Age:        f.Age(),
		Goal:       f.Goal(),
		Info:       f.Info(),
	}
	return s
}
