package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// CellSystem moves one cell per logical CPU core. A busy core makes its
// cell fast, upward-heading and hungry for oxygen.
type CellSystem struct {
	filter ecs.Filter3[components.Body, components.CellCore, components.Physiology]
	mapper *ecs.Map3[components.Body, components.CellCore, components.Physiology]
	cells  []ecs.Entity // indexed by core
	cfg    config.CellConfig
}

// NewCellSystem spawns cores cells at random positions in the water.
func NewCellSystem(w *ecs.World, cores int, tank *Tank, rng *rand.Rand, cfg config.CellConfig) *CellSystem {
	s := &CellSystem{
		filter: *ecs.NewFilter3[components.Body, components.CellCore, components.Physiology](w),
		mapper: ecs.NewMap3[components.Body, components.CellCore, components.Physiology](w),
		cfg:    cfg,
	}
	for i := 0; i < cores; i++ {
		water, sand := tank.WaterLine(), tank.SandSurface()
		body := components.Body{
			Pos: components.V(rng.Float64()*float64(tank.Width()), water+rng.Float64()*(sand-water)),
			Vel: components.RandomUnit(rng).Scale(cfg.InitialSpeed),
		}
		core := components.CellCore{Core: i, Radius: cfg.Radius}
		phys := components.Physiology{
			Carbon:       components.NewGauge(cfg.FixedCarbon, cfg.CarbonMax),
			Energy:       components.NewGauge(0, cfg.EnergyMax),
			CarbonDemand: cfg.CarbonDemand,
			OxygenDemand: cfg.BaseOxygen,
		}
		s.cells = append(s.cells, s.mapper.NewEntity(&body, &core, &phys))
	}
	return s
}

// Len returns the number of cells.
func (s *CellSystem) Len() int { return len(s.cells) }

// SetActivity applies per-core load in [0, 1]. Cores missing from loads
// keep their previous activity.
func (s *CellSystem) SetActivity(loads []float64) {
	for i, e := range s.cells {
		if i >= len(loads) {
			break
		}
		_, core, phys := s.mapper.Get(e)
		core.Activity = clamp01(loads[i])
		phys.OxygenDemand = s.cfg.BaseOxygen + core.Activity
	}
}

// Update moves every cell, bounces it inside the water and exchanges gas.
// Photosynthesis runs before respiration.
func (s *CellSystem) Update(tank *Tank, pool *GasPool) {
	width := float64(tank.Width())
	water, sand := tank.WaterLine(), tank.SandSurface()
	light := tank.Light()

	query := s.filter.Query()
	for query.Next() {
		body, core, phys := query.Get()

		body.Vel = turnTowards(body.Vel, components.Up, degToRad(core.Activity*s.cfg.UpwardTurnDeg))
		body.Vel = body.Vel.Add(body.Acc)
		body.Pos = body.Pos.Add(body.Vel.Scale(1 + core.Activity*s.cfg.SpeedGain))

		r := core.Radius
		if body.Pos.X-r < 0 {
			body.Vel.X = math.Abs(body.Vel.X)
			body.Pos.X = r
		} else if body.Pos.X+r > width {
			body.Vel.X = -math.Abs(body.Vel.X)
			body.Pos.X = width - r
		}
		if body.Pos.Y < water {
			body.Vel.Y = math.Abs(body.Vel.Y)
			body.Pos.Y = water
		}
		if body.Pos.Y > sand-r {
			body.Vel.Y = -math.Abs(body.Vel.Y)
			body.Pos.Y = math.Max(sand-r, water)
		}

		Photosynthesize(phys, pool, light)
		Breathe(phys, pool)
	}
}

// Each calls fn for every cell in core order.
func (s *CellSystem) Each(fn func(body components.Body, core components.CellCore, phys components.Physiology)) {
	for _, e := range s.cells {
		body, core, phys := s.mapper.Get(e)
		fn(*body, *core, *phys)
	}
}

// turnTowards rotates v towards dir by at most maxTurn radians, keeping
// its length. It never overshoots dir.
func turnTowards(v, dir components.Vec2, maxTurn float64) components.Vec2 {
	if maxTurn <= 0 || v.Len() == 0 {
		return v
	}
	angle := v.Angle(dir)
	if math.Abs(angle) <= maxTurn {
		return dir.Normalize().Scale(v.Len())
	}
	return v.Rotate(math.Copysign(maxTurn, angle))
}
