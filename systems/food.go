package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// carbonEpsilon absorbs float drift from repeated decomposition steps.
const carbonEpsilon = 1e-9

// FoodSystem owns the food pellets. Pellets live in the ark world so a
// fish holding an ecs.Entity notices when its target is gone.
type FoodSystem struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Body, components.FoodItem]
	order  []ecs.Entity // insertion order, for first-found lookups
	cfg    config.FoodConfig
}

// NewFoodSystem creates an empty food system.
func NewFoodSystem(w *ecs.World, cfg config.FoodConfig) *FoodSystem {
	return &FoodSystem{
		world:  w,
		mapper: ecs.NewMap2[components.Body, components.FoodItem](w),
		cfg:    cfg,
	}
}

// Add drops a pellet at the top of the tank.
func (s *FoodSystem) Add(x float64) ecs.Entity {
	body := components.Body{Pos: components.V(x, 0)}
	item := components.FoodItem{SinkDelay: s.cfg.SinkDelay, Carbon: s.cfg.Carbon}
	e := s.mapper.NewEntity(&body, &item)
	s.order = append(s.order, e)
	return e
}

// Update floats, sinks and decomposes every pellet, then removes the
// fully decomposed ones.
func (s *FoodSystem) Update(tank *Tank) {
	water, sand := tank.WaterLine(), tank.SandSurface()

	for _, e := range s.order {
		body, item := s.mapper.Get(e)
		if item.Deleted {
			continue
		}
		if item.SinkDelay > 0 {
			item.SinkDelay--
		}

		y := body.Pos.Y
		switch {
		case y < water:
			y = math.Min(y+s.cfg.FallSpeed, water)
		case y >= sand:
			y = sand
		case item.SinkDelay > 0:
			y = math.Max(y-s.cfg.FloatSpeed, water)
		default:
			y = math.Min(y+s.cfg.SinkSpeed, sand)
		}
		body.Pos.Y = y

		if item.SinkDelay == 0 {
			item.Carbon -= s.cfg.DecomposeRate
			if item.Carbon <= carbonEpsilon {
				item.Carbon = 0
				item.Deleted = true
			}
		}
	}

	s.sweep()
}

// sweep removes deleted pellets from the world.
func (s *FoodSystem) sweep() {
	live := s.order[:0]
	for _, e := range s.order {
		_, item := s.mapper.Get(e)
		if item.Deleted {
			s.world.RemoveEntity(e)
			continue
		}
		live = append(live, e)
	}
	s.order = live
}

// InWater reports whether any pellet is at or below the water line.
func (s *FoodSystem) InWater(tank *Tank) bool {
	_, ok := s.FirstInWater(tank)
	return ok
}

// FirstInWater returns the oldest pellet in the water.
func (s *FoodSystem) FirstInWater(tank *Tank) (ecs.Entity, bool) {
	for _, e := range s.order {
		body, item := s.mapper.Get(e)
		if !item.Deleted && tank.InWater(body.Pos.Y) {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// Position returns where pellet e is, or false if it no longer exists.
func (s *FoodSystem) Position(e ecs.Entity) (components.Vec2, bool) {
	if !s.world.Alive(e) {
		return components.Vec2{}, false
	}
	body, item := s.mapper.Get(e)
	if item.Deleted {
		return components.Vec2{}, false
	}
	return body.Pos, true
}

// Consume removes pellet e and returns its remaining carbon.
// A pellet that is already gone yields 0.
func (s *FoodSystem) Consume(e ecs.Entity) float64 {
	if !s.world.Alive(e) {
		return 0
	}
	_, item := s.mapper.Get(e)
	if item.Deleted {
		return 0
	}
	carbon := item.Carbon
	item.Deleted = true
	s.sweep()
	return carbon
}

// Len returns the number of pellets.
func (s *FoodSystem) Len() int { return len(s.order) }

// Each calls fn for every pellet in drop order.
func (s *FoodSystem) Each(fn func(body components.Body, item components.FoodItem)) {
	for _, e := range s.order {
		body, item := s.mapper.Get(e)
		fn(*body, *item)
	}
}
