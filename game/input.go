package game

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/systems"
	"github.com/pthm-cable/cybertank/telemetry"
)

var _ systems.FoodEnv = (*Ecosystem)(nil)

// AddFood queues a pellet to be dropped at x on the next tick.
func (e *Ecosystem) AddFood(x float64) {
	e.mu.Lock()
	e.pending = append(e.pending, x)
	e.mu.Unlock()
}

// FeedAt is the click hook: a click at tank x inside the tank drops food
// with the configured feed probability. It reports whether food was queued.
func (e *Ecosystem) FeedAt(x float64, rng *rand.Rand) bool {
	if x <= 0 || x >= float64(e.tank.Width()) {
		return false
	}
	if rng.Float64() >= e.Settings().FeedProbability {
		return false
	}
	e.AddFood(x)
	return true
}

// drainFood drops every queued pellet into the tank.
func (e *Ecosystem) drainFood() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, x := range pending {
		e.food.Add(x)
		e.collector.Record(telemetry.NewFoodDroppedEvent(e.tick))
	}
}

// IsFoodInWater reports whether any pellet is below the water line.
func (e *Ecosystem) IsFoodInWater() bool {
	return e.food.InWater(e.tank)
}

// TakeFoodInWater returns the first pellet found below the water line.
func (e *Ecosystem) TakeFoodInWater() (ecs.Entity, bool) {
	return e.food.FirstInWater(e.tank)
}

// FoodPosition returns where a pellet is, or false once it is gone.
func (e *Ecosystem) FoodPosition(f ecs.Entity) (components.Vec2, bool) {
	return e.food.Position(f)
}

// ConsumeFood removes a pellet and returns the carbon it held.
func (e *Ecosystem) ConsumeFood(f ecs.Entity) float64 {
	carbon := e.food.Consume(f)
	if carbon > 0 {
		e.collector.Record(telemetry.NewFoodEatenEvent(e.tick, carbon))
	}
	return carbon
}
