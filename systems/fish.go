package systems

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// FoodEnv is what the fish may ask of the tank about food.
type FoodEnv interface {
	IsFoodInWater() bool
	// TakeFoodInWater picks the first pellet found in the water.
	TakeFoodInWater() (ecs.Entity, bool)
	FoodPosition(e ecs.Entity) (components.Vec2, bool)
	// ConsumeFood removes the pellet and returns its carbon.
	ConsumeFood(e ecs.Entity) float64
}

// Fish is the tank's single autonomous agent. It breathes from the
// water, burns energy, eats food and sleeps, and dies when any of its
// gauges runs dry.
type Fish struct {
	Body components.Body

	phys   components.Physiology
	oxygen components.Gauge // air held in the body
	state  FishState
	tun    config.FishStateConfig

	target    ecs.Entity
	hasTarget bool
	goal      components.Vec2

	time       int
	frame      int
	facingLeft bool
	eaten      int
	diedAt     int

	rng *rand.Rand
	cfg config.FishConfig

	// OnStateChange is called after every state transition.
	OnStateChange func(from, to FishState)
}

// NewFish places a healthy fish at a random spot in the water.
func NewFish(tank *Tank, rng *rand.Rand, cfg config.FishConfig) *Fish {
	f := &Fish{
		phys: components.Physiology{
			Carbon:       components.NewGauge(cfg.InitialCarbon, cfg.CarbonMax),
			Energy:       components.NewGauge(cfg.EnergyMax, cfg.EnergyMax),
			OxygenDemand: cfg.Idle.OxygenDemand,
		},
		oxygen: components.NewGauge(cfg.OxygenMax, cfg.OxygenMax),
		state:  FishIdle,
		tun:    cfg.Idle,
		rng:    rng,
		cfg:    cfg,
	}
	f.Body.Pos = f.randomGoal(tank)
	f.goal = f.randomGoal(tank)
	return f
}

// Update runs one tick: pick a state, pay its costs, breathe and move.
func (f *Fish) Update(tank *Tank, pool *GasPool, env FoodEnv) {
	f.time++

	if next := f.decide(env); next != f.state {
		prev := f.state
		f.state = next
		if next == FishDead {
			f.releaseTarget()
			f.diedAt = f.time
			// A corpse only bobs vertically
			f.Body.Vel.X = 0
		}
		if f.OnStateChange != nil {
			f.OnStateChange(prev, next)
		}
	}
	f.tun = f.state.tunables(&f.cfg)
	f.phys.OxygenDemand = f.tun.OxygenDemand

	if f.state != FishDead {
		f.phys.Energy.Sub(f.tun.EnergyCost)
		f.breathe(pool)
	}

	switch f.state {
	case FishIdle:
		f.tickIdle(tank)
	case FishSurface:
		f.tickSurface(tank)
	case FishSleep:
		f.tickSleep(tank)
	case FishFindFood:
		f.tickFindFood(tank, env)
	case FishDead:
		f.tickDead(tank)
	}

	if f.tun.AnimationInterval > 0 && f.time%f.tun.AnimationInterval == 0 {
		f.frame = (f.frame + 1) % f.cfg.Frames
	}
}

// breathe exchanges gas with the water. At the surface the fish gulps air
// instead; when the water has no oxygen left it lives off the air it holds.
func (f *Fish) breathe(pool *GasPool) {
	if f.state == FishSurface {
		return
	}
	req := f.phys.OxygenDemand
	if req <= 0 {
		return
	}
	if f.phys.Carbon.Value() < req {
		f.phys.Carbon.Sub(req)
		return
	}
	if breathe(&f.phys, pool, f.cfg.Efficiency) > 0 {
		return
	}
	f.oxygen.Sub(req)
	f.phys.Carbon.Sub(req)
	f.phys.Energy.Add(req * pool.EnergyYield() * f.cfg.Efficiency)
}

func (f *Fish) releaseTarget() {
	f.target, f.hasTarget = ecs.Entity{}, false
}

// State returns the current state.
func (f *Fish) State() FishState { return f.state }

// Energy returns the energy gauge.
func (f *Fish) Energy() components.Gauge { return f.phys.Energy }

// Oxygen returns the internal oxygen gauge.
func (f *Fish) Oxygen() components.Gauge { return f.oxygen }

// Carbon returns the fixed carbon gauge.
func (f *Fish) Carbon() components.Gauge { return f.phys.Carbon }

// Tunables returns the parameters installed by the active state.
func (f *Fish) Tunables() config.FishStateConfig { return f.tun }

// Target returns the claimed food pellet, if any.
func (f *Fish) Target() (ecs.Entity, bool) { return f.target, f.hasTarget }

// Goal returns the current waypoint.
func (f *Fish) Goal() components.Vec2 { return f.goal }

// Frame returns the animation frame index.
func (f *Fish) Frame() int { return f.frame }

// FacingLeft reports whether the fish faces left.
func (f *Fish) FacingLeft() bool { return f.facingLeft }

// Eaten returns the number of pellets eaten.
func (f *Fish) Eaten() int { return f.eaten }

// Age returns the number of ticks lived, including as a corpse.
func (f *Fish) Age() int { return f.time }

// DiedAt returns the tick the fish died on.
func (f *Fish) DiedAt() (int, bool) { return f.diedAt, f.state == FishDead }

// Info formats the gauges for the info overlay.
func (f *Fish) Info() string {
	return fmt.Sprintf("E:%s\nC:%s\nO2:%s", f.phys.Energy, f.phys.Carbon, f.oxygen)
}
