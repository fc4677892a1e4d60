package systems

import (
	"math"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// FishState is the behaviour the fish is currently running.
type FishState uint8

const (
	FishIdle FishState = iota
	FishSurface
	FishSleep
	FishFindFood
	FishDead
)

func (s FishState) String() string {
	switch s {
	case FishIdle:
		return "idle"
	case FishSurface:
		return "surface"
	case FishSleep:
		return "sleep"
	case FishFindFood:
		return "find_food"
	case FishDead:
		return "dead"
	default:
		return "unknown"
	}
}

// tunables returns the per-state parameters a handler installs.
func (s FishState) tunables(cfg *config.FishConfig) config.FishStateConfig {
	switch s {
	case FishSurface:
		return cfg.Surface
	case FishSleep:
		return cfg.Sleep
	case FishFindFood:
		return cfg.FindFood
	case FishDead:
		return cfg.Dead
	default:
		return cfg.Idle
	}
}

// decide picks the state for this tick. Rules are checked in priority
// order and the first match wins. Dead is never left.
func (f *Fish) decide(env FoodEnv) FishState {
	cfg := &f.cfg
	switch {
	case f.state == FishDead:
		return FishDead
	case f.phys.Energy.IsZero(),
		f.oxygen.Value() < f.tun.OxygenDemand,
		f.phys.Carbon.IsZero():
		return FishDead
	case f.oxygen.Rate() < cfg.LowOxygenRate && f.state != FishSurface:
		return FishSurface
	case f.state == FishSurface && !f.oxygen.IsMax():
		return FishSurface
	case f.phys.Carbon.Value() < cfg.HungryCarbon:
		return FishFindFood
	case f.phys.Energy.Rate() < cfg.LowEnergyRate && f.state != FishSleep:
		return FishSleep
	case f.state == FishSleep && f.phys.Energy.Rate() < cfg.WakeEnergyRate:
		return FishSleep
	case env.IsFoodInWater():
		return FishFindFood
	default:
		return FishIdle
	}
}

// tickIdle cruises between random waypoints.
func (f *Fish) tickIdle(tank *Tank) {
	f.keepInWater(tank)
	f.wander(tank)
}

// tickSurface rises to just under the water line and gulps air there.
func (f *Fish) tickSurface(tank *Tank) {
	top := tank.WaterLine() + f.cfg.SurfaceMargin
	f.Body.Pos.Y = math.Max(top, f.Body.Pos.Y-f.cfg.VerticalSpeed)
	f.Body.Vel = components.Vec2{}
	if f.Body.Pos.Y <= top {
		f.oxygen.Add(f.cfg.SurfaceRefill)
	}
}

// tickSleep sinks onto the sand and regenerates energy once resting.
func (f *Fish) tickSleep(tank *Tank) {
	rest := math.Max(tank.SandSurface()-(f.cfg.Height/2-5), tank.WaterLine())
	f.Body.Pos.Y = math.Min(rest, f.Body.Pos.Y+f.cfg.VerticalSpeed)
	f.Body.Vel = components.Vec2{}
	if f.Body.Pos.Y >= rest {
		f.phys.Energy.Add(f.cfg.SleepRegen)
	}
}

// tickFindFood claims the first pellet in the water and swims to it.
// With nothing to eat the fish wanders anxiously.
func (f *Fish) tickFindFood(tank *Tank, env FoodEnv) {
	f.keepInWater(tank)

	if !f.hasTarget {
		if e, ok := env.TakeFoodInWater(); ok {
			f.target, f.hasTarget = e, true
			if pos, ok := env.FoodPosition(e); ok {
				f.goal = pos
			}
			return
		}
		f.wander(tank)
		return
	}

	pos, ok := env.FoodPosition(f.target)
	if !ok {
		f.releaseTarget()
		f.wander(tank)
		return
	}
	if f.Body.Pos.Dist(pos) > f.cfg.ArriveDistance {
		f.goal = pos
		f.moveTowards(pos, f.tun.Speed)
		return
	}
	f.phys.Carbon.Add(env.ConsumeFood(f.target))
	f.releaseTarget()
	f.eaten++
}

// tickDead lets the body float up when submerged and fall when above water.
func (f *Fish) tickDead(tank *Tank) {
	water := tank.WaterLine()
	switch {
	case f.Body.Pos.Y > water:
		if f.Body.Pos.Y+f.cfg.Height/2 > tank.SandSurface() {
			f.Body.Vel.Y = -math.Abs(f.Body.Vel.Y / 2)
		}
		f.Body.Vel = f.Body.Vel.Add(components.Up.Scale(f.cfg.CorpseBuoyancy)).Limit(f.cfg.CorpseMaxSpeed)
	case f.Body.Pos.Y < water:
		f.Body.Vel.Y += f.cfg.CorpseGravity
	}
	f.Body.Pos = f.Body.Pos.Add(f.Body.Vel)
	f.Body.Pos.X = clamp(f.Body.Pos.X, 0, float64(tank.Width()))
}

// wander heads for the current waypoint and picks a new one on arrival.
func (f *Fish) wander(tank *Tank) {
	lo, hi := f.depthRange(tank)
	f.goal.Y = clamp(f.goal.Y, lo, hi)
	if f.Body.Pos.Dist(f.goal) < f.cfg.ArriveDistance {
		f.goal = f.randomGoal(tank)
		return
	}
	f.moveTowards(f.goal, f.tun.Speed)
}

func (f *Fish) moveTowards(target components.Vec2, speed float64) {
	dir := target.Sub(f.Body.Pos).Normalize()
	f.Body.Vel = dir.Scale(speed)
	f.Body.Pos = f.Body.Pos.Add(f.Body.Vel)
	if dir.X < 0 {
		f.facingLeft = true
	} else if dir.X > 0 {
		f.facingLeft = false
	}
}

// keepInWater clamps the fish between the water line and the sand.
func (f *Fish) keepInWater(tank *Tank) {
	f.Body.Pos.Y = clamp(f.Body.Pos.Y, tank.WaterLine(), math.Max(tank.SandSurface(), tank.WaterLine()))
}

// depthRange is the band waypoints are picked from.
func (f *Fish) depthRange(tank *Tank) (lo, hi float64) {
	m := f.cfg.WaypointMargin
	lo, hi = tank.WaterLine()+m, tank.SandSurface()-m
	if lo > hi {
		lo = (lo + hi) / 2
		hi = lo
	}
	return lo, hi
}

func (f *Fish) randomGoal(tank *Tank) components.Vec2 {
	m := f.cfg.WaypointMargin
	left, right := m, float64(tank.Width())-m
	if left > right {
		left = float64(tank.Width()) / 2
		right = left
	}
	lo, hi := f.depthRange(tank)
	return components.V(
		left+f.rng.Float64()*(right-left),
		lo+f.rng.Float64()*(hi-lo),
	)
}
