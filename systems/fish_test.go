package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cybertank/components"
)

type fishRig struct {
	tank *Tank
	pool *GasPool
	food *fakeFood
	fish *Fish
}

func newFishRig(t *testing.T) *fishRig {
	t.Helper()
	cfg := testConfig(t)
	tank := settledTank(t, cfg, steadyInput())
	return &fishRig{
		tank: tank,
		pool: NewGasPool(1e6, 1e6, 100),
		food: newFakeFood(),
		fish: NewFish(tank, newRand(), cfg.Fish),
	}
}

func (r *fishRig) tick() FishState {
	r.fish.Update(r.tank, r.pool, r.food)
	return r.fish.State()
}

func TestFishStartsHealthyAndIdle(t *testing.T) {
	r := newFishRig(t)
	f := r.fish

	assert.Equal(t, FishIdle, f.State())
	assert.True(t, f.Energy().IsMax())
	assert.True(t, f.Oxygen().IsMax())
	assert.Equal(t, f.cfg.InitialCarbon, f.Carbon().Value())
	assert.GreaterOrEqual(t, f.Body.Pos.Y, r.tank.WaterLine())
	assert.LessOrEqual(t, f.Body.Pos.Y, r.tank.SandSurface())

	assert.Equal(t, FishIdle, r.tick())
}

func TestFishDeadIsTerminal(t *testing.T) {
	r := newFishRig(t)
	r.fish.phys.Carbon.Set(0)

	require.Equal(t, FishDead, r.tick())
	tick, dead := r.fish.DiedAt()
	assert.True(t, dead)
	assert.Equal(t, 1, tick)

	// Refill everything and offer food: still dead
	r.fish.phys.Carbon.Set(r.fish.cfg.CarbonMax)
	r.fish.phys.Energy.Set(r.fish.cfg.EnergyMax)
	r.fish.oxygen.Set(r.fish.cfg.OxygenMax)
	r.food.drop(r.fish.Body.Pos, 100)
	for i := 0; i < 1000; i++ {
		require.Equal(t, FishDead, r.tick())
	}
	assert.Zero(t, r.food.consumed)
}

func TestFishDiesOfEachShortfall(t *testing.T) {
	tests := []struct {
		name  string
		drain func(f *Fish)
	}{
		{"energy", func(f *Fish) { f.phys.Energy.Set(0) }},
		{"carbon", func(f *Fish) { f.phys.Carbon.Set(0) }},
		{"oxygen", func(f *Fish) { f.oxygen.Set(0.05) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFishRig(t)
			tt.drain(r.fish)
			assert.Equal(t, FishDead, r.tick())
		})
	}
}

func TestFishCorpseStopsConsuming(t *testing.T) {
	r := newFishRig(t)
	r.fish.phys.Energy.Set(0)
	r.tick()

	carbon := r.fish.Carbon().Value()
	total := r.pool.Total()
	o2, _ := r.pool.Levels()
	for i := 0; i < 100; i++ {
		r.tick()
	}
	assert.Equal(t, carbon, r.fish.Carbon().Value())
	assert.Equal(t, total, r.pool.Total())
	after, _ := r.pool.Levels()
	assert.Equal(t, o2, after)
	assert.Zero(t, r.fish.Tunables().Speed)
}

func TestFishCorpseStaysInTank(t *testing.T) {
	r := newFishRig(t)
	for i := 0; i < 50; i++ {
		require.NotEqual(t, FishDead, r.tick())
	}
	require.NotZero(t, r.fish.Body.Vel.X, "fish is swimming")

	r.fish.phys.Energy.Set(0)
	require.Equal(t, FishDead, r.tick())
	assert.Zero(t, r.fish.Body.Vel.X)

	width := float64(r.tank.Width())
	for i := 0; i < 20000; i++ {
		r.tick()
		require.GreaterOrEqual(t, r.fish.Body.Pos.X, 0.0, "tick %d", i)
		require.LessOrEqual(t, r.fish.Body.Pos.X, width, "tick %d", i)
	}
	assert.Zero(t, r.fish.Body.Vel.X)
}

func TestFishSleepHysteresis(t *testing.T) {
	r := newFishRig(t)
	full := r.fish.cfg.EnergyMax

	r.fish.phys.Energy.Set(0.15 * full)
	require.Equal(t, FishSleep, r.tick())

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			r.fish.phys.Energy.Set(0.25 * full)
		} else {
			r.fish.phys.Energy.Set(0.15 * full)
		}
		assert.Equal(t, FishSleep, r.tick(), "tick %d", i)
	}

	r.fish.phys.Energy.Set(0.79 * full)
	assert.Equal(t, FishSleep, r.tick())
	r.fish.phys.Energy.Set(0.8 * full)
	assert.Equal(t, FishIdle, r.tick())
}

func TestFishSleepRegeneratesOnSand(t *testing.T) {
	r := newFishRig(t)
	r.fish.phys.Energy.Set(0.1 * r.fish.cfg.EnergyMax)

	for i := 0; i < 300; i++ {
		r.tick()
	}

	rest := r.tank.SandSurface() - (r.fish.cfg.Height/2 - 5)
	assert.Equal(t, FishSleep, r.fish.State())
	assert.Equal(t, rest, r.fish.Body.Pos.Y)
	assert.Greater(t, r.fish.Energy().Rate(), 0.1)
}

func TestFishSurfacesUntilFull(t *testing.T) {
	r := newFishRig(t)
	full := r.fish.cfg.OxygenMax

	r.fish.oxygen.Set(0.1 * full)
	require.Equal(t, FishSurface, r.tick())

	r.fish.oxygen.Set(0.5 * full)
	assert.Equal(t, FishSurface, r.tick(), "stays until full")

	o2, _ := r.pool.Levels()
	for i := 0; i < 1000 && !r.fish.Oxygen().IsMax(); i++ {
		require.Equal(t, FishSurface, r.tick())
	}
	assert.True(t, r.fish.Oxygen().IsMax())
	after, _ := r.pool.Levels()
	assert.Equal(t, o2, after, "surfacing does not touch the water's oxygen")

	assert.Equal(t, FishIdle, r.tick())
}

func TestFishSurfaceBeatsHunger(t *testing.T) {
	r := newFishRig(t)
	r.fish.oxygen.Set(0.1 * r.fish.cfg.OxygenMax)
	r.fish.phys.Carbon.Set(10)
	r.food.drop(r.fish.Body.Pos, 100)

	assert.Equal(t, FishSurface, r.tick())
}

func TestFishHungerBeatsSleep(t *testing.T) {
	r := newFishRig(t)
	r.fish.phys.Energy.Set(0.1 * r.fish.cfg.EnergyMax)
	r.fish.phys.Carbon.Set(100)

	assert.Equal(t, FishFindFood, r.tick())
}

func TestFishEatsFood(t *testing.T) {
	r := newFishRig(t)
	r.food.drop(r.fish.Body.Pos.Add(components.V(3, 0)), 300)
	before := r.fish.Carbon().Value()

	require.Equal(t, FishFindFood, r.tick())
	e, ok := r.fish.Target()
	require.True(t, ok, "claims the pellet")
	assert.Equal(t, r.food.pellet, e)

	r.tick()
	assert.Equal(t, 1, r.food.consumed)
	assert.Equal(t, 1, r.fish.Eaten())
	_, ok = r.fish.Target()
	assert.False(t, ok, "reference released after eating")
	assert.Greater(t, r.fish.Carbon().Value(), before+250)

	assert.Equal(t, FishIdle, r.tick())
}

func TestFishSwimsToDistantFood(t *testing.T) {
	r := newFishRig(t)
	target := components.V(float64(testWidth)/2, (r.tank.WaterLine()+r.tank.SandSurface())/2)
	r.fish.Body.Pos = components.V(30, target.Y)
	r.food.drop(target, 300)

	for i := 0; i < 2000 && r.food.consumed == 0; i++ {
		r.tick()
	}
	assert.Equal(t, 1, r.food.consumed)
}

func TestFishDropsVanishedTarget(t *testing.T) {
	r := newFishRig(t)
	r.food.drop(components.V(10, r.tank.SandSurface()-1), 300)
	r.tick()
	_, ok := r.fish.Target()
	require.True(t, ok)

	r.food.vanish()
	r.fish.phys.Carbon.Set(100) // stay hungry
	r.tick()

	_, ok = r.fish.Target()
	assert.False(t, ok)
	assert.Equal(t, FishFindFood, r.fish.State())
}

func TestFishBreathingConservesPool(t *testing.T) {
	r := newFishRig(t)
	total := r.pool.Total()
	for i := 0; i < 500; i++ {
		r.tick()
		assert.InDelta(t, total, r.pool.Total(), 1e-6)
	}
}

func TestFishLivesOffHeldAirInAnoxicWater(t *testing.T) {
	r := newFishRig(t)
	r.pool = NewGasPool(0, 1000, 100)

	r.tick()

	assert.InDelta(t, r.fish.cfg.OxygenMax-r.fish.cfg.Idle.OxygenDemand, r.fish.Oxygen().Value(), 1e-9)
	o2, co2 := r.pool.Levels()
	assert.Zero(t, o2)
	assert.Equal(t, 1000.0, co2)
}

func TestFishAnimationAdvances(t *testing.T) {
	r := newFishRig(t)
	interval := r.fish.cfg.Idle.AnimationInterval
	for i := 0; i < interval*3; i++ {
		r.tick()
	}
	assert.Equal(t, 3%r.fish.cfg.Frames, r.fish.Frame())
}

func TestFishStateChangeHook(t *testing.T) {
	r := newFishRig(t)
	var seen [][2]FishState
	r.fish.OnStateChange = func(from, to FishState) {
		seen = append(seen, [2]FishState{from, to})
	}
	r.fish.phys.Energy.Set(0.1 * r.fish.cfg.EnergyMax)
	r.tick()
	r.fish.phys.Energy.Set(0)
	r.tick()

	assert.Equal(t, [][2]FishState{{FishIdle, FishSleep}, {FishSleep, FishDead}}, seen)
	assert.Equal(t, "dead", FishDead.String())
}
