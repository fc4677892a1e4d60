package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

const (
	testWidth  = 300
	testHeight = 168
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

// steadyInput leaves water at 30% of the tank and sand at the floor.
func steadyInput() TankInput {
	return TankInput{
		MemoryUsed:    0.3,
		SwapUsed:      0,
		PhysicalShare: 1,
		MemoryValid:   true,
		Light:         1,
		LightValid:    true,
	}
}

// settledTank returns a tank that has converged on in.
func settledTank(t *testing.T, cfg *config.Config, in TankInput) *Tank {
	t.Helper()
	tank := NewTank(testWidth, testHeight, cfg.Tank)
	for i := 0; i < 2000; i++ {
		tank.Tick(in)
	}
	return tank
}

// fakeFood is a FoodEnv holding at most one pellet.
type fakeFood struct {
	world    *ecs.World
	pellet   ecs.Entity
	pos      components.Vec2
	carbon   float64
	present  bool
	consumed int
}

func newFakeFood() *fakeFood {
	return &fakeFood{world: ecs.NewWorld()}
}

func (f *fakeFood) drop(pos components.Vec2, carbon float64) {
	f.pellet = ecs.NewMap1[components.FoodItem](f.world).NewEntity(&components.FoodItem{Carbon: carbon})
	f.pos, f.carbon, f.present = pos, carbon, true
}

func (f *fakeFood) vanish() {
	f.world.RemoveEntity(f.pellet)
	f.present = false
}

func (f *fakeFood) IsFoodInWater() bool { return f.present }

func (f *fakeFood) TakeFoodInWater() (ecs.Entity, bool) {
	return f.pellet, f.present
}

func (f *fakeFood) FoodPosition(e ecs.Entity) (components.Vec2, bool) {
	if !f.present || e != f.pellet {
		return components.Vec2{}, false
	}
	return f.pos, true
}

func (f *fakeFood) ConsumeFood(e ecs.Entity) float64 {
	if !f.present || e != f.pellet {
		return 0
	}
	f.vanish()
	f.consumed++
	return f.carbon
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
