package systems

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/cybertank/components"
)

func TestRespireMovesOxygenToCO2(t *testing.T) {
	pool := NewGasPool(1000, 1000, 100)

	yield := pool.Respire(50)

	o2, co2 := pool.Levels()
	assert.Equal(t, 950.0, o2)
	assert.Equal(t, 1050.0, co2)
	assert.Equal(t, 50*100.0, yield)
}

func TestPhotosynthesizeShortfallIsNoOp(t *testing.T) {
	pool := NewGasPool(500, 10, 100)

	fixed := pool.Photosynthesize(40, 0.5)

	assert.Zero(t, fixed)
	o2, co2 := pool.Levels()
	assert.Equal(t, 500.0, o2)
	assert.Equal(t, 10.0, co2)
}

func TestRespireShortfallIsNoOp(t *testing.T) {
	pool := NewGasPool(5, 1000, 100)
	assert.Zero(t, pool.Respire(6))
	o2, co2 := pool.Levels()
	assert.Equal(t, 5.0, o2)
	assert.Equal(t, 1000.0, co2)
}

func TestGasPoolIgnoresNonPositiveRequests(t *testing.T) {
	pool := NewGasPool(100, 100, 100)
	assert.Zero(t, pool.Respire(0))
	assert.Zero(t, pool.Respire(-5))
	assert.Zero(t, pool.Photosynthesize(10, 0))
	assert.Zero(t, pool.Photosynthesize(-10, 1))
	pool.AddOxygen(-3)
	pool.AddCarbonDioxide(-3)
	assert.Equal(t, 200.0, pool.Total())
}

func TestGasPoolConservesTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := NewGasPool(100, 100, 100)
	total := pool.Total()

	for i := 0; i < 10000; i++ {
		if rng.Intn(2) == 0 {
			pool.Respire(rng.Float64() * 20)
		} else {
			pool.Photosynthesize(rng.Float64()*20, rng.Float64())
		}
		o2, co2 := pool.Levels()
		assert.GreaterOrEqual(t, o2, 0.0)
		assert.GreaterOrEqual(t, co2, 0.0)
		assert.InDelta(t, total, o2+co2, 1e-9)
	}
}

func TestGasPoolConcurrentReactions(t *testing.T) {
	pool := NewGasPool(50, 50, 100)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				if rng.Intn(2) == 0 {
					pool.Respire(rng.Float64())
				} else {
					pool.Photosynthesize(rng.Float64(), 1)
				}
			}
		}(int64(g))
	}
	wg.Wait()

	o2, co2 := pool.Levels()
	assert.GreaterOrEqual(t, o2, 0.0)
	assert.GreaterOrEqual(t, co2, 0.0)
	assert.InDelta(t, 100.0, o2+co2, 1e-9)
}

func TestBreatheNeedsCarbon(t *testing.T) {
	pool := NewGasPool(1000, 1000, 100)
	p := components.Physiology{
		Carbon:       components.NewGauge(0.05, 100),
		Energy:       components.NewGauge(0, 1000),
		OxygenDemand: 0.1,
	}

	assert.Zero(t, Breathe(&p, pool))
	assert.Equal(t, 2000.0, pool.Total())
	o2, _ := pool.Levels()
	assert.Equal(t, 1000.0, o2)
}

func TestBreatheCreditsEnergy(t *testing.T) {
	pool := NewGasPool(1000, 1000, 100)
	p := components.Physiology{
		Carbon:       components.NewGauge(10, 100),
		Energy:       components.NewGauge(0, 1000),
		OxygenDemand: 0.5,
	}

	yield := Breathe(&p, pool)

	assert.Equal(t, 50.0, yield)
	assert.Equal(t, 50.0, p.Energy.Value())
	assert.InDelta(t, 9.5, p.Carbon.Value(), 1e-12)
	o2, co2 := pool.Levels()
	assert.Equal(t, 999.5, o2)
	assert.Equal(t, 1000.5, co2)
}

func TestPhotosynthesizeFixesCarbon(t *testing.T) {
	pool := NewGasPool(1000, 1000, 100)
	p := components.Physiology{
		Carbon:       components.NewGauge(0, 100),
		CarbonDemand: 0.4,
	}

	fixed := Photosynthesize(&p, pool, 0.5)

	assert.InDelta(t, 0.2, fixed, 1e-12)
	assert.InDelta(t, 0.2, p.Carbon.Value(), 1e-12)
	assert.Equal(t, 2000.0, pool.Total())
}

func TestPhotosynthesizeInTheDark(t *testing.T) {
	pool := NewGasPool(1000, 1000, 100)
	p := components.Physiology{Carbon: components.NewGauge(0, 100), CarbonDemand: 1}
	assert.Zero(t, Photosynthesize(&p, pool, 0))
	assert.Zero(t, p.Carbon.Value())
}
