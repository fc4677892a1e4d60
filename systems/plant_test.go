package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cybertank/components"
)

func TestPlantStartsWithRootAndChild(t *testing.T) {
	cfg := testConfig(t)
	tank := settledTank(t, cfg, steadyInput())

	p := NewPlant(100, tank, newRand(), cfg.Plant, 0)

	nodes := p.Nodes()
	require.Len(t, nodes, 2)
	assert.False(t, nodes[0].Movable)
	assert.True(t, nodes[1].Movable)
	assert.Equal(t, 1, nodes[0].Next)
	assert.Equal(t, -1, nodes[1].Next)
	assert.Equal(t, components.V(100, tank.SandSurface()), nodes[0].Body.Pos)
}

func TestPlantRootRidesSand(t *testing.T) {
	cfg := testConfig(t)
	tank := settledTank(t, cfg, steadyInput())
	pool := NewGasPool(1000, 1000, 100)
	p := NewPlant(100, tank, newRand(), cfg.Plant, 0)

	in := steadyInput()
	in.SandFixed, in.SandRatio = true, 0.5
	for i := 0; i < 50; i++ {
		tank.Tick(in)
		p.Update(tank, pool)
		assert.Equal(t, tank.SandSurface(), p.Nodes()[0].Body.Pos.Y)
		assert.Equal(t, 100.0, p.Nodes()[0].Body.Pos.X)
	}
}

func TestPlantGrowthIsMonotonicChain(t *testing.T) {
	cfg := testConfig(t)
	tank := settledTank(t, cfg, steadyInput())
	pool := NewGasPool(1e6, 1e6, 100)
	p := NewPlant(150, tank, newRand(), cfg.Plant, 1)

	prev := p.Len()
	for i := 0; i < 20; i++ {
		grew := p.Update(tank, pool)
		assert.True(t, grew)
		assert.Equal(t, prev+1, p.Len())
		prev = p.Len()
	}

	// Every node but the tail links to the next one
	nodes := p.Nodes()
	for i, n := range nodes {
		if i == len(nodes)-1 {
			assert.Equal(t, -1, n.Next)
		} else {
			assert.Equal(t, i+1, n.Next)
		}
	}
}

func TestPlantNodesStayInWater(t *testing.T) {
	cfg := testConfig(t)
	tank := settledTank(t, cfg, steadyInput())
	pool := NewGasPool(1e6, 1e6, 100)
	p := NewPlant(150, tank, newRand(), cfg.Plant, 0)
	for i := 0; i < 8; i++ {
		p.Grow(tank)
	}

	for i := 0; i < 5000; i++ {
		p.Update(tank, pool)
		for _, n := range p.Nodes()[1:] {
			require.GreaterOrEqual(t, n.Body.Pos.X, 0.0)
			require.LessOrEqual(t, n.Body.Pos.X, float64(testWidth))
			require.GreaterOrEqual(t, n.Body.Pos.Y, tank.WaterLine())
			require.LessOrEqual(t, n.Body.Pos.Y, tank.SandSurface())
		}
	}
}

func TestPlantDragPullsDistantChild(t *testing.T) {
	cfg := testConfig(t)
	p := &Plant{rng: newRand(), cfg: cfg.Plant}
	parent := PlantNode{Body: components.Body{Pos: components.V(0, 0)}}
	child := PlantNode{Body: components.Body{Pos: components.V(50, 0)}}

	p.drag(&parent, &child)

	assert.InDelta(t, -cfg.Plant.SnapSpeed, child.Body.Vel.X, 1e-12)
	assert.InDelta(t, -cfg.Plant.Buoyancy, child.Body.Acc.Y, 1e-12)
	assert.Zero(t, child.Body.Acc.X)
}

func TestPlantDragRepelsCloseChild(t *testing.T) {
	cfg := testConfig(t)
	p := &Plant{rng: newRand(), cfg: cfg.Plant}
	parent := PlantNode{Body: components.Body{Pos: components.V(0, 0)}}
	child := PlantNode{Body: components.Body{Pos: components.V(1, 0)}}

	p.drag(&parent, &child)

	assert.InDelta(t, cfg.Plant.SnapSpeed, child.Body.Vel.X, 1e-12)
}

func TestPlantDragSwaysInBand(t *testing.T) {
	cfg := testConfig(t)
	p := &Plant{rng: newRand(), cfg: cfg.Plant}
	parent := PlantNode{Body: components.Body{Pos: components.V(0, 0)}}

	for i := 0; i < 100; i++ {
		child := PlantNode{Body: components.Body{Pos: components.V(12, 0), Vel: components.V(0.3, 0)}}
		p.drag(&parent, &child)

		assert.Equal(t, components.V(0.3, 0), child.Body.Vel, "velocity untouched in the band")
		sway := child.Body.Acc.Sub(components.Up.Scale(cfg.Plant.Buoyancy))
		assert.InDelta(t, cfg.Plant.SwayAccel, sway.Len(), 1e-12)
	}
}
