package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// PlantNode is one joint of the plant chain.
type PlantNode struct {
	Body    components.Body
	Phys    components.Physiology
	Movable bool // false only for the root pinned to the sand
	Next    int  // index of the child node, -1 if none
}

// Plant is a single open chain of nodes rooted in the sand. Each node
// drags its child along with a pull/repel/sway rule. Nodes are only ever
// appended at the tail.
type Plant struct {
	nodes        []PlantNode
	x            float64
	growthChance float64
	rng          *rand.Rand
	cfg          config.PlantConfig
}

// NewPlant creates a plant rooted at x on the current sand surface.
func NewPlant(x float64, tank *Tank, rng *rand.Rand, cfg config.PlantConfig, growthChance float64) *Plant {
	p := &Plant{x: x, growthChance: growthChance, rng: rng, cfg: cfg}
	for i := 0; i < cfg.InitialNodes; i++ {
		p.grow(tank)
	}
	return p
}

// Grow appends a node near the tail.
func (p *Plant) Grow(tank *Tank) {
	p.grow(tank)
}

func (p *Plant) grow(tank *Tank) {
	node := PlantNode{
		Movable: len(p.nodes) > 0,
		Next:    -1,
		Phys: components.Physiology{
			Carbon:       components.NewGauge(p.cfg.FixedCarbon, p.cfg.CarbonMax),
			Energy:       components.NewGauge(0, p.cfg.EnergyMax),
			CarbonDemand: p.cfg.CarbonDemand,
			OxygenDemand: p.cfg.OxygenDemand,
		},
	}

	if len(p.nodes) == 0 {
		node.Body.Pos = components.V(p.x, tank.SandSurface())
		p.nodes = append(p.nodes, node)
		return
	}

	tail := len(p.nodes) - 1
	off := p.cfg.SpawnOffset
	node.Body.Pos = p.nodes[tail].Body.Pos.Add(components.V(
		(p.rng.Float64()*2-1)*off,
		(p.rng.Float64()*2-1)*off,
	))
	node.Body.Vel = components.RandomUnit(p.rng).Scale(p.cfg.InitialSpeed)
	p.nodes = append(p.nodes, node)
	p.nodes[tail].Next = len(p.nodes) - 1
}

// Update steps every node, drags children and exchanges gas.
// Returns true when the plant grew a node this tick.
func (p *Plant) Update(tank *Tank, pool *GasPool) bool {
	width := float64(tank.Width())
	water, sand := tank.WaterLine(), tank.SandSurface()
	light := tank.Light()

	for i := range p.nodes {
		n := &p.nodes[i]
		if n.Movable {
			n.Body.Vel = n.Body.Vel.Add(n.Body.Acc)
			n.Body.Pos = n.Body.Pos.Add(n.Body.Vel)
			n.Body.Vel = n.Body.Vel.Limit(p.cfg.MaxSpeed)
			reflectInside(&n.Body, 0, width, water, sand)
		} else {
			n.Body.Pos.Y = sand
		}

		if n.Next >= 0 {
			p.drag(n, &p.nodes[n.Next])
		}

		Photosynthesize(&n.Phys, pool, light)
		Breathe(&n.Phys, pool)
	}

	if p.rng.Float64() < p.growthChance {
		p.grow(tank)
		return true
	}
	return false
}

// drag applies the parent's pull, repel or sway to child.
func (p *Plant) drag(parent, child *PlantNode) {
	d := parent.Body.Pos.Dist(child.Body.Pos)
	toParent := parent.Body.Pos.Sub(child.Body.Pos).Normalize()

	switch {
	case d >= p.cfg.PullRadius:
		child.Body.Vel = toParent.Scale(p.cfg.SnapSpeed)
		child.Body.Acc = components.Vec2{}
	case d <= p.cfg.RepelRadius:
		child.Body.Vel = toParent.Scale(-p.cfg.SnapSpeed)
		child.Body.Acc = components.Vec2{}
	default:
		dir := toParent
		if d-p.cfg.RepelRadius < p.cfg.PullRadius-d {
			dir = dir.Scale(-1)
		}
		child.Body.Acc = dir.RotateDeg(p.rng.Float64() * p.cfg.SwayAngleDeg).Scale(p.cfg.SwayAccel)
	}

	child.Body.Acc = child.Body.Acc.Add(components.Up.Scale(p.cfg.Buoyancy))
}

// Nodes returns the chain in growth order. The slice is owned by the plant.
func (p *Plant) Nodes() []PlantNode {
	return p.nodes
}

// Len returns the number of nodes.
func (p *Plant) Len() int { return len(p.nodes) }

// reflectInside bounces b off the given box and clamps it back inside.
func reflectInside(b *components.Body, left, right, top, bottom float64) {
	if b.Pos.X < left {
		b.Vel.X = math.Abs(b.Vel.X)
		b.Pos.X = left
	} else if b.Pos.X > right {
		b.Vel.X = -math.Abs(b.Vel.X)
		b.Pos.X = right
	}
	if b.Pos.Y < top {
		b.Vel.Y = math.Abs(b.Vel.Y)
		b.Pos.Y = top
	}
	if b.Pos.Y > bottom {
		b.Vel.Y = -math.Abs(b.Vel.Y)
		b.Pos.Y = math.Max(bottom, top)
	}
}
