package systems

import (
	"math/rand"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/config"
)

// uploadIntervals maps upload speed in bytes/s to ticks between bubbles.
// 0 means no bubbles.
var uploadIntervals = NewRangeTable(
	[]float64{1, 1e3, 1e4, 1e5, 2e5, 5e5},
	[]int{0, 100, 50, 20, 10, 5, 1},
)

// BubbleInterval returns the spawn interval for an upload speed.
func BubbleInterval(bytesPerSec float64) int {
	return uploadIntervals.Lookup(bytesPerSec)
}

// Bubble is a buoyant particle rising from the sand.
type Bubble struct {
	Body   components.Body
	Radius float64
	Alive  bool
}

// BubbleFlow emits bubbles from a fixed x at a rate set by upload speed.
type BubbleFlow struct {
	X        float64
	bubbles  []Bubble
	interval int
	counter  int
	spawned  int
	rng      *rand.Rand
	cfg      config.BubbleConfig
}

// NewBubbleFlow creates an idle flow at x.
func NewBubbleFlow(x float64, rng *rand.Rand, cfg config.BubbleConfig) *BubbleFlow {
	return &BubbleFlow{X: x, rng: rng, cfg: cfg}
}

// SetUploadSpeed retunes the spawn interval.
func (f *BubbleFlow) SetUploadSpeed(bytesPerSec float64) {
	f.interval = BubbleInterval(bytesPerSec)
}

// Interval returns ticks between spawns (0 = no bubbles).
func (f *BubbleFlow) Interval() int { return f.interval }

// Spawned returns the total number of bubbles emitted.
func (f *BubbleFlow) Spawned() int { return f.spawned }

// Update prunes bubbles that surfaced last tick, spawns on schedule and
// rises every live bubble. A bubble is marked dead once it crosses the water
// line. Each rising bubble dissolves a little gas.
func (f *BubbleFlow) Update(tank *Tank, pool *GasPool) {
	f.prune()

	if f.interval > 0 {
		f.counter--
		if f.counter <= 0 {
			f.spawn(tank)
			f.counter = f.interval
		}
	}

	water, sand := tank.WaterLine(), tank.SandSurface()
	for i := range f.bubbles {
		b := &f.bubbles[i]
		b.Body.Vel = b.Body.Vel.Add(b.Body.Acc)
		b.Body.Pos = b.Body.Pos.Add(b.Body.Vel)
		b.Body.Pos.X += (f.rng.Float64() - 0.5) * f.cfg.Jitter
		b.Radius = f.radiusAt(b.Body.Pos.Y, water, sand)

		pool.AddOxygen(f.cfg.OxygenRelease)
		pool.AddCarbonDioxide(f.cfg.CarbonRelease)
		if b.Body.Pos.Y < water {
			b.Alive = false
		}
	}
}

// prune drops dead bubbles, keeping order.
func (f *BubbleFlow) prune() {
	live := f.bubbles[:0]
	for _, b := range f.bubbles {
		if b.Alive {
			live = append(live, b)
		}
	}
	clear(f.bubbles[len(live):])
	f.bubbles = live
}

func (f *BubbleFlow) spawn(tank *Tank) {
	y := tank.SandSurface()
	f.bubbles = append(f.bubbles, Bubble{
		Body: components.Body{
			Pos: components.V(f.X, y),
			Acc: components.Up.Scale(f.cfg.Buoyancy),
		},
		Radius: f.cfg.RadiusMin,
		Alive:  true,
	})
	f.spawned++
}

// radiusAt grows bubbles as they approach the surface.
func (f *BubbleFlow) radiusAt(y, water, sand float64) float64 {
	rate := 1.0
	if sand > water {
		rate = clamp01((sand - y) / (sand - water))
	}
	return lerp(f.cfg.RadiusMin, f.cfg.RadiusMax, rate)
}

// Bubbles returns the bubbles of the last update, including the ones that
// surfaced during it. The slice is owned by the flow.
func (f *BubbleFlow) Bubbles() []Bubble {
	return f.bubbles
}

// Live returns the number of bubbles still under water.
func (f *BubbleFlow) Live() int {
	n := 0
	for _, b := range f.bubbles {
		if b.Alive {
			n++
		}
	}
	return n
}
