package systems

import (
	"math"

	"github.com/pthm-cable/cybertank/config"
)

// Boundary indices into Tank divisions.
const (
	DivWater = iota
	DivSand
	DivBase
)

// SurfaceRipple describes the sine ripple drawn on the water surface.
type SurfaceRipple struct {
	Amplitude float64
	Frequency float64
	Speed     float64
}

// surfaceRipples maps download speed in bytes/s to ripple parameters.
var surfaceRipples = NewRangeTable(
	[]float64{1, 100, 1e3, 5e3, 1e4, 1e5, 5e5, 1.5e6},
	[]SurfaceRipple{
		{0, 0.01, 0},
		{2, 0.01, 1},
		{2, 0.02, 1},
		{2, 0.04, 2},
		{4, 0.05, 6},
		{6, 0.05, 7},
		{8, 0.05, 8},
		{10, 0.06, 9},
		{10, 0.1, 10},
	},
)

// Offset returns the ripple displacement at x after time ticks.
func (r SurfaceRipple) Offset(x float64, time int) float64 {
	return r.Amplitude * math.Sin((x+float64(time)*r.Speed)*r.Frequency*0.2)
}

// RippleFor returns the surface ripple for a download speed.
func RippleFor(recvBytesPerSec float64) SurfaceRipple {
	return surfaceRipples.Lookup(recvBytesPerSec)
}

// TankInput is the telemetry consumed by one tank tick.
type TankInput struct {
	MemoryUsed    float64 // physical memory used fraction
	SwapUsed      float64 // swap used fraction
	PhysicalShare float64 // physical / (physical + swap) capacity
	MemoryValid   bool

	Light      float64
	LightValid bool

	DiskWrite uint64
	DiskRead  uint64
	DiskUsage float64 // used fraction of the watched volume
	NetRecv   float64 // download bytes/s

	SandFixed bool
	SandRatio float64
}

// Tank holds the smoothed horizontal boundaries every spatial entity is
// confined by. y grows downwards: 0 <= water <= sand surface <= sand base <= height.
type Tank struct {
	width, height int
	alpha         float64

	current [3]float64
	target  [3]float64

	light       float64
	lightTarget float64

	outward *SandWaveFlow // disk writes
	inward  *SandWaveFlow // disk reads

	ripple SurfaceRipple
	tint   float64
	time   int
}

// NewTank creates a tank whose water starts at the top and whose sand
// starts at the floor. The light starts dark and brightens to full.
func NewTank(width, height int, cfg config.TankConfig) *Tank {
	h := float64(height)
	mid := float64(width) / 2
	return &Tank{
		width:       width,
		height:      height,
		alpha:       cfg.Alpha,
		current:     [3]float64{0, h, h},
		target:      [3]float64{0, h, h},
		lightTarget: 1,
		outward:     NewSandWaveFlow(mid, mid, 1),
		inward:      NewSandWaveFlow(mid, mid, -1),
		ripple:      RippleFor(0),
	}
}

// Tick retargets the boundaries from telemetry and moves every boundary
// a fixed fraction of the way towards its target.
func (t *Tank) Tick(in TankInput) {
	h := float64(t.height)

	if in.MemoryValid {
		sand := h * clamp01(in.PhysicalShare)
		if in.SandFixed {
			sand = h * (1 - clamp01(in.SandRatio))
		}
		t.target[DivSand] = sand
		// Air above the line is used memory
		t.target[DivWater] = sand * clamp01(in.MemoryUsed)
		t.target[DivBase] = lerp(sand, h, clamp01(in.SwapUsed))
	}
	for i := range t.current {
		t.current[i] = lerp(t.current[i], t.target[i], t.alpha)
	}
	t.checkOrder()

	if in.LightValid {
		t.lightTarget = clamp01(in.Light)
	}
	t.light = clamp01(lerp(t.light, t.lightTarget, t.alpha))

	t.outward.SetIO(in.DiskWrite)
	t.inward.SetIO(in.DiskRead)
	t.outward.Tick()
	t.inward.Tick()

	t.ripple = RippleFor(in.NetRecv)
	t.tint = clamp01(in.DiskUsage)
	t.time++
}

// checkOrder re-clamps the current boundaries into height order.
func (t *Tank) checkOrder() {
	h := float64(t.height)
	t.current[DivBase] = clamp(t.current[DivBase], 0, h)
	t.current[DivSand] = clamp(t.current[DivSand], 0, t.current[DivBase])
	t.current[DivWater] = clamp(t.current[DivWater], 0, t.current[DivSand])
}

// Width returns the tank width.
func (t *Tank) Width() int { return t.width }

// Height returns the tank height.
func (t *Tank) Height() int { return t.height }

// WaterLine returns the y of the air/water boundary.
func (t *Tank) WaterLine() float64 { return t.current[DivWater] }

// SandSurface returns the y of the water/sand boundary.
func (t *Tank) SandSurface() float64 { return t.current[DivSand] }

// SandBase returns the y of the surface/deep sand boundary.
func (t *Tank) SandBase() float64 { return t.current[DivBase] }

// Divisions returns the three current boundaries.
func (t *Tank) Divisions() [3]float64 { return t.current }

// Targets returns the three boundary targets.
func (t *Tank) Targets() [3]float64 { return t.target }

// Light returns the smoothed light level in [0, 1].
func (t *Tank) Light() float64 { return t.light }

// Ripple returns the current surface ripple parameters.
func (t *Tank) Ripple() SurfaceRipple { return t.ripple }

// Tint returns how murky the water looks, in [0, 1].
func (t *Tank) Tint() float64 { return t.tint }

// Time returns the number of ticks since creation.
func (t *Tank) Time() int { return t.time }

// Waves returns the write (outward) and read (inward) sand wave flows.
func (t *Tank) Waves() (outward, inward *SandWaveFlow) {
	return t.outward, t.inward
}

// SurfaceY returns the rippled water surface height at x.
func (t *Tank) SurfaceY(x float64) float64 {
	return t.current[DivWater] + t.ripple.Offset(x, t.time)
}

// InWater reports whether y is at or below the water line.
func (t *Tank) InWater(y float64) bool {
	return y >= t.current[DivWater]
}
