package systems

// diskIOPeriods maps the bit length of a disk IO sample (minus one) to the
// number of ticks between sand waves. 0 means no waves.
var diskIOPeriods = NewRangeTable(
	[]float64{1, 4, 8, 12, 16, 20, 24, 28, 32},
	[]int{0, 100, 50, 40, 20, 15, 10, 6, 4, 2},
)

// DiskIOPeriod returns the wave emission period for an IO magnitude.
func DiskIOPeriod(io uint64) int {
	return diskIOPeriods.Lookup(float64(bitLength(io) - 1))
}

// SandWave is a half ring travelling through the sand.
type SandWave struct {
	Radius float64
}

// SandWaveFlow emits sand waves from one point at a rate set by disk IO.
// Outward flows (dir > 0) start at radius 0 and grow; inward flows start
// at the maximum radius and shrink.
type SandWaveFlow struct {
	X         float64
	dir       float64
	maxRadius float64
	period    int
	time      int
	waves     []SandWave
}

// NewSandWaveFlow creates a flow centred on x.
func NewSandWaveFlow(x, maxRadius, dir float64) *SandWaveFlow {
	return &SandWaveFlow{X: x, dir: dir, maxRadius: maxRadius, period: 10}
}

// SetIO retunes the emission period from an IO sample.
func (f *SandWaveFlow) SetIO(io uint64) {
	f.period = DiskIOPeriod(io)
}

// Period returns the current emission period in ticks (0 = idle).
func (f *SandWaveFlow) Period() int { return f.period }

// MaxRadius returns the radius at which waves expire.
func (f *SandWaveFlow) MaxRadius() float64 { return f.maxRadius }

// Tick advances every wave, prunes expired ones and emits on schedule.
func (f *SandWaveFlow) Tick() {
	f.time++

	live := f.waves[:0]
	for _, w := range f.waves {
		w.Radius += f.dir
		if w.Radius >= f.maxRadius || w.Radius <= 0 {
			continue
		}
		live = append(live, w)
	}
	f.waves = live

	if f.period > 0 && f.time%f.period == 0 {
		r := 0.0
		if f.dir < 0 {
			r = f.maxRadius
		}
		f.waves = append(f.waves, SandWave{Radius: r})
	}
}

// Waves returns the live waves. The slice is owned by the flow.
func (f *SandWaveFlow) Waves() []SandWave {
	return f.waves
}
