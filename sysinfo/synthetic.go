package sysinfo

import "math"

// Synthetic is a deterministic Source for headless runs. Every call to
// Snapshot advances one tick of slow oscillating load. It is not safe for
// concurrent use.
type Synthetic struct {
	Cores int
	// TicksPerCycle is the length of one full load cycle.
	TicksPerCycle int

	tick int
}

// NewSynthetic creates a synthetic source with the given core count.
func NewSynthetic(cores int) *Synthetic {
	if cores <= 0 {
		cores = 4
	}
	return &Synthetic{Cores: cores, TicksPerCycle: 3600}
}

// Snapshot implements Source.
func (s *Synthetic) Snapshot() Snapshot {
	s.tick++
	period := s.TicksPerCycle
	if period <= 0 {
		period = 3600
	}
	phase := 2 * math.Pi * float64(s.tick) / float64(period)
	wave := func(offset, lo, hi float64) float64 {
		return lo + (hi-lo)*(0.5+0.5*math.Sin(phase+offset))
	}

	cpu := make([]float64, s.Cores)
	for i := range cpu {
		cpu[i] = wave(float64(i)*0.9, 0.02, 0.9)
	}

	return Snapshot{
		CPU:    cpu,
		HasCPU: true,
		Memory: Memory{
			PhysicalUsed:  wave(0, 0.3, 0.7),
			PhysicalTotal: 16 << 30,
			SwapUsed:      wave(1.5, 0.05, 0.4),
			SwapTotal:     4 << 30,
		},
		HasMemory:    true,
		DiskUsage:    wave(3, 0.4, 0.6),
		HasDiskUsage: true,
		DiskIO: DiskIO{
			Read:  uint64(wave(2, 0, 5000)),
			Write: uint64(wave(4, 0, 20000)),
		},
		HasDiskIO: true,
		Network: Network{
			Sent: wave(1, 0, 3e5),
			Recv: wave(2.5, 0, 2e6),
		},
		HasNetwork: true,
		Light:      wave(-math.Pi/2, 0.1, 1),
		HasLight:   true,
	}
}
