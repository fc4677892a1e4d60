package sysinfo

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// Probe samples one telemetry source into its own slot.
type Probe interface {
	Name() string
	Interval() time.Duration
	Sample(ctx context.Context) error
}

// CPUProbe samples per-core load.
type CPUProbe struct {
	Slot    Slot[[]float64]
	every   time.Duration
	percent func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
}

// NewCPUProbe creates a CPU probe.
func NewCPUProbe(every time.Duration) *CPUProbe {
	return &CPUProbe{every: every, percent: cpu.PercentWithContext}
}

func (p *CPUProbe) Name() string            { return "cpu" }
func (p *CPUProbe) Interval() time.Duration { return p.every }

// Sample reads load since the previous call.
func (p *CPUProbe) Sample(ctx context.Context) error {
	pcts, err := p.percent(ctx, 0, true)
	if err != nil {
		return fmt.Errorf("cpu percent: %w", err)
	}
	loads := make([]float64, len(pcts))
	for i, v := range pcts {
		loads[i] = fraction(v)
	}
	p.Slot.Store(loads)
	return nil
}

// MemoryProbe samples physical and swap memory.
type MemoryProbe struct {
	Slot    Slot[Memory]
	every   time.Duration
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swap    func(ctx context.Context) (*mem.SwapMemoryStat, error)
}

// NewMemoryProbe creates a memory probe.
func NewMemoryProbe(every time.Duration) *MemoryProbe {
	return &MemoryProbe{
		every:   every,
		virtual: mem.VirtualMemoryWithContext,
		swap:    mem.SwapMemoryWithContext,
	}
}

func (p *MemoryProbe) Name() string            { return "memory" }
func (p *MemoryProbe) Interval() time.Duration { return p.every }

// Sample reads memory occupancy. Swap failures are tolerated as no swap.
func (p *MemoryProbe) Sample(ctx context.Context) error {
	vm, err := p.virtual(ctx)
	if err != nil {
		return fmt.Errorf("virtual memory: %w", err)
	}
	m := Memory{
		PhysicalUsed:  fraction(vm.UsedPercent),
		PhysicalTotal: vm.Total,
	}
	if sw, err := p.swap(ctx); err == nil {
		m.SwapUsed = fraction(sw.UsedPercent)
		m.SwapTotal = sw.Total
	}
	p.Slot.Store(m)
	return nil
}

// DiskUsageProbe samples how full one volume is.
type DiskUsageProbe struct {
	Slot  Slot[float64]
	every time.Duration
	path  string
	usage func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskUsageProbe creates a probe for the volume holding path.
func NewDiskUsageProbe(every time.Duration, path string) *DiskUsageProbe {
	return &DiskUsageProbe{every: every, path: path, usage: disk.UsageWithContext}
}

func (p *DiskUsageProbe) Name() string            { return "disk_usage" }
func (p *DiskUsageProbe) Interval() time.Duration { return p.every }

// Sample reads the used fraction of the volume.
func (p *DiskUsageProbe) Sample(ctx context.Context) error {
	u, err := p.usage(ctx, p.path)
	if err != nil {
		return fmt.Errorf("disk usage %s: %w", p.path, err)
	}
	p.Slot.Store(fraction(u.UsedPercent))
	return nil
}

// DiskIOProbe samples bytes read and written since the previous sample.
type DiskIOProbe struct {
	Slot     Slot[DiskIO]
	every    time.Duration
	counters func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)

	primed              bool
	lastRead, lastWrite uint64
}

// NewDiskIOProbe creates a disk IO probe.
func NewDiskIOProbe(every time.Duration) *DiskIOProbe {
	return &DiskIOProbe{every: every, counters: disk.IOCountersWithContext}
}

func (p *DiskIOProbe) Name() string            { return "disk_io" }
func (p *DiskIOProbe) Interval() time.Duration { return p.every }

// Sample publishes the KB moved across all disks since the previous call.
// The first call only primes the counters.
func (p *DiskIOProbe) Sample(ctx context.Context) error {
	stats, err := p.counters(ctx)
	if err != nil {
		return fmt.Errorf("disk io counters: %w", err)
	}
	var read, write uint64
	for _, s := range stats {
		read += s.ReadBytes
		write += s.WriteBytes
	}
	if p.primed {
		p.Slot.Store(DiskIO{
			Read:  delta(read, p.lastRead) / 1024,
			Write: delta(write, p.lastWrite) / 1024,
		})
	}
	p.primed, p.lastRead, p.lastWrite = true, read, write
	return nil
}

// NetworkProbe samples upload and download speed.
type NetworkProbe struct {
	Slot     Slot[Network]
	every    time.Duration
	counters func(ctx context.Context, pernic bool) ([]net.IOCountersStat, error)
	now      func() time.Time

	primed             bool
	lastAt             time.Time
	lastSent, lastRecv uint64
}

// NewNetworkProbe creates a network probe.
func NewNetworkProbe(every time.Duration) *NetworkProbe {
	return &NetworkProbe{every: every, counters: net.IOCountersWithContext, now: time.Now}
}

func (p *NetworkProbe) Name() string            { return "network" }
func (p *NetworkProbe) Interval() time.Duration { return p.every }

// Sample publishes bytes/s since the previous call.
// The first call only primes the counters.
func (p *NetworkProbe) Sample(ctx context.Context) error {
	stats, err := p.counters(ctx, false)
	if err != nil {
		return fmt.Errorf("net io counters: %w", err)
	}
	if len(stats) == 0 {
		return fmt.Errorf("net io counters: no interfaces")
	}
	now := p.now()
	sent, recv := stats[0].BytesSent, stats[0].BytesRecv
	if p.primed {
		if secs := now.Sub(p.lastAt).Seconds(); secs > 0 {
			p.Slot.Store(Network{
				Sent: float64(delta(sent, p.lastSent)) / secs,
				Recv: float64(delta(recv, p.lastRecv)) / secs,
			})
		}
	}
	p.primed, p.lastAt, p.lastSent, p.lastRecv = true, now, sent, recv
	return nil
}

// DaylightProbe estimates ambient brightness from the local time of day in
// place of a screen brightness reading.
type DaylightProbe struct {
	Slot  Slot[float64]
	every time.Duration
	now   func() time.Time
}

// NewDaylightProbe creates a daylight probe.
func NewDaylightProbe(every time.Duration) *DaylightProbe {
	return &DaylightProbe{every: every, now: time.Now}
}

func (p *DaylightProbe) Name() string            { return "light" }
func (p *DaylightProbe) Interval() time.Duration { return p.every }

// Sample publishes the brightness for the current time.
func (p *DaylightProbe) Sample(context.Context) error {
	p.Slot.Store(Daylight(p.now()))
	return nil
}

// Night is the brightness outside daylight hours.
const Night = 0.1

// Daylight returns brightness in [Night, 1]: dark until 05:00, brightening
// until 08:00, full until 17:00, dimming until 20:00.
func Daylight(t time.Time) float64 {
	h := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	var b float64
	switch {
	case h < 5 || h >= 20:
		b = 0
	case h < 8:
		b = (h - 5) / 3
	case h < 17:
		b = 1
	default:
		b = (20 - h) / 3
	}
	// Smooth the ramps
	b = 0.5 - 0.5*math.Cos(b*math.Pi)
	return Night + (1-Night)*b
}

// fraction converts a percentage into a clamped 0..1 fraction.
func fraction(pct float64) float64 {
	f := pct / 100
	switch {
	case f != f || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// delta returns cur-prev, or 0 when a counter wrapped or reset.
func delta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
