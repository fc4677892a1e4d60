package sysinfo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cybertank/config"
)

func TestSlotLastValueWins(t *testing.T) {
	var s Slot[int]
	_, ok := s.Load()
	assert.False(t, ok)

	s.Store(1)
	s.Store(2)
	v, ok := s.Load()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSlotConcurrentReaders(t *testing.T) {
	var s Slot[Memory]
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.Store(Memory{PhysicalUsed: float64(j) / 1000})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if m, ok := s.Load(); ok {
					assert.LessOrEqual(t, m.PhysicalUsed, 1.0)
				}
			}
		}()
	}
	wg.Wait()
}

func TestFractionClamps(t *testing.T) {
	assert.Equal(t, 0.5, fraction(50))
	assert.Equal(t, 1.0, fraction(130))
	assert.Equal(t, 0.0, fraction(-4))
	nan := 0.0
	assert.Equal(t, 0.0, fraction(nan/nan))
}

func TestPhysicalShare(t *testing.T) {
	assert.Equal(t, 1.0, Memory{}.PhysicalShare())
	assert.Equal(t, 1.0, Memory{PhysicalTotal: 8}.PhysicalShare())
	assert.Equal(t, 0.8, Memory{PhysicalTotal: 8, SwapTotal: 2}.PhysicalShare())
}

func TestCPUProbeConvertsPercent(t *testing.T) {
	p := NewCPUProbe(time.Second)
	p.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{0, 50, 100}, nil
	}
	require.NoError(t, p.Sample(context.Background()))
	loads, ok := p.Slot.Load()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0.5, 1}, loads)
}

func TestProbeErrorKeepsLastValue(t *testing.T) {
	p := NewCPUProbe(time.Second)
	p.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{25}, nil
	}
	require.NoError(t, p.Sample(context.Background()))

	p.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return nil, errors.New("permission denied")
	}
	assert.Error(t, p.Sample(context.Background()))

	loads, ok := p.Slot.Load()
	require.True(t, ok)
	assert.Equal(t, []float64{0.25}, loads)
}

func TestMemoryProbeToleratesMissingSwap(t *testing.T) {
	p := NewMemoryProbe(time.Second)
	p.virtual = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 1000, UsedPercent: 40}, nil
	}
	p.swap = func(context.Context) (*mem.SwapMemoryStat, error) {
		return nil, errors.New("no swap")
	}

	require.NoError(t, p.Sample(context.Background()))
	m, _ := p.Slot.Load()
	assert.Equal(t, Memory{PhysicalUsed: 0.4, PhysicalTotal: 1000}, m)
	assert.Equal(t, 1.0, m.PhysicalShare())
}

func TestDiskUsageProbe(t *testing.T) {
	p := NewDiskUsageProbe(time.Second, "/data")
	p.usage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		assert.Equal(t, "/data", path)
		return &disk.UsageStat{UsedPercent: 75}, nil
	}
	require.NoError(t, p.Sample(context.Background()))
	u, _ := p.Slot.Load()
	assert.Equal(t, 0.75, u)
}

func TestDiskIOProbeReportsDeltas(t *testing.T) {
	p := NewDiskIOProbe(time.Second)
	read, write := uint64(0), uint64(0)
	p.counters = func(context.Context, ...string) (map[string]disk.IOCountersStat, error) {
		return map[string]disk.IOCountersStat{
			"sda": {ReadBytes: read, WriteBytes: write},
			"sdb": {ReadBytes: read, WriteBytes: 0},
		}, nil
	}
	ctx := context.Background()

	read, write = 10<<10, 1<<20
	require.NoError(t, p.Sample(ctx))
	_, ok := p.Slot.Load()
	assert.False(t, ok, "first sample only primes")

	read, write = 15<<10, 1<<20+4096
	require.NoError(t, p.Sample(ctx))
	io, ok := p.Slot.Load()
	require.True(t, ok)
	assert.Equal(t, DiskIO{Read: 10, Write: 4}, io)

	// Counter reset
	read, write = 0, 0
	require.NoError(t, p.Sample(ctx))
	io, _ = p.Slot.Load()
	assert.Equal(t, DiskIO{}, io)
}

func TestNetworkProbeReportsRates(t *testing.T) {
	p := NewNetworkProbe(time.Second)
	clock := time.Unix(1000, 0)
	sent, recv := uint64(0), uint64(0)
	p.now = func() time.Time { return clock }
	p.counters = func(context.Context, bool) ([]net.IOCountersStat, error) {
		return []net.IOCountersStat{{Name: "all", BytesSent: sent, BytesRecv: recv}}, nil
	}
	ctx := context.Background()

	require.NoError(t, p.Sample(ctx))
	clock = clock.Add(2 * time.Second)
	sent, recv = 2000, 10000
	require.NoError(t, p.Sample(ctx))

	n, ok := p.Slot.Load()
	require.True(t, ok)
	assert.Equal(t, Network{Sent: 1000, Recv: 5000}, n)
}

func TestNetworkProbeNoInterfaces(t *testing.T) {
	p := NewNetworkProbe(time.Second)
	p.counters = func(context.Context, bool) ([]net.IOCountersStat, error) { return nil, nil }
	assert.Error(t, p.Sample(context.Background()))
}

func TestDaylight(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 6, 1, h, m, 0, 0, time.Local) }

	assert.Equal(t, Night, Daylight(at(2, 0)))
	assert.Equal(t, Night, Daylight(at(23, 30)))
	assert.InDelta(t, 1.0, Daylight(at(12, 0)), 1e-12)
	assert.InDelta(t, Night+(1-Night)/2, Daylight(at(6, 30)), 1e-9)

	prev := Daylight(at(5, 0))
	for m := 5; m < 8*60; m += 5 {
		cur := Daylight(at(m/60, m%60))
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestRegistrySnapshotBeforeSamples(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	r := NewRegistry(cfg.Probes)

	s := r.Snapshot()
	assert.False(t, s.HasCPU)
	assert.False(t, s.HasMemory)
	assert.False(t, s.HasLight)
	assert.Len(t, r.Probes(), 6)
	assert.Equal(t, 100*time.Millisecond, r.CPU.Interval())
	assert.Equal(t, 400*time.Millisecond, r.DiskIO.Interval())
}

func TestRegistryStartAndStop(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	r := NewRegistry(cfg.Probes)
	r.CPU.percent = func(context.Context, time.Duration, bool) ([]float64, error) {
		return []float64{10, 20}, nil
	}
	r.Memory.virtual = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 100, UsedPercent: 60}, nil
	}
	r.Memory.swap = func(context.Context) (*mem.SwapMemoryStat, error) {
		return &mem.SwapMemoryStat{Total: 100, UsedPercent: 10}, nil
	}
	r.DiskUsage.usage = func(context.Context, string) (*disk.UsageStat, error) {
		return nil, errors.New("unavailable")
	}
	r.DiskIO.counters = func(context.Context, ...string) (map[string]disk.IOCountersStat, error) {
		return nil, nil
	}
	r.Network.counters = func(context.Context, bool) ([]net.IOCountersStat, error) {
		return []net.IOCountersStat{{}}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	assert.Eventually(t, func() bool {
		s := r.Snapshot()
		return s.HasCPU && s.HasMemory && s.HasLight
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	r.Wait()

	s := r.Snapshot()
	assert.Equal(t, []float64{0.1, 0.2}, s.CPU)
	assert.Equal(t, 0.5, s.Memory.PhysicalShare())
	assert.False(t, s.HasDiskUsage, "failing probe never publishes")
}

func TestStaticCopiesCPU(t *testing.T) {
	src := Static{CPU: []float64{0.5}, HasCPU: true}
	s := src.Snapshot()
	s.CPU[0] = 1
	assert.Equal(t, 0.5, src.Snapshot().CPU[0])
}

func TestSyntheticIsDeterministicAndBounded(t *testing.T) {
	a, b := NewSynthetic(4), NewSynthetic(4)
	for i := 0; i < 5000; i++ {
		sa, sb := a.Snapshot(), b.Snapshot()
		require.Equal(t, sa, sb)
		require.Len(t, sa.CPU, 4)
		for _, c := range sa.CPU {
			require.GreaterOrEqual(t, c, 0.0)
			require.LessOrEqual(t, c, 1.0)
		}
		require.GreaterOrEqual(t, sa.Light, 0.1-1e-9)
		require.LessOrEqual(t, sa.Light, 1.0+1e-9)
	}
}
