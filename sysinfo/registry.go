package sysinfo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/cybertank/config"
)

// Registry is the fixed set of host probes. Each probe runs on its own
// goroutine and cadence; Snapshot reads whatever each last produced.
type Registry struct {
	CPU       *CPUProbe
	Memory    *MemoryProbe
	DiskUsage *DiskUsageProbe
	DiskIO    *DiskIOProbe
	Network   *NetworkProbe
	Light     *DaylightProbe

	wg sync.WaitGroup
}

// NewRegistry creates the probes with intervals from cfg.
func NewRegistry(cfg config.ProbesConfig) *Registry {
	path := cfg.DiskPath
	if path == "" {
		path = "/"
	}
	return &Registry{
		CPU:       NewCPUProbe(config.Seconds(cfg.CPUInterval)),
		Memory:    NewMemoryProbe(config.Seconds(cfg.MemoryInterval)),
		DiskUsage: NewDiskUsageProbe(config.Seconds(cfg.DiskUsageInterval), path),
		DiskIO:    NewDiskIOProbe(config.Seconds(cfg.DiskIOInterval)),
		Network:   NewNetworkProbe(config.Seconds(cfg.NetworkInterval)),
		Light:     NewDaylightProbe(config.Seconds(cfg.LightInterval)),
	}
}

// Probes returns every probe in a fixed order.
func (r *Registry) Probes() []Probe {
	return []Probe{r.CPU, r.Memory, r.DiskUsage, r.DiskIO, r.Network, r.Light}
}

// Start launches one sampling goroutine per probe. They stop when ctx is
// cancelled; Wait blocks until they have all returned.
func (r *Registry) Start(ctx context.Context) {
	for _, p := range r.Probes() {
		r.wg.Add(1)
		go func(p Probe) {
			defer r.wg.Done()
			run(ctx, p)
		}(p)
	}
	slog.Info("telemetry probes started", "count", len(r.Probes()))
}

// Wait blocks until every probe goroutine has exited.
func (r *Registry) Wait() {
	r.wg.Wait()
}

func run(ctx context.Context, p Probe) {
	sample := func() {
		if err := p.Sample(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("probe sample failed, keeping last value", "probe", p.Name(), "error", err)
		}
	}

	sample()
	every := p.Interval()
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample()
		}
	}
}

// Snapshot implements Source.
func (r *Registry) Snapshot() Snapshot {
	var s Snapshot
	s.CPU, s.HasCPU = r.CPU.Slot.Load()
	s.Memory, s.HasMemory = r.Memory.Slot.Load()
	s.DiskUsage, s.HasDiskUsage = r.DiskUsage.Slot.Load()
	s.DiskIO, s.HasDiskIO = r.DiskIO.Slot.Load()
	s.Network, s.HasNetwork = r.Network.Slot.Load()
	s.Light, s.HasLight = r.Light.Slot.Load()
	return s
}
