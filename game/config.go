package game

import (
	"runtime"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/telemetry"
)

// Options holds configuration for ecosystem initialization.
type Options struct {
	Config   *config.Config  // nil = config.Cfg()
	Settings config.Settings // zero value = config.DefaultSettings()
	Seed     int64
	Cores    int // cells to create (0 = runtime.NumCPU())

	// Telemetry. All optional.
	Perf           *telemetry.PerfCollector
	LogStats       bool
	StatsWindowSec float64 // 0 = config telemetry.stats_window
	OutputDir      string
	SnapshotDir    string
	StatsCallback  func(telemetry.WindowStats)
}

// withDefaults fills unset options.
func (o Options) withDefaults() Options {
	if o.Config == nil {
		o.Config = config.Cfg()
	}
	if o.Settings == (config.Settings{}) {
		o.Settings = config.DefaultSettings()
	}
	if o.Cores <= 0 {
		o.Cores = runtime.NumCPU()
	}
	if o.StatsWindowSec <= 0 {
		o.StatsWindowSec = o.Config.Telemetry.StatsWindow
	}
	return o
}
