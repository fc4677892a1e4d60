package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/sysinfo"
	"github.com/pthm-cable/cybertank/systems"
	"github.com/pthm-cable/cybertank/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	settingsPath := flag.String("settings", "", "Path to settings.yaml (empty = per-user config dir)")
	headless := flag.Bool("headless", false, "Run without graphics")
	synthetic := flag.Bool("synthetic", false, "Drive the tank from generated telemetry instead of the host")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *settingsPath == "" {
		*settingsPath = config.DefaultSettingsPath()
	}
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		slog.Warn("using default settings", "path", *settingsPath, "error", err)
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Telemetry source
	var source sysinfo.Source
	sourceName := "host"
	if *synthetic {
		source = sysinfo.NewSynthetic(0)
		sourceName = "synthetic"
	} else {
		reg := sysinfo.NewRegistry(cfg.Probes)
		reg.Start(ctx)
		defer func() {
			stop()
			reg.Wait()
		}()
		source = reg
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	eco, err := game.New(game.Options{
		Config:         cfg,
		Settings:       settings,
		Seed:           rngSeed,
		Perf:           perf,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create ecosystem", "error", err)
		os.Exit(1)
	}
	defer eco.Close()

	if *headless {
		// Host telemetry only changes in real time, so pace the ticks
		runHeadless(ctx, eco, source, *maxTicks, !*synthetic)
		return
	}

	a := newApp(cfg, eco, source, sourceName, perf, *settingsPath, rngSeed)
	a.run(ctx, *maxTicks)
}

// runHeadless ticks until ctx is cancelled or maxTicks is reached, logging
// the world state once per simulated second. Unless realtime is set it
// runs as fast as possible.
func runHeadless(ctx context.Context, eco *game.Ecosystem, source sysinfo.Source, maxTicks int, realtime bool) {
	cfg := config.Cfg()
	reg := systems.NewSystemRegistry()
	logEvery := max(cfg.Screen.TargetFPS, 1)

	slog.Info("starting headless simulation",
		"seed", eco.Seed(),
		"max_ticks", maxTicks,
		"realtime", realtime,
	)

	var pace <-chan time.Time
	if realtime {
		ticker := time.NewTicker(time.Second / time.Duration(logEvery))
		defer ticker.Stop()
		pace = ticker.C
	}

	for ctx.Err() == nil {
		if pace != nil {
			select {
			case <-ctx.Done():
				continue
			case <-pace:
			}
		}
		eco.Tick(source.Snapshot())

		tick := eco.TickCount()
		if tick%logEvery == 0 {
			eco.LogWorldState()
		}
		if tick%(logEvery*60) == 0 {
			eco.LogPerfStats(reg)
		}

		if maxTicks > 0 && tick >= maxTicks {
			slog.Info("max ticks reached", "tick", tick)
			return
		}
	}
	slog.Info("interrupted", "tick", eco.TickCount())
}
