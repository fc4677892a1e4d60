package game

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/sysinfo"
	"github.com/pthm-cable/cybertank/systems"
	"github.com/pthm-cable/cybertank/telemetry"
)

func newTestEcosystem(t *testing.T, mutate func(*Options)) *Ecosystem {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	opts := Options{Config: cfg, Seed: 42, Cores: 4}
	if mutate != nil {
		mutate(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNewPopulatesTank(t *testing.T) {
	e := newTestEcosystem(t, nil)
	s := e.Snapshot()

	assert.Equal(t, 0, s.Tick)
	assert.Len(t, s.Cells, 4)
	assert.Len(t, s.Plant, 2)
	assert.Empty(t, s.Food)
	assert.Equal(t, systems.FishIdle, s.Fish.State)
	assert.Equal(t, 300, s.Tank.Width)
	assert.Equal(t, int64(42), e.Seed())

	cores := make([]int, 0, len(s.Cells))
	for _, c := range s.Cells {
		cores = append(cores, c.Core)
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, cores)
}

func TestTickAdvancesCount(t *testing.T) {
	e := newTestEcosystem(t, nil)
	for range 10 {
		e.Tick(sysinfo.Snapshot{})
	}
	assert.Equal(t, 10, e.TickCount())
	assert.Equal(t, 10, e.Tank().Time())
}

func TestQueuedFoodDropsOnNextTick(t *testing.T) {
	e := newTestEcosystem(t, nil)

	e.AddFood(120)
	assert.Empty(t, e.Snapshot().Food, "food must not appear before the tick drains the queue")

	e.Tick(sysinfo.Snapshot{})
	food := e.Snapshot().Food
	require.Len(t, food, 1)
	assert.Equal(t, 120.0, food[0].Pos.X)
}

func TestConcurrentAddFood(t *testing.T) {
	e := newTestEcosystem(t, nil)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				e.AddFood(150)
			}
		}()
	}
	for range 20 {
		e.Tick(sysinfo.Snapshot{})
	}
	wg.Wait()
	e.Tick(sysinfo.Snapshot{})

	// Every queued pellet is either still in the tank or in the fish
	assert.Equal(t, writers*perWriter, len(e.Snapshot().Food)+e.Fish().Eaten())
}

func TestFeedAt(t *testing.T) {
	e := newTestEcosystem(t, nil)
	rng := rand.New(rand.NewSource(1))

	s := e.Settings()
	s.FeedProbability = 1
	e.SetSettings(s)

	assert.True(t, e.FeedAt(100, rng))
	assert.False(t, e.FeedAt(0, rng), "left edge is outside the tank")
	assert.False(t, e.FeedAt(300, rng), "right edge is outside the tank")
	assert.False(t, e.FeedAt(-5, rng))

	s.FeedProbability = 0
	e.SetSettings(s)
	for range 100 {
		assert.False(t, e.FeedAt(100, rng))
	}

	e.Tick(sysinfo.Snapshot{})
	assert.Len(t, e.Snapshot().Food, 1)
}

func TestFoodEnv(t *testing.T) {
	e := newTestEcosystem(t, nil)

	assert.False(t, e.IsFoodInWater())
	_, ok := e.TakeFoodInWater()
	assert.False(t, ok)

	// Without a memory sample the water line stays at the top
	e.AddFood(80)
	e.Tick(sysinfo.Snapshot{})
	require.True(t, e.IsFoodInWater())

	f, ok := e.TakeFoodInWater()
	require.True(t, ok)
	pos, ok := e.FoodPosition(f)
	require.True(t, ok)
	assert.Equal(t, 80.0, pos.X)

	assert.Equal(t, e.cfg.Food.Carbon, e.ConsumeFood(f))
	assert.Zero(t, e.ConsumeFood(f), "a consumed pellet yields nothing")
	_, ok = e.FoodPosition(f)
	assert.False(t, ok)
}

func TestSnapshotIsIndependent(t *testing.T) {
	e := newTestEcosystem(t, nil)
	e.AddFood(60)
	e.Tick(sysinfo.Snapshot{})

	s := e.Snapshot()
	require.NotEmpty(t, s.Cells)
	require.NotEmpty(t, s.Plant)
	require.NotEmpty(t, s.Food)
	s.Cells[0].Pos.X = -1000
	s.Plant[0].Body.Pos.X = -1000
	s.Food[0].Pos.X = -1000

	again := e.Snapshot()
	assert.NotEqual(t, -1000.0, again.Cells[0].Pos.X)
	assert.NotEqual(t, -1000.0, again.Plant[0].Body.Pos.X)
	assert.NotEqual(t, -1000.0, again.Food[0].Pos.X)
}

func TestSnapshotGasBalance(t *testing.T) {
	tests := []struct {
		name   string
		oxygen float64
		co2    float64
		want   float64
	}{
		{"empty", 0, 0, 0},
		{"even", 500, 500, 0},
		{"all oxygen", 800, 0, 1},
		{"all co2", 0, 800, -1},
		{"oxygen rich", 750, 250, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{Oxygen: tt.oxygen, CO2: tt.co2}
			assert.InDelta(t, tt.want, s.GasBalance(), 1e-9)
		})
	}
}

func TestMissingSignalsHoldLastValue(t *testing.T) {
	e := newTestEcosystem(t, nil)
	h := float64(e.Tank().Height())

	e.Tick(sysinfo.Snapshot{
		Memory:    sysinfo.Memory{PhysicalUsed: 0.25},
		HasMemory: true,
		Light:     0.4,
		HasLight:  true,
	})
	want := e.Tank().Targets()
	assert.InDelta(t, h*0.25, want[systems.DivWater], 1e-9)

	for range 5 {
		e.Tick(sysinfo.Snapshot{})
	}
	assert.Equal(t, want, e.Tank().Targets())
	assert.True(t, e.signals.HasMemory)
	assert.Equal(t, 0.4, e.signals.Light)
}

func TestMergeSignals(t *testing.T) {
	prev := sysinfo.Snapshot{
		CPU:          []float64{0.1},
		HasCPU:       true,
		DiskUsage:    0.5,
		HasDiskUsage: true,
	}
	cur := sysinfo.Snapshot{
		Network:    sysinfo.Network{Sent: 10, Recv: 20},
		HasNetwork: true,
	}

	got := mergeSignals(prev, cur)
	assert.Equal(t, []float64{0.1}, got.CPU)
	assert.Equal(t, 0.5, got.DiskUsage)
	assert.True(t, got.HasNetwork)
	assert.Equal(t, 20.0, got.Network.Recv)
	assert.False(t, got.HasMemory)
}

func TestSetSettingsNormalizes(t *testing.T) {
	e := newTestEcosystem(t, nil)

	s := e.Settings()
	s.FeedProbability = 3
	s.SandRatio = -1
	s.SandFixed = true
	e.SetSettings(s)

	got := e.Settings()
	assert.Equal(t, 1.0, got.FeedProbability)
	assert.Equal(t, 0.0, got.SandRatio)

	// A pinned ratio of 0 puts the sand surface on the floor
	e.Tick(sysinfo.Snapshot{Memory: sysinfo.Memory{PhysicalUsed: 0.5}, HasMemory: true})
	assert.Equal(t, float64(e.Tank().Height()), e.Tank().Targets()[systems.DivSand])
}

func TestStatsCallbackFiresPerWindow(t *testing.T) {
	var windows []telemetry.WindowStats
	e := newTestEcosystem(t, func(o *Options) {
		o.StatsWindowSec = 1
		o.StatsCallback = func(s telemetry.WindowStats) { windows = append(windows, s) }
	})

	n := e.collector.WindowDurationTicks()
	for range 2 * n {
		e.Tick(sysinfo.Static{CPU: []float64{0.5, 0.5, 0.5, 0.5}, HasCPU: true}.Snapshot())
	}

	require.Len(t, windows, 2)
	assert.Equal(t, n, windows[0].WindowEndTick)
	assert.Equal(t, 2*n, windows[1].WindowEndTick)
	assert.GreaterOrEqual(t, windows[0].PlantNodes, 2)
}

func TestPerfPhasesRecorded(t *testing.T) {
	perf := telemetry.NewPerfCollector(10)
	e := newTestEcosystem(t, func(o *Options) { o.Perf = perf })

	for range 20 {
		e.Tick(sysinfo.Snapshot{})
	}

	stats := perf.Stats()
	for _, phase := range telemetry.Phases {
		assert.Contains(t, stats.PhaseAvg, phase)
	}
}

func TestOutputDirWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := newTestEcosystem(t, func(o *Options) {
		o.OutputDir = dir
		o.StatsWindowSec = 1
		o.Perf = telemetry.NewPerfCollector(10)
	})

	for range e.collector.WindowDurationTicks() {
		e.Tick(sysinfo.Snapshot{})
	}
	require.NoError(t, e.Close())

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "events.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "header plus one window")
}

func TestCreateSnapshot(t *testing.T) {
	e := newTestEcosystem(t, nil)
	e.AddFood(50)
	e.Tick(sysinfo.Snapshot{})

	bm := &telemetry.Bookmark{Type: telemetry.BookmarkPlantGrowth, Tick: 1}
	snap := e.createSnapshot(bm)

	assert.Equal(t, telemetry.SnapshotVersion, snap.Version)
	assert.Equal(t, int64(42), snap.RNGSeed)
	assert.Equal(t, 1, snap.Tick)
	assert.Len(t, snap.Cells, 4)
	assert.Len(t, snap.Plant, 2)
	assert.Len(t, snap.Food, 1)
	assert.NotEmpty(t, snap.Fish.State)
	assert.Same(t, bm, snap.Bookmark)

	path, err := telemetry.SaveSnapshot(snap, t.TempDir())
	require.NoError(t, err)
	loaded, err := telemetry.LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Tick, loaded.Tick)
	assert.Len(t, loaded.Food, 1)
}
