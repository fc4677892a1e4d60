// Package config provides configuration loading and access for the tank.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tank      TankConfig      `yaml:"tank"`
	Gas       GasConfig       `yaml:"gas"`
	Cell      CellConfig      `yaml:"cell"`
	Plant     PlantConfig     `yaml:"plant"`
	Bubble    BubbleConfig    `yaml:"bubble"`
	Food      FoodConfig      `yaml:"food"`
	Fish      FishConfig      `yaml:"fish"`
	Probes    ProbesConfig    `yaml:"probes"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Events    EventsConfig    `yaml:"events"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
// Width and Height describe the host display; the tank keeps its aspect ratio.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	Scale     int `yaml:"scale"` // Window pixels per tank pixel
}

// TankConfig holds tank geometry and boundary smoothing.
type TankConfig struct {
	Width  int     `yaml:"width"`  // Tank width in tank units
	Height int     `yaml:"height"` // Tank height (0 = derive from screen aspect)
	Alpha  float64 `yaml:"alpha"`  // Exponential smoothing step towards targets
}

// GasConfig holds the dissolved gas reservoir parameters.
type GasConfig struct {
	InitialOxygen        float64 `yaml:"initial_oxygen"`
	InitialCarbonDioxide float64 `yaml:"initial_carbon_dioxide"`
	EnergyYield          float64 `yaml:"energy_yield"` // Energy per unit of oxygen respired
}

// CellConfig holds per-core cell parameters.
type CellConfig struct {
	Radius        float64 `yaml:"radius"`
	InitialSpeed  float64 `yaml:"initial_speed"`
	SpeedGain     float64 `yaml:"speed_gain"`      // Position step multiplier is 1 + activity*gain
	UpwardTurnDeg float64 `yaml:"upward_turn_deg"` // Max rotation towards up per tick at full activity
	FixedCarbon   float64 `yaml:"fixed_carbon"`
	CarbonMax     float64 `yaml:"carbon_max"`
	EnergyMax     float64 `yaml:"energy_max"`
	BaseOxygen    float64 `yaml:"base_oxygen"` // Oxygen demand at zero activity
	CarbonDemand  float64 `yaml:"carbon_demand"`
}

// PlantConfig holds the plant chain parameters.
type PlantConfig struct {
	InitialNodes int     `yaml:"initial_nodes"`
	PullRadius   float64 `yaml:"pull_radius"`
	RepelRadius  float64 `yaml:"repel_radius"`
	SnapSpeed    float64 `yaml:"snap_speed"` // Fixed speed when pulled or pushed
	SwayAccel    float64 `yaml:"sway_accel"` // Acceleration inside the comfort band
	SwayAngleDeg float64 `yaml:"sway_angle_deg"`
	Buoyancy     float64 `yaml:"buoyancy"`
	MaxSpeed     float64 `yaml:"max_speed"`
	InitialSpeed float64 `yaml:"initial_speed"`
	GrowthPeriod float64 `yaml:"growth_period"` // Expected ticks between new nodes
	SpawnOffset  float64 `yaml:"spawn_offset"`
	NodeRadius   float64 `yaml:"node_radius"`
	FixedCarbon  float64 `yaml:"fixed_carbon"`
	CarbonMax    float64 `yaml:"carbon_max"`
	EnergyMax    float64 `yaml:"energy_max"`
	OxygenDemand float64 `yaml:"oxygen_demand"`
	CarbonDemand float64 `yaml:"carbon_demand"`
}

// BubbleConfig holds bubble and bubble flow parameters.
type BubbleConfig struct {
	Buoyancy      float64 `yaml:"buoyancy"`
	RadiusMin     float64 `yaml:"radius_min"`
	RadiusMax     float64 `yaml:"radius_max"`
	Jitter        float64 `yaml:"jitter"`
	OxygenRelease float64 `yaml:"oxygen_release"`
	CarbonRelease float64 `yaml:"carbon_release"`
}

// FoodConfig holds food pellet parameters.
type FoodConfig struct {
	SinkDelay     int     `yaml:"sink_delay"`
	Carbon        float64 `yaml:"carbon"`
	DecomposeRate float64 `yaml:"decompose_rate"`
	FallSpeed     float64 `yaml:"fall_speed"`  // Speed above the water line
	FloatSpeed    float64 `yaml:"float_speed"` // Upward drift while floating
	SinkSpeed     float64 `yaml:"sink_speed"`
	Radius        float64 `yaml:"radius"`
}

// FishStateConfig holds the tunables a fish state handler installs each tick.
type FishStateConfig struct {
	Speed             float64 `yaml:"speed"`
	AnimationInterval int     `yaml:"animation_interval"`
	EnergyCost        float64 `yaml:"energy_cost"`
	OxygenDemand      float64 `yaml:"oxygen_demand"`
}

// FishConfig holds fish physiology and behaviour parameters.
type FishConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	EnergyMax      float64 `yaml:"energy_max"`
	OxygenMax      float64 `yaml:"oxygen_max"`
	CarbonMax      float64 `yaml:"carbon_max"`
	InitialCarbon  float64 `yaml:"initial_carbon"`
	Efficiency     float64 `yaml:"efficiency"` // Fraction of respiration yield turned into fish energy
	HungryCarbon   float64 `yaml:"hungry_carbon"`
	LowOxygenRate  float64 `yaml:"low_oxygen_rate"`
	LowEnergyRate  float64 `yaml:"low_energy_rate"`
	WakeEnergyRate float64 `yaml:"wake_energy_rate"`
	SurfaceRefill  float64 `yaml:"surface_refill"`
	SleepRegen     float64 `yaml:"sleep_regen"`
	VerticalSpeed  float64 `yaml:"vertical_speed"`
	SurfaceMargin  float64 `yaml:"surface_margin"`
	ArriveDistance float64 `yaml:"arrive_distance"`
	WaypointMargin float64 `yaml:"waypoint_margin"`
	Frames         int     `yaml:"frames"`

	Idle     FishStateConfig `yaml:"idle"`
	Surface  FishStateConfig `yaml:"surface"`
	Sleep    FishStateConfig `yaml:"sleep"`
	FindFood FishStateConfig `yaml:"find_food"`
	Dead     FishStateConfig `yaml:"dead"`

	CorpseBuoyancy float64 `yaml:"corpse_buoyancy"`
	CorpseGravity  float64 `yaml:"corpse_gravity"`
	CorpseMaxSpeed float64 `yaml:"corpse_max_speed"`
}

// ProbesConfig holds host telemetry sampling intervals in seconds.
type ProbesConfig struct {
	CPUInterval       float64 `yaml:"cpu_interval"`
	MemoryInterval    float64 `yaml:"memory_interval"`
	DiskUsageInterval float64 `yaml:"disk_usage_interval"`
	DiskIOInterval    float64 `yaml:"disk_io_interval"`
	NetworkInterval   float64 `yaml:"network_interval"`
	LightInterval     float64 `yaml:"light_interval"`
	DiskPath          string  `yaml:"disk_path"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	EventHistorySize    int     `yaml:"event_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// EventsConfig holds notable-moment detection thresholds.
type EventsConfig struct {
	OxygenCrashDrop  float64 `yaml:"oxygen_crash_drop"` // Fractional O2 drop between windows
	OxygenCrashMin   float64 `yaml:"oxygen_crash_min"`  // Ignore crashes from tiny pools
	BalanceCV        float64 `yaml:"balance_cv"`        // Max coefficient of variation of O2
	BalanceWindows   int     `yaml:"balance_windows"`   // Consecutive balanced windows
	SurfacingWindows int     `yaml:"surfacing_windows"` // Consecutive windows with surfacing
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TankWidth    int     // Effective tank width
	TankHeight   int     // Effective tank height
	GrowthChance float64 // Per-tick probability of a new plant node
	DT           float64 // Seconds per tick
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Tank.Width <= 0 {
		return fmt.Errorf("tank.width must be positive, got %d", c.Tank.Width)
	}
	if c.Tank.Alpha <= 0 || c.Tank.Alpha > 1 {
		return fmt.Errorf("tank.alpha must be in (0, 1], got %v", c.Tank.Alpha)
	}
	if c.Plant.RepelRadius >= c.Plant.PullRadius {
		return fmt.Errorf("plant.repel_radius (%v) must be below plant.pull_radius (%v)",
			c.Plant.RepelRadius, c.Plant.PullRadius)
	}
	if c.Fish.EnergyMax <= 0 || c.Fish.OxygenMax <= 0 || c.Fish.CarbonMax <= 0 {
		return fmt.Errorf("fish gauge capacities must be positive")
	}
	if c.Fish.Frames <= 0 {
		return fmt.Errorf("fish.frames must be positive, got %d", c.Fish.Frames)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TankWidth = c.Tank.Width

	// Tank height follows the host display aspect unless pinned
	h := c.Tank.Height
	if h == 0 && c.Screen.Width > 0 {
		h = c.Tank.Width * c.Screen.Height / c.Screen.Width
	}
	if h <= 0 {
		h = c.Tank.Width
	}
	c.Derived.TankHeight = h

	if c.Plant.GrowthPeriod > 0 {
		c.Derived.GrowthChance = 1 / c.Plant.GrowthPeriod
	}

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = 1 / float64(fps)
}

// Seconds converts a float seconds config value into a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
