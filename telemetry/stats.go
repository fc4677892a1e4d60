package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Gas pool over the window
	OxygenMean float64 `csv:"oxygen_mean"`
	OxygenStd  float64 `csv:"oxygen_std"`
	OxygenMin  float64 `csv:"oxygen_min"`
	OxygenMax  float64 `csv:"oxygen_max"`
	CO2Mean    float64 `csv:"co2_mean"`
	GasTotal   float64 `csv:"gas_total"` // at window end

	// Cell activity across all cores and ticks
	ActivityMean float64 `csv:"activity_mean"`
	ActivityStd  float64 `csv:"activity_std"`
	ActivityP10  float64 `csv:"activity_p10"`
	ActivityP50  float64 `csv:"activity_p50"`
	ActivityP90  float64 `csv:"activity_p90"`

	// Fish
	FishState      string  `csv:"fish_state"` // at window end
	FishEnergyMean float64 `csv:"fish_energy_mean"`
	FishOxygenMean float64 `csv:"fish_oxygen_mean"`
	FishCarbonMean float64 `csv:"fish_carbon_mean"`
	StateChanges   int     `csv:"state_changes"`
	Surfacings     int     `csv:"surfacings"`
	Sleeps         int     `csv:"sleeps"`
	FishDeaths     int     `csv:"fish_deaths"`

	// Food
	FoodDropped int     `csv:"food_dropped"`
	FoodEaten   int     `csv:"food_eaten"`
	CarbonEaten float64 `csv:"carbon_eaten"`
	FoodCount   int     `csv:"food"` // at window end

	// Plant and bubbles at window end
	PlantNodes   int `csv:"plant_nodes"`
	PlantGrowths int `csv:"plant_growths"`
	Bubbles      int `csv:"bubbles"`

	// Tank layout at window end
	WaterLine   float64 `csv:"water_line"`
	SandSurface float64 `csv:"sand_surface"`
	Light       float64 `csv:"light"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes the population mean, standard deviation and linearly
// interpolated percentiles of values. An empty sample summarizes to zero.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("oxygen_mean", s.OxygenMean),
		slog.Float64("oxygen_min", s.OxygenMin),
		slog.Float64("oxygen_max", s.OxygenMax),
		slog.Float64("co2_mean", s.CO2Mean),
		slog.Float64("gas_total", s.GasTotal),
		slog.Float64("activity_mean", s.ActivityMean),
		slog.Float64("activity_p90", s.ActivityP90),
		slog.String("fish_state", s.FishState),
		slog.Float64("fish_energy_mean", s.FishEnergyMean),
		slog.Float64("fish_oxygen_mean", s.FishOxygenMean),
		slog.Float64("fish_carbon_mean", s.FishCarbonMean),
		slog.Int("state_changes", s.StateChanges),
		slog.Int("fish_deaths", s.FishDeaths),
		slog.Int("food_dropped", s.FoodDropped),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("food", s.FoodCount),
		slog.Int("plant_nodes", s.PlantNodes),
		slog.Int("bubbles", s.Bubbles),
		slog.Float64("water_line", s.WaterLine),
		slog.Float64("sand_surface", s.SandSurface),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"oxygen_mean", s.OxygenMean,
		"co2_mean", s.CO2Mean,
		"gas_total", s.GasTotal,
		"activity_mean", s.ActivityMean,
		"activity_p90", s.ActivityP90,
		"fish_state", s.FishState,
		"fish_energy_mean", s.FishEnergyMean,
		"fish_carbon_mean", s.FishCarbonMean,
		"surfacings", s.Surfacings,
		"sleeps", s.Sleeps,
		"food", s.FoodCount,
		"food_eaten", s.FoodEaten,
		"plant_nodes", s.PlantNodes,
		"bubbles", s.Bubbles,
		"water_line", s.WaterLine,
		"sand_surface", s.SandSurface,
		"light", s.Light,
	)
}
