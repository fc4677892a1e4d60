// Package components defines the data carried by tank entities.
// Cells and food live in an ark ECS world; the remaining entities keep
// these types in plain slices owned by their systems.
package components

// Body is the kinematic state integrated once per tick.
type Body struct {
	Pos Vec2
	Vel Vec2
	Acc Vec2
}

// CellCore binds a cell to one logical CPU core.
type CellCore struct {
	Core     int
	Radius   float64
	Activity float64 // this tick's core load, 0..1
}

// FoodItem is a pellet dropped by the user.
type FoodItem struct {
	SinkDelay int     // ticks left floating at the surface
	Carbon    float64 // remaining nutrient mass
	Deleted   bool
}

// Physiology is the metabolic state shared by every gas-exchanging entity.
// CarbonDemand is the CO2 request per photosynthesis step, OxygenDemand the
// O2 (and carbon) burned per respiration step.
type Physiology struct {
	Carbon       Gauge
	Energy       Gauge
	CarbonDemand float64
	OxygenDemand float64
}
