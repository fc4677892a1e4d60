package components

import "fmt"

// Gauge is a resource store clamped to [0, Max].
// Mutate it only through Add, Sub and Set; every call saturates.
type Gauge struct {
	value float64
	max   float64
}

// NewGauge creates a gauge with the initial value clamped into range.
// A non-positive max yields an always-empty gauge.
func NewGauge(value, max float64) Gauge {
	if max < 0 {
		max = 0
	}
	g := Gauge{max: max}
	g.Set(value)
	return g
}

// Value returns the current amount.
func (g Gauge) Value() float64 { return g.value }

// Max returns the capacity.
func (g Gauge) Max() float64 { return g.max }

// Rate returns Value/Max, or 0 for a zero-capacity gauge.
func (g Gauge) Rate() float64 {
	if g.max == 0 {
		return 0
	}
	return g.value / g.max
}

// IsMax reports whether the gauge is full.
func (g Gauge) IsMax() bool { return g.value >= g.max }

// IsZero reports whether the gauge is empty.
func (g Gauge) IsZero() bool { return g.value <= 0 }

// Set replaces the value, clamped into [0, Max].
func (g *Gauge) Set(v float64) {
	switch {
	case v != v: // NaN
		g.value = 0
	case v < 0:
		g.value = 0
	case v > g.max:
		g.value = g.max
	default:
		g.value = v
	}
}

// Add increases the value by amount, saturating at Max.
func (g *Gauge) Add(amount float64) {
	g.Set(g.value + amount)
}

// Sub decreases the value by amount, saturating at zero.
func (g *Gauge) Sub(amount float64) {
	g.Set(g.value - amount)
}

// String formats the gauge as "value/max" for overlays.
func (g Gauge) String() string {
	return fmt.Sprintf("%.1f/%.1f", g.value, g.max)
}
