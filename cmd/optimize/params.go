// Package main provides CMA-ES tuning of the fish physiology parameters.
package main

import (
	"github.com/pthm-cable/cybertank/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	apply func(cfg *config.Config, v float64)
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Transition thresholds
			{Name: "hungry_carbon", Path: "fish.hungry_carbon", Min: 100, Max: 1500, Default: 500,
				apply: func(c *config.Config, v float64) { c.Fish.HungryCarbon = v }},
			{Name: "low_oxygen_rate", Path: "fish.low_oxygen_rate", Min: 0.05, Max: 0.6, Default: 0.2,
				apply: func(c *config.Config, v float64) { c.Fish.LowOxygenRate = v }},
			{Name: "low_energy_rate", Path: "fish.low_energy_rate", Min: 0.05, Max: 0.6, Default: 0.2,
				apply: func(c *config.Config, v float64) { c.Fish.LowEnergyRate = v }},
			{Name: "wake_energy_rate", Path: "fish.wake_energy_rate", Min: 0.4, Max: 1.0, Default: 0.8,
				apply: func(c *config.Config, v float64) { c.Fish.WakeEnergyRate = v }},
			// Recovery
			{Name: "surface_refill", Path: "fish.surface_refill", Min: 0.2, Max: 5, Default: 1,
				apply: func(c *config.Config, v float64) { c.Fish.SurfaceRefill = v }},
			{Name: "sleep_regen", Path: "fish.sleep_regen", Min: 0.2, Max: 5, Default: 1,
				apply: func(c *config.Config, v float64) { c.Fish.SleepRegen = v }},
			{Name: "efficiency", Path: "fish.efficiency", Min: 0.0001, Max: 0.002, Default: 0.0005,
				apply: func(c *config.Config, v float64) { c.Fish.Efficiency = v }},
			// Per-state movement
			{Name: "idle_speed", Path: "fish.idle.speed", Min: 0.02, Max: 0.5, Default: 0.1,
				apply: func(c *config.Config, v float64) { c.Fish.Idle.Speed = v }},
			{Name: "find_food_speed", Path: "fish.find_food.speed", Min: 0.1, Max: 1.5, Default: 0.4,
				apply: func(c *config.Config, v float64) { c.Fish.FindFood.Speed = v }},
			// Per-state cost
			{Name: "idle_energy_cost", Path: "fish.idle.energy_cost", Min: 0.001, Max: 0.05, Default: 0.01,
				apply: func(c *config.Config, v float64) { c.Fish.Idle.EnergyCost = v }},
			{Name: "find_food_energy_cost", Path: "fish.find_food.energy_cost", Min: 0.01, Max: 0.2, Default: 0.05,
				apply: func(c *config.Config, v float64) { c.Fish.FindFood.EnergyCost = v }},
			{Name: "idle_oxygen_demand", Path: "fish.idle.oxygen_demand", Min: 0.02, Max: 0.4, Default: 0.1,
				apply: func(c *config.Config, v float64) { c.Fish.Idle.OxygenDemand = v }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Values are clamped first.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].apply(cfg, v)
	}
}
