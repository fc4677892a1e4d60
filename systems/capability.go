package systems

import "github.com/pthm-cable/cybertank/components"

// Photosynthesize fixes carbon from the pool into p's carbon store,
// scaled by light in [0, 1]. Returns the carbon fixed.
func Photosynthesize(p *components.Physiology, pool *GasPool, light float64) float64 {
	fixed := pool.Photosynthesize(p.CarbonDemand, clamp01(light))
	if fixed > 0 {
		p.Carbon.Add(fixed)
	}
	return fixed
}

// Breathe burns OxygenDemand units of p's own carbon with the same amount
// of dissolved oxygen and credits the released energy.
// It does nothing when p has too little carbon or the pool too little oxygen.
func Breathe(p *components.Physiology, pool *GasPool) float64 {
	return breathe(p, pool, 1)
}

// breathe is Breathe with only a fraction of the yield kept as energy.
func breathe(p *components.Physiology, pool *GasPool, efficiency float64) float64 {
	req := p.OxygenDemand
	if req <= 0 || p.Carbon.Value() < req {
		return 0
	}
	yield := pool.Respire(req)
	if yield == 0 {
		return 0
	}
	p.Carbon.Sub(req)
	p.Energy.Add(yield * efficiency)
	return yield
}
