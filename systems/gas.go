package systems

import "sync"

// GasPool is the dissolved oxygen and carbon dioxide shared by every
// breathing entity in the tank. Reactions only move mass between the two
// gases and either commit fully or not at all.
//
// GasPool is safe for concurrent use.
type GasPool struct {
	mu          sync.Mutex
	oxygen      float64
	co2         float64
	energyYield float64
}

// NewGasPool creates a pool with the given initial amounts.
// energyYield is the energy released per unit of oxygen respired.
func NewGasPool(oxygen, co2, energyYield float64) *GasPool {
	if oxygen < 0 {
		oxygen = 0
	}
	if co2 < 0 {
		co2 = 0
	}
	return &GasPool{oxygen: oxygen, co2: co2, energyYield: energyYield}
}

// Photosynthesize converts carbonRequest*light units of CO2 into O2 and
// returns the carbon fixed. It returns 0 and changes nothing when the
// pool holds too little CO2.
func (g *GasPool) Photosynthesize(carbonRequest, light float64) float64 {
	cost := carbonRequest * light
	if !(cost > 0) {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.co2 < cost {
		return 0
	}
	g.co2 -= cost
	g.oxygen += cost
	return cost
}

// Respire converts oxygenRequest units of O2 into CO2 and returns the
// energy released. It returns 0 and changes nothing when the pool holds
// too little oxygen.
func (g *GasPool) Respire(oxygenRequest float64) float64 {
	if !(oxygenRequest > 0) {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.oxygen < oxygenRequest {
		return 0
	}
	g.oxygen -= oxygenRequest
	g.co2 += oxygenRequest
	return oxygenRequest * g.energyYield
}

// AddOxygen dissolves extra oxygen into the water. Non-positive amounts are ignored.
func (g *GasPool) AddOxygen(amount float64) {
	if !(amount > 0) {
		return
	}
	g.mu.Lock()
	g.oxygen += amount
	g.mu.Unlock()
}

// AddCarbonDioxide dissolves extra CO2 into the water. Non-positive amounts are ignored.
func (g *GasPool) AddCarbonDioxide(amount float64) {
	if !(amount > 0) {
		return
	}
	g.mu.Lock()
	g.co2 += amount
	g.mu.Unlock()
}

// Levels returns the current oxygen and CO2 amounts.
func (g *GasPool) Levels() (oxygen, co2 float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.oxygen, g.co2
}

// Total returns oxygen + CO2.
func (g *GasPool) Total() float64 {
	o, c := g.Levels()
	return o + c
}

// EnergyYield returns the energy released per unit of oxygen respired.
func (g *GasPool) EnergyYield() float64 {
	return g.energyYield
}
