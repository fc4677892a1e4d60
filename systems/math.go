package systems

import "math"

// Clamp functions for common value ranges

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range. NaN maps to 0.
func clamp01(v float64) float64 {
	if v != v {
		return 0
	}
	return clamp(v, 0, 1)
}

// lerp moves a towards b by fraction t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Angle helpers

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// bitLength returns the number of bits needed to represent n.
func bitLength(n uint64) int {
	l := 0
	for n > 0 {
		l++
		n >>= 1
	}
	return l
}
