// Package renderer draws a game.Snapshot with raylib.
package renderer

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	waterClean = rl.Color{R: 40, G: 80, B: 255, A: 80}
	waterMurky = rl.Color{R: 22, G: 135, B: 67, A: 80}

	sandTop  = rl.Color{R: 62, G: 53, B: 28, A: 255}
	sandDeep = rl.Color{R: 92, G: 73, B: 36, A: 255}
	sandWave = rl.Color{R: 224, G: 159, B: 0, A: 255}

	cellIdle   = rl.Color{R: 10, G: 150, B: 10, A: 255}
	cellBusy   = rl.Color{R: 255, G: 255, B: 0, A: 255}
	cellStroke = rl.Color{R: 23, G: 76, B: 23, A: 255}

	plantStem   = rl.Color{R: 69, G: 79, B: 56, A: 220}
	plantNeedle = rl.Color{R: 29, G: 156, B: 10, A: 200}

	bubbleRing = rl.Color{R: 0, G: 255, B: 255, A: 255}

	foodFill   = rl.Yellow
	foodStroke = rl.Color{R: 128, G: 128, B: 0, A: 255}
)

// borderHours splits the day into stroke colour bands. Band i covers
// [borderHours[i-1], borderHours[i]).
var (
	borderHours  = []int{5, 7, 10, 16, 18, 19, 22}
	borderColors = []rl.Color{
		rl.Gray,     // night
		rl.Purple,   // dawn
		rl.SkyBlue,  // morning
		rl.Yellow,   // daylight
		rl.Orange,   // sunset
		rl.Purple,   // dusk
		rl.DarkBlue, // evening
		rl.Gray,     // night
	}
)

// BorderColor returns the tank border colour for an hour of the day.
func BorderColor(hour int) rl.Color {
	i := sort.Search(len(borderHours), func(i int) bool { return borderHours[i] > hour })
	return borderColors[i]
}

// lerpColor blends a towards b by t in [0, 1], alpha included.
func lerpColor(a, b rl.Color, t float64) rl.Color {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// withAlpha returns c with its alpha scaled by f in [0, 1].
func withAlpha(c rl.Color, f float64) rl.Color {
	c.A = uint8(float64(c.A) * clamp01(f))
	return c
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
