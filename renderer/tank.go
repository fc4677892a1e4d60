package renderer

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/camera"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/systems"
)

// columnWidth is the width in tank units of one water surface strip.
const columnWidth = 10

// TankRenderer draws the light, water, sand layers, sand waves and border.
type TankRenderer struct{}

// NewTankRenderer creates a new tank renderer.
func NewTankRenderer() *TankRenderer {
	return &TankRenderer{}
}

// Draw renders the tank behind every entity.
func (r *TankRenderer) Draw(cam *camera.Camera, t game.TankView) {
	w, h := float64(t.Width), float64(t.Height)

	// Top light fading out at the water line
	if t.WaterLine > 0 {
		x0, y0 := toScreen(cam, 0, 0)
		x1, y1 := toScreen(cam, w, t.WaterLine)
		rl.DrawRectangleGradientV(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0),
			withAlpha(rl.White, t.Light), withAlpha(rl.White, 0))
	}

	// Water, one strip per column so the surface ripples
	water := lerpColor(waterClean, waterMurky, t.Tint)
	for x := 0.0; x < w; x += columnWidth {
		y := math.Round(t.SurfaceY(x))
		fillRect(cam, x, y, math.Min(columnWidth, w-x), h-y, water)
	}

	fillRect(cam, 0, t.SandSurface, w, h-t.SandSurface, sandTop)
	// Offset by one so the surface layer stays visible when both coincide
	fillRect(cam, 0, t.SandBase+1, w, h-t.SandBase-1, sandDeep)

	r.drawWaves(cam, t, t.OutwardWaves)
	r.drawWaves(cam, t, t.InwardWaves)
}

// drawWaves renders sand waves as lower half rings under the sand surface.
func (r *TankRenderer) drawWaves(cam *camera.Camera, t game.TankView, waves []systems.SandWave) {
	if t.WaveMax <= 0 {
		return
	}
	cx, cy := toScreen(cam, t.WaveX, t.SandSurface+4)
	thick := cam.Scale(4)
	for _, w := range waves {
		alpha := (t.WaveMax - w.Radius) / t.WaveMax * (205.0 / 255.0)
		radius := cam.Scale(float32(w.Radius))
		rl.DrawRing(rl.NewVector2(cx, cy), max(radius-thick, 0), radius+thick, 0, 180, 48,
			withAlpha(sandWave, alpha))
	}
}

// DrawBorder outlines the tank and runs four snake segments around it,
// one lap per minute, coloured by the hour.
func (r *TankRenderer) DrawBorder(cam *camera.Camera, t game.TankView, now time.Time) {
	w, h := float64(t.Width), float64(t.Height)
	x0, y0 := toScreen(cam, 0, 0)
	x1, y1 := toScreen(cam, w, h)
	rl.DrawRectangleLinesEx(rl.NewRectangle(x0, y0, x1-x0, y1-y0), 1, rl.Black)

	color := BorderColor(now.Hour())
	thick := max(cam.Scale(1), 1)
	for _, s := range snakeSegments(w, h, snakeProgress(w, h, now)) {
		ax, ay := toScreen(cam, s[0], s[1])
		bx, by := toScreen(cam, s[2], s[3])
		rl.DrawLineEx(rl.NewVector2(ax, ay), rl.NewVector2(bx, by), thick, color)
	}
}

// snakeProgress returns the lap fraction for now. The lap is shifted so the
// head starts at the middle of the top edge on the minute.
func snakeProgress(w, h float64, now time.Time) float64 {
	perimeter := 2 * (w + h)
	delay := time.Duration(w / 2 / perimeter * 60 * float64(time.Second))
	now = now.Add(delay)
	sec := float64(now.Second()) + float64(now.Nanosecond())/1e9
	return sec / 60
}

// snakeSegments returns the visible border segments as (x0, y0, x1, y1)
// for lap progress p. Each edge carries its own snake and a fifth keeps
// the left edge filled while the fourth wraps.
func snakeSegments(w, h, p float64) [][4]float64 {
	perimeter := 2 * (w + h)
	length := math.Min(w, h)
	lerp := func(a, b float64) float64 { return a + (b-a)*p }

	head1 := lerp(0, perimeter)
	head2 := lerp(-w, perimeter-w)
	head3 := lerp(perimeter-h, -h)
	head4 := lerp(perimeter, 0)
	tail5 := lerp(length, -perimeter+length)

	var segs [][4]float64
	add := func(a, b, limit float64, seg func(a, b float64) [4]float64) {
		a, b = math.Max(math.Min(a, b), 0), math.Min(math.Max(a, b), limit)
		if a < b {
			segs = append(segs, seg(a, b))
		}
	}
	top := func(a, b float64) [4]float64 { return [4]float64{a, 0, b, 0} }
	right := func(a, b float64) [4]float64 { return [4]float64{w, a, w, b} }
	bottom := func(a, b float64) [4]float64 { return [4]float64{a, h, b, h} }
	left := func(a, b float64) [4]float64 { return [4]float64{0, a, 0, b} }

	add(head1-length, head1, w, top)
	add(head2-length, head2, h, right)
	add(head3, head3+length, w, bottom)
	add(head4, head4+length, h, left)
	add(tail5-length, tail5, h, left)
	return segs
}

// toScreen converts tank coordinates to screen coordinates.
func toScreen(cam *camera.Camera, x, y float64) (float32, float32) {
	return cam.WorldToScreen(float32(x), float32(y))
}

// fillRect fills a tank-space rectangle.
func fillRect(cam *camera.Camera, x, y, w, h float64, c rl.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	sx, sy := toScreen(cam, x, y)
	rl.DrawRectangleRec(rl.NewRectangle(sx, sy, cam.Scale(float32(w)), cam.Scale(float32(h))), c)
}
