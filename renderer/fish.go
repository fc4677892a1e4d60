package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/camera"
	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/systems"
)

var fishColors = map[systems.FishState]rl.Color{
	systems.FishIdle:     {R: 255, G: 140, B: 0, A: 255},
	systems.FishSurface:  {R: 255, G: 175, B: 70, A: 255},
	systems.FishSleep:    {R: 190, G: 110, B: 40, A: 255},
	systems.FishFindFood: {R: 255, G: 95, B: 20, A: 255},
	systems.FishDead:     {R: 150, G: 150, B: 150, A: 204},
}

// FishRenderer draws the guppy as a body, a flapping tail and an eye, with
// the optional gauge readout above it.
type FishRenderer struct {
	width, height float64
	frames        int
}

// NewFishRenderer creates a fish renderer.
func NewFishRenderer(cfg config.FishConfig) *FishRenderer {
	return &FishRenderer{width: cfg.Width, height: cfg.Height, frames: max(cfg.Frames, 1)}
}

// Draw renders the fish unless it is hidden by the settings.
func (r *FishRenderer) Draw(cam *camera.Camera, f game.FishView, settings config.Settings) {
	if !settings.FishVisible {
		return
	}

	color := fishColors[f.State]
	dead := f.State == systems.FishDead

	// Facing right is +1
	dir := 1.0
	if f.FacingLeft {
		dir = -1
	}
	bodyW, bodyH := r.width*0.35, r.height*0.2
	if dead {
		// Belly up
		bodyH = -bodyH
	}

	phase := 2 * math.Pi * float64(f.Frame) / float64(r.frames)
	flap := math.Sin(phase) * r.height * 0.12
	if dead {
		flap = 0
	}

	// Tail
	base := f.Pos.X - dir*bodyW*0.8
	tip := f.Pos.X - dir*bodyW*1.6
	r.triangle(cam,
		base, f.Pos.Y,
		tip, f.Pos.Y-math.Abs(bodyH)+flap,
		tip, f.Pos.Y+math.Abs(bodyH)+flap,
		color)

	// Body
	sx, sy := toScreen(cam, f.Pos.X, f.Pos.Y)
	rl.DrawEllipse(int32(sx), int32(sy), cam.Scale(float32(bodyW)), cam.Scale(float32(math.Abs(bodyH))), color)

	// Eye
	ex, ey := toScreen(cam, f.Pos.X+dir*bodyW*0.5, f.Pos.Y-bodyH*0.3)
	eye := cam.Scale(float32(r.height * 0.04))
	if dead {
		rl.DrawLineEx(rl.NewVector2(ex-eye, ey-eye), rl.NewVector2(ex+eye, ey+eye), max(eye/2, 1), rl.Black)
		rl.DrawLineEx(rl.NewVector2(ex-eye, ey+eye), rl.NewVector2(ex+eye, ey-eye), max(eye/2, 1), rl.Black)
	} else {
		rl.DrawCircleV(rl.NewVector2(ex, ey), eye, rl.Black)
	}

	if settings.FishInfoVisible {
		tx, ty := toScreen(cam, f.Pos.X, f.Pos.Y-r.height*1.5)
		size := int32(max(cam.Scale(5), 10))
		rl.DrawText(f.State.String()+"\n"+f.Info, int32(tx), int32(ty), size, rl.White)
	}
}

// triangle fills a tank-space triangle in the winding raylib expects.
func (r *FishRenderer) triangle(cam *camera.Camera, ax, ay, bx, by, cx, cy float64, c rl.Color) {
	a := rl.NewVector2(toScreen(cam, ax, ay))
	b := rl.NewVector2(toScreen(cam, bx, by))
	v := rl.NewVector2(toScreen(cam, cx, cy))
	if (b.X-a.X)*(v.Y-a.Y)-(b.Y-a.Y)*(v.X-a.X) > 0 {
		b, v = v, b
	}
	rl.DrawTriangle(a, b, v, c)
}
