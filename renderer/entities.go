package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/camera"
	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/systems"
)

// CellRenderer draws the per-core cells, brighter and larger when busy.
type CellRenderer struct{}

// Draw renders all cells.
func (r *CellRenderer) Draw(cam *camera.Camera, cells []game.CellView) {
	for _, c := range cells {
		radius := c.Radius + c.Activity*10
		if !cam.IsVisible(float32(c.Pos.X), float32(c.Pos.Y), float32(radius)) {
			continue
		}
		sx, sy := toScreen(cam, c.Pos.X, c.Pos.Y)
		center := rl.NewVector2(sx, sy)
		sr := cam.Scale(float32(radius))
		rl.DrawCircleV(center, sr, lerpColor(cellIdle, cellBusy, c.Activity))
		rl.DrawRing(center, max(sr-cam.Scale(1), 0), sr, 0, 360, 24, cellStroke)
	}
}

// PlantRenderer draws the plant chain with needle leaves that open up
// as a node moves.
type PlantRenderer struct {
	radius float64
}

// NewPlantRenderer creates a plant renderer.
func NewPlantRenderer(cfg config.PlantConfig) *PlantRenderer {
	return &PlantRenderer{radius: cfg.NodeRadius}
}

// Draw renders every node and its link to the next one.
func (r *PlantRenderer) Draw(cam *camera.Camera, nodes []systems.PlantNode) {
	for _, n := range nodes {
		sx, sy := toScreen(cam, n.Body.Pos.X, n.Body.Pos.Y)
		rl.DrawCircleV(rl.NewVector2(sx, sy), cam.Scale(float32(r.radius)), plantStem)

		if n.Next < 0 || n.Next >= len(nodes) {
			continue
		}
		next := nodes[n.Next].Body.Pos
		nx, ny := toScreen(cam, next.X, next.Y)
		rl.DrawLineEx(rl.NewVector2(sx, sy), rl.NewVector2(nx, ny), cam.Scale(3), plantStem)

		dir := next.Sub(n.Body.Pos).Normalize()
		spread := 10*n.Body.Vel.Len() + 5
		for i := -5; i <= 5; i++ {
			if i == 0 {
				continue
			}
			tip := n.Body.Pos.Add(dir.RotateDeg(float64(i) * spread).Scale(20))
			tx, ty := toScreen(cam, tip.X, tip.Y)
			rl.DrawLineEx(rl.NewVector2(sx, sy), rl.NewVector2(tx, ty), max(cam.Scale(0.5), 1), plantNeedle)
		}
	}
}

// BubbleRenderer draws bubbles as rings.
type BubbleRenderer struct{}

// Draw renders all live bubbles.
func (r *BubbleRenderer) Draw(cam *camera.Camera, bubbles []systems.Bubble) {
	for _, b := range bubbles {
		if !b.Alive {
			continue
		}
		sx, sy := toScreen(cam, b.Body.Pos.X, b.Body.Pos.Y)
		sr := cam.Scale(float32(b.Radius))
		rl.DrawRing(rl.NewVector2(sx, sy), max(sr-cam.Scale(0.5), 0), sr, 0, 360, 16, bubbleRing)
	}
}

// FoodRenderer draws food pellets. A pellet fades as it decomposes.
type FoodRenderer struct {
	radius float64
	carbon float64
}

// NewFoodRenderer creates a food renderer.
func NewFoodRenderer(cfg config.FoodConfig) *FoodRenderer {
	return &FoodRenderer{radius: cfg.Radius, carbon: cfg.Carbon}
}

// Draw renders all pellets.
func (r *FoodRenderer) Draw(cam *camera.Camera, food []game.FoodView) {
	for _, f := range food {
		fade := 1.0
		if r.carbon > 0 {
			fade = 0.3 + 0.7*math.Min(f.Carbon/r.carbon, 1)
		}
		sx, sy := toScreen(cam, f.Pos.X, f.Pos.Y)
		center := rl.NewVector2(sx, sy)
		sr := cam.Scale(float32(r.radius))
		rl.DrawCircleV(center, sr, withAlpha(foodFill, fade))
		rl.DrawRing(center, max(sr-cam.Scale(0.5), 0), sr, 0, 360, 12, withAlpha(foodStroke, fade))
	}
}
