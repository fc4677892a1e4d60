package renderer

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/camera"
	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
)

// Scene draws a full frame of the tank. Everything is drawn into an
// offscreen target first so the whole tank can be faded by the opacity
// setting in one blit.
type Scene struct {
	tank    *TankRenderer
	cells   *CellRenderer
	plant   *PlantRenderer
	bubbles *BubbleRenderer
	food    *FoodRenderer
	fish    *FishRenderer

	target      rl.RenderTexture2D
	targetW     int32
	targetH     int32
	initialized bool
}

// NewScene creates the renderers for every layer.
func NewScene(cfg *config.Config) *Scene {
	return &Scene{
		tank:    NewTankRenderer(),
		cells:   &CellRenderer{},
		plant:   NewPlantRenderer(cfg.Plant),
		bubbles: &BubbleRenderer{},
		food:    NewFoodRenderer(cfg.Food),
		fish:    NewFishRenderer(cfg.Fish),
	}
}

// Init allocates the offscreen target (must be called after the raylib
// window is created). It is called again when the window size changes.
func (s *Scene) Init(width, height int32) {
	if s.initialized && width == s.targetW && height == s.targetH {
		return
	}
	s.Unload()
	s.target = rl.LoadRenderTexture(width, height)
	s.targetW, s.targetH = width, height
	s.initialized = true
}

// Draw renders snap through cam. It must be called between BeginDrawing
// and EndDrawing.
func (s *Scene) Draw(cam *camera.Camera, snap game.Snapshot, now time.Time) {
	s.Init(int32(cam.ViewportW), int32(cam.ViewportH))

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	s.tank.Draw(cam, snap.Tank)
	s.plant.Draw(cam, snap.Plant)
	s.cells.Draw(cam, snap.Cells)
	s.food.Draw(cam, snap.Food)
	s.bubbles.Draw(cam, snap.Bubbles)
	s.fish.Draw(cam, snap.Fish, snap.Settings)
	s.tank.DrawBorder(cam, snap.Tank, now)
	rl.EndTextureMode()

	// Render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(s.targetW), -float32(s.targetH))
	rl.DrawTextureRec(s.target.Texture, src, rl.NewVector2(0, 0), withAlpha(rl.White, snap.Settings.Opacity))
}

// Unload frees resources.
func (s *Scene) Unload() {
	if s.initialized {
		rl.UnloadRenderTexture(s.target)
		s.initialized = false
	}
}
