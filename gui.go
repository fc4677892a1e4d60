package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/camera"
	"github.com/pthm-cable/cybertank/config"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/renderer"
	"github.com/pthm-cable/cybertank/sysinfo"
	"github.com/pthm-cable/cybertank/systems"
	"github.com/pthm-cable/cybertank/telemetry"
	"github.com/pthm-cable/cybertank/ui"
)

const controlsLegend = "[Click] Feed  [Space] Pause  [S] Settings  [I] Inspector  [H] Help  [Arrows/Wheel] Camera  [Home] Reset"

// app is the windowed front end: it owns the raylib window, reads input,
// ticks the ecosystem and draws each frame from a snapshot.
type app struct {
	cfg          *config.Config
	eco          *game.Ecosystem
	source       sysinfo.Source
	sourceName   string
	perf         *telemetry.PerfCollector
	settingsPath string
	rng          *rand.Rand

	camera   *camera.Camera
	scene    *renderer.Scene
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	controls *ui.ControlsPanel
	settings *ui.SettingsPanel
	inspect  *ui.Inspector
	perfUI   *ui.PerfPanel
	registry *systems.SystemRegistry

	screenWidth  float32
	screenHeight float32
	paused       bool
}

func newApp(cfg *config.Config, eco *game.Ecosystem, source sysinfo.Source, sourceName string,
	perf *telemetry.PerfCollector, settingsPath string, seed int64) *app {
	return &app{
		cfg:          cfg,
		eco:          eco,
		source:       source,
		sourceName:   sourceName,
		perf:         perf,
		settingsPath: settingsPath,
		rng:          rand.New(rand.NewSource(seed ^ 0x5eed)),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 120, 220),
		settings:     ui.NewSettingsPanel(10, 120, 260),
		inspect:      ui.NewInspector(ui.TankPanel, 0, 10),
		perfUI:       ui.NewPerfPanel(0, 0),
		registry:     systems.NewSystemRegistry(),
	}
}

// run opens the window and loops until it is closed, ctx is cancelled or
// maxTicks is reached.
func (a *app) run(ctx context.Context, maxTicks int) {
	tankW := a.eco.Tank().Width()
	tankH := a.eco.Tank().Height()
	scale := max(a.cfg.Screen.Scale, 1)
	a.screenWidth = float32(tankW * scale)
	a.screenHeight = float32(tankH * scale)

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowTransparent | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(a.screenWidth), int32(a.screenHeight), "Cybertank")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.cfg.Screen.TargetFPS))

	a.camera = camera.New(a.screenWidth, a.screenHeight, float32(tankW), float32(tankH))
	a.scene = renderer.NewScene(a.cfg)
	defer a.scene.Unload()
	a.layout()

	slog.Info("window opened",
		"width", a.screenWidth,
		"height", a.screenHeight,
		"source", a.sourceName,
	)

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.handleInput()
		if !a.paused {
			a.eco.Tick(a.source.Snapshot())
		}
		a.draw()

		if maxTicks > 0 && a.eco.TickCount() >= maxTicks {
			slog.Info("max ticks reached", "tick", a.eco.TickCount())
			break
		}
	}
}

// layout anchors the right-hand panels to the current window width.
func (a *app) layout() {
	right := int32(a.screenWidth) - a.inspect.Width() - 10
	a.inspect.SetPosition(right, 10)
	a.perfUI.SetPosition(right, int32(a.screenHeight)-230)
}

// handleInput processes keyboard and mouse input.
func (a *app) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.paused = !a.paused
	}

	a.handleOverlayKeys()
	a.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if a.overPanel(mouse) {
			return
		}
		if x, ok := a.camera.TankX(mouse.X, mouse.Y); ok {
			if a.eco.FeedAt(x, a.rng) {
				slog.Debug("food dropped", "x", x)
			}
		}
	}
}

// overPanel reports whether p lies on an open panel, where clicks belong to
// the widgets rather than the tank.
func (a *app) overPanel(p rl.Vector2) bool {
	if a.overlays.IsEnabled(ui.OverlaySettings) && p.X < 280 && p.Y > 110 && p.Y < 380 {
		return true
	}
	if a.overlays.IsEnabled(ui.OverlayHelp) && p.X < 240 && p.Y > 110 {
		return true
	}
	return false
}

// handleResize checks for window resize and propagates new dimensions.
func (a *app) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h
	a.camera.Resize(w, h)
	a.layout()
}

// handleOverlayKeys toggles overlays from their registered keys.
func (a *app) handleOverlayKeys() {
	for _, desc := range a.overlays.All() {
		if desc.Key == 0 || !rl.IsKeyPressed(desc.Key) {
			continue
		}
		a.overlays.Toggle(desc.ID)
	}
	// Exclusive toggles can close help without going through its key
	a.controls.SetVisible(a.overlays.IsEnabled(ui.OverlayHelp))
}

// handleCameraInput processes camera pan and zoom controls.
func (a *app) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(4.0) / a.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.camera.Reset()
	}
}

// draw renders one frame.
func (a *app) draw() {
	a.perf.RecordFrame()
	snap := a.eco.Snapshot()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Blank)

	a.scene.Draw(a.camera, snap, time.Now())
	a.drawActiveOverlays(&snap)

	a.hud.Draw(ui.HUDData{
		Title:        "Cybertank",
		Tick:         snap.Tick,
		FPS:          rl.GetFPS(),
		Paused:       a.paused,
		Oxygen:       snap.Oxygen,
		CO2:          snap.CO2,
		FishState:    snap.Fish.State.String(),
		Food:         len(snap.Food),
		Bubbles:      len(snap.Bubbles),
		PlantNodes:   len(snap.Plant),
		Source:       a.sourceName,
		ScreenWidth:  int32(a.screenWidth),
		ScreenHeight: int32(a.screenHeight),
	})
	a.hud.DrawControls(int32(a.screenWidth), int32(a.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// drawActiveOverlays renders every enabled overlay and panel.
func (a *app) drawActiveOverlays(snap *game.Snapshot) {
	if a.overlays.IsEnabled(ui.OverlayTargets) {
		a.drawTargets(snap.Tank)
	}
	if a.overlays.IsEnabled(ui.OverlayFishGoal) {
		a.drawFishGoal(snap.Fish)
	}

	if a.controls.IsVisible() {
		a.controls.Draw(a.overlays)
	}
	if a.overlays.IsEnabled(ui.OverlaySettings) {
		a.drawSettings(snap.Settings)
	}
	if a.overlays.IsEnabled(ui.OverlayInspector) {
		a.inspect.Draw(snap)
	}
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		stats := a.perf.Stats()
		a.perfUI.Draw(ui.PerfPanelData{
			SystemTimes: stats.PhaseAvg,
			Total:       stats.AvgTickDuration,
			Registry:    a.registry,
		}, stats.SortedPhases())
	}
}

// drawSettings runs the settings panel and applies what the user changed.
func (a *app) drawSettings(current config.Settings) {
	res := a.settings.Draw(current)
	if res.Changed || res.Defaults {
		a.eco.SetSettings(res.Settings)
	}
	if res.Save {
		s := a.eco.Settings()
		if err := s.Save(a.settingsPath); err != nil {
			slog.Error("failed to save settings", "path", a.settingsPath, "error", err)
		} else {
			slog.Info("settings saved", "path", a.settingsPath)
		}
	}
}

var targetColors = [3]rl.Color{rl.SkyBlue, rl.Gold, rl.Brown}

// drawTargets draws the lines the tank layout is easing towards.
func (a *app) drawTargets(t game.TankView) {
	x0, _ := a.camera.WorldToScreen(0, 0)
	x1, _ := a.camera.WorldToScreen(float32(t.Width), 0)
	for i, y := range t.Targets {
		_, sy := a.camera.WorldToScreen(0, float32(y))
		for x := x0; x < x1; x += 12 {
			rl.DrawLineEx(rl.NewVector2(x, sy), rl.NewVector2(min(x+6, x1), sy), 1, targetColors[i])
		}
	}
}

// drawFishGoal draws a line from the fish to where it is heading.
func (a *app) drawFishGoal(f game.FishView) {
	if f.State == systems.FishDead {
		return
	}
	fx, fy := a.camera.WorldToScreen(float32(f.Pos.X), float32(f.Pos.Y))
	gx, gy := a.camera.WorldToScreen(float32(f.Goal.X), float32(f.Goal.Y))
	rl.DrawLineEx(rl.NewVector2(fx, fy), rl.NewVector2(gx, gy), 1, rl.Yellow)
	rl.DrawCircleLines(int32(gx), int32(gy), 4, rl.Yellow)
	rl.DrawText(fmt.Sprintf("%s -> (%.0f, %.0f)", f.State, f.Goal.X, f.Goal.Y), int32(gx)+6, int32(gy)-6, 10, rl.Yellow)
}
