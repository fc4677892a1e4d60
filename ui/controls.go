package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/config"
)

// ControlsPanel renders the left-side key binding panel with overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	// Calculate panel height based on content
	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	// Extra lines for the title and the mouse hint
	panelHeight := int32(totalItems+1)*lineHeight + padding*3 + lineHeight

	// Draw panel background
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding

	// Title
	rl.DrawText("Keys", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	// Draw overlays by category
	for _, category := range categories {
		// Category header
		catLabel := categoryLabel(category)
		rl.DrawText(catLabel, c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		// Overlays in this category
		for _, desc := range overlays.ByCategory(category) {
			enabled := overlays.IsEnabled(desc.ID)
			c.drawToggle(c.x+padding, y, desc, enabled, c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	rl.DrawText("Click the water to feed", c.x+padding, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	// Status indicator
	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	// Name
	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	// Key binding (right aligned)
	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "panels":
		return "Panels"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// SettingsPanel edits the user settings with raygui widgets.
type SettingsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSettingsPanel creates a new settings panel.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SettingsResult reports what the user did with the panel this frame.
type SettingsResult struct {
	Settings config.Settings
	Changed  bool
	Save     bool
	Defaults bool
}

// Draw renders the panel for s and returns the edited settings.
func (p *SettingsPanel) Draw(s config.Settings) SettingsResult {
	r := p.renderer
	padding := float32(r.Theme.Padding)
	row := float32(24)
	x := float32(p.x) + padding
	w := float32(p.width) - 2*padding

	r.DrawPanel(p.x, p.y, p.width, int32(row*10+padding*2))
	y := float32(p.y) + padding

	rl.DrawText("Settings", int32(x), int32(y), 16, rl.White)
	y += row

	out := s
	out.FishVisible = gui.CheckBox(rl.NewRectangle(x, y, 16, 16), "Show fish", s.FishVisible)
	y += row
	out.FishInfoVisible = gui.CheckBox(rl.NewRectangle(x, y, 16, 16), "Show fish gauges", s.FishInfoVisible)
	y += row
	out.SandFixed = gui.CheckBox(rl.NewRectangle(x, y, 16, 16), "Pin sand height", s.SandFixed)
	y += row

	sliderX := x + float32(r.Theme.LabelWidth)
	sliderW := w - float32(r.Theme.LabelWidth) - 40
	slider := func(label string, value float64) float64 {
		r.DrawLabel(int32(x), int32(y+4), label)
		v := gui.SliderBar(rl.NewRectangle(sliderX, y, sliderW, 16), "", fmt.Sprintf("%.2f", value), float32(value), 0, 1)
		y += row
		return float64(v)
	}
	if s.SandFixed {
		out.SandRatio = slider("Sand", s.SandRatio)
	}
	out.FeedProbability = slider("Feed", s.FeedProbability)
	out.Opacity = slider("Opacity", s.Opacity)

	y += 4
	save := gui.Button(rl.NewRectangle(x, y, w/2-4, 24), "Save")
	defaults := gui.Button(rl.NewRectangle(x+w/2+4, y, w/2-4, 24), "Defaults")
	if defaults {
		out = config.DefaultSettings()
	}

	return SettingsResult{
		Settings: out,
		Changed:  out != s,
		Save:     save,
		Defaults: defaults,
	}
}
