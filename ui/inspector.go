package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/cybertank/components"
	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/systems"
)

func snap(data any) *game.Snapshot { return data.(*game.Snapshot) }

// TankPanel describes the inspector layout over a *game.Snapshot.
var TankPanel = PanelDescriptor{
	ID:     "tank",
	Title:  "Inspector",
	Width:  260,
	Anchor: AnchorTopRight,
	Sections: []SectionDescriptor{
		{
			ID:    "fish",
			Title: "Fish",
			Fields: []FieldDescriptor{
				{ID: "state", Label: "State", Widget: WidgetText, TextGetter: func(d any) string {
					return snap(d).Fish.State.String()
				}},
				{ID: "energy", Label: "Energy", Widget: WidgetGauge, GaugeGetter: func(d any) components.Gauge {
					return snap(d).Fish.Energy
				}},
				{ID: "oxygen", Label: "Oxygen", Widget: WidgetGauge, GaugeGetter: func(d any) components.Gauge {
					return snap(d).Fish.Oxygen
				}},
				{ID: "carbon", Label: "Carbon", Widget: WidgetGauge, GaugeGetter: func(d any) components.Gauge {
					return snap(d).Fish.Carbon
				}},
				{ID: "eaten", Label: "Eaten", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(snap(d).Fish.Eaten)
				}},
				{ID: "age", Label: "Age", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d ticks", snap(d).Fish.Age)
				}},
			},
		},
		{
			ID:    "gas",
			Title: "Gas",
			Fields: []FieldDescriptor{
				{ID: "o2", Label: "O2", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(snap(d).Oxygen)
				}},
				{ID: "co2", Label: "CO2", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(snap(d).CO2)
				}},
				{ID: "balance", Label: "Balance", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
					return float32(snap(d).GasBalance())
				}},
			},
		},
		{
			ID:    "tank",
			Title: "Tank",
			Fields: []FieldDescriptor{
				{ID: "water", Label: "Water", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(snap(d).Tank.WaterLine)
				}},
				{ID: "sand", Label: "Sand", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(snap(d).Tank.SandSurface)
				}},
				{ID: "base", Label: "Deep sand", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(snap(d).Tank.SandBase)
				}},
				{ID: "light", Label: "Light", Widget: WidgetBar, Range: DefaultRange(), Getter: func(d any) float32 {
					return float32(snap(d).Tank.Light)
				}},
				{ID: "tint", Label: "Disk", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
					// Clean blue towards murky green as the disk fills
					f := snap(d).Tank.Tint
					return rl.Color{R: uint8(40 - 18*f), G: uint8(80 + 55*f), B: uint8(255 - 188*f), A: 255}
				}},
			},
		},
		{
			ID:    "dead",
			Title: "Fish is dead",
			Visible: func(d any) bool {
				return snap(d).Fish.State == systems.FishDead
			},
		},
	},
}

// Inspector renders a descriptor-driven panel.
type Inspector struct {
	renderer *Renderer
	panel    PanelDescriptor
	x, y     int32
}

// NewInspector creates an inspector for panel.
func NewInspector(panel PanelDescriptor, x, y int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		panel:    panel,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Width returns the panel width.
func (ins *Inspector) Width() int32 { return ins.panel.Width }

// Draw renders the panel for data and returns the bottom Y.
func (ins *Inspector) Draw(data any) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	width := ins.panel.Width

	// Measure first so the background sits behind every visible row
	height := padding*2 + r.Theme.LineHeight + 4
	for _, sd := range ins.panel.Sections {
		if sd.Visible != nil && !sd.Visible(data) {
			continue
		}
		height += r.Theme.LineHeight + 4
		for _, fd := range sd.Fields {
			if fd.Visible == nil || fd.Visible(data) {
				height += r.Theme.LineHeight + 2
			}
		}
	}
	r.DrawPanel(ins.x, ins.y, width, height)

	y := ins.y + padding
	rl.DrawText(ins.panel.Title, ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range ins.panel.Sections {
		y = r.DrawSection(ins.x+padding, y, sd, data, width-padding*2)
	}
	return y
}
