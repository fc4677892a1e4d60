package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/cybertank/game"
	"github.com/pthm-cable/cybertank/systems"
)

var (
	styleAir      = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleWater    = tcell.StyleDefault.Background(tcell.ColorNavy)
	styleMurky    = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	styleSand     = tcell.StyleDefault.Background(tcell.ColorDarkGoldenrod)
	styleDeepSand = tcell.StyleDefault.Background(tcell.ColorSaddleBrown)
	styleStatus   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
)

// view maps tank coordinates onto a terminal grid. The bottom row is kept
// for the status line.
type view struct {
	cols, rows int
	tankW      float64
	tankH      float64
}

func newView(cols, rows, tankW, tankH int) view {
	return view{cols: cols, rows: max(rows-1, 1), tankW: float64(tankW), tankH: float64(tankH)}
}

// cell returns the terminal cell covering tank point (x, y).
func (v view) cell(x, y float64) (int, int, bool) {
	col := int(x / v.tankW * float64(v.cols))
	row := int(y / v.tankH * float64(v.rows))
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return 0, 0, false
	}
	return col, row, true
}

// tankX returns the tank x under terminal column col, and whether (col, row)
// is inside the tank area.
func (v view) tankX(col, row int) (float64, bool) {
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return 0, false
	}
	return (float64(col) + 0.5) / float64(v.cols) * v.tankW, true
}

// background returns the layer style for the centre of (col, row).
func (v view) background(col, row int, t game.TankView) tcell.Style {
	x := (float64(col) + 0.5) / float64(v.cols) * v.tankW
	y := (float64(row) + 0.5) / float64(v.rows) * v.tankH
	switch {
	case y >= t.SandBase+1:
		return styleDeepSand
	case y >= t.SandSurface:
		return styleSand
	case y >= t.SurfaceY(x):
		if t.Tint > 0.5 {
			return styleMurky
		}
		return styleWater
	default:
		return styleAir
	}
}

// put draws r at tank point (x, y) over whatever background is there.
func (v view) put(s tcell.Screen, x, y float64, r rune, fg tcell.Color, t game.TankView) {
	col, row, ok := v.cell(x, y)
	if !ok {
		return
	}
	s.SetContent(col, row, r, nil, v.background(col, row, t).Foreground(fg))
}

// draw renders snap onto s.
func (v view) draw(s tcell.Screen, snap game.Snapshot, paused bool, source string) {
	t := snap.Tank
	for row := 0; row < v.rows; row++ {
		for col := 0; col < v.cols; col++ {
			s.SetContent(col, row, ' ', nil, v.background(col, row, t))
		}
	}

	for _, n := range snap.Plant {
		v.put(s, n.Body.Pos.X, n.Body.Pos.Y, '*', tcell.ColorLimeGreen, t)
	}
	for _, c := range snap.Cells {
		r := 'o'
		if c.Activity > 0.5 {
			r = 'O'
		}
		v.put(s, c.Pos.X, c.Pos.Y, r, tcell.ColorLightCyan, t)
	}
	for _, f := range snap.Food {
		v.put(s, f.Pos.X, f.Pos.Y, '.', tcell.ColorSandyBrown, t)
	}
	for _, b := range snap.Bubbles {
		if b.Alive {
			v.put(s, b.Body.Pos.X, b.Body.Pos.Y, '°', tcell.ColorWhite, t)
		}
	}
	if snap.Settings.FishVisible {
		v.put(s, snap.Fish.Pos.X, snap.Fish.Pos.Y, fishRune(snap.Fish), tcell.ColorOrange, t)
	}

	status := fmt.Sprintf(" tick %d | O2 %.0f CO2 %.0f | fish %s E%.0f%% | food %d | %s",
		snap.Tick, snap.Oxygen, snap.CO2, snap.Fish.State, snap.Fish.Energy.Rate()*100, len(snap.Food), source)
	if paused {
		status += " | PAUSED"
	}
	drawText(s, 0, v.rows, v.cols, status, styleStatus)
}

func fishRune(f game.FishView) rune {
	switch {
	case f.State == systems.FishDead:
		return 'x'
	case f.FacingLeft:
		return '<'
	default:
		return '>'
	}
}

// drawText writes text on row y from column x, clipped and padded to width.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+width {
			return
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < x+width; col++ {
		s.SetContent(col, y, ' ', nil, style)
	}
}
