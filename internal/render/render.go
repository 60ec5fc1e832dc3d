// Package render draws a running level into a core.Screen: the tile grid,
// the player token, the HUD and the staged death, win and complete screens.
package render

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/player"
	"github.com/Jean-Jawed/Patternia/internal/session"
)

// Tile pitch in character cells. The last column and row are the gap.
const (
	TileW = 7
	TileH = 3
)

// Rows used above and below the grid.
const (
	hudRows    = 3
	footerRows = 4
)

var (
	StartColor = core.RGB{R: 0xA8, G: 0xC4, B: 0xB0}
	ExitColor  = core.RGB{R: 0xC8, G: 0xA9, B: 0x6E}
	EmptyColor = core.RGB{R: 0x2B, G: 0x2E, B: 0x36}
	DarkColor  = core.RGB{R: 0x15, G: 0x16, B: 0x1A}

	textColor   = core.RGB{R: 0xE8, G: 0xE6, B: 0xE1}
	dimColor    = core.RGB{R: 0x80, G: 0x84, B: 0x8C}
	hintColor   = core.RGB{R: 0xF5, G: 0xD7, B: 0x8E}
	playerColor = core.RGB{R: 0xFA, G: 0xFA, B: 0xFA}
	deadColor   = core.RGB{R: 0xE7, G: 0x4C, B: 0x3C}
	flashColor  = core.RGB{R: 0xF2, G: 0xF0, B: 0xEA}
)

// Frame is everything needed to draw one frame.
type Frame struct {
	Grid           grid.View
	VisCol, VisRow float64
	Lev            float64
	Dead           bool
	HUD            session.HUD
	Phase          session.Phase
}

// FrameOf captures the current state of a game.
func FrameOf(g *session.Game) Frame {
	s := g.Session()
	p := s.Player()
	vc, vr := p.VisualPos()
	return Frame{
		Grid:   s.Grid(),
		VisCol: vc,
		VisRow: vr,
		Lev:    p.LevOffset(),
		Dead:   p.IsDead(),
		HUD:    g.HUD(),
		Phase:  g.Phase(),
	}
}

// MinSize returns the smallest screen that fits a grid of side n.
func MinSize(n int) (w, h int) {
	return n*TileW + 1, hudRows + n*TileH + footerRows
}

// Draw renders f into dst.
func Draw(dst *core.Screen, f Frame) {
	dst.Clear()
	drawHUD(dst, f.HUD)

	if f.Grid == nil {
		return
	}
	n := f.Grid.Size()
	if w, h := MinSize(n); dst.Width() < w || dst.Height() < h {
		overlay(dst, "Window too small", fmt.Sprintf("need %dx%d", w, h))
		return
	}

	ox := (dst.Width() - n*TileW) / 2
	oy := hudRows

	if f.Phase == session.PhaseFlash {
		dst.FillRect(core.NewRect(ox, oy, n*TileW-1, n*TileH-1), core.FgBg(' ', flashColor, flashColor))
	} else {
		for row := 0; row < n; row++ {
			for col := 0; col < n; col++ {
				c, _ := f.Grid.CellAt(col, row)
				drawTile(dst, ox+col*TileW, oy+row*TileH, c)
			}
		}
		drawPlayer(dst, ox, oy, f)
	}

	drawFooter(dst, oy+n*TileH, f.HUD)

	switch f.Phase {
	case session.PhaseDeathScreen:
		overlay(dst, f.HUD.Message, "enter: try again")
	case session.PhaseWinScreen:
		overlay(dst, f.HUD.Message, "enter: next level")
	case session.PhaseComplete:
		overlay(dst, "Every pattern understood.", "enter: play again")
	case session.PhaseLoading:
		if f.HUD.LoadErr != nil {
			overlay(dst, "Level failed to load", "r: retry  n/p: other level")
		}
	}
}

// TileFill returns the block color of a cell as drawn.
func TileFill(c grid.Cell) core.RGB {
	switch {
	case c.IsStart:
		return StartColor
	case c.IsExit:
		return ExitColor
	case c.IsBlinking() && !c.BlinkVisible:
		return DarkColor
	}
	if rgb, ok := core.ParseColor(c.CurrentColor); ok {
		return rgb
	}
	return EmptyColor
}

func drawTile(dst *core.Screen, x, y int, c grid.Cell) {
	fill := TileFill(c)
	ink := contrast(fill)
	w, h := TileW-1, TileH-1

	block := core.NewRect(x, y, w, h)
	if c.Mechanic == grid.MechanicPulsing && c.PulseScale < .9 {
		block = core.NewRect(x+1, y, w-2, h)
	}
	dst.FillRect(block, core.FgBg(' ', ink, fill))

	mid := x + w/2
	switch {
	case c.IsJoker:
		dst.SetCell(mid, y+1, core.FgBg('?', ink, fill))
	case c.Mechanic == grid.MechanicRotatingCW || c.Mechanic == grid.MechanicRotatingCCW:
		dst.SetCell(mid, y+1, core.FgBg(rotationGlyph(c.Rotation), ink, fill))
	}

	if c.Mechanic == grid.MechanicLevitating {
		if m := elevationGlyph(c.Elevation); m != 0 {
			for i := block.X; i < block.Right(); i++ {
				dst.SetCell(i, y, core.FgBg(m, ink, fill))
			}
		}
	}
}

// rotationGlyph picks an arrow for the quadrant the angle points into.
func rotationGlyph(angle float64) rune {
	a := math.Mod(angle, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	arrows := []rune{'↑', '→', '↓', '←'}
	return arrows[int(a/(math.Pi/2))%4]
}

func elevationGlyph(e float64) rune {
	switch {
	case e >= 10:
		return '▀'
	case e >= 5:
		return '▔'
	default:
		return 0
	}
}

func drawPlayer(dst *core.Screen, ox, oy int, f Frame) {
	x := ox + int(math.Round(f.VisCol*TileW)) + (TileW-1)/2
	y := oy + int(math.Round(f.VisRow*TileH))
	if f.Lev < player.LevAmplitude {
		y++
	}

	r, fg := '●', playerColor
	if f.Dead {
		r, fg = '✕', deadColor
	}
	under := dst.GetCell(x, y)
	if under.HasBG {
		dst.SetCell(x, y, core.FgBg(r, fg, under.BG))
	} else {
		dst.SetCell(x, y, core.Fg(r, fg))
	}
}

func drawHUD(dst *core.Screen, h session.HUD) {
	left := fmt.Sprintf(" Level %d", h.LevelID)
	if h.Title != "" {
		left += " · " + h.Title
	}
	right := fmt.Sprintf("deaths %d  steps %d ", h.Deaths, h.Steps)
	if h.Muted {
		right = "muted  " + right
	}
	dst.DrawTextColor(0, 0, left, textColor)
	dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(right), 0, right, dimColor)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func drawFooter(dst *core.Screen, y int, h session.HUD) {
	if h.WallHint != "" {
		dst.DrawTextCenteredColor(y, h.WallHint, dimColor)
	}

	if len(h.Sequence) > 0 {
		var b strings.Builder
		if h.SequenceLabel != "" {
			b.WriteString(h.SequenceLabel)
			b.WriteString("  ")
		}
		label := b.String()
		width := utf8.RuneCountInString(label) + 2*len(h.Sequence)
		x := (dst.Width() - width) / 2
		dst.DrawTextColor(x, y+1, label, textColor)
		x += utf8.RuneCountInString(label)
		for _, c := range h.Sequence {
			rgb, ok := core.ParseColor(c)
			if !ok {
				rgb = dimColor
			}
			dst.SetCell(x, y+1, core.Fg('●', rgb))
			x += 2
		}
	}

	if h.Hint != "" {
		dst.DrawTextCenteredColor(y+2, h.Hint, hintColor)
	}
}

// overlay draws a centered two-line box.
func overlay(dst *core.Screen, line1, line2 string) {
	w := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2)) + 6
	h := 5
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.FillRect(box, core.Plain(' '))
	dst.DrawBox(box)
	dst.DrawTextCenteredColor(box.Y+1, line1, textColor)
	dst.DrawTextCenteredColor(box.Y+3, line2, dimColor)
}

// contrast returns a readable ink for text drawn on bg.
func contrast(bg core.RGB) core.RGB {
	lum := .299*float64(bg.R) + .587*float64(bg.G) + .114*float64(bg.B)
	if lum > 140 {
		return core.RGB{R: 0x1A, G: 0x1A, B: 0x1A}
	}
	return playerColor
}
