package render

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/session"
)

func testFrame() Frame {
	g := grid.New(3, grid.C(0, 0), grid.C(2, 2))
	red := g.At(1, 0)
	red.CurrentColor = "#E74C3C"
	joker := g.At(2, 0)
	joker.CurrentColor = "#4A90D9"
	joker.IsJoker = true
	return Frame{
		Grid:  g,
		Lev:   12,
		HUD:   session.HUD{LevelID: 3, Title: "Blink", Deaths: 2, Steps: 5},
		Phase: session.PhasePlaying,
	}
}

// origin returns where a 3x3 grid lands on an 80x24 screen.
func origin() (int, int) {
	return (80 - 3*TileW) / 2, hudRows
}

func TestDrawTiles(t *testing.T) {
	scr := core.NewScreen(80, 24)
	Draw(scr, testFrame())
	ox, oy := origin()

	tests := []struct {
		name string
		x, y int
		want core.RGB
	}{
		{"start", ox + 1, oy + 1, StartColor},
		{"red", ox + TileW + 1, oy, core.RGB{R: 0xE7, G: 0x4C, B: 0x3C}},
		{"empty", ox, oy + TileH, EmptyColor},
		{"exit", ox + 2*TileW, oy + 2*TileH, ExitColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := scr.GetCell(tt.x, tt.y)
			if !c.HasBG || c.BG != tt.want {
				t.Errorf("bg at (%d,%d) = %v (set %v), want %v", tt.x, tt.y, c.BG, c.HasBG, tt.want)
			}
		})
	}

	if gap := scr.GetCell(ox+TileW-1, oy); gap.HasBG {
		t.Error("gap column is filled")
	}
	if r := scr.Get(ox+2*TileW+(TileW-1)/2, oy+1); r != '?' {
		t.Errorf("joker glyph = %q", r)
	}
}

func TestDrawPlayer(t *testing.T) {
	ox, oy := origin()
	px := ox + (TileW-1)/2

	scr := core.NewScreen(80, 24)
	f := testFrame()
	Draw(scr, f)
	if r := scr.Get(px, oy); r != '●' {
		t.Errorf("raised player at row 0 = %q", r)
	}
	if c := scr.GetCell(px, oy); c.BG != StartColor {
		t.Errorf("player lost the tile background")
	}

	f.Lev = 0
	f.Dead = true
	Draw(scr, f)
	if r := scr.Get(px, oy+1); r != '✕' {
		t.Errorf("dead player = %q", r)
	}

	f.VisCol, f.VisRow = 1, 1
	Draw(scr, f)
	if r := scr.Get(px+TileW, oy+TileH+1); r != '✕' {
		t.Errorf("player not moved with visual position")
	}
}

func TestDrawHUD(t *testing.T) {
	scr := core.NewScreen(80, 24)
	f := testFrame()
	f.HUD.WallHint = "Wait for the dark."
	f.HUD.Hint = "Not twice."
	f.HUD.Sequence = []string{"#E74C3C", "#4A90D9"}
	f.HUD.SequenceLabel = "Order"
	f.HUD.Muted = true
	Draw(scr, f)
	out := scr.String()

	for _, want := range []string{"Level 3 · Blink", "deaths 2  steps 5", "muted", "Wait for the dark.", "Not twice.", "Order"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q", want)
		}
	}
	if n := strings.Count(out, "●"); n < 2 {
		t.Errorf("sequence dots = %d, want at least 2", n)
	}
}

func TestOverlays(t *testing.T) {
	tests := []struct {
		phase session.Phase
		hud   session.HUD
		want  string
	}{
		{session.PhaseDeathScreen, session.HUD{Message: "You fell."}, "You fell."},
		{session.PhaseWinScreen, session.HUD{Message: "Pattern understood."}, "next level"},
		{session.PhaseComplete, session.HUD{}, "Every pattern understood."},
		{session.PhaseLoading, session.HUD{LoadErr: errors.New("x")}, "failed to load"},
	}
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			scr := core.NewScreen(80, 24)
			f := testFrame()
			f.Phase, f.HUD = tt.phase, tt.hud
			Draw(scr, f)
			if !strings.Contains(scr.String(), tt.want) {
				t.Errorf("overlay missing %q", tt.want)
			}
		})
	}
}

func TestTooSmall(t *testing.T) {
	scr := core.NewScreen(15, 8)
	Draw(scr, testFrame())
	if !strings.Contains(scr.String(), "too small") {
		t.Error("no size warning")
	}
}

func TestTileFillBlinkOff(t *testing.T) {
	c := grid.Cell{Mechanic: grid.MechanicBlinking, CurrentColor: "#E74C3C"}
	if got := TileFill(c); got != DarkColor {
		t.Errorf("blink off = %v", got)
	}
	c.BlinkVisible = true
	if got := TileFill(c); got == DarkColor {
		t.Error("blink on drawn dark")
	}
}

func TestRotationGlyph(t *testing.T) {
	tests := []struct {
		angle float64
		want  rune
	}{
		{0, '↑'},
		{math.Pi / 2, '→'},
		{math.Pi + .1, '↓'},
		{-.1, '←'},
	}
	for _, tt := range tests {
		if got := rotationGlyph(tt.angle); got != tt.want {
			t.Errorf("rotationGlyph(%v) = %q, want %q", tt.angle, got, tt.want)
		}
	}
}
