// Package mechanics derives each cell's visual attributes from the global
// tick counter and the cell's mechanic parameters.
package mechanics

import (
	"math"

	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/grid"
)

// Per-mechanic defaults.
const (
	DefaultColor      = "#888"
	BlinkSpeed        = .04
	RotateSpeed       = .025
	LevitateAmplitude = 8.0
	LevitateFrequency = .03
	PulseSpeed        = .03
	PulseMinScale     = .75
	PulseMaxScale     = 1.0
	MulticolorSpeed   = .01
	ColorShiftSpeed   = .02
	ColorShiftFrom    = "#4A90D9"
	ColorShiftTo      = "#E74C3C"
)

// DefaultPalette is the multicolor cycle when a cell gives none.
var DefaultPalette = []string{"#E74C3C", "#4A90D9", "#F5A623"}

const tau = 2 * math.Pi

// Visual is the derived per-tick state of a cell.
type Visual struct {
	Color        string // "" while a blinking cell is off
	Rotation     float64
	Elevation    float64
	PulseScale   float64
	BlinkVisible bool
}

// Derive computes a cell's visuals at tick t. It reads only the cell's
// mechanic, params and base color. color_shift cells report lowercase
// #rrggbb, so a touch_cell_color rule on them must name a hex color.
func Derive(c grid.Cell, t int) Visual {
	v := Visual{Color: c.BaseColor, PulseScale: 1, BlinkVisible: true}
	p := c.Params
	tf := float64(t)

	switch c.Mechanic {
	case grid.MechanicSolidColor:
		v.Color = p.Color(DefaultColor)

	case grid.MechanicBlinking:
		on := math.Sin(tf*p.Float("speed", BlinkSpeed)*tau) > 0
		v.BlinkVisible = on
		v.Color = ""
		if on {
			v.Color = p.Color(DefaultColor)
		}

	case grid.MechanicRotatingCW:
		v.Color = p.Color(DefaultColor)
		v.Rotation = math.Mod(tf*p.Float("speed", RotateSpeed), tau)

	case grid.MechanicRotatingCCW:
		v.Color = p.Color(DefaultColor)
		v.Rotation = -math.Mod(tf*p.Float("speed", RotateSpeed), tau)

	case grid.MechanicLevitating:
		amp := p.Float("amplitude", LevitateAmplitude)
		freq := p.Float("frequency", LevitateFrequency)
		v.Color = p.Color(DefaultColor)
		v.Elevation = amp + math.Sin(tf*freq*tau)*amp*.5

	case grid.MechanicPulsing:
		spd := p.Float("speed", PulseSpeed)
		mn := p.Float("min_scale", PulseMinScale)
		mx := p.Float("max_scale", PulseMaxScale)
		v.Color = p.Color(DefaultColor)
		v.PulseScale = mn + (math.Sin(tf*spd*tau)*.5+.5)*(mx-mn)

	case grid.MechanicMulticolor:
		cols := p.Strings("colors", DefaultPalette)
		spd := p.Float("speed", MulticolorSpeed)
		idx := int(math.Floor(tf * spd))
		v.Color = cols[core.Mod(idx, len(cols))]

	case grid.MechanicColorShift:
		fac := math.Sin(tf*p.Float("speed", ColorShiftSpeed)*tau)*.5 + .5
		v.Color = core.LerpColor(p.String("color_from", ColorShiftFrom), p.String("color_to", ColorShiftTo), fac)
	}
	return v
}

// Apply writes v into the cell's visual fields.
func Apply(c *grid.Cell, v Visual) {
	c.CurrentColor = v.Color
	c.Rotation = v.Rotation
	c.Elevation = v.Elevation
	c.PulseScale = v.PulseScale
	c.BlinkVisible = v.BlinkVisible
}

// Engine owns the global mechanics clock.
type Engine struct {
	time int
}

// NewEngine creates an engine at tick 0.
func NewEngine() *Engine {
	return &Engine{}
}

// Time returns the current tick.
func (e *Engine) Time() int {
	return e.time
}

// Reset rewinds the clock to 0.
func (e *Engine) Reset() {
	e.time = 0
}

// Update advances the clock one tick and refreshes every cell. Start and
// exit cells are never animated and always sit at elevation 0.
func (e *Engine) Update(g *grid.Grid) {
	e.time++
	cells := g.Cells()
	for i := range cells {
		c := &cells[i]
		if c.IsStart || c.IsExit {
			c.Elevation = 0
			continue
		}
		Apply(c, Derive(*c, e.time))
	}
}
