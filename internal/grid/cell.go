// Package grid holds the per-cell data model of a level: identity, flags,
// mechanic descriptor and the visual state derived every tick.
package grid

// MechanicKind names a declarative, time-driven visual behavior.
type MechanicKind string

const (
	MechanicNone        MechanicKind = ""
	MechanicSolidColor  MechanicKind = "solid_color"
	MechanicBlinking    MechanicKind = "blinking"
	MechanicRotatingCW  MechanicKind = "rotating_cw"
	MechanicRotatingCCW MechanicKind = "rotating_ccw"
	MechanicLevitating  MechanicKind = "levitating"
	MechanicPulsing     MechanicKind = "pulsing"
	MechanicMulticolor  MechanicKind = "multicolor"
	MechanicColorShift  MechanicKind = "color_shift"
)

// Known reports whether the mechanics engine recognizes k.
func (k MechanicKind) Known() bool {
	switch k {
	case MechanicNone, MechanicSolidColor, MechanicBlinking, MechanicRotatingCW,
		MechanicRotatingCCW, MechanicLevitating, MechanicPulsing,
		MechanicMulticolor, MechanicColorShift:
		return true
	default:
		return false
	}
}

// Coord is a (col, row) grid position.
type Coord struct {
	Col, Row int
}

// C is shorthand for Coord{col, row}.
func C(col, row int) Coord {
	return Coord{Col: col, Row: row}
}

// Cell is one tile of the grid.
// Identity and mechanic are fixed after load; the visual fields are
// rewritten every tick by the mechanics engine.
type Cell struct {
	ID       string
	Col, Row int
	IsStart  bool
	IsExit   bool
	IsJoker  bool

	Mechanic  MechanicKind
	Params    Params
	BaseColor string // authored color, "" when none

	CurrentColor string // "" while a blinking tile is off
	Rotation     float64
	Elevation    float64
	PulseScale   float64
	BlinkVisible bool
}

// Coord returns the cell position.
func (c Cell) Coord() Coord {
	return Coord{Col: c.Col, Row: c.Row}
}

// IsBlinking reports whether the cell carries the blinking mechanic.
func (c Cell) IsBlinking() bool {
	return c.Mechanic == MechanicBlinking
}

// resetVisual restores the visual state to its load-time values.
func (c *Cell) resetVisual() {
	c.CurrentColor = c.BaseColor
	c.Rotation = 0
	c.Elevation = 0
	c.PulseScale = 1
	c.BlinkVisible = true
}
