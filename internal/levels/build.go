package levels

import (
	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/levels/formats"
)

// ToGrid creates a Grid from the level.
func (l *Level) ToGrid() *grid.Grid {
	return BuildGrid(l.Descriptor)
}

// BuildGrid builds a fresh grid from a descriptor. Start and exit fall
// back to opposite corners; cell entries outside the grid are ignored.
func BuildGrid(d formats.Descriptor) *grid.Grid {
	g := grid.New(d.Size(), d.StartCoord(), d.ExitCoord())

	for _, spec := range d.Cells {
		if len(spec.Position) < 2 {
			continue
		}
		c := g.At(spec.Position[0], spec.Position[1])
		if c == nil {
			continue
		}
		c.ID = grid.IDString(spec.ID)
		c.Mechanic = grid.MechanicKind(spec.Mechanic)
		c.Params = grid.Params(spec.MechanicParams)
		if c.Params == nil {
			c.Params = grid.Params{}
		}
		c.BaseColor = c.Params.String("color", "")
		c.CurrentColor = c.BaseColor
		c.IsJoker = spec.Joker
	}
	return g
}
