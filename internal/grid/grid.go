package grid

// DefaultSize is the grid side length used when a level gives none.
const DefaultSize = 6

// View is read-only access to a grid, for components that only look cells up.
type View interface {
	Size() int
	CellAt(col, row int) (Cell, bool)
}

// Grid is a square board of cells stored in row-major order:
// index = row*size + col.
type Grid struct {
	size  int
	cells []Cell
	start Coord
	exit  Coord
}

// New creates a size×size grid with start and exit marked.
// A non-positive size becomes DefaultSize; an out-of-bounds start or exit
// falls back to the top-left and bottom-right corners respectively.
func New(size int, start, exit Coord) *Grid {
	if size < 1 {
		size = DefaultSize
	}
	g := &Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			c := &g.cells[row*size+col]
			c.Col, c.Row = col, row
			c.resetVisual()
		}
	}

	if !g.InBounds(start.Col, start.Row) {
		start = C(0, 0)
	}
	if !g.InBounds(exit.Col, exit.Row) {
		exit = C(size-1, size-1)
	}
	g.start, g.exit = start, exit
	g.cells[g.index(start.Col, start.Row)].IsStart = true
	g.cells[g.index(exit.Col, exit.Row)].IsExit = true
	return g
}

func (g *Grid) index(col, row int) int {
	return row*g.size + col
}

// Size returns the side length.
func (g *Grid) Size() int {
	return g.size
}

// InBounds returns true if (col, row) lies on the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.size && row >= 0 && row < g.size
}

// At returns a mutable pointer to the cell at (col, row), or nil.
func (g *Grid) At(col, row int) *Cell {
	if !g.InBounds(col, row) {
		return nil
	}
	return &g.cells[g.index(col, row)]
}

// CellAt returns a copy of the cell at (col, row).
func (g *Grid) CellAt(col, row int) (Cell, bool) {
	if !g.InBounds(col, row) {
		return Cell{}, false
	}
	return g.cells[g.index(col, row)], true
}

// Start returns the start cell position.
func (g *Grid) Start() Coord {
	return g.start
}

// Exit returns the exit cell position.
func (g *Grid) Exit() Coord {
	return g.exit
}

// Cells returns the backing slice in row-major order. The mechanics engine
// mutates visual fields through it.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// FindByID returns the first cell with the given id.
func (g *Grid) FindByID(id string) (Cell, bool) {
	if id == "" {
		return Cell{}, false
	}
	for _, c := range g.cells {
		if c.ID == id {
			return c, true
		}
	}
	return Cell{}, false
}

// ResetVisuals restores every cell's derived visual state.
func (g *Grid) ResetVisuals() {
	for i := range g.cells {
		g.cells[i].resetVisual()
	}
}
