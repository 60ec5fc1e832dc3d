// Package player implements the movement state machine of the player token:
// discrete grid position, eased in-flight interpolation, border policies
// and the levitation bob.
package player

import (
	"math"

	"github.com/Jean-Jawed/Patternia/internal/core"
)

// Defaults for a traversal and the levitation bob.
const (
	MoveFrames   = 11
	LevAmplitude = 8.0
	LevFrequency = .038
)

// Config tunes movement timing.
type Config struct {
	MoveFrames   int
	LevAmplitude float64
	LevFrequency float64
}

// DefaultConfig returns the standard movement timing.
func DefaultConfig() Config {
	return Config{
		MoveFrames:   MoveFrames,
		LevAmplitude: LevAmplitude,
		LevFrequency: LevFrequency,
	}
}

// Phase is the movement state.
type Phase int

const (
	Idle Phase = iota
	Moving
	Dead
)

func (p Phase) String() string {
	switch p {
	case Moving:
		return "moving"
	case Dead:
		return "dead"
	default:
		return "idle"
	}
}

// EventKind tags the outcome of an Update.
type EventKind int

const (
	EventNone EventKind = iota
	EventLanded
	EventBorderHit
)

// Event is what a single Update produced, at most one per tick.
type Event struct {
	Kind     EventKind
	Col, Row int            // landed position
	Dir      core.Direction // border-hit direction
}

// Player is the token the user steers.
type Player struct {
	cfg Config

	col, row         int
	fromCol, fromRow int
	toCol, toRow     int
	visCol, visRow   float64

	phase Phase
	frame int // frames elapsed in the current move

	levTime   float64
	levOffset float64
}

// New creates an idle player at (0, 0).
func New(cfg Config) *Player {
	if cfg.MoveFrames < 1 {
		cfg.MoveFrames = MoveFrames
	}
	p := &Player{cfg: cfg}
	p.Reset(0, 0)
	return p
}

// Reset places the player idle at (col, row), dropping any move and
// clearing the dead state.
func (p *Player) Reset(col, row int) {
	p.col, p.fromCol, p.toCol = col, col, col
	p.row, p.fromRow, p.toRow = row, row, row
	p.visCol, p.visRow = float64(col), float64(row)
	p.phase = Idle
	p.frame = 0
}

// Teleport snaps the player to (col, row) with reset semantics.
func (p *Player) Teleport(col, row int) {
	p.Reset(col, row)
}

// Die freezes the player where it is drawn.
func (p *Player) Die() {
	p.phase = Dead
}

// Update advances one tick. dir is consumed only while idle; the caller
// must not pass a direction while the player is moving.
func (p *Player) Update(dir core.Direction, gridSize int, policy BorderPolicy) Event {
	if p.phase == Dead {
		return Event{}
	}

	p.levTime += p.cfg.LevFrequency
	p.levOffset = p.cfg.LevAmplitude + math.Sin(p.levTime)*p.cfg.LevAmplitude*.55

	if p.phase == Moving {
		return p.advance()
	}
	if dir == core.DirNone {
		return Event{}
	}
	return p.tryMove(dir, gridSize, policy)
}

func (p *Player) tryMove(dir core.Direction, gridSize int, policy BorderPolicy) Event {
	dx, dy := dir.Delta()
	nc, nr := p.col+dx, p.row+dy

	if nc >= 0 && nc < gridSize && nr >= 0 && nr < gridSize {
		p.startMove(nc, nr)
		return Event{}
	}

	switch policy {
	case BorderKill, BorderExit:
		return Event{Kind: EventBorderHit, Col: p.col, Row: p.row, Dir: dir}
	case BorderWrap:
		p.startMove(core.Mod(nc, gridSize), core.Mod(nr, gridSize))
	}
	return Event{}
}

func (p *Player) startMove(col, row int) {
	p.fromCol, p.fromRow = p.col, p.row
	p.toCol, p.toRow = col, row
	p.frame = 0
	p.phase = Moving
}

func (p *Player) advance() Event {
	p.frame++
	if p.frame >= p.cfg.MoveFrames {
		p.col, p.row = p.toCol, p.toRow
		p.visCol, p.visRow = float64(p.col), float64(p.row)
		p.phase = Idle
		p.frame = 0
		return Event{Kind: EventLanded, Col: p.col, Row: p.row}
	}
	t := core.EaseInOut(p.Progress())
	p.visCol = core.Lerp(float64(p.fromCol), float64(p.toCol), t)
	p.visRow = core.Lerp(float64(p.fromRow), float64(p.toRow), t)
	return Event{}
}

// Col returns the discrete column.
func (p *Player) Col() int { return p.col }

// Row returns the discrete row.
func (p *Player) Row() int { return p.row }

// Phase returns the movement state.
func (p *Player) Phase() Phase { return p.phase }

// IsMoving reports whether a traversal is in flight.
func (p *Player) IsMoving() bool { return p.phase == Moving }

// IsDead reports whether the player died.
func (p *Player) IsDead() bool { return p.phase == Dead }

// Progress returns the raw traversal fraction in [0, 1).
func (p *Player) Progress() float64 {
	if p.phase != Moving {
		return 0
	}
	return float64(p.frame) / float64(p.cfg.MoveFrames)
}

// Target returns the destination of the current move, or the position.
func (p *Player) Target() (int, int) {
	return p.toCol, p.toRow
}

// VisualPos returns the interpolated position in grid units.
func (p *Player) VisualPos() (float64, float64) {
	return p.visCol, p.visRow
}

// LevOffset returns the current levitation height.
func (p *Player) LevOffset() float64 {
	return p.levOffset
}
