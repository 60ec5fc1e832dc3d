// Package session runs levels: one tick pipeline per loaded level and the
// campaign flow around it.
package session

import (
	"io"

	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/mechanics"
	"github.com/Jean-Jawed/Patternia/internal/player"
	"github.com/Jean-Jawed/Patternia/internal/rules"
	"github.com/charmbracelet/log"
)

// EventKind tags a presentation event.
type EventKind int

const (
	EventLanded EventKind = iota + 1
	EventBorderHit
	EventKill
	EventWin
	EventTeleport
	EventShowHint
	EventShowSequence
	EventPlaySound
	EventStopSound
	EventLevelStart
)

var eventNames = map[EventKind]string{
	EventLanded:       "landed",
	EventBorderHit:    "border_hit",
	EventKill:         "kill",
	EventWin:          "win",
	EventTeleport:     "teleport",
	EventShowHint:     "show_hint",
	EventShowSequence: "show_sequence",
	EventPlaySound:    "play_sound",
	EventStopSound:    "stop_sound",
	EventLevelStart:   "level_start",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return "unknown"
}

// Event is something a tick produced for the presentation layer.
type Event struct {
	Kind       EventKind
	Col, Row   int            // landed, teleport
	Dir        core.Direction // border hit
	Text       string         // hint
	DurationMs int            // hint, sequence
	Colors     []string       // sequence
	Label      string         // sequence
	SoundID    string         // play_sound
	LevelID    int            // level start
}

// Session is one loaded level: grid, player, rule state, mechanics clock
// and pending input. It is driven by Tick and is not safe for concurrent use.
type Session struct {
	level   levels.Level
	grid    *grid.Grid
	player  *player.Player
	rules   *rules.Interpreter
	hints   []rules.Hint
	mech    *mechanics.Engine
	intents *core.IntentQueue
	border  player.BorderPolicy
	active  bool
	ticks   int

	logger *log.Logger
}

// New creates an empty, inactive session.
func New(cfg config.GameConfig, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		grid: grid.New(grid.DefaultSize, grid.C(0, 0), grid.C(grid.DefaultSize-1, grid.DefaultSize-1)),
		player: player.New(player.Config{
			MoveFrames:   cfg.Sim.MoveFrames,
			LevAmplitude: cfg.Sim.LevAmplitude,
			LevFrequency: cfg.Sim.LevFrequency,
		}),
		rules: rules.NewInterpreter(rules.Options{
			TickRate:         cfg.Sim.TickRate,
			SequenceCapacity: cfg.Sim.SequenceCapacity,
			RuleHintMs:       cfg.Timing.RuleHintMs,
			DeathHintMs:      cfg.Timing.DeathHintMs,
			Logger:           logger,
		}),
		mech:    mechanics.NewEngine(),
		intents: core.NewIntentQueue(cfg.Sim.InputCapacity),
		border:  player.BorderKill,
		logger:  logger,
	}
}

// Load replaces the level. The session is left inactive and the death
// counter is kept; everything else starts over.
func (s *Session) Load(lvl levels.Level) {
	s.active = false
	s.level = lvl
	s.grid = lvl.ToGrid()

	policy, ok := player.ParseBorderPolicy(lvl.Border())
	if !ok {
		s.logger.Warn("unknown border behavior, blocking", "level", lvl.ID, "border", lvl.BorderBehavior)
	}
	s.border = policy

	s.rules.Load(levels.ParseRules(lvl.Rules), s.grid)
	s.hints = levels.Hints(lvl.Descriptor)

	start := s.grid.Start()
	s.player.Reset(start.Col, start.Row)
	s.mech.Reset()
	s.intents.Flush()
	s.ticks = 0
}

// Activate lets Tick consume input and run rules.
func (s *Session) Activate() { s.active = true }

// Deactivate stops the simulation. Pending input is dropped.
func (s *Session) Deactivate() {
	s.active = false
	s.intents.Flush()
}

// Active reports whether the simulation is running.
func (s *Session) Active() bool { return s.active }

// ResetDeaths zeroes the death counter.
func (s *Session) ResetDeaths() { s.rules.ResetDeaths() }

// Push queues a direction. Input is ignored while inactive.
func (s *Session) Push(d core.Direction) bool {
	if !s.active {
		return false
	}
	return s.intents.Push(d)
}

// Tick runs one simulation step: intent, movement, landing and border
// rules, mechanics, idle rules. An inactive session does nothing.
func (s *Session) Tick() []Event {
	if !s.active {
		return nil
	}
	s.ticks++

	var out []Event
	dir := core.DirNone
	if !s.player.IsMoving() {
		dir = s.intents.Pop()
	}

	ev := s.player.Update(dir, s.grid.Size(), s.border)
	switch ev.Kind {
	case player.EventLanded:
		out = append(out, Event{Kind: EventLanded, Col: ev.Col, Row: ev.Row})
		out = s.dispatch(out, s.rules.OnLand(ev.Col, ev.Row))
		out = s.dispatch(out, s.rules.CheckHints(s.hints))
	case player.EventBorderHit:
		out = append(out, Event{Kind: EventBorderHit, Dir: ev.Dir})
		out = s.dispatch(out, s.rules.OnBorderHit(s.border))
	}

	if !s.active {
		// The level ended this tick; freeze it as it was.
		return out
	}
	s.mech.Update(s.grid)
	out = s.dispatch(out, s.rules.Tick(s.player.IsMoving()))
	return out
}

// CheckHints returns the death-count hints that are due now.
func (s *Session) CheckHints() []Event {
	return s.dispatch(nil, s.rules.CheckHints(s.hints))
}

// Apply runs an effect from outside the rule list.
func (s *Session) Apply(eff rules.Effect) []Event {
	return s.dispatch(nil, s.rules.Apply(eff))
}

// dispatch turns interpreter effects into events, applying the ones that
// touch the session itself. Kill and win are dropped once inactive.
func (s *Session) dispatch(out []Event, effs []rules.Effect) []Event {
	for _, e := range effs {
		switch e.Kind {
		case rules.EffectKill:
			if !s.active {
				continue
			}
			s.active = false
			s.player.Die()
			s.intents.Flush()
			out = append(out, Event{Kind: EventKill})

		case rules.EffectWin:
			if !s.active {
				continue
			}
			s.active = false
			s.intents.Flush()
			out = append(out, Event{Kind: EventWin})

		case rules.EffectTeleport:
			if !s.grid.InBounds(e.Col, e.Row) {
				s.logger.Warn("teleport target out of bounds", "col", e.Col, "row", e.Row)
				continue
			}
			s.player.Teleport(e.Col, e.Row)
			out = append(out, Event{Kind: EventTeleport, Col: e.Col, Row: e.Row})

		case rules.EffectShowHint:
			out = append(out, Event{Kind: EventShowHint, Text: e.Text, DurationMs: e.DurationMs})

		case rules.EffectPlaySound:
			out = append(out, Event{Kind: EventPlaySound, SoundID: e.SoundID})

		case rules.EffectStopSound:
			out = append(out, Event{Kind: EventStopSound})
		}
	}
	return out
}

func (s *Session) Level() levels.Level { return s.level }
func (s *Session) Grid() *grid.Grid { return s.grid }
func (s *Session) Player() *player.Player { return s.player }
func (s *Session) Border() player.BorderPolicy { return s.border }
func (s *Session) Deaths() int { return s.rules.Deaths() }
func (s *Session) Steps() int { return s.rules.Steps() }
func (s *Session) Ticks() int { return s.ticks }
func (s *Session) MusicPlaying() bool { return s.rules.MusicPlaying() }
func (s *Session) Colors() []string { return s.rules.Colors() }
