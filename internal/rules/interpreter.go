// Package rules evaluates level-authored condition/effect rules against
// landing, tick and border events. Evaluation is ordered and first-match.
package rules

import (
	"io"

	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/player"
	"github.com/Jean-Jawed/Patternia/internal/registry"
	"github.com/charmbracelet/log"
)

// Defaults for Options.
const (
	DefaultTickRate         = 60
	DefaultSequenceCapacity = 64
)

// Options configures an Interpreter.
type Options struct {
	TickRate         int // ticks per idle second
	SequenceCapacity int
	RuleHintMs       int // show_hint effects without a duration
	DeathHintMs      int // death-count hints without a duration
	Logger           *log.Logger
}

// State is the interpreter's accumulated memory.
type State struct {
	Colors       *Ring[string] // normalized colors of non-joker landings
	SolidColors  *Ring[string] // same, excluding blinking cells
	Steps        int
	Deaths       int
	IdleTicks    int
	MusicPlaying bool
}

// Interpreter owns rule state for one level session.
type Interpreter struct {
	rules     []Rule
	grid      grid.View
	state     State
	tickRate  int
	ruleHint  int
	deathHint int
	logger    *log.Logger

	warned map[string]bool
}

// NewInterpreter creates an interpreter with no rules loaded.
func NewInterpreter(opts Options) *Interpreter {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.SequenceCapacity <= 0 {
		opts.SequenceCapacity = DefaultSequenceCapacity
	}
	if opts.RuleHintMs <= 0 {
		opts.RuleHintMs = DefaultRuleHintMs
	}
	if opts.DeathHintMs <= 0 {
		opts.DeathHintMs = DefaultDeathHintMs
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Interpreter{
		state: State{
			Colors:      NewRing[string](opts.SequenceCapacity),
			SolidColors: NewRing[string](opts.SequenceCapacity),
		},
		tickRate:  opts.TickRate,
		ruleHint:  opts.RuleHintMs,
		deathHint: opts.DeathHintMs,
		logger:    opts.Logger,
		warned:    make(map[string]bool),
	}
}

// Load installs a level's rules and grid and resets all state except
// the death counter.
func (in *Interpreter) Load(rules []Rule, g grid.View) {
	in.rules = rules
	in.grid = g

	deaths := in.state.Deaths
	in.state.Colors.Reset()
	in.state.SolidColors.Reset()
	in.state = State{
		Colors:      in.state.Colors,
		SolidColors: in.state.SolidColors,
		Deaths:      deaths,
	}

	for _, r := range rules {
		Walk(r.Condition, func(c Condition) {
			if u, ok := c.(UnsupportedCondition); ok {
				in.logger.Warn("unsupported condition", "type", u.Tag)
			}
		})
		if r.Effect.Kind == EffectUnsupported {
			in.logger.Warn("unsupported effect", "type", r.Effect.Tag)
		}
	}
}

// ResetDeaths zeroes the death counter.
func (in *Interpreter) ResetDeaths() {
	in.state.Deaths = 0
}

// Deaths returns the death counter.
func (in *Interpreter) Deaths() int { return in.state.Deaths }

// Steps returns the step counter.
func (in *Interpreter) Steps() int { return in.state.Steps }

// IdleTicks returns the idle counter.
func (in *Interpreter) IdleTicks() int { return in.state.IdleTicks }

// MusicPlaying reports the looping sound flag.
func (in *Interpreter) MusicPlaying() bool { return in.state.MusicPlaying }

// Colors returns the primary color sequence, oldest first.
func (in *Interpreter) Colors() []string { return in.state.Colors.Slice() }

// SolidColors returns the non-blinking color sequence, oldest first.
func (in *Interpreter) SolidColors() []string { return in.state.SolidColors.Slice() }

// OnLand records the landed cell and fires the first matching rule.
func (in *Interpreter) OnLand(col, row int) []Effect {
	var cell grid.Cell
	if in.grid != nil {
		cell, _ = in.grid.CellAt(col, row)
	}

	ck := core.ColorKey(cell.CurrentColor)
	if ck != "" && !cell.IsJoker {
		in.state.Colors.Push(ck)
		if !cell.IsBlinking() {
			in.state.SolidColors.Push(ck)
		}
	}
	in.state.Steps++

	for _, r := range in.rules {
		if in.match(r.Condition, col, row, cell) {
			return in.trigger(r.Effect)
		}
	}
	return nil
}

// Tick advances the idle counter and fires idle rules whose threshold
// is reached. Every matching idle rule fires; the counter resets after each.
func (in *Interpreter) Tick(moving bool) []Effect {
	if moving {
		in.state.IdleTicks = 0
	} else {
		in.state.IdleTicks++
	}

	var out []Effect
	for _, r := range in.rules {
		idle, ok := r.Condition.(IdleSeconds)
		if !ok {
			continue
		}
		needed := int(idle.Seconds * float64(in.tickRate))
		if in.state.IdleTicks >= needed {
			out = append(out, in.trigger(r.Effect)...)
			in.state.IdleTicks = 0
		}
	}
	return out
}

// OnBorderHit maps a border hit straight to kill or win, bypassing the
// rule list. Other policies produce nothing.
func (in *Interpreter) OnBorderHit(policy player.BorderPolicy) []Effect {
	switch policy {
	case player.BorderKill:
		return in.trigger(Effect{Kind: EffectKill, Tag: "kill"})
	case player.BorderExit:
		return in.trigger(Effect{Kind: EffectWin, Tag: "win"})
	default:
		return nil
	}
}

// CheckHints returns a show_hint effect for every hint whose threshold
// the death counter has reached.
func (in *Interpreter) CheckHints(hints []Hint) []Effect {
	var out []Effect
	for _, h := range hints {
		if in.state.Deaths < h.Threshold {
			continue
		}
		d := h.DurationMs
		if d <= 0 {
			d = in.deathHint
		}
		out = append(out, Effect{Kind: EffectShowHint, Tag: "show_hint", Text: h.Text, DurationMs: d})
	}
	return out
}

// Apply runs an effect that did not come from the rule list, such as a
// scheduled level event, with the same state changes as a rule match.
func (in *Interpreter) Apply(eff Effect) []Effect {
	return in.trigger(eff)
}

// trigger applies an effect's internal state change and returns it for
// outward dispatch. Unsupported effects are dropped.
func (in *Interpreter) trigger(eff Effect) []Effect {
	switch eff.Kind {
	case EffectKill:
		in.state.Deaths++
	case EffectPlaySound:
		in.state.MusicPlaying = true
	case EffectStopSound:
		in.state.MusicPlaying = false
	case EffectShowHint:
		if eff.DurationMs <= 0 {
			eff.DurationMs = in.ruleHint
		}
	case EffectUnsupported:
		return nil
	}
	return []Effect{eff}
}

// match evaluates a condition against a landing on cell.
func (in *Interpreter) match(c Condition, col, row int, cell grid.Cell) bool {
	if c == nil {
		return false
	}
	ck := core.ColorKey(cell.CurrentColor)

	switch cond := c.(type) {
	case TouchCell:
		return cond.CellID != "" && cell.ID == cond.CellID

	case TouchCellColor:
		return ck == cond.Color

	case ReachExit:
		return cell.IsExit

	case TwoConsecutiveSame:
		return lastTwoEqual(in.state.Colors, cond.Color)

	case TwoConsecutiveSameSolid:
		return lastTwoEqual(in.state.SolidColors, cond.Color)

	case PatternBreak:
		n := in.state.Colors.Len()
		if n == 0 || len(cond.Pattern) == 0 {
			return false
		}
		last, _ := in.state.Colors.At(-1)
		return last != cond.Pattern[(n-1)%len(cond.Pattern)]

	case SequenceViolates:
		n := in.state.Colors.Len()
		if n == 0 {
			return false
		}
		idx := n - 1
		if idx >= len(cond.Sequence) {
			return false
		}
		last, _ := in.state.Colors.At(-1)
		return last != cond.Sequence[idx]

	case MusicPlaying:
		return in.state.MusicPlaying

	case TotalStepsEquals:
		return in.state.Steps == cond.Steps

	case And:
		for _, child := range cond.Conditions {
			if !in.match(child, col, row, cell) {
				return false
			}
		}
		return true

	case Or:
		for _, child := range cond.Conditions {
			if in.match(child, col, row, cell) {
				return true
			}
		}
		return false

	case CustomRule:
		return in.custom(cond.Name, col, row, cell)

	default:
		// IdleSeconds and unsupported tags never match on landing.
		return false
	}
}

func (in *Interpreter) custom(name string, col, row int, cell grid.Cell) bool {
	fn, ok := registry.Lookup(name)
	if !ok {
		if !in.warned[name] {
			in.logger.Warn("custom rule not implemented", "name", name)
			in.warned[name] = true
		}
		return false
	}
	return fn(registry.Context{
		Col:          col,
		Row:          row,
		Cell:         cell,
		Grid:         in.grid,
		Colors:       in.state.Colors.Slice(),
		SolidColors:  in.state.SolidColors.Slice(),
		Steps:        in.state.Steps,
		Deaths:       in.state.Deaths,
		IdleTicks:    in.state.IdleTicks,
		MusicPlaying: in.state.MusicPlaying,
	})
}

func lastTwoEqual(r *Ring[string], color string) bool {
	if r.Len() < 2 {
		return false
	}
	a, _ := r.At(-2)
	b, _ := r.At(-1)
	return a == color && b == color
}
