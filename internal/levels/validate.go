package levels

import (
	"fmt"

	"github.com/Jean-Jawed/Patternia/internal/grid"
	"github.com/Jean-Jawed/Patternia/internal/levels/formats"
	"github.com/Jean-Jawed/Patternia/internal/player"
	"github.com/Jean-Jawed/Patternia/internal/registry"
	"github.com/Jean-Jawed/Patternia/internal/rules"
)

// ValidationError contains details about one problem in a descriptor.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate reports every problem found in d. It is advisory: the loader
// and grid builder accept descriptors with problems and degrade gracefully.
// Checks:
//   - grid size, start and exit placement
//   - cell positions, ids and mechanic kinds
//   - rule condition and effect types, empty patterns, custom rule names
//   - sound ids against music_patterns, border behavior
func Validate(d formats.Descriptor) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if d.GridSize < 0 {
		add("BAD_GRID_SIZE", "grid_size %d is negative", d.GridSize)
	}
	size := d.Size()
	inBounds := func(c grid.Coord) bool {
		return c.Col >= 0 && c.Col < size && c.Row >= 0 && c.Row < size
	}

	start, exit := d.StartCoord(), d.ExitCoord()
	if !inBounds(start) {
		add("START_OUT_OF_BOUNDS", "start %v outside %dx%d grid", d.Start, size, size)
	}
	if !inBounds(exit) {
		add("EXIT_OUT_OF_BOUNDS", "exit %v outside %dx%d grid", d.Exit, size, size)
	}
	if start == exit {
		add("START_IS_EXIT", "start and exit share cell %v", d.Start)
	}

	ids := make(map[string]int)
	for i, c := range d.Cells {
		if len(c.Position) < 2 || !inBounds(grid.C(c.Position[0], c.Position[1])) {
			add("CELL_OUT_OF_BOUNDS", "cell %d position %v outside grid", i, c.Position)
		}
		if id := grid.IDString(c.ID); id != "" {
			if prev, dup := ids[id]; dup {
				add("DUPLICATE_CELL_ID", "cell %d reuses id %q from cell %d", i, id, prev)
			} else {
				ids[id] = i
			}
		}
		if !grid.MechanicKind(c.Mechanic).Known() {
			add("UNKNOWN_MECHANIC", "cell %d has unknown mechanic %q", i, c.Mechanic)
		}
	}

	for i, r := range ParseRules(d.Rules) {
		rules.Walk(r.Condition, func(c rules.Condition) {
			switch cond := c.(type) {
			case rules.UnsupportedCondition:
				add("UNKNOWN_CONDITION", "rule %d has unknown condition %q", i, cond.Tag)
			case rules.PatternBreak:
				if len(cond.Pattern) == 0 {
					add("EMPTY_PATTERN", "rule %d pattern_break has no pattern", i)
				}
			case rules.SequenceViolates:
				if len(cond.Sequence) == 0 {
					add("EMPTY_PATTERN", "rule %d sequence_violates has no sequence", i)
				}
			case rules.CustomRule:
				if !registry.Exists(cond.Name) {
					add("UNKNOWN_CUSTOM_RULE", "rule %d names unregistered custom rule %q", i, cond.Name)
				}
			}
		})
		switch r.Effect.Kind {
		case rules.EffectUnsupported:
			add("UNKNOWN_EFFECT", "rule %d has unknown effect %q", i, r.Effect.Tag)
		case rules.EffectPlaySound:
			if _, ok := d.Pattern(r.Effect.SoundID); !ok {
				add("UNKNOWN_SOUND", "rule %d plays undefined sound %q", i, r.Effect.SoundID)
			}
		}
	}

	for i, ev := range d.OnStart {
		if ev.Type == "play_sound" {
			if _, ok := d.Pattern(ev.SoundID); !ok {
				add("UNKNOWN_SOUND", "on_start %d plays undefined sound %q", i, ev.SoundID)
			}
		}
	}

	if _, ok := player.ParseBorderPolicy(d.BorderBehavior); !ok {
		add("UNKNOWN_BORDER", "border_behavior %q is not block, kill, wrap or exit", d.BorderBehavior)
	}

	return errs
}

// ParseRules converts descriptor rule entries into typed rules.
func ParseRules(specs []formats.RuleSpec) []rules.Rule {
	out := make([]rules.Rule, 0, len(specs))
	for _, s := range specs {
		out = append(out, rules.ParseRule(s.Condition, s.Effect))
	}
	return out
}

// Hints returns the death-count hints of d. Other triggers are ignored.
func Hints(d formats.Descriptor) []rules.Hint {
	var out []rules.Hint
	for _, h := range d.Hints {
		if h.Trigger != "death_count" {
			continue
		}
		out = append(out, rules.Hint{Threshold: h.Threshold, Text: h.Text, DurationMs: h.Duration})
	}
	return out
}
