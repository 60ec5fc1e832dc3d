package rules

import (
	"github.com/Jean-Jawed/Patternia/internal/core"
)

// Condition is one node of a rule's condition tree.
// The set of variants is closed; unknown tags parse to Unsupported.
type Condition interface {
	Type() string
	isCondition()
}

// TouchCell matches a landing on the cell with the given id.
type TouchCell struct{ CellID string }

// TouchCellColor matches a landing on a cell currently showing Color.
type TouchCellColor struct{ Color string }

// ReachExit matches a landing on the exit cell.
type ReachExit struct{}

// TwoConsecutiveSame matches when the last two recorded colors are both Color.
type TwoConsecutiveSame struct{ Color string }

// TwoConsecutiveSameSolid is TwoConsecutiveSame over the non-blinking sequence.
type TwoConsecutiveSameSolid struct{ Color string }

// PatternBreak matches when the newest recorded color differs from the
// cyclic Pattern entry expected at its position.
type PatternBreak struct{ Pattern []string }

// SequenceViolates matches when the newest recorded color differs from
// Sequence at the same index. Past the end of Sequence it never matches.
type SequenceViolates struct{ Sequence []string }

// IdleSeconds is evaluated by Tick only; on landing it is false.
type IdleSeconds struct{ Seconds float64 }

// MusicPlaying matches while the looping sound flag is set.
type MusicPlaying struct{}

// TotalStepsEquals matches when the step counter equals Steps.
type TotalStepsEquals struct{ Steps int }

// And matches when every child matches.
type And struct{ Conditions []Condition }

// Or matches when any child matches.
type Or struct{ Conditions []Condition }

// CustomRule defers to a function from the registry.
type CustomRule struct{ Name string }

// UnsupportedCondition is an unknown tag. It never matches.
type UnsupportedCondition struct{ Tag string }

func (TouchCell) Type() string { return "touch_cell" }
func (TouchCellColor) Type() string { return "touch_cell_color" }
func (ReachExit) Type() string { return "reach_exit" }
func (TwoConsecutiveSame) Type() string { return "two_consecutive_same" }
func (TwoConsecutiveSameSolid) Type() string { return "two_consecutive_same_solid" }
func (PatternBreak) Type() string { return "pattern_break" }
func (SequenceViolates) Type() string { return "sequence_violates" }
func (IdleSeconds) Type() string { return "idle_seconds" }
func (MusicPlaying) Type() string { return "music_playing" }
func (TotalStepsEquals) Type() string { return "total_steps_equals" }
func (And) Type() string { return "AND" }
func (Or) Type() string { return "OR" }
func (CustomRule) Type() string { return "custom_rule" }
func (u UnsupportedCondition) Type() string { return u.Tag }

func (TouchCell) isCondition() {}
func (TouchCellColor) isCondition() {}
func (ReachExit) isCondition() {}
func (TwoConsecutiveSame) isCondition() {}
func (TwoConsecutiveSameSolid) isCondition() {}
func (PatternBreak) isCondition() {}
func (SequenceViolates) isCondition() {}
func (IdleSeconds) isCondition() {}
func (MusicPlaying) isCondition() {}
func (TotalStepsEquals) isCondition() {}
func (And) isCondition() {}
func (Or) isCondition() {}
func (CustomRule) isCondition() {}
func (UnsupportedCondition) isCondition() {}

// ParseCondition converts a decoded condition map into a typed tree.
// A nil map yields nil, which never matches.
func ParseCondition(raw map[string]any) Condition {
	if raw == nil {
		return nil
	}
	tag, _ := raw["type"].(string)

	switch tag {
	case "touch_cell":
		return TouchCell{CellID: idString(raw["cell_id"])}
	case "touch_cell_color":
		return TouchCellColor{Color: core.ColorKey(str(raw["color"]))}
	case "reach_exit":
		return ReachExit{}
	case "two_consecutive_same":
		return TwoConsecutiveSame{Color: core.ColorKey(str(raw["color"]))}
	case "two_consecutive_same_solid":
		return TwoConsecutiveSameSolid{Color: core.ColorKey(str(raw["color"]))}
	case "pattern_break":
		return PatternBreak{Pattern: colorList(raw["pattern"])}
	case "sequence_violates":
		return SequenceViolates{Sequence: colorList(raw["sequence"])}
	case "idle_seconds":
		return IdleSeconds{Seconds: toFloat(raw["seconds"])}
	case "music_playing":
		return MusicPlaying{}
	case "total_steps_equals":
		return TotalStepsEquals{Steps: toInt(raw["steps"])}
	case "AND":
		return And{Conditions: parseChildren(raw["conditions"])}
	case "OR":
		return Or{Conditions: parseChildren(raw["conditions"])}
	case "custom_rule":
		return CustomRule{Name: str(raw["name"])}
	default:
		return UnsupportedCondition{Tag: tag}
	}
}

func parseChildren(v any) []Condition {
	list, _ := v.([]any)
	out := make([]Condition, 0, len(list))
	for _, item := range list {
		m := toMap(item)
		if m == nil {
			continue
		}
		out = append(out, ParseCondition(m))
	}
	return out
}

// Walk calls fn for c and every descendant, parents first.
func Walk(c Condition, fn func(Condition)) {
	if c == nil {
		return
	}
	fn(c)
	switch n := c.(type) {
	case And:
		for _, child := range n.Conditions {
			Walk(child, fn)
		}
	case Or:
		for _, child := range n.Conditions {
			Walk(child, fn)
		}
	}
}
