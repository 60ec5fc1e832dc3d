package rules

// EffectKind tags an Effect.
type EffectKind int

const (
	EffectUnsupported EffectKind = iota
	EffectKill
	EffectWin
	EffectTeleport
	EffectShowHint
	EffectPlaySound
	EffectStopSound
)

// Default hint durations in milliseconds.
const (
	DefaultRuleHintMs  = 3000
	DefaultDeathHintMs = 4000
)

var effectNames = map[EffectKind]string{
	EffectKill:      "kill",
	EffectWin:       "win",
	EffectTeleport:  "teleport",
	EffectShowHint:  "show_hint",
	EffectPlaySound: "play_sound",
	EffectStopSound: "stop_sound",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return "unsupported"
}

// Effect is a tagged effect record. Only the fields of its kind are set.
type Effect struct {
	Kind EffectKind
	Tag  string // authored type, kept for unsupported effects

	Col, Row   int    // teleport
	Text       string // show_hint
	DurationMs int    // show_hint, 0 for the interpreter default
	SoundID    string // play_sound
}

// ParseEffect converts a decoded effect map. Unknown or missing types
// yield an EffectUnsupported record, which is a no-op.
func ParseEffect(raw map[string]any) Effect {
	tag, _ := raw["type"].(string)

	switch tag {
	case "kill":
		return Effect{Kind: EffectKill, Tag: tag}
	case "win":
		return Effect{Kind: EffectWin, Tag: tag}
	case "teleport":
		return Effect{
			Kind: EffectTeleport,
			Tag:  tag,
			Col:  toInt(raw["target_col"]),
			Row:  toInt(raw["target_row"]),
		}
	case "show_hint":
		return Effect{Kind: EffectShowHint, Tag: tag, Text: str(raw["hint_text"]), DurationMs: toInt(raw["duration"])}
	case "play_sound":
		return Effect{Kind: EffectPlaySound, Tag: tag, SoundID: str(raw["sound_id"])}
	case "stop_sound":
		return Effect{Kind: EffectStopSound, Tag: tag}
	default:
		return Effect{Kind: EffectUnsupported, Tag: tag}
	}
}

// Rule pairs a condition with the effect fired when it is the first match.
type Rule struct {
	Condition Condition
	Effect    Effect
}

// ParseRule builds a Rule from decoded condition and effect maps.
func ParseRule(cond, eff map[string]any) Rule {
	return Rule{
		Condition: ParseCondition(cond),
		Effect:    ParseEffect(eff),
	}
}

// Hint is a message shown once the death counter reaches Threshold.
type Hint struct {
	Threshold  int
	Text       string
	DurationMs int
}
