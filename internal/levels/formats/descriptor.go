// Package formats provides level descriptor types and their file parsers.
package formats

import "github.com/Jean-Jawed/Patternia/internal/grid"

// Default messages shown on the death and win screens.
const (
	DefaultDeathMessage = "You fell."
	DefaultWinMessage   = "Pattern understood."
	DefaultBorder       = "kill"
)

// Descriptor is a level as authored on disk. Field names follow the
// snake_case keys of the level files.
type Descriptor struct {
	ID             int               `json:"id" yaml:"id"`
	Title          string            `json:"title,omitempty" yaml:"title,omitempty"`
	GridSize       int               `json:"grid_size,omitempty" yaml:"grid_size,omitempty"`
	Start          []int             `json:"start,omitempty" yaml:"start,omitempty"`
	Exit           []int             `json:"exit,omitempty" yaml:"exit,omitempty"`
	Cells          []CellSpec        `json:"cells,omitempty" yaml:"cells,omitempty"`
	Rules          []RuleSpec        `json:"rules,omitempty" yaml:"rules,omitempty"`
	Hints          []HintSpec        `json:"hints,omitempty" yaml:"hints,omitempty"`
	BorderBehavior string            `json:"border_behavior,omitempty" yaml:"border_behavior,omitempty"`
	OnStart        []StartEvent      `json:"on_start,omitempty" yaml:"on_start,omitempty"`
	MusicPatterns  map[string][]Note `json:"music_patterns,omitempty" yaml:"music_patterns,omitempty"`
	WallHint       string            `json:"wall_hint,omitempty" yaml:"wall_hint,omitempty"`
	DeathMessage   string            `json:"death_message,omitempty" yaml:"death_message,omitempty"`
	WinMessage     string            `json:"win_message,omitempty" yaml:"win_message,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// CellSpec is one authored cell entry.
type CellSpec struct {
	Position       []int          `json:"position" yaml:"position"`
	ID             any            `json:"id,omitempty" yaml:"id,omitempty"`
	Mechanic       string         `json:"mechanic,omitempty" yaml:"mechanic,omitempty"`
	MechanicParams map[string]any `json:"mechanic_params,omitempty" yaml:"mechanic_params,omitempty"`
	Joker          bool           `json:"joker,omitempty" yaml:"joker,omitempty"`
}

// RuleSpec is an undecoded condition/effect pair. The rules package turns
// the raw maps into typed variants.
type RuleSpec struct {
	Condition map[string]any `json:"condition" yaml:"condition"`
	Effect    map[string]any `json:"effect" yaml:"effect"`
}

// HintSpec is a hint gated on the level's death counter.
type HintSpec struct {
	Trigger   string `json:"trigger" yaml:"trigger"`
	Threshold int    `json:"threshold" yaml:"threshold"`
	Text      string `json:"text" yaml:"text"`
	Duration  int    `json:"duration,omitempty" yaml:"duration,omitempty"` // ms
}

// StartEvent is scheduled when a level is entered.
type StartEvent struct {
	Type     string   `json:"type" yaml:"type"`
	Delay    int      `json:"delay,omitempty" yaml:"delay,omitempty"` // ms
	HintText string   `json:"hint_text,omitempty" yaml:"hint_text,omitempty"`
	Duration int      `json:"duration,omitempty" yaml:"duration,omitempty"` // ms
	Colors   []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	SoundID  string   `json:"sound_id,omitempty" yaml:"sound_id,omitempty"`
}

// Note is one step of a looping music pattern.
type Note struct {
	Freq     float64 `json:"freq" yaml:"freq"`
	Duration float64 `json:"duration" yaml:"duration"` // seconds
}

// Size returns the grid side length, defaulting to grid.DefaultSize.
func (d *Descriptor) Size() int {
	if d.GridSize < 1 {
		return grid.DefaultSize
	}
	return d.GridSize
}

// StartCoord returns the authored start or the top-left corner.
func (d *Descriptor) StartCoord() grid.Coord {
	if len(d.Start) < 2 {
		return grid.C(0, 0)
	}
	return grid.C(d.Start[0], d.Start[1])
}

// ExitCoord returns the authored exit or the bottom-right corner.
func (d *Descriptor) ExitCoord() grid.Coord {
	if len(d.Exit) < 2 {
		sz := d.Size()
		return grid.C(sz-1, sz-1)
	}
	return grid.C(d.Exit[0], d.Exit[1])
}

// Border returns the border behavior name, "kill" when unset.
func (d *Descriptor) Border() string {
	if d.BorderBehavior == "" {
		return DefaultBorder
	}
	return d.BorderBehavior
}

// DeathText returns the death screen message.
func (d *Descriptor) DeathText() string {
	if d.DeathMessage == "" {
		return DefaultDeathMessage
	}
	return d.DeathMessage
}

// WinText returns the win screen message.
func (d *Descriptor) WinText() string {
	if d.WinMessage == "" {
		return DefaultWinMessage
	}
	return d.WinMessage
}

// Pattern returns the music pattern for a sound id.
func (d *Descriptor) Pattern(id string) ([]Note, bool) {
	p, ok := d.MusicPatterns[id]
	return p, ok && len(p) > 0
}
