// Package config provides YAML-based configuration for the game: simulation
// timing, staged transition delays and audio.
package config

// GameConfig is the full runtime configuration.
type GameConfig struct {
	Sim    SimConfig    `yaml:"sim"`
	Timing TimingConfig `yaml:"timing"`
	Audio  AudioConfig  `yaml:"audio"`
}

// SimConfig defines simulation parameters.
type SimConfig struct {
	TickRate         int     `yaml:"tick_rate"`         // ticks per second, also the idle-second scale
	MoveFrames       int     `yaml:"move_frames"`       // ticks to cross one tile
	LevAmplitude     float64 `yaml:"lev_amplitude"`     // player bob height
	LevFrequency     float64 `yaml:"lev_frequency"`     // player bob phase step per tick
	SequenceCapacity int     `yaml:"sequence_capacity"` // remembered colors per sequence
	InputCapacity    int     `yaml:"input_capacity"`    // pending move intents
}

// TimingConfig defines staged presentation delays, in milliseconds.
type TimingConfig struct {
	DeathRevealMs int `yaml:"death_reveal_ms"`
	WinRevealMs   int `yaml:"win_reveal_ms"`
	FlashMs       int `yaml:"flash_ms"`
	RuleHintMs    int `yaml:"rule_hint_ms"`
	DeathHintMs   int `yaml:"death_hint_ms"`
	StartEventMs  int `yaml:"start_event_ms"`
}

// AudioConfig defines the synthesizer output.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"` // 0..1
	SampleRate int     `yaml:"sample_rate"`
}

// Pace is a named movement speed preset.
type Pace string

const (
	PaceRelaxed Pace = "relaxed"
	PaceNormal  Pace = "normal"
	PaceBrisk   Pace = "brisk"
)

// MoveFramesForPace returns the tile traversal length for a preset.
func MoveFramesForPace(pace Pace) int {
	switch pace {
	case PaceRelaxed:
		return 15
	case PaceBrisk:
		return 8
	default:
		return 11
	}
}

// ApplyPace modifies the config based on a pace preset. An empty pace
// leaves the configured move frames alone.
func ApplyPace(cfg *GameConfig, pace Pace) {
	if pace == "" {
		return
	}
	cfg.Sim.MoveFrames = MoveFramesForPace(pace)
}

// TicksFor converts milliseconds to ticks at the configured rate,
// rounding up so a positive delay never becomes zero ticks.
func (c GameConfig) TicksFor(ms int) int {
	if ms <= 0 {
		return 0
	}
	rate := c.Sim.TickRate
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return (ms*rate + 999) / 1000
}
