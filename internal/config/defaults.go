package config

import (
	_ "embed"
)

//go:embed defaults/patternia.yaml
var defaultYAML []byte

// DefaultTickRate is the simulation rate when none is configured.
const DefaultTickRate = 60

// DefaultGameConfig returns the hard-coded configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Sim: SimConfig{
			TickRate:         DefaultTickRate,
			MoveFrames:       11,
			LevAmplitude:     8,
			LevFrequency:     .038,
			SequenceCapacity: 64,
			InputCapacity:    2,
		},
		Timing: TimingConfig{
			DeathRevealMs: 320,
			WinRevealMs:   200,
			FlashMs:       250,
			RuleHintMs:    3000,
			DeathHintMs:   4000,
			StartEventMs:  4000,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     .38,
			SampleRate: 44100,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultYAML
}
