package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.patternia/config.yaml -> ./configs/patternia.yaml -> embedded default
// The result is always normalized.
func Load(customPath string) (GameConfig, error) {
	cfg, err := load(customPath)
	if err != nil {
		return cfg, err
	}
	Normalize(&cfg)
	return cfg, nil
}

func load(customPath string) (GameConfig, error) {
	var cfg GameConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "patternia.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Normalize fills zero or out-of-range fields from DefaultGameConfig.
func Normalize(cfg *GameConfig) {
	def := DefaultGameConfig()

	if cfg.Sim.TickRate <= 0 {
		cfg.Sim.TickRate = def.Sim.TickRate
	}
	if cfg.Sim.MoveFrames <= 0 {
		cfg.Sim.MoveFrames = def.Sim.MoveFrames
	}
	if cfg.Sim.LevAmplitude < 0 {
		cfg.Sim.LevAmplitude = def.Sim.LevAmplitude
	}
	if cfg.Sim.LevFrequency <= 0 {
		cfg.Sim.LevFrequency = def.Sim.LevFrequency
	}
	if cfg.Sim.SequenceCapacity <= 0 {
		cfg.Sim.SequenceCapacity = def.Sim.SequenceCapacity
	}
	if cfg.Sim.InputCapacity <= 0 {
		cfg.Sim.InputCapacity = def.Sim.InputCapacity
	}

	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&cfg.Timing.DeathRevealMs, def.Timing.DeathRevealMs)
	fill(&cfg.Timing.WinRevealMs, def.Timing.WinRevealMs)
	fill(&cfg.Timing.FlashMs, def.Timing.FlashMs)
	fill(&cfg.Timing.RuleHintMs, def.Timing.RuleHintMs)
	fill(&cfg.Timing.DeathHintMs, def.Timing.DeathHintMs)
	fill(&cfg.Timing.StartEventMs, def.Timing.StartEventMs)

	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		cfg.Audio.Volume = def.Audio.Volume
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = def.Audio.SampleRate
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".patternia", filename)
}
