package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Jean-Jawed/Patternia/internal/audio"
	"github.com/Jean-Jawed/Patternia/internal/audio/synth"
	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/storage"
)

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the command logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "patternia",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.patternia/patternia.log so full-screen programs
// keep a clean terminal. It falls back to discarding when the file
// cannot be opened.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".patternia")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "patternia.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// loadConfig reads the game config and applies the --fps override.
func loadConfig() config.GameConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagFPS > 0 {
		cfg.Sim.TickRate = flagFPS
	}
	return cfg
}

// openLoader returns the level loader selected by --levels.
func openLoader(logger *log.Logger) *levels.Loader {
	var loader *levels.Loader
	if flagLevels == "" {
		loader = levels.Builtin()
	} else {
		if _, err := os.Stat(flagLevels); err != nil {
			fail("level directory: %v", err)
		}
		loader = levels.NewLoader(flagLevels)
	}
	loader.SetLogger(logger)
	return loader
}

// openStore opens the run history. The game still works without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run history", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// newAudio starts the synthesizer when audio is enabled and available.
func newAudio(cfg config.GameConfig, mute bool, logger *log.Logger) (audio.Sink, func()) {
	if !cfg.Audio.Enabled || mute {
		return &audio.Nop{}, func() {}
	}
	spk, err := synth.New(synth.Config{
		SampleRate: cfg.Audio.SampleRate,
		Volume:     cfg.Audio.Volume,
	}, logger)
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
		return &audio.Nop{}, func() {}
	}
	return spk, spk.Close
}

// runtimeConfig sizes the program to the terminal.
func runtimeConfig(cfg config.GameConfig) core.RuntimeConfig {
	rt := core.DefaultConfig()
	rt.TickRate = cfg.Sim.TickRate
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	return rt
}
