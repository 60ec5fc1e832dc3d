package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jean-Jawed/Patternia/internal/config"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/platform/tui"
)

var (
	flagLevel int
	flagWatch bool
	flagPace  string
	flagMute  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the campaign",
	Long: `Play the levels in order, starting from the first one or --level.

Controls:
  Arrows/WASD/hjkl  - Move
  Enter/Space       - Continue after a death or a win
  R                 - Retry the level
  N/P               - Next/previous level
  M                 - Mute
  Esc/Q             - Quit

Pace options:
  relaxed - Slower movement between tiles
  normal  - Default speed
  brisk   - Faster movement between tiles

Examples:
  patternia play
  patternia play --level 4
  patternia play --pace brisk
  patternia play --levels ./levels --watch`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level id to start from")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the current level when its file changes (needs --levels)")
	playCmd.Flags().StringVar(&flagPace, "pace", "", "Movement pace: relaxed, normal, brisk")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start without sound")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger()
	defer closeLog()

	cfg := loadConfig()
	switch p := config.Pace(flagPace); p {
	case "", config.PaceRelaxed, config.PaceNormal, config.PaceBrisk:
		config.ApplyPace(&cfg, p)
	default:
		fail("unknown pace %q", flagPace)
	}

	loader := openLoader(logger)

	var watcher *levels.Watcher
	if flagWatch {
		if !loader.Watchable() {
			fail("--watch needs a level directory (--levels)")
		}
		w, err := levels.NewWatcher(flagLevels, logger)
		if err != nil {
			fail("watching levels: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			fail("watching levels: %v", err)
		}
		defer w.Stop()
		watcher = w
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	sink, closeAudio := newAudio(cfg, flagMute, logger)
	defer closeAudio()

	opts := tui.Options{
		Config:  cfg,
		Loader:  loader,
		Store:   store,
		Audio:   sink,
		Watcher: watcher,
		Logger:  logger,
		LevelID: flagLevel,
	}
	if err := tui.Run(opts, runtimeConfig(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
