package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jean-Jawed/Patternia/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start Patternia in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a level.
Esc during a level returns to the menu; Tab opens the run history.

Examples:
  patternia menu
  patternia menu --levels ./levels
  patternia menu --db ./history.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Start without sound")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger()
	defer closeLog()

	cfg := loadConfig()
	loader := openLoader(logger)

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	sink, closeAudio := newAudio(cfg, flagMute, logger)
	defer closeAudio()

	opts := tui.Options{
		Config: cfg,
		Loader: loader,
		Store:  store,
		Audio:  sink,
		Logger: logger,
	}
	if err := tui.RunApp(opts, runtimeConfig(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
