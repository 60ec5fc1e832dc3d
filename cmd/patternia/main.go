// patternia is a puzzle game about reading the rules of a colored grid
// from its reactions, played in the terminal.
//
// Usage:
//
//	patternia                  - Start the level menu
//	patternia list             - List levels
//	patternia play             - Play the campaign from the first (or --level) level
//	patternia menu             - Pick levels interactively
//	patternia scores [level]   - Show the run history
//	patternia serve            - Start SSH server for remote play
//	patternia validate [files] - Check level files for problems
//
// Global flags:
//
//	--fps <rate>        - Override the tick rate (default: from config)
//	--db <path>         - Set database path (default: ~/.patternia/history.db)
//	--levels <dir>      - Load levels from a directory instead of the built-in set
//	--config <path>     - Use a specific config file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register custom rules used by level files
	_ "github.com/Jean-Jawed/Patternia/internal/rules/custom"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagLevels   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "patternia",
	Short: "Patternia - learn the rules of the grid",
	Long: `Patternia is a grid puzzle game. Every level hides its rules:
step on tiles, watch what happens, and work out the pattern that lets
you reach the exit.

Available commands:
  list      - Show all levels
  play      - Play the campaign
  menu      - Interactive level picker
  scores    - View the run history
  serve     - Start SSH server for remote play
  validate  - Check level files

Examples:
  patternia
  patternia play --level 3
  patternia play --levels ./levels --watch
  patternia serve --ssh :2222
  patternia scores 4`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.patternia/history.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level directory (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(validateCmd)
}
