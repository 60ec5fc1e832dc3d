package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/platform/tui"
	"github.com/Jean-Jawed/Patternia/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show the run history",
	Long: `Display the best clears of a level: fewest deaths, then fewest
steps, then fastest. Without a level, opens the history board in a
terminal or prints a summary of every cleared level otherwise.

Examples:
  patternia scores
  patternia scores 4
  patternia scores 4 --forget`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var flagForget bool

func init() {
	scoresCmd.Flags().BoolVar(&flagForget, "forget", false, "Delete the history of the given level")
}

func runScores(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run history: %v", err)
	}
	defer store.Close()

	cfg := loadConfig()

	if len(args) == 0 {
		if flagForget {
			fail("--forget needs a level")
		}
		if term.IsTerminal(int(os.Stdout.Fd())) {
			items, itemsErr := tui.MenuItems(openLoader(logger), store, logger)
			if itemsErr != nil {
				fail("loading levels: %v", itemsErr)
			}
			rt := runtimeConfig(cfg)
			if err := tui.RunHistory(items, store, cfg.Sim.TickRate, 0, rt.ScreenW, rt.ScreenH); err != nil {
				fail("%v", err)
			}
			return
		}
		printSummary(store, openLoader(logger))
		return
	}

	levelID, err := strconv.Atoi(args[0])
	if err != nil {
		fail("level must be a number, got %q", args[0])
	}

	if flagForget {
		if err := store.ForgetLevel(levelID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("History of level %d deleted.\n", levelID)
		return
	}

	clears, err := store.BestClears(levelID, 10)
	if err != nil {
		fail("retrieving clears: %v", err)
	}

	fmt.Printf("Run History - Level %d\n", levelID)
	fmt.Println()

	if len(clears) == 0 {
		fmt.Println("No clears recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'patternia play --level %d' to leave the first mark!\n", levelID)
		return
	}

	rows := tui.ClearRows(clears, cfg.Sim.TickRate)
	fmt.Printf("  %-4s  %-6s  %-5s  %-7s  %s\n", "Rank", "Deaths", "Steps", "Time", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-7s  %s\n", "----", "------", "-----", "----", "----")
	for _, r := range rows {
		fmt.Printf("  %-4s  %-6s  %-5s  %-7s  %s\n", r[0], r[1], r[2], r[3], r[4])
	}

	if stats, err := store.LevelStats(levelID); err == nil {
		fmt.Println()
		fmt.Printf("Clears: %d  Best: %d deaths, %d steps\n", stats.Clears, stats.BestDeaths, stats.BestSteps)
	}
}

// printSummary prints one line per cleared level, in play order. Levels
// that are no longer in the level set come last.
func printSummary(store *storage.Store, loader *levels.Loader) {
	stats, err := store.AllLevelStats()
	if err != nil {
		fail("retrieving history: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No clears recorded yet.")
		return
	}

	cleared, err := store.ClearedLevels()
	if err != nil {
		fail("retrieving history: %v", err)
	}
	order, err := loader.ListIDs()
	if err != nil {
		fail("loading levels: %v", err)
	}
	ids := make([]int, 0, len(cleared))
	seen := make(map[int]bool, len(order))
	for _, id := range order {
		seen[id] = true
		if _, ok := stats[id]; ok {
			ids = append(ids, id)
		}
	}
	for _, id := range cleared {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	fmt.Printf("  %-5s  %-6s  %-11s  %s\n", "Level", "Clears", "Best deaths", "Last cleared")
	fmt.Printf("  %-5s  %-6s  %-11s  %s\n", "-----", "------", "-----------", "------------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-5d  %-6d  %-11d  %s\n", id, s.Clears, s.BestDeaths, s.LastCleared.Format("2006-01-02 15:04"))
	}
}
