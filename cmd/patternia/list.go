package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Jean-Jawed/Patternia/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long:  `Shows the levels in play order with their grid size and best clear.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

var flagRules bool

func init() {
	listCmd.Flags().BoolVar(&flagRules, "rules", false, "List the custom rules levels can name instead")
}

func runList(_ *cobra.Command, _ []string) {
	if flagRules {
		listRules()
		return
	}

	logger := newLogger(os.Stderr)
	loader := openLoader(logger)

	all, err := loader.LoadAll()
	if err != nil {
		fail("loading levels: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No levels available.")
		return
	}

	best := map[int]string{}
	if store := openStore(log.New(io.Discard)); store != nil {
		stats, statErr := store.AllLevelStats()
		if statErr == nil {
			for id, s := range stats {
				best[id] = fmt.Sprintf("%d deaths", s.BestDeaths)
			}
		}
		store.Close()
	}

	maxTitle := len("Title")
	for _, l := range all {
		maxTitle = max(maxTitle, len(l.Title))
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-4s  %-*s  %-5s  %s\n", "ID", maxTitle, "Title", "Size", "Best")
	fmt.Printf("  %-4s  %-*s  %-5s  %s\n", "--", maxTitle, "-----", "----", "----")
	for _, l := range all {
		size := fmt.Sprintf("%dx%d", l.Size(), l.Size())
		fmt.Printf("  %-4d  %-*s  %-5s  %s\n", l.ID, maxTitle, l.Title, size, best[l.ID])
	}

	fmt.Println()
	fmt.Println("Run 'patternia play --level <id>' to play a level.")
}

// listRules prints the predicates available to custom_rule conditions.
func listRules() {
	infos := registry.List()
	if len(infos) == 0 {
		fmt.Println("No custom rules registered.")
		return
	}
	fmt.Println("Custom rules:")
	fmt.Println()
	for _, info := range infos {
		fmt.Printf("  %-24s %s\n", info.Name, info.Description)
	}
}
