package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Jean-Jawed/Patternia/internal/levels"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check level files for problems",
	Long: `Report every problem found in level descriptors. With no files,
checks every level of the current set (--levels or the built-in one).

Problems are advisory: the game still loads such levels and degrades
gracefully. The command exits with status 1 when anything was found.

Examples:
  patternia validate
  patternia validate --levels ./levels
  patternia validate ./levels/level_07.yaml`,
	Run: runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr)

	var all []levels.Level
	if len(args) == 0 {
		loaded, err := openLoader(logger).LoadAll()
		if err != nil {
			fail("loading levels: %v", err)
		}
		all = loaded
	} else {
		for _, p := range args {
			loader := levels.NewLoader(filepath.Dir(p))
			loader.SetLogger(logger)
			lvl, err := loader.LoadFile(filepath.Base(p))
			if err != nil {
				fail("%s: %v", p, err)
			}
			all = append(all, lvl)
		}
	}

	problems := 0
	for _, lvl := range all {
		errs := levels.Validate(lvl.Descriptor)
		if len(errs) == 0 {
			fmt.Printf("ok    %s (level %d)\n", lvl.FilePath, lvl.ID)
			continue
		}
		fmt.Printf("FAIL  %s (level %d)\n", lvl.FilePath, lvl.ID)
		for _, e := range errs {
			fmt.Printf("      %s\n", e.Error())
		}
		problems += len(errs)
	}

	if problems > 0 {
		fmt.Printf("\n%d problem(s) found\n", problems)
		os.Exit(1)
	}
}
