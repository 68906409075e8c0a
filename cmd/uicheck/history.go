package main

import (
	"fmt"
	"strings"

	"github.com/chmdznr/oss-component-checker/internal/db"
	"github.com/chmdznr/oss-component-checker/internal/manifest"
	"github.com/chmdznr/oss-component-checker/pkg/utils"
	"github.com/urfave/cli/v2"
)

const timeLayout = "2006-01-02 15:04:05"

func listPresets(c *cli.Context) error {
	for _, name := range manifest.PresetNames() {
		files, _ := manifest.Preset(name)
		fmt.Fprintf(c.App.Writer, "%s (%d files)\n", name, len(files))
		if c.Bool("files") {
			for _, f := range files {
				fmt.Fprintf(c.App.Writer, "  %s\n", f)
			}
		}
	}
	return nil
}

// showHistory prints the most recent runs for a check, newest first,
// with the files each one found missing.
func showHistory(c *cli.Context) error {
	store, err := db.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	name := c.String("name")
	runs, err := store.GetRuns(name, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to get runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintf(c.App.Writer, "No runs recorded for '%s'\n", name)
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(c.App.Writer, "Run #%d  %s  %d expected, %d missing (%s)\n",
			run.ID,
			run.CheckedAt.Local().Format(timeLayout),
			run.Expected,
			len(run.Missing),
			utils.FormatDuration(run.Duration))
		for _, f := range run.Missing {
			fmt.Fprintf(c.App.Writer, "  - %s\n", f)
		}
	}
	return nil
}

// showStatus prints aggregate results for a check
func showStatus(c *cli.Context) error {
	store, err := db.New(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	name := c.String("name")
	stats, err := store.GetStats(name)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Check: %s\n", name)
	fmt.Fprintf(w, "Total Runs: %d\n", stats.TotalRuns)
	fmt.Fprintf(w, "Clean Runs: %d\n", stats.CleanRuns)
	fmt.Fprintf(w, "Runs With Missing Files: %d\n", stats.FailedRuns)
	fmt.Fprintf(w, "Most Files Missing: %d\n", stats.MaxMissing)
	if last := stats.LastRun; last != nil {
		fmt.Fprintf(w, "Last Run: %s (%s)\n", last.CheckedAt.Local().Format(timeLayout), last.BaseDir)
		if last.Clean() {
			fmt.Fprintln(w, "Last Result: all files present")
		} else {
			fmt.Fprintf(w, "Last Result: missing %s\n", strings.Join(last.Missing, ", "))
		}
	}
	return nil
}
