package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bundlestat/bundlestat/cli/output"
	"github.com/bundlestat/bundlestat/internal/size"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old-dir> <new-dir>",
	Short: "Compare artifact sizes between two directories",
	Long: `Measure the release artifacts under two directories and report the
per-fixture size change. Artifacts are located purely by the
<name>.output.js naming convention, so both directories just need built
outputs in them.

Examples:
  bundlestat compare ./baseline ./fixtures
  bundlestat compare ./baseline ./fixtures -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	old, err := size.MeasureDir(args[0])
	if err != nil {
		return err
	}
	current, err := size.MeasureDir(args[1])
	if err != nil {
		return err
	}

	deltas := size.Diff(old, current)
	if len(deltas) == 0 {
		formatter.PrintWarning("no artifacts found in either directory")
		return nil
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(deltas)
	}

	table := output.TableData{Headers: []string{"Name", "Old", "New", "Diff"}}
	for _, d := range deltas {
		table.Rows = append(table.Rows, []string{
			d.Name,
			humanize.Bytes(uint64(d.OldBytes)),
			humanize.Bytes(uint64(d.NewBytes)),
			formatDiff(d),
		})
	}
	formatter.PrintTable(table)
	return nil
}

func formatDiff(d size.Delta) string {
	switch {
	case d.Added:
		return "added"
	case d.Removed:
		return "removed"
	case d.DiffBytes > 0:
		return fmt.Sprintf("+%s", humanize.Bytes(uint64(d.DiffBytes)))
	case d.DiffBytes < 0:
		return fmt.Sprintf("-%s", humanize.Bytes(uint64(-d.DiffBytes)))
	default:
		return "±0"
	}
}
