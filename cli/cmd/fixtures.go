package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bundlestat/bundlestat/cli/output"
	"github.com/bundlestat/bundlestat/internal/bundler"
	"github.com/bundlestat/bundlestat/internal/fixture"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [dir]",
	Short: "List discovered fixtures without building them",
	Long: `List every fixture found under a directory, together with the artifact
paths a build would produce.

Examples:
  bundlestat fixtures ./fixtures
  bundlestat fixtures -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFixtures,
}

func runFixtures(cmd *cobra.Command, args []string) error {
	root := cfg.FixtureDir
	if len(args) > 0 {
		root = args[0]
	}

	fixtures, err := fixture.Discover(root)
	if err != nil {
		return err
	}
	if len(fixtures) == 0 {
		formatter.PrintWarning(fmt.Sprintf("no fixtures found under %s", root))
		return nil
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(fixtures)
	}

	table := output.TableData{Headers: []string{"Name", "Fixture", "Output"}}
	for _, f := range fixtures {
		table.Rows = append(table.Rows, []string{f.Name, f.Path, bundler.OutputPath(f.Path)})
	}
	formatter.PrintTable(table)
	return nil
}
