package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bundlestat/bundlestat/cli/output"
	"github.com/bundlestat/bundlestat/internal/bundler"
	"github.com/bundlestat/bundlestat/internal/fixture"
	"github.com/bundlestat/bundlestat/internal/size"
)

var (
	measureBackend string
	measureDebug   bool
	measureSingle  bool
)

var measureCmd = &cobra.Command{
	Use:   "measure [dir]",
	Short: "Build all fixtures and report artifact sizes",
	Long: `Build every fixture under a directory through the configured bundler
backend and report the size of each artifact.

Backends that support it compile the whole fixture set in one batched run;
--single-build forces one run per fixture instead, which is slower but
attributes a compile error to the fixture that caused it.

Examples:
  bundlestat measure ./fixtures
  bundlestat measure ./fixtures --backend rollup --debug
  bundlestat measure --single-build -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMeasure,
}

func init() {
	measureCmd.Flags().StringVar(&measureBackend, "backend", "",
		"bundler backend: esbuild, rollup, webpack (default from config)")
	measureCmd.Flags().BoolVar(&measureDebug, "debug", false,
		"also build unminified debug artifacts")
	measureCmd.Flags().BoolVar(&measureSingle, "single-build", false,
		"build each fixture in its own backend run")
}

func runMeasure(cmd *cobra.Command, args []string) error {
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

	backend := measureBackend
	if backend == "" {
		backend = cfg.Backend
	}
	adapter, err := bundler.New(backend, bundler.Options{NodePath: cfg.NodePath})
	if err != nil {
		return err
	}

	debug := measureDebug || cfg.Debug
	single := measureSingle || cfg.SingleBuild

	results, err := bundler.BuildAll(cmd.Context(), adapter, fixtures, quiet, debug, single)
	if err != nil {
		return err
	}

	measurements, err := size.MeasureAll(results)
	if err != nil {
		return err
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(measurements)
	}

	table := output.TableData{Headers: []string{"Name", "Size", "Gzip", "Brotli"}}
	if debug {
		table.Headers = append(table.Headers, "Debug")
	}
	for _, m := range measurements {
		row := []string{
			m.Name,
			humanize.Bytes(uint64(m.Bytes)),
			humanize.Bytes(uint64(m.GzipBytes)),
			humanize.Bytes(uint64(m.BrotliBytes)),
		}
		if debug {
			row = append(row, humanize.Bytes(uint64(m.DebugBytes)))
		}
		table.Rows = append(table.Rows, row)
	}
	formatter.PrintTable(table)
	return nil
}
