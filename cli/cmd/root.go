// Package cmd provides the Cobra commands for the bundlestat CLI.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cliconfig "github.com/bundlestat/bundlestat/cli/config"
	"github.com/bundlestat/bundlestat/cli/output"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	cfgFile   string
	outputFmt string
	noHeaders bool
	quiet     bool
	verbose   bool

	// Shared across commands
	cfg       *cliconfig.Config
	formatter *output.Formatter
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bundlestat",
	Short: "bundlestat - Measure the bundle size of code fixtures",
	Long: `bundlestat builds code fixtures through a bundler backend and reports
the size of the resulting artifacts.

Fixtures are files named <name>.fixture.js; their artifacts land next to
them as <name>.output.js (minified) and <name>.debug.js (unminified, with
--debug).

Get started:
  bundlestat measure ./fixtures    Build and measure every fixture
  bundlestat --help                Show available commands`,
	SilenceUsage:      true,
	PersistentPreRunE: initRun,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./.bundlestat.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false,
		"hide table headers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(compareCmd)
}

func initRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceErrors = quiet

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch {
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	format, err := output.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	formatter = output.NewFormatter(format, noHeaders, quiet)

	cfg, err = cliconfig.Load(cfgFile)
	return err
}
