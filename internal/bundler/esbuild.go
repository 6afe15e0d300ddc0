package bundler

import (
	"context"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
)

// EsbuildConfig is the full configuration of one esbuild invocation.
// Release is always built; Debug, when set, is a second non-minified pass
// over the same entries. The enhancer sees both.
type EsbuildConfig struct {
	Release api.BuildOptions
	Debug   *api.BuildOptions
}

// EsbuildEnhancer customizes the default configuration before a build. It
// is applied exactly once per build invocation and its return value is what
// gets executed.
type EsbuildEnhancer func(EsbuildConfig) EsbuildConfig

// Esbuild bundles fixtures in-process through the esbuild API. It supports
// batching: esbuild compiles every entry independently, so a batched run is
// byte-identical to per-fixture runs.
type Esbuild struct {
	enhance EsbuildEnhancer
}

// NewEsbuild creates the in-process esbuild backend. enhance may be nil.
func NewEsbuild(enhance EsbuildEnhancer) *Esbuild {
	return &Esbuild{enhance: enhance}
}

func (e *Esbuild) Name() string { return "esbuild" }

func esbuildDefaults(quiet, minify bool) api.BuildOptions {
	level := api.LogLevelWarning
	if quiet {
		level = api.LogLevelSilent
	}
	return api.BuildOptions{
		Bundle:            true,
		Write:             true,
		Platform:          api.PlatformBrowser,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		LogLevel:          level,
	}
}

// BuildFixture builds one fixture to its release artifact, plus a debug
// artifact when requested.
func (e *Esbuild) BuildFixture(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	if err := checkFixturePath(e.Name(), opts.FixturePath); err != nil {
		return BuildResult{}, err
	}

	result := BuildResult{OutputPath: OutputPath(opts.FixturePath)}

	cfg := EsbuildConfig{Release: esbuildDefaults(opts.Quiet, true)}
	cfg.Release.EntryPoints = []string{opts.FixturePath}
	cfg.Release.Outfile = result.OutputPath

	if opts.Debug {
		debug := esbuildDefaults(opts.Quiet, false)
		debug.EntryPoints = []string{opts.FixturePath}
		debug.Outfile = DebugOutputPath(opts.FixturePath)
		cfg.Debug = &debug
		result.DebugOutputPath = debug.Outfile
	}

	if err := e.run(ctx, cfg, false); err != nil {
		return BuildResult{}, err
	}
	return result, nil
}

// BuildFixtures builds the whole batch in one esbuild run by mapping every
// fixture to a uniquely named entry point. Output paths are derived up
// front and echoed back in input order; esbuild is never asked to report
// them.
func (e *Esbuild) BuildFixtures(ctx context.Context, opts BatchBuildOptions) ([]BuildResult, error) {
	plan, err := planBatch(e.Name(), opts)
	if err != nil {
		return nil, err
	}

	cfg := EsbuildConfig{Release: esbuildDefaults(opts.Quiet, true)}
	cfg.Release.Outdir = plan.OutDir
	for _, en := range plan.Entries {
		cfg.Release.EntryPointsAdvanced = append(cfg.Release.EntryPointsAdvanced, api.EntryPoint{
			InputPath:  en.Fixture.Path,
			OutputPath: en.Key + releaseEntryName,
		})
	}

	if opts.Debug {
		debug := esbuildDefaults(opts.Quiet, false)
		debug.Outdir = plan.OutDir
		for _, en := range plan.Entries {
			debug.EntryPointsAdvanced = append(debug.EntryPointsAdvanced, api.EntryPoint{
				InputPath:  en.Fixture.Path,
				OutputPath: en.Key + debugEntryName,
			})
		}
		cfg.Debug = &debug
	}

	if err := e.run(ctx, cfg, true); err != nil {
		return nil, err
	}
	return plan.Results, nil
}

// run applies the enhancer once, then executes the release pass and, when
// configured, the debug pass.
func (e *Esbuild) run(ctx context.Context, cfg EsbuildConfig, batch bool) error {
	if e.enhance != nil {
		cfg = e.enhance(cfg)
	}
	if len(cfg.Release.EntryPoints) == 0 && len(cfg.Release.EntryPointsAdvanced) == 0 {
		return &ConfigError{Backend: e.Name(), Reason: "enhanced configuration has no entry points"}
	}

	passes := []api.BuildOptions{cfg.Release}
	if cfg.Debug != nil {
		passes = append(passes, *cfg.Debug)
	}
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := api.Build(pass)
		if len(res.Errors) > 0 {
			return &CompileError{Backend: e.Name(), Batch: batch, Diagnostics: esbuildDiagnostics(res.Errors)}
		}
		log.Debug().Int("warnings", len(res.Warnings)).Msg("esbuild pass complete")
	}
	return nil
}

func esbuildDiagnostics(messages []api.Message) []string {
	diags := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Location != nil {
			diags = append(diags, fmt.Sprintf("%s:%d: %s", m.Location.File, m.Location.Line, m.Text))
			continue
		}
		diags = append(diags, m.Text)
	}
	return diags
}
