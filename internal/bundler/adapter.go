// Package bundler builds size-measurement fixtures through pluggable
// bundling backends. A backend compiles one fixture (or, when it supports
// batching, a whole list of fixtures in a single run) down to the minified
// artifacts the measurement side reads.
package bundler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Fixture identifies one unit of code to measure.
type Fixture struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// BuildOptions is the input to a single-fixture build.
type BuildOptions struct {
	FixturePath string
	Quiet       bool
	Debug       bool
}

// BatchBuildOptions is the input to a batch build. Fixtures must be
// non-empty and must all derive into the same output directory; the whole
// batch shares one debug flag.
type BatchBuildOptions struct {
	Fixtures []Fixture
	Quiet    bool
	Debug    bool
}

// BuildResult reports where a fixture's artifacts were written.
// DebugOutputPath is non-empty iff debug was requested and the backend
// produced a debug artifact; consumers rely on that distinction.
type BuildResult struct {
	Name            string `json:"name,omitempty"`
	OutputPath      string `json:"output_path"`
	DebugOutputPath string `json:"debug_output_path,omitempty"`
}

// Adapter is the uniform contract every backend satisfies.
type Adapter interface {
	Name() string
	BuildFixture(ctx context.Context, opts BuildOptions) (BuildResult, error)
}

// BatchAdapter is the optional batching capability. A backend implements it
// only when it can guarantee that a batched run produces byte-identical
// artifacts to per-fixture runs; a backend that cannot guarantee that omits
// the interface entirely and callers fall back to repeated BuildFixture
// calls.
type BatchAdapter interface {
	Adapter
	BuildFixtures(ctx context.Context, opts BatchBuildOptions) ([]BuildResult, error)
}

// AsBatch reports whether the adapter supports batching.
func AsBatch(a Adapter) (BatchAdapter, bool) {
	b, ok := a.(BatchAdapter)
	return b, ok
}

// BuildAll builds every fixture through a single batched backend run when
// the adapter supports it, and otherwise loops over BuildFixture. Results
// are returned in input order either way. forceSingle skips batching even
// on capable adapters; callers use it when they need per-fixture failure
// attribution.
func BuildAll(ctx context.Context, a Adapter, fixtures []Fixture, quiet, debug, forceSingle bool) ([]BuildResult, error) {
	if len(fixtures) == 0 {
		return nil, &ConfigError{Backend: a.Name(), Reason: "no fixtures to build"}
	}

	if batch, ok := AsBatch(a); ok && !forceSingle {
		log.Debug().Str("backend", a.Name()).Int("fixtures", len(fixtures)).Msg("building batch")
		return batch.BuildFixtures(ctx, BatchBuildOptions{
			Fixtures: fixtures,
			Quiet:    quiet,
			Debug:    debug,
		})
	}

	results := make([]BuildResult, 0, len(fixtures))
	for _, f := range fixtures {
		log.Debug().Str("backend", a.Name()).Str("fixture", f.Path).Msg("building fixture")
		res, err := a.BuildFixture(ctx, BuildOptions{
			FixturePath: f.Path,
			Quiet:       quiet,
			Debug:       debug,
		})
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
		}
		res.Name = f.Name
		results = append(results, res)
	}
	return results, nil
}

// Options carries backend construction settings. Only the enhancer matching
// the selected backend is consulted.
type Options struct {
	// NodePath overrides lookup of the node package runner used by the
	// external backends. Ignored by the in-process backend.
	NodePath string

	Esbuild EsbuildEnhancer
	Rollup  RollupEnhancer
	Webpack WebpackEnhancer
}

// New selects a backend by name.
func New(name string, opts Options) (Adapter, error) {
	switch name {
	case "esbuild", "":
		return NewEsbuild(opts.Esbuild), nil
	case "rollup":
		return NewRollup(opts.NodePath, opts.Rollup), nil
	case "webpack":
		return NewWebpack(opts.NodePath, opts.Webpack), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: esbuild, rollup, webpack)", ErrUnknownBackend, name)
	}
}
