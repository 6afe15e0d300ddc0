package bundler

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Artifact naming contract. The measurement side locates artifacts purely
// by these suffixes, so they are fixed rather than configurable.
const (
	FixtureSuffix = ".fixture.js"
	OutputSuffix  = ".output.js"
	DebugSuffix   = ".debug.js"
)

// IsFixturePath reports whether p follows the fixture naming convention.
func IsFixturePath(p string) bool {
	return strings.HasSuffix(p, FixtureSuffix) && len(p) > len(FixtureSuffix)
}

// OutputPath derives the release artifact path for a fixture. Pure string
// transform; the fixture's directory and basename are preserved.
func OutputPath(fixturePath string) string {
	return strings.TrimSuffix(fixturePath, FixtureSuffix) + OutputSuffix
}

// DebugOutputPath derives the debug artifact path for a fixture.
func DebugOutputPath(fixturePath string) string {
	return strings.TrimSuffix(fixturePath, FixtureSuffix) + DebugSuffix
}

// EntryKey derives the base entry name for a fixture: the output basename
// with the artifact marker stripped.
func EntryKey(fixturePath string) string {
	return strings.TrimSuffix(filepath.Base(fixturePath), FixtureSuffix)
}

// Output basenames handed to backends as naming templates or entry output
// names, without the .js extension backends append themselves.
var (
	releaseEntryName = strings.TrimSuffix(OutputSuffix, ".js")
	debugEntryName   = strings.TrimSuffix(DebugSuffix, ".js")
)

func checkFixturePath(backend, p string) error {
	if !IsFixturePath(p) {
		return &ConfigError{Backend: backend, Reason: fmt.Sprintf("%s does not end in %s", p, FixtureSuffix)}
	}
	return nil
}

// entryPoint binds one fixture to its unique key within a batch. A slice is
// used instead of a map so generated configurations list entries in input
// order.
type entryPoint struct {
	Key     string
	Fixture Fixture
}

// entryPlan assigns a unique entry key to every fixture. On collision the
// later fixture's key gets its zero-based batch index appended, in input
// order. A key that still collides after disambiguation breaks the plan.
func entryPlan(fixtures []Fixture) ([]entryPoint, error) {
	seen := make(map[string]bool, len(fixtures))
	entries := make([]entryPoint, 0, len(fixtures))
	for i, f := range fixtures {
		key := EntryKey(f.Path)
		if seen[key] {
			key = fmt.Sprintf("%s_%d", key, i)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrEntryCollision, key)
		}
		seen[key] = true
		entries = append(entries, entryPoint{Key: key, Fixture: f})
	}
	return entries, nil
}

// batchPlan precomputes everything a batched run needs: per-fixture entry
// keys, the shared output directory, and the results to echo back after the
// backend finishes. The backend is never asked to report per-entry paths.
type batchPlan struct {
	Entries []entryPoint
	OutDir  string
	Results []BuildResult
}

// planBatch validates the batch invariants and derives the plan. Fixtures
// that would land in different output directories are rejected outright:
// silently adopting the first fixture's directory would scatter artifacts
// away from where the naming contract says they live.
func planBatch(backend string, opts BatchBuildOptions) (*batchPlan, error) {
	if len(opts.Fixtures) == 0 {
		return nil, &ConfigError{Backend: backend, Reason: "batch contains no fixtures"}
	}
	for _, f := range opts.Fixtures {
		if err := checkFixturePath(backend, f.Path); err != nil {
			return nil, err
		}
	}

	outDir := filepath.Dir(OutputPath(opts.Fixtures[0].Path))
	for _, f := range opts.Fixtures[1:] {
		if d := filepath.Dir(OutputPath(f.Path)); d != outDir {
			return nil, &ConfigError{
				Backend: backend,
				Reason:  fmt.Sprintf("batch fixtures span output directories %s and %s", outDir, d),
			}
		}
	}

	entries, err := entryPlan(opts.Fixtures)
	if err != nil {
		return nil, err
	}

	results := make([]BuildResult, 0, len(opts.Fixtures))
	for _, f := range opts.Fixtures {
		res := BuildResult{Name: f.Name, OutputPath: OutputPath(f.Path)}
		if opts.Debug {
			res.DebugOutputPath = DebugOutputPath(f.Path)
		}
		results = append(results, res)
	}

	return &batchPlan{Entries: entries, OutDir: outDir, Results: results}, nil
}
