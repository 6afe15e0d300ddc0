package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RollupConfig is the Go-side description of one rollup invocation. It is
// rendered to a generated config file before the run; the enhancer mutates
// this struct, not the rendered text.
type RollupConfig struct {
	// Input maps entry keys to absolute fixture paths.
	Input map[string]string
	// Outputs holds the release target and, when debug is requested, a
	// second non-minified target built in the same run.
	Outputs []RollupOutput
	// External lists import specifiers rollup must not resolve.
	External []string
}

// RollupOutput is one output target of a rollup run.
type RollupOutput struct {
	Dir            string
	EntryFileNames string
	Format         string
	Minify         bool
}

// RollupEnhancer customizes the default configuration before a build,
// applied exactly once per build invocation.
type RollupEnhancer func(RollupConfig) RollupConfig

// Rollup bundles fixtures through the rollup CLI invoked via npx. It
// supports batching: each entry of the input map gets its own self-contained
// bundle, so a batched run matches per-fixture runs byte for byte as long as
// fixtures are independent. Debug output is a parallel output target, not a
// second run.
type Rollup struct {
	npxPath string
	enhance RollupEnhancer
}

// NewRollup creates the rollup backend. npxPath may be empty, in which case
// npx is located on PATH; enhance may be nil.
func NewRollup(npxPath string, enhance RollupEnhancer) *Rollup {
	return &Rollup{npxPath: npxPath, enhance: enhance}
}

func (r *Rollup) Name() string { return "rollup" }

// BuildFixture builds one fixture in one rollup run.
func (r *Rollup) BuildFixture(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	if err := checkFixturePath(r.Name(), opts.FixturePath); err != nil {
		return BuildResult{}, err
	}

	result := BuildResult{OutputPath: OutputPath(opts.FixturePath)}
	if opts.Debug {
		result.DebugOutputPath = DebugOutputPath(opts.FixturePath)
	}

	cfg, err := r.assemble([]entryPoint{{Key: EntryKey(opts.FixturePath), Fixture: Fixture{Path: opts.FixturePath}}},
		filepath.Dir(result.OutputPath), opts.Debug)
	if err != nil {
		return BuildResult{}, err
	}
	if err := r.run(ctx, cfg, opts.Quiet, false); err != nil {
		return BuildResult{}, err
	}
	return result, nil
}

// BuildFixtures builds the whole batch in one rollup run.
func (r *Rollup) BuildFixtures(ctx context.Context, opts BatchBuildOptions) ([]BuildResult, error) {
	plan, err := planBatch(r.Name(), opts)
	if err != nil {
		return nil, err
	}
	cfg, err := r.assemble(plan.Entries, plan.OutDir, opts.Debug)
	if err != nil {
		return nil, err
	}
	if err := r.run(ctx, cfg, opts.Quiet, true); err != nil {
		return nil, err
	}
	return plan.Results, nil
}

func (r *Rollup) assemble(entries []entryPoint, outDir string, debug bool) (RollupConfig, error) {
	absDir, err := filepath.Abs(outDir)
	if err != nil {
		return RollupConfig{}, &ConfigError{Backend: r.Name(), Reason: err.Error()}
	}

	cfg := RollupConfig{
		Input: make(map[string]string, len(entries)),
		Outputs: []RollupOutput{{
			Dir:            absDir,
			EntryFileNames: "[name]" + OutputSuffix,
			Format:         "es",
			Minify:         true,
		}},
	}
	for _, en := range entries {
		abs, err := filepath.Abs(en.Fixture.Path)
		if err != nil {
			return RollupConfig{}, &ConfigError{Backend: r.Name(), Reason: err.Error()}
		}
		cfg.Input[en.Key] = abs
	}
	if debug {
		cfg.Outputs = append(cfg.Outputs, RollupOutput{
			Dir:            absDir,
			EntryFileNames: "[name]" + DebugSuffix,
			Format:         "es",
		})
	}
	return cfg, nil
}

func (r *Rollup) run(ctx context.Context, cfg RollupConfig, quiet, batch bool) error {
	if r.enhance != nil {
		cfg = r.enhance(cfg)
	}
	if len(cfg.Input) == 0 || len(cfg.Outputs) == 0 {
		return &ConfigError{Backend: r.Name(), Reason: "enhanced configuration has no input or no output"}
	}

	npx, err := lookupNpx(r.Name(), r.npxPath)
	if err != nil {
		return err
	}

	// The generated config imports @rollup/plugin-terser, which node
	// resolves by walking up from the config file. Writing the config next
	// to the outputs keeps it inside the project tree where node_modules
	// is reachable; a temp dir would not be.
	cfgPath := filepath.Join(cfg.Outputs[0].Dir, "rollup.config.bundlestat.mjs")
	if err := os.WriteFile(cfgPath, []byte(renderRollupConfig(cfg)), 0o600); err != nil {
		return fmt.Errorf("write rollup config: %w", err)
	}
	defer func() { _ = os.Remove(cfgPath) }()

	args := []string{"rollup", "--config", cfgPath}
	if quiet {
		args = append(args, "--silent")
	}
	if runErr := runNpx(ctx, npx, args...); runErr != nil {
		return &CompileError{Backend: r.Name(), Batch: batch, Diagnostics: relevantDiagnostics(runErr.Error())}
	}
	return nil
}

// renderRollupConfig turns the config struct into the generated mjs config.
// json.Marshal sorts map keys, so rendering is deterministic.
func renderRollupConfig(cfg RollupConfig) string {
	var b strings.Builder
	needsTerser := false
	for _, out := range cfg.Outputs {
		if out.Minify {
			needsTerser = true
		}
	}
	if needsTerser {
		b.WriteString("import terser from '@rollup/plugin-terser';\n\n")
	}

	b.WriteString("export default {\n")
	fmt.Fprintf(&b, "  input: %s,\n", jsValue(cfg.Input))
	if len(cfg.External) > 0 {
		fmt.Fprintf(&b, "  external: %s,\n", jsValue(cfg.External))
	}
	b.WriteString("  output: [\n")
	for _, out := range cfg.Outputs {
		fmt.Fprintf(&b, "    { dir: %s, entryFileNames: %s, format: %s",
			jsValue(out.Dir), jsValue(out.EntryFileNames), jsValue(out.Format))
		if out.Minify {
			b.WriteString(", plugins: [terser()]")
		}
		b.WriteString(" },\n")
	}
	b.WriteString("  ]\n};\n")
	return b.String()
}

func jsValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
