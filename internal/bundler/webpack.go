package bundler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WebpackConfig is the Go-side description of one webpack invocation,
// rendered to a generated config file before the run.
type WebpackConfig struct {
	// Entry maps entry keys to absolute fixture paths.
	Entry map[string]string
	// OutDir is the absolute output directory shared by both compilations.
	OutDir string
	// ReleaseFileNames is the minified output naming template.
	ReleaseFileNames string
	// DebugFileNames, when non-empty, adds a second non-minimized
	// compilation to the same invocation.
	DebugFileNames string
}

// WebpackEnhancer customizes the default configuration before a build,
// applied exactly once per build invocation.
type WebpackEnhancer func(WebpackConfig) WebpackConfig

// Webpack bundles fixtures through the webpack CLI invoked via npx. It
// deliberately does not implement BatchAdapter: webpack may share runtime
// and split chunks across the entries of one compilation, which would break
// the guarantee that a batched artifact is byte-identical to a per-fixture
// one. Callers batch over it by looping BuildFixture. Debug output is a
// second compilation config passed in the same invocation.
type Webpack struct {
	npxPath string
	enhance WebpackEnhancer
}

// NewWebpack creates the webpack backend. npxPath may be empty, in which
// case npx is located on PATH; enhance may be nil.
func NewWebpack(npxPath string, enhance WebpackEnhancer) *Webpack {
	return &Webpack{npxPath: npxPath, enhance: enhance}
}

func (w *Webpack) Name() string { return "webpack" }

// BuildFixture builds one fixture in one webpack run.
func (w *Webpack) BuildFixture(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	if err := checkFixturePath(w.Name(), opts.FixturePath); err != nil {
		return BuildResult{}, err
	}

	result := BuildResult{OutputPath: OutputPath(opts.FixturePath)}

	absFixture, err := filepath.Abs(opts.FixturePath)
	if err != nil {
		return BuildResult{}, &ConfigError{Backend: w.Name(), Reason: err.Error()}
	}
	absDir, err := filepath.Abs(filepath.Dir(result.OutputPath))
	if err != nil {
		return BuildResult{}, &ConfigError{Backend: w.Name(), Reason: err.Error()}
	}

	cfg := WebpackConfig{
		Entry:            map[string]string{EntryKey(opts.FixturePath): absFixture},
		OutDir:           absDir,
		ReleaseFileNames: "[name]" + OutputSuffix,
	}
	if opts.Debug {
		cfg.DebugFileNames = "[name]" + DebugSuffix
		result.DebugOutputPath = DebugOutputPath(opts.FixturePath)
	}

	if w.enhance != nil {
		cfg = w.enhance(cfg)
	}
	if len(cfg.Entry) == 0 || cfg.OutDir == "" || cfg.ReleaseFileNames == "" {
		return BuildResult{}, &ConfigError{Backend: w.Name(), Reason: "enhanced configuration is missing entry, output dir, or filename template"}
	}

	if err := w.run(ctx, cfg, opts.Quiet); err != nil {
		return BuildResult{}, err
	}
	return result, nil
}

func (w *Webpack) run(ctx context.Context, cfg WebpackConfig, quiet bool) error {
	npx, err := lookupNpx(w.Name(), w.npxPath)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "bundlestat-webpack-*")
	if err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	cfgPath := filepath.Join(tmpDir, "webpack.config.cjs")
	if err := os.WriteFile(cfgPath, []byte(renderWebpackConfig(cfg, quiet)), 0o600); err != nil {
		return fmt.Errorf("write webpack config: %w", err)
	}

	args := []string{"webpack", "--config", cfgPath}
	if runErr := runNpx(ctx, npx, args...); runErr != nil {
		return &CompileError{Backend: w.Name(), Diagnostics: relevantDiagnostics(runErr.Error())}
	}
	return nil
}

// renderWebpackConfig emits a config array so release and debug compile in
// one invocation. Both compilations run in production mode; only
// optimization.minimize differs, keeping the debug artifact a faithful
// unminified twin of the release one.
func renderWebpackConfig(cfg WebpackConfig, quiet bool) string {
	stats := `"errors-warnings"`
	if quiet {
		stats = `"errors-only"`
	}

	compilation := func(fileNames string, minimize bool) string {
		var b strings.Builder
		b.WriteString("  {\n")
		b.WriteString("    mode: \"production\",\n")
		fmt.Fprintf(&b, "    entry: %s,\n", jsValue(cfg.Entry))
		fmt.Fprintf(&b, "    output: { path: %s, filename: %s },\n", jsValue(cfg.OutDir), jsValue(fileNames))
		fmt.Fprintf(&b, "    optimization: { minimize: %t },\n", minimize)
		b.WriteString("    devtool: false,\n")
		b.WriteString("    target: \"web\",\n")
		fmt.Fprintf(&b, "    stats: %s,\n", stats)
		b.WriteString("  },\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString("module.exports = [\n")
	b.WriteString(compilation(cfg.ReleaseFileNames, true))
	if cfg.DebugFileNames != "" {
		b.WriteString(compilation(cfg.DebugFileNames, false))
	}
	b.WriteString("];\n")
	return b.String()
}
