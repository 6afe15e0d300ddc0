package bundler

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWebpackConfig(t *testing.T) {
	cfg := WebpackConfig{
		Entry:            map[string]string{"widget": "/src/widget.fixture.js"},
		OutDir:           "/src",
		ReleaseFileNames: "[name].output.js",
		DebugFileNames:   "[name].debug.js",
	}

	rendered := renderWebpackConfig(cfg, false)

	assert.Contains(t, rendered, `"widget":"/src/widget.fixture.js"`)
	assert.Contains(t, rendered, `filename: "[name].output.js"`)
	assert.Contains(t, rendered, `filename: "[name].debug.js"`)
	assert.Contains(t, rendered, "minimize: true")
	assert.Contains(t, rendered, "minimize: false")
	assert.Contains(t, rendered, `stats: "errors-warnings"`)

	// Both compilations stay in production mode so the debug artifact is a
	// faithful unminified twin.
	assert.NotContains(t, rendered, `mode: "development"`)
}

func TestRenderWebpackConfigReleaseOnly(t *testing.T) {
	cfg := WebpackConfig{
		Entry:            map[string]string{"a": "/a.fixture.js"},
		OutDir:           "/",
		ReleaseFileNames: "[name].output.js",
	}

	rendered := renderWebpackConfig(cfg, true)
	assert.NotContains(t, rendered, ".debug.js")
	assert.Contains(t, rendered, `stats: "errors-only"`)
}

func TestWebpackDoesNotOfferBatching(t *testing.T) {
	// webpack may share chunks across entries of one compilation, so the
	// batch capability is omitted rather than offered non-conformingly.
	var a Adapter = NewWebpack("", nil)
	_, ok := AsBatch(a)
	assert.False(t, ok)
}

func TestWebpackEnhancerContract(t *testing.T) {
	calls := 0
	w := NewWebpack("", func(cfg WebpackConfig) WebpackConfig {
		calls++
		assert.Len(t, cfg.Entry, 1)
		assert.NotEmpty(t, cfg.DebugFileNames)
		cfg.Entry = nil // invalidate so the build never reaches the backend
		return cfg
	})

	_, err := w.BuildFixture(context.Background(), BuildOptions{FixturePath: "d/a.fixture.js", Debug: true})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 1, calls)
}

func TestWebpackRejectsMalformedFixturePath(t *testing.T) {
	w := NewWebpack("", nil)
	_, err := w.BuildFixture(context.Background(), BuildOptions{FixturePath: "plain.js"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestWebpackBuildFixtureIntegration(t *testing.T) {
	if _, err := exec.LookPath("npx"); err != nil {
		t.Skip("node not installed, skipping webpack integration test")
	}

	dir := t.TempDir()
	f := writeFixture(t, dir, "hello", `console.log("Hello")`)

	w := NewWebpack("", nil)
	res, err := w.BuildFixture(context.Background(), BuildOptions{FixturePath: f.Path, Quiet: true, Debug: true})
	if err != nil {
		t.Skipf("webpack unavailable through npx: %v", err)
	}
	assert.FileExists(t, res.OutputPath)
	assert.FileExists(t, res.DebugOutputPath)
}
