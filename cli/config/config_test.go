package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test.
// Equivalent to t.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "esbuild", cfg.Backend)
	assert.Equal(t, ".", cfg.FixtureDir)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.SingleBuild)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundlestat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: rollup
fixture_dir: ./fixtures
debug: true
single_build: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rollup", cfg.Backend)
	assert.Equal(t, "./fixtures", cfg.FixtureDir)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.SingleBuild)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BUNDLESTAT_BACKEND", "webpack")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "webpack", cfg.Backend)
}
