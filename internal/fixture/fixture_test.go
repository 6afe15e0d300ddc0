package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(`console.log("x")`), 0o600))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "widget.fixture.js"))
	touch(t, filepath.Join(dir, "nested", "button.fixture.js"))
	touch(t, filepath.Join(dir, "widget.output.js"))
	touch(t, filepath.Join(dir, "regular.js"))
	touch(t, filepath.Join(dir, "node_modules", "dep", "evil.fixture.js"))

	fixtures, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	// Sorted by path, named by basename minus the suffix.
	assert.Equal(t, "button", fixtures[0].Name)
	assert.Equal(t, filepath.Join(dir, "nested", "button.fixture.js"), fixtures[0].Path)
	assert.Equal(t, "widget", fixtures[1].Name)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFromPaths(t *testing.T) {
	fixtures, err := FromPaths([]string{"a/b/chart.fixture.js"})
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "chart", fixtures[0].Name)

	_, err = FromPaths([]string{"a/b/chart.js"})
	assert.Error(t, err)
}
