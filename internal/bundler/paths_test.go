package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathDerivation(t *testing.T) {
	tests := []struct {
		fixture string
		output  string
		debug   string
		key     string
	}{
		{
			fixture: "fixtures/widget.fixture.js",
			output:  "fixtures/widget.output.js",
			debug:   "fixtures/widget.debug.js",
			key:     "widget",
		},
		{
			fixture: "/abs/path/deep-import.fixture.js",
			output:  "/abs/path/deep-import.output.js",
			debug:   "/abs/path/deep-import.debug.js",
			key:     "deep-import",
		},
		{
			fixture: "a.b.fixture.js",
			output:  "a.b.output.js",
			debug:   "a.b.debug.js",
			key:     "a.b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			assert.True(t, IsFixturePath(tt.fixture))
			assert.Equal(t, tt.output, OutputPath(tt.fixture))
			assert.Equal(t, tt.debug, DebugOutputPath(tt.fixture))
			assert.Equal(t, tt.key, EntryKey(tt.fixture))

			// Pure functions: a second call yields the same result.
			assert.Equal(t, OutputPath(tt.fixture), OutputPath(tt.fixture))
			assert.Equal(t, DebugOutputPath(tt.fixture), DebugOutputPath(tt.fixture))
		})
	}
}

func TestIsFixturePath(t *testing.T) {
	assert.False(t, IsFixturePath("widget.js"))
	assert.False(t, IsFixturePath("widget.output.js"))
	assert.False(t, IsFixturePath(".fixture.js"))
	assert.True(t, IsFixturePath("w.fixture.js"))
}

func TestEntryPlanUniqueKeys(t *testing.T) {
	entries, err := entryPlan([]Fixture{
		{Path: "f/alpha.fixture.js", Name: "alpha"},
		{Path: "f/beta.fixture.js", Name: "beta"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "alpha", entries[0].Key)
	assert.Equal(t, "beta", entries[1].Key)
}

func TestEntryPlanCollisionTieBreak(t *testing.T) {
	// Two fixtures resolving to the same basename: the second-seen one gets
	// its zero-based index appended.
	entries, err := entryPlan([]Fixture{
		{Path: "a/widget.fixture.js"},
		{Path: "b/widget.fixture.js"},
	})
	require.NoError(t, err)
	assert.Equal(t, "widget", entries[0].Key)
	assert.Equal(t, "widget_1", entries[1].Key)

	// Unrelated entries elsewhere in the batch do not change the keys the
	// colliding pair receives, only the index of the later one.
	entries, err = entryPlan([]Fixture{
		{Path: "a/widget.fixture.js"},
		{Path: "c/other.fixture.js"},
		{Path: "b/widget.fixture.js"},
	})
	require.NoError(t, err)
	assert.Equal(t, "widget", entries[0].Key)
	assert.Equal(t, "other", entries[1].Key)
	assert.Equal(t, "widget_2", entries[2].Key)
}

func TestEntryPlanCollisionAfterTieBreak(t *testing.T) {
	// A fixture already named like a disambiguated key defeats the
	// tie-break; that is an invariant failure, not a user error.
	_, err := entryPlan([]Fixture{
		{Path: "a/widget.fixture.js"},
		{Path: "b/widget_2.fixture.js"},
		{Path: "c/widget.fixture.js"},
	})
	require.ErrorIs(t, err, ErrEntryCollision)
}

func TestPlanBatch(t *testing.T) {
	plan, err := planBatch("esbuild", BatchBuildOptions{
		Fixtures: []Fixture{
			{Path: "dir/a.fixture.js", Name: "a"},
			{Path: "dir/b.fixture.js", Name: "b"},
		},
		Debug: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "dir", plan.OutDir)
	require.Len(t, plan.Results, 2)
	assert.Equal(t, BuildResult{Name: "a", OutputPath: "dir/a.output.js", DebugOutputPath: "dir/a.debug.js"}, plan.Results[0])
	assert.Equal(t, BuildResult{Name: "b", OutputPath: "dir/b.output.js", DebugOutputPath: "dir/b.debug.js"}, plan.Results[1])
}

func TestPlanBatchNoDebug(t *testing.T) {
	plan, err := planBatch("esbuild", BatchBuildOptions{
		Fixtures: []Fixture{{Path: "dir/a.fixture.js", Name: "a"}},
	})
	require.NoError(t, err)
	assert.Empty(t, plan.Results[0].DebugOutputPath)
}

func TestPlanBatchRejectsMixedDirectories(t *testing.T) {
	_, err := planBatch("esbuild", BatchBuildOptions{
		Fixtures: []Fixture{
			{Path: "one/a.fixture.js"},
			{Path: "two/b.fixture.js"},
		},
	})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "output directories")
}

func TestPlanBatchRejectsEmptyAndMalformed(t *testing.T) {
	var cfgErr *ConfigError

	_, err := planBatch("esbuild", BatchBuildOptions{})
	require.ErrorAs(t, err, &cfgErr)

	_, err = planBatch("esbuild", BatchBuildOptions{
		Fixtures: []Fixture{{Path: "dir/a.js"}},
	})
	require.ErrorAs(t, err, &cfgErr)
}
