// Package fixture discovers the fixtures a measurement run builds.
package fixture

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bundlestat/bundlestat/internal/bundler"
)

// Discover walks root for files following the fixture naming convention and
// returns them sorted by path, so runs are deterministic regardless of
// filesystem ordering.
func Discover(root string) ([]bundler.Fixture, error) {
	var fixtures []bundler.Fixture
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !bundler.IsFixturePath(d.Name()) {
			return nil
		}
		fixtures = append(fixtures, bundler.Fixture{
			Path: path,
			Name: strings.TrimSuffix(d.Name(), bundler.FixtureSuffix),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover fixtures in %s: %w", root, err)
	}

	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].Path < fixtures[j].Path })
	log.Debug().Str("root", root).Int("fixtures", len(fixtures)).Msg("discovered fixtures")
	return fixtures, nil
}

// FromPaths builds the fixture list for explicitly named files.
func FromPaths(paths []string) ([]bundler.Fixture, error) {
	fixtures := make([]bundler.Fixture, 0, len(paths))
	for _, p := range paths {
		base := filepath.Base(p)
		if !bundler.IsFixturePath(base) {
			return nil, fmt.Errorf("%s does not end in %s", p, bundler.FixtureSuffix)
		}
		fixtures = append(fixtures, bundler.Fixture{
			Path: p,
			Name: strings.TrimSuffix(base, bundler.FixtureSuffix),
		})
	}
	return fixtures, nil
}
