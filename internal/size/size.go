// Package size measures the artifacts a bundler backend produced. Sizes are
// reported raw and compressed, since transfer size over gzip or brotli is
// what most size budgets track.
package size

import (
	"compress/gzip"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/bundlestat/bundlestat/internal/bundler"
)

// Measurement is the size report for one fixture's artifacts.
type Measurement struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Bytes       int64  `json:"bytes"`
	GzipBytes   int64  `json:"gzip_bytes"`
	BrotliBytes int64  `json:"brotli_bytes"`
	// DebugBytes is zero when no debug artifact was built.
	DebugBytes int64 `json:"debug_bytes,omitempty"`
}

// countingWriter discards output and counts it. Compressed sizes never need
// the compressed bytes themselves.
type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

func gzipSize(data []byte) (int64, error) {
	var cw countingWriter
	zw, err := gzip.NewWriterLevel(&cw, gzip.BestCompression)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

func brotliSize(data []byte) (int64, error) {
	var cw countingWriter
	bw := brotli.NewWriterLevel(&cw, brotli.BestCompression)
	if _, err := bw.Write(data); err != nil {
		return 0, err
	}
	if err := bw.Close(); err != nil {
		return 0, err
	}
	return cw.n, nil
}

// Measure reads one build result's artifacts and reports their sizes.
func Measure(res bundler.BuildResult) (Measurement, error) {
	data, err := os.ReadFile(res.OutputPath)
	if err != nil {
		return Measurement{}, fmt.Errorf("read artifact: %w", err)
	}

	m := Measurement{
		Name:  res.Name,
		Path:  res.OutputPath,
		Bytes: int64(len(data)),
	}
	if m.GzipBytes, err = gzipSize(data); err != nil {
		return Measurement{}, fmt.Errorf("gzip %s: %w", res.OutputPath, err)
	}
	if m.BrotliBytes, err = brotliSize(data); err != nil {
		return Measurement{}, fmt.Errorf("brotli %s: %w", res.OutputPath, err)
	}

	if res.DebugOutputPath != "" {
		info, err := os.Stat(res.DebugOutputPath)
		if err != nil {
			return Measurement{}, fmt.Errorf("stat debug artifact: %w", err)
		}
		m.DebugBytes = info.Size()
	}
	return m, nil
}

// MeasureAll measures every result, preserving order.
func MeasureAll(results []bundler.BuildResult) ([]Measurement, error) {
	measurements := make([]Measurement, 0, len(results))
	for _, res := range results {
		m, err := Measure(res)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, nil
}

// MeasureDir measures every release artifact under root, located purely by
// the output naming convention. Used when comparing artifact trees that
// were built elsewhere.
func MeasureDir(root string) ([]Measurement, error) {
	var measurements []Measurement
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), bundler.OutputSuffix) {
			return nil
		}
		m, err := Measure(bundler.BuildResult{
			Name:       strings.TrimSuffix(d.Name(), bundler.OutputSuffix),
			OutputPath: path,
		})
		if err != nil {
			return err
		}
		measurements = append(measurements, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("measure artifacts in %s: %w", root, err)
	}
	sort.Slice(measurements, func(i, j int) bool { return measurements[i].Name < measurements[j].Name })
	return measurements, nil
}

// Delta is the size change of one fixture between two measurement sets.
type Delta struct {
	Name      string `json:"name"`
	OldBytes  int64  `json:"old_bytes"`
	NewBytes  int64  `json:"new_bytes"`
	DiffBytes int64  `json:"diff_bytes"`
	// Added and Removed mark fixtures present in only one set.
	Added   bool `json:"added,omitempty"`
	Removed bool `json:"removed,omitempty"`
}

// Diff compares two measurement sets by fixture name. Order follows the new
// set, with removed fixtures appended in old-set order.
func Diff(old, current []Measurement) []Delta {
	oldByName := make(map[string]Measurement, len(old))
	for _, m := range old {
		oldByName[m.Name] = m
	}

	deltas := make([]Delta, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, m := range current {
		seen[m.Name] = true
		prev, ok := oldByName[m.Name]
		if !ok {
			deltas = append(deltas, Delta{Name: m.Name, NewBytes: m.Bytes, DiffBytes: m.Bytes, Added: true})
			continue
		}
		deltas = append(deltas, Delta{
			Name:      m.Name,
			OldBytes:  prev.Bytes,
			NewBytes:  m.Bytes,
			DiffBytes: m.Bytes - prev.Bytes,
		})
	}
	for _, m := range old {
		if !seen[m.Name] {
			deltas = append(deltas, Delta{Name: m.Name, OldBytes: m.Bytes, DiffBytes: -m.Bytes, Removed: true})
		}
	}
	return deltas
}
