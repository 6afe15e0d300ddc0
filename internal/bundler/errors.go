package bundler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown bundler backend")

// ErrEntryCollision marks a batch whose entry keys still collide after
// index-based disambiguation. Since the tie-break appends a unique index,
// this indicates a broken caller invariant rather than a user error.
var ErrEntryCollision = errors.New("entry key collision after disambiguation")

// ConfigError reports an invalid configuration detected before the backend
// was invoked.
type ConfigError struct {
	Backend string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Backend == "" {
		return "invalid build configuration: " + e.Reason
	}
	return fmt.Sprintf("%s: invalid build configuration: %s", e.Backend, e.Reason)
}

// CompileError aggregates the diagnostics of a failed backend run. A batch
// failure carries no per-fixture attribution; callers needing one must
// rebuild fixtures individually.
type CompileError struct {
	Backend     string
	Batch       bool
	Diagnostics []string
}

func (e *CompileError) Error() string {
	scope := "build failed"
	if e.Batch {
		scope = "batch build failed"
	}
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("%s: %s", e.Backend, scope)
	}
	return fmt.Sprintf("%s: %s: %s", e.Backend, scope, strings.Join(e.Diagnostics, "; "))
}
