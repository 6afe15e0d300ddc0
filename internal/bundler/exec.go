package bundler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// execTimeout bounds one external bundler run. npx may download the tool on
// first use, so this is deliberately generous.
const execTimeout = 2 * time.Minute

// commonNpxPaths are checked when npx is not on PATH (system installs
// first, then package managers).
var commonNpxPaths = []string{
	"/usr/local/bin/npx",
	"/usr/bin/npx",
	"/opt/homebrew/bin/npx",
	"/home/linuxbrew/.linuxbrew/bin/npx",
}

// lookupNpx finds the node package runner used to invoke external bundlers.
// override, when non-empty, is trusted as-is after an existence check.
func lookupNpx(backend, override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", &ConfigError{Backend: backend, Reason: fmt.Sprintf("node runner %s not found", override)}
		}
		return override, nil
	}

	if p, err := exec.LookPath("npx"); err == nil {
		return p, nil
	}
	for _, p := range commonNpxPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &ConfigError{
		Backend: backend,
		Reason:  "npx not found in PATH or common locations (node.js is required for this backend)",
	}
}

// runNpx executes one external bundler invocation and returns its combined
// diagnostic text on failure.
func runNpx(ctx context.Context, npxPath string, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, npxPath, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("args", args).Msg("running external bundler")
	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("bundler timed out after %s", execTimeout)
	}
	if runErr != nil {
		msg := stderr.String()
		if msg == "" {
			msg = stdout.String()
		}
		if msg == "" {
			msg = runErr.Error()
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// relevantDiagnostics extracts the diagnostic lines worth surfacing from an
// external bundler's output, dropping stack traces and progress noise.
func relevantDiagnostics(output string) []string {
	var diags []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "at ") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") ||
			strings.Contains(line, "Could not resolve") ||
			strings.Contains(line, "Module not found") ||
			strings.Contains(line, "Can't resolve") ||
			strings.Contains(line, "Unexpected") ||
			strings.Contains(line, "Expected") {
			diags = append(diags, line)
		}
	}
	if len(diags) == 0 {
		diags = []string{strings.TrimSpace(output)}
	}
	return diags
}
