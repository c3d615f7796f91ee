// Package secret resolves 1Password secret references of the form
// op://vault/item/field by shelling out to the op CLI. Plain values pass
// through untouched, so callers can accept either form for credentials.
package secret

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// CommandContext allows overriding command creation for testing
	CommandContext = exec.CommandContext
	// LookPath allows overriding the executable lookup for testing
	LookPath = exec.LookPath
)

// Resolve attempts to resolve a 1Password secret reference (e.g. op://vault/item/field).
// Returns the resolved value and whether it was a secret reference.
func Resolve(ctx context.Context, value string) (string, bool, error) {
	if !strings.HasPrefix(value, "op://") {
		return value, false, nil
	}

	// Check if op CLI is available
	if _, err := LookPath("op"); err != nil {
		return "", true, fmt.Errorf("1Password CLI (op) not found in PATH: %w", err)
	}

	cmd := CommandContext(ctx, "op", "read", value)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", true, fmt.Errorf("failed to read secret from 1Password: %s", string(exitErr.Stderr))
		}
		return "", true, fmt.Errorf("failed to read secret from 1Password: %w", err)
	}

	// Trim any whitespace/newlines from the output
	return strings.TrimSpace(string(output)), true, nil
}
