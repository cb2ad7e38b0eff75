package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chbota/setup/internal/execx"
	"github.com/chbota/setup/internal/logger"
)

// Prober is the capability check the coordinator needs from the lookup.
type Prober interface {
	Exists(name string) bool
}

// Coordinator ensures the gh CLI holds a valid GitHub session and that git
// uses it for credentials. The session itself is external state owned by gh;
// this component only queries it and, if absent, triggers creation.
type Coordinator struct {
	Runner execx.Runner
	Probe  Prober
}

// EnsureSession establishes a valid session if none exists:
//   - gh being absent is a hard precondition failure, not retried
//   - a valid session is a no-op
//   - otherwise the interactive login flow runs, legitimately blocking on
//     operator input (browser or prompt), and its failure is fatal
//   - after a fresh login, gh's credentials are wired into git's credential
//     helper so repository operations do not re-prompt
func (c Coordinator) EnsureSession(ctx context.Context) error {
	if !c.Probe.Exists("gh") {
		return errors.New("gh is not installed; the hosting CLI install step must succeed first")
	}

	if out, err := c.Runner.Run(ctx, "gh", "auth", "status"); err == nil {
		logger.Info("[INFO] GitHub session already valid. Skipping login.\n")
		logger.Debug("[DEBUG] gh auth status output: %s\n", out)
		return nil
	}

	logger.Info("[INFO] No valid GitHub session. Starting interactive login...\n")
	if err := c.Runner.RunInteractive(ctx, "gh", "auth", "login", "--git-protocol", "https"); err != nil {
		return fmt.Errorf("gh auth login failed: %w; run 'gh auth login' manually and re-run setup", err)
	}

	if out, err := c.Runner.Run(ctx, "gh", "auth", "setup-git"); err != nil {
		return fmt.Errorf("gh auth setup-git failed: %w\nOutput: %s", err, out)
	}

	logger.Info("[INFO] GitHub session established and wired into git.\n")
	return nil
}

// SessionValid reports current session validity without mutating anything.
// Used by the read-only status command.
func (c Coordinator) SessionValid(ctx context.Context) bool {
	if !c.Probe.Exists("gh") {
		return false
	}
	_, err := c.Runner.Run(ctx, "gh", "auth", "status")
	return err == nil
}
