package execx

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/chbota/setup/internal/logger"
)

// Runner executes delegated external commands. Everything this tool does that
// matters (package installs, authentication, repository sync) goes through
// one of these two calls, which keeps the orchestration layers testable with
// a fake runner.
type Runner interface {
	// Run executes name with args and returns combined stdout/stderr.
	// A non-zero exit reports as a non-nil error alongside the output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// RunInteractive executes name with the terminal attached, for commands
	// that legitimately block on operator input (e.g. a browser-based login).
	RunInteractive(ctx context.Context, name string, args ...string) error
}

// Resolver maps a command name to an executable path. Satisfied by
// pathenv.Lookup so tools installed into a user-local bin directory earlier
// in the run are found even though the process PATH never changed.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// System runs commands on the host. Lookup may be nil, in which case the
// command name is handed to os/exec unresolved.
type System struct {
	Lookup Resolver
}

func (s System) path(name string) string {
	if s.Lookup != nil {
		if p, ok := s.Lookup.Resolve(name); ok {
			return p
		}
	}
	return name
}

func (s System) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.path(name), args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}

func (s System) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, s.path(name), args...)
	logger.Debug("[DEBUG] Running interactive command: %s\n", strings.Join(cmd.Args, " "))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
