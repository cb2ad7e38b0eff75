package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/chbota/setup/internal/execx"
	"github.com/chbota/setup/internal/logger"
	"github.com/chbota/setup/internal/platform"
	"github.com/chbota/setup/internal/state"
	"github.com/chbota/setup/internal/step"
)

// Prober is the capability-probe surface the installer needs from the lookup:
// check whether a binary is callable, resolve it to a path, and extend the
// in-process search path after a user-local install. Satisfied by
// pathenv.Lookup; tests inject a fake.
type Prober interface {
	Exists(name string) bool
	Resolve(name string) (string, bool)
	Extend(dir string)
}

// Env carries the shared run context every install strategy sees: the
// detected platform, the command runner, the lookup (the explicit resolution
// context the run extends as it installs), the user-local bin directory for
// direct downloads, and the optional state file.
type Env struct {
	Platform platform.Platform
	Runner   execx.Runner
	Lookup   Prober
	BinDir   string
	State    *state.State
}

// Strategy is one way of installing a tool. Strategies are evaluated in the
// order they appear on the ToolSpec, so that order is the audit trail for
// install priority: the platform's native package manager first, the generic
// direct-download fallback last.
type Strategy struct {
	Name      string
	Platforms []platform.Platform // nil means any platform
	Requires  string              // prerequisite binary, e.g. the package manager; "" means none
	Install   func(ctx context.Context, env *Env) error
}

// matches reports whether this strategy is usable on the given platform with
// the capabilities currently present.
func (s Strategy) matches(p platform.Platform, probe Prober) bool {
	if len(s.Platforms) > 0 {
		found := false
		for _, sp := range s.Platforms {
			if sp == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if s.Requires != "" && !probe.Exists(s.Requires) {
		return false
	}
	return true
}

// ToolSpec is the static, build-time description of a required tool: the
// binary to probe for and the ordered strategy list.
type ToolSpec struct {
	Name       string
	Probe      string // command name whose presence means the tool is installed
	Hint       string // manual install pointer shown when no strategy applies
	Strategies []Strategy
}

// EnsureInstalled makes the tool callable, probing before acting:
//
//  1. Unless force is set, probe first; an already-present tool is skipped
//     with no reinstallation and no version check.
//  2. Select the first strategy matching the platform whose prerequisite is
//     present.
//  3. Run it. A non-zero exit is a failed outcome, fatal upstream.
//  4. Re-probe. An installer that reported success but left the binary
//     outside the search path is surfaced as a failure rather than silently
//     continued past, since later steps assume the tool is callable.
func EnsureInstalled(ctx context.Context, spec ToolSpec, env *Env, force bool) step.Outcome {
	if !force && env.Lookup.Exists(spec.Probe) {
		logger.Info("[INFO] %s is already installed. Skipping.\n", spec.Name)
		return step.Skipped(spec.Name, "already installed")
	}

	var chosen *Strategy
	for i := range spec.Strategies {
		if spec.Strategies[i].matches(env.Platform, env.Lookup) {
			chosen = &spec.Strategies[i]
			break
		}
	}
	if chosen == nil {
		msg := fmt.Sprintf("no install strategy for %s on platform %s", spec.Name, env.Platform)
		if spec.Hint != "" {
			msg += "; install manually: " + spec.Hint
		}
		return step.Failed(spec.Name, msg)
	}

	logger.Info("[INFO] Installing %s via %s...\n", spec.Name, chosen.Name)
	if err := chosen.Install(ctx, env); err != nil {
		return step.Failed(spec.Name, fmt.Sprintf("%s install failed: %v", chosen.Name, err))
	}

	// Postcondition: the tool must actually be callable now.
	path, ok := env.Lookup.Resolve(spec.Probe)
	if !ok {
		logger.Warn("[WARN] %s reported success but %q is still not on the search path\n", chosen.Name, spec.Probe)
		return step.Failed(spec.Name, fmt.Sprintf(
			"installed via %s but %q is not detectable; check that its bin directory is on your PATH", chosen.Name, spec.Probe))
	}

	if env.State != nil {
		env.State.Record(spec.Name, state.ToolState{
			Strategy:    chosen.Name,
			InstallPath: path,
			InstalledAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	logger.Info("[INFO] Installed %s at %s\n", spec.Name, path)
	return step.Installed(spec.Name, "installed via "+chosen.Name)
}

// command builds a strategy action that shells out once, treating any
// non-zero exit as failure and logging the delegated command's output.
func command(name string, args ...string) func(ctx context.Context, env *Env) error {
	return func(ctx context.Context, env *Env) error {
		out, err := env.Runner.Run(ctx, name, args...)
		if err != nil {
			logger.Error("[ERROR] %s failed: %v\nOutput: %s\n", name, err, out)
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Debug("[DEBUG] %s output: %s\n", name, out)
		return nil
	}
}
