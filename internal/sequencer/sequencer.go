package sequencer

import (
	"context"
	"fmt"

	"github.com/chbota/setup/internal/auth"
	"github.com/chbota/setup/internal/dotfiles"
	"github.com/chbota/setup/internal/installer"
	"github.com/chbota/setup/internal/logger"
	"github.com/chbota/setup/internal/platform"
	"github.com/chbota/setup/internal/step"
)

// Options are the per-run knobs of the pipeline.
type Options struct {
	Repo     string // dotfiles repository handed to the synchronizer
	SkipAuth bool   // bypass the authentication step entirely
	Force    bool   // bypass the already-present short-circuit in tool installs
}

// Step is one unit of the pipeline. Interactive marks steps that may block on
// operator input so the runner can announce the handover of the terminal.
type Step struct {
	Name        string
	Interactive bool
	Run         func(ctx context.Context) step.Outcome
}

// Pipeline is the fixed, strictly ordered bootstrap sequence. It never
// assumes a previous run happened: every step independently re-derives
// whether it needs to act, which makes the whole pipeline safely
// re-executable after a failure is remedied.
type Pipeline struct {
	steps []Step
}

// New builds a pipeline from an explicit step list.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Build assembles the standard bootstrap pipeline:
//
//	detect platform → (macOS only: ensure Homebrew) → ensure gh →
//	ensure chezmoi → ensure authentication → sync dotfiles
func Build(env *installer.Env, opts Options) *Pipeline {
	steps := []Step{
		{
			Name: "detect-platform",
			Run: func(ctx context.Context) step.Outcome {
				if !env.Platform.Known() {
					// Not fatal by itself: tools with a direct-download
					// fallback can still install. Platform-specific steps
					// fail on their own later if nothing applies.
					logger.Warn("[WARN] Unrecognized platform; only platform-independent install strategies can run\n")
				}
				return step.Done("detect-platform", "platform: "+env.Platform.String())
			},
		},
	}

	// The package-manager bootstrap is scheduled on macOS only; every other
	// platform either ships a package manager or is covered by the
	// direct-download fallback.
	if env.Platform == platform.MacOS {
		steps = append(steps, installStep(installer.Homebrew(), env, opts.Force, true))
	}

	steps = append(steps,
		installStep(installer.GitHubCLI(), env, opts.Force, false),
		installStep(installer.Chezmoi(), env, opts.Force, false),
	)

	coordinator := auth.Coordinator{Runner: env.Runner, Probe: env.Lookup}
	steps = append(steps, Step{
		Name:        "authenticate",
		Interactive: !opts.SkipAuth,
		Run: func(ctx context.Context) step.Outcome {
			if opts.SkipAuth {
				logger.Info("[INFO] Skipping authentication (--skip-auth)\n")
				return step.Skipped("authenticate", "skipped (--skip-auth)")
			}
			if err := coordinator.EnsureSession(ctx); err != nil {
				return step.Failed("authenticate", err.Error())
			}
			return step.Done("authenticate", "session valid")
		},
	})

	synchronizer := dotfiles.Synchronizer{Runner: env.Runner, Probe: env.Lookup}
	steps = append(steps, Step{
		Name: "sync-dotfiles",
		Run: func(ctx context.Context) step.Outcome {
			if err := synchronizer.Sync(ctx, opts.Repo); err != nil {
				return step.Failed("sync-dotfiles", err.Error())
			}
			return step.Done("sync-dotfiles", "dotfiles in sync")
		},
	})

	return New(steps...)
}

// installStep wraps a tool spec as a pipeline step.
func installStep(spec installer.ToolSpec, env *installer.Env, force, interactive bool) Step {
	return Step{
		Name:        "install-" + spec.Name,
		Interactive: interactive,
		Run: func(ctx context.Context) step.Outcome {
			return installer.EnsureInstalled(ctx, spec, env, force)
		},
	}
}

// Execute runs the steps in order, short-circuiting on the first failure.
// Outcomes produced so far are returned either way: completed steps stay in
// place (there is no rollback) and re-running the pipeline resumes safely
// because every step probes before acting.
func (p *Pipeline) Execute(ctx context.Context) ([]step.Outcome, error) {
	var outcomes []step.Outcome
	for _, s := range p.steps {
		if s.Interactive {
			logger.Info("[INFO] Step %s may prompt for input...\n", s.Name)
		}
		o := s.Run(ctx)
		outcomes = append(outcomes, o)
		if o.Failed() {
			logger.Error("[ERROR] Step %s failed: %s\n", s.Name, o.Message)
			return outcomes, fmt.Errorf("step %s failed: %s", s.Name, o.Message)
		}
		logger.Debug("[DEBUG] Step %s: %s (%s)\n", s.Name, o.Status, o.Message)
	}
	return outcomes, nil
}

// Summarize prints the per-step report at the end of a run.
func Summarize(outcomes []step.Outcome) {
	for _, o := range outcomes {
		if o.Failed() {
			logger.Error("[ERROR] %-18s %-10s %s\n", o.Step, o.Status, o.Message)
			continue
		}
		logger.Info("[INFO] %-18s %-10s %s\n", o.Step, o.Status, o.Message)
	}
}
