package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chbota/setup/internal/config"
	"github.com/chbota/setup/internal/execx"
	"github.com/chbota/setup/internal/installer"
	"github.com/chbota/setup/internal/pathenv"
	"github.com/chbota/setup/internal/platform"
	"github.com/chbota/setup/internal/sequencer"
	"github.com/chbota/setup/internal/state"
)

var (
	// configPath holds the path to the optional configuration YAML file,
	// passed via the `--config` or `-c` flag. Empty means "search the XDG
	// config directories, defaults if nothing is found".
	configPath string

	// repoFlag overrides the dotfiles repository from config.
	repoFlag string

	// skipAuth bypasses the authentication step entirely.
	skipAuth bool

	// force bypasses the already-present short-circuit in tool installs.
	force bool
)

// runCmd executes the full bootstrap pipeline. Invocable with no arguments on
// a pristine machine; every step probes before acting, so re-running after a
// failure resumes where the previous run stopped.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full bootstrap: install tools, authenticate, sync dotfiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(configPath)
		if repoFlag != "" {
			cfg.Repo = repoFlag
		}
		if skipAuth {
			cfg.SkipAuth = true
		}

		// The lookup is the run's resolution context: installers extend it
		// when they place a binary in the user-local bin dir, and the runner
		// resolves every delegated command through it.
		lookup := pathenv.New()
		statePath := config.StatePath()
		st := state.Load(statePath)

		env := &installer.Env{
			Platform: platform.Detect(),
			Runner:   execx.System{Lookup: lookup},
			Lookup:   lookup,
			BinDir:   cfg.BinDir,
			State:    st,
		}

		pipeline := sequencer.Build(env, sequencer.Options{
			Repo:     cfg.Repo,
			SkipAuth: cfg.SkipAuth,
			Force:    force,
		})

		outcomes, err := pipeline.Execute(cmd.Context())

		// Persist what was installed even on a failed run; the state file is
		// informational and the next run re-probes everything anyway.
		state.Save(statePath, st)
		sequencer.Summarize(outcomes)
		return err
	},
}

// init sets up CLI flags and registers the run command.
func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	runCmd.Flags().StringVar(&repoFlag, "repo", "", "Dotfiles repository (overrides config)")
	runCmd.Flags().BoolVar(&skipAuth, "skip-auth", false, "Skip the GitHub authentication step")
	runCmd.Flags().BoolVar(&force, "force", false, "Reinstall tools even when already present")
	rootCmd.AddCommand(runCmd)
}
