package cmd

import (
	"github.com/spf13/cobra"

	"github.com/chbota/setup/internal/auth"
	"github.com/chbota/setup/internal/dotfiles"
	"github.com/chbota/setup/internal/execx"
	"github.com/chbota/setup/internal/logger"
	"github.com/chbota/setup/internal/pathenv"
	"github.com/chbota/setup/internal/platform"
)

// statusCmd reports the machine state the pipeline would act on, without
// mutating anything: detected platform, per-tool probe results, session
// validity, and the dotfiles working-copy state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report platform, tool, auth, and dotfiles state without changing anything",
	Run: func(cmd *cobra.Command, args []string) {
		lookup := pathenv.New()
		runner := execx.System{Lookup: lookup}

		logger.Info("[INFO] Platform: %s\n", platform.Detect())

		for _, name := range []string{"brew", "git", "gh", "chezmoi"} {
			if path, ok := lookup.Resolve(name); ok {
				logger.Info("[INFO] %-8s present (%s)\n", name, path)
			} else {
				logger.Warn("[WARN] %-8s absent\n", name)
			}
		}

		coordinator := auth.Coordinator{Runner: runner, Probe: lookup}
		if coordinator.SessionValid(cmd.Context()) {
			logger.Info("[INFO] GitHub session: valid\n")
		} else {
			logger.Warn("[WARN] GitHub session: none\n")
		}

		synchronizer := dotfiles.Synchronizer{Runner: runner, Probe: lookup}
		if dir := synchronizer.SourcePath(cmd.Context()); dir != "" {
			logger.Info("[INFO] Dotfiles: present at %s\n", dir)
		} else {
			logger.Warn("[WARN] Dotfiles: absent\n")
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
