package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chbota/setup/internal/logger"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd is the base command for the CLI tool `setup`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "setup",
	Short: "Idempotent machine bootstrap: CLI tools, GitHub auth, dotfiles",

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},

	// Failed steps already log actionable messages; cobra should not add
	// usage text or a duplicate error line on top.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute initializes flags and starts the command execution. Any fatal step
// failure surfaces here as a non-zero exit code.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
