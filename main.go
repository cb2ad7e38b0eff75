package main

import (
	"github.com/chbota/setup/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// The setup project is a machine-bootstrap tool that:
//   - Detects the host platform (Linux, macOS, Windows)
//   - Installs the handful of CLI tools the rest of the bootstrap needs
//     (the GitHub CLI, the chezmoi dotfiles manager, and optionally Homebrew),
//     preferring the platform's native package manager and falling back to a
//     direct GitHub-release download into a user-local bin directory
//   - Ensures an authenticated GitHub session and wires it into git's
//     credential helper so repository operations do not re-prompt
//   - Clones the dotfiles repository on the first run, or pulls and re-applies
//     it on later runs, then executes the repository's own bootstrap hook
//
// Every step probes the current machine state before acting, so the whole run
// is idempotent: re-invoking setup after fixing a failure resumes safely with
// already-completed steps reported as skipped.
//
// Error handling strategy:
//   - The pipeline is strictly sequential and short-circuits on the first
//     fatal failure, printing an actionable message identifying the step
//   - Completed steps are left in place; there is no rollback. Re-running the
//     tool is the supported recovery path.
func main() {
	cmd.Execute()
}
