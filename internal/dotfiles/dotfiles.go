package dotfiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chbota/setup/internal/execx"
	"github.com/chbota/setup/internal/logger"
)

// Prober is the capability check the synchronizer needs from the lookup.
type Prober interface {
	Exists(name string) bool
}

// Synchronizer clones or updates the chezmoi-managed dotfiles working copy
// and runs the repository's own bootstrap hook afterwards. The working copy
// is external state owned by chezmoi; its presence is inferred from a status
// probe rather than tracked locally, so an interrupted clone on a previous
// run is simply retried.
type Synchronizer struct {
	Runner execx.Runner
	Probe  Prober
}

// hookNames lists the bootstrap hook scripts looked for at the source root,
// in priority order. The hook is content delivered inside the dotfiles
// repository, opaque to this tool.
func hookNames() []string {
	if runtime.GOOS == "windows" {
		return []string{"bootstrap.ps1", "bootstrap.cmd"}
	}
	return []string{"bootstrap", "bootstrap.sh", "install.sh"}
}

// SourcePath returns the managed working copy location, or "" when no usable
// working copy exists (chezmoi missing, never initialized, or the directory
// gone from disk).
func (s Synchronizer) SourcePath(ctx context.Context) string {
	out, err := s.Runner.Run(ctx, "chezmoi", "source-path")
	if err != nil {
		return ""
	}
	dir := strings.TrimSpace(string(out))
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// Sync clones the repository on first run or pulls and re-applies it on later
// runs, then triggers the bootstrap hook. Clone and pull failures are fatal;
// a hook failure is reported as a warning only, since the hook's content is
// outside this tool's control.
func (s Synchronizer) Sync(ctx context.Context, repo string) error {
	if !s.Probe.Exists("chezmoi") {
		return errors.New("chezmoi is not installed; the dotfiles manager install step must succeed first")
	}

	if dir := s.SourcePath(ctx); dir == "" {
		logger.Info("[INFO] No dotfiles working copy found. Cloning %s...\n", repo)
		if out, err := s.Runner.Run(ctx, "chezmoi", "init", "--apply", repo); err != nil {
			return fmt.Errorf("chezmoi init %s failed: %w\nOutput: %s", repo, err, out)
		}
		logger.Info("[INFO] Cloned and applied %s\n", repo)
	} else {
		logger.Info("[INFO] Dotfiles working copy present at %s. Updating...\n", dir)
		if out, err := s.Runner.Run(ctx, "chezmoi", "update"); err != nil {
			return fmt.Errorf("chezmoi update failed: %w\nOutput: %s", err, out)
		}
		logger.Info("[INFO] Dotfiles updated and re-applied\n")
	}

	s.runHook(ctx)
	return nil
}

// runHook executes the first bootstrap hook script found at the source root.
// Failure warns and leaves the machine as-is; re-running setup retries it.
func (s Synchronizer) runHook(ctx context.Context) {
	dir := s.SourcePath(ctx)
	if dir == "" {
		return
	}
	for _, name := range hookNames() {
		hook := filepath.Join(dir, name)
		info, err := os.Stat(hook)
		if err != nil || info.IsDir() {
			continue
		}
		logger.Info("[INFO] Running bootstrap hook %s...\n", hook)
		if err := s.runScript(ctx, hook); err != nil {
			logger.Warn("[WARN] Bootstrap hook failed: %v. Continuing; fix the hook and re-run setup.\n", err)
		}
		return
	}
	logger.Debug("[DEBUG] No bootstrap hook found in %s\n", dir)
}

// runScript executes a hook with the terminal attached, since hooks commonly
// prompt (sudo, confirmation) on first-time machine setup.
func (s Synchronizer) runScript(ctx context.Context, path string) error {
	switch {
	case strings.HasSuffix(path, ".ps1"):
		return s.Runner.RunInteractive(ctx, "powershell", "-ExecutionPolicy", "Bypass", "-File", path)
	case strings.HasSuffix(path, ".cmd"):
		return s.Runner.RunInteractive(ctx, "cmd", "/C", path)
	default:
		return s.Runner.RunInteractive(ctx, "/bin/sh", path)
	}
}
