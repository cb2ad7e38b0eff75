package pathenv

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/chbota/setup/internal/logger"
)

// Lookup resolves command names against the process search path plus any
// directories extended onto it during the run. Installers that drop a binary
// into a user-local bin directory call Extend so every later step resolves
// the tool without requiring a new shell session.
//
// Lookup is the capability prober for the whole bootstrap: every install
// strategy and every delegated invocation guards on Exists first.
type Lookup struct {
	extra []string
}

// New returns a Lookup backed by the process PATH with no extensions yet.
func New() *Lookup {
	return &Lookup{}
}

// Extend appends dir to the lookup's extra directories. Duplicate extensions
// are ignored so repeated installs into the same bin dir stay cheap.
func (l *Lookup) Extend(dir string) {
	for _, d := range l.extra {
		if d == dir {
			return
		}
	}
	logger.Debug("[DEBUG] Extending lookup path with %s\n", dir)
	l.extra = append(l.extra, dir)
}

// Dirs returns a copy of the extended directories, in extension order.
func (l *Lookup) Dirs() []string {
	return append([]string(nil), l.extra...)
}

// Resolve returns the absolute path of the named command. The process PATH is
// consulted first, then the extended directories in order. ok is false when
// the command cannot be found anywhere.
func (l *Lookup) Resolve(name string) (string, bool) {
	if p, err := exec.LookPath(name); err == nil {
		return p, true
	}
	for _, dir := range l.extra {
		for _, candidate := range candidates(dir, name) {
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if isExecutable(info) {
				return candidate, true
			}
		}
	}
	return "", false
}

// Exists reports whether the named command resolves to an executable.
// It never fails: any lookup error (not found, not executable, bad PATH
// entry) reads as absent.
func (l *Lookup) Exists(name string) bool {
	_, ok := l.Resolve(name)
	return ok
}

// candidates lists the file names to try for a command in dir. Windows
// binaries usually carry an .exe suffix that callers omit.
func candidates(dir, name string) []string {
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		return []string{filepath.Join(dir, name+".exe"), filepath.Join(dir, name)}
	}
	return []string{filepath.Join(dir, name)}
}

// isExecutable checks the permission bits on Unix. Windows has no executable
// bit, so any regular file counts.
func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return info.Mode().IsRegular()
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
