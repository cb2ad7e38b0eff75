package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"
	"path/filepath"

	"github.com/chbota/setup/internal/logger"
)

// ToolState records a tool this bootstrap installed: which strategy placed
// it, where, and when. The state file is informational only: the probe
// before every step remains the source of truth, so a deleted or stale state
// file never breaks a run.
type ToolState struct {
	Strategy    string `json:"strategy"`     // Install strategy that succeeded (e.g. "apt", "github-release")
	InstallPath string `json:"install_path"` // Resolved path of the installed executable
	InstalledAt string `json:"installed_at"` // RFC 3339 timestamp of the install
}

// State holds the entire saved state for the bootstrap tool.
type State struct {
	Tools map[string]ToolState `json:"tools"` // Map from tool name to its ToolState
}

// Record stores the state of an installed tool, initializing the map when the
// state was created empty.
func (s *State) Record(name string, ts ToolState) {
	if s.Tools == nil {
		s.Tools = make(map[string]ToolState)
	}
	s.Tools[name] = ts
}

// Load loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State:
// the bootstrap must never assume a previous run occurred.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{Tools: make(map[string]ToolState)}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	// Defensive: ensure the map is initialized if JSON contained null.
	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	return &st
}

// Save writes the given State to a JSON file at the given path, creating
// parent directories as needed. It pretty-prints the JSON for readability.
// Errors are logged but not propagated: a failed state write must not fail a
// run whose real side effects already happened.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("[ERROR] Failed to create state directory for %s: %v\n", path, err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))
	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
