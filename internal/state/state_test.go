package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	st := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NotNil(t, st)
	assert.NotNil(t, st.Tools)
	assert.Empty(t, st.Tools)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	// Save creates missing parent directories, matching a first run on a
	// machine that has never had a state dir.
	path := filepath.Join(t.TempDir(), "setup", "state.json")

	st := Load(path)
	st.Record("gh", ToolState{
		Strategy:    "apt",
		InstallPath: "/usr/bin/gh",
		InstalledAt: "2026-08-26T12:00:00Z",
	})
	Save(path, st)

	got := Load(path)
	require.Contains(t, got.Tools, "gh")
	assert.Equal(t, st.Tools["gh"], got.Tools["gh"])
}

func TestRecordInitializesNilMap(t *testing.T) {
	var st State
	st.Record("chezmoi", ToolState{Strategy: "github-release"})
	assert.Contains(t, st.Tools, "chezmoi")
}
