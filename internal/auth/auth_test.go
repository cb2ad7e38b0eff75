package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe map[string]bool

func (f fakeProbe) Exists(name string) bool { return f[name] }

// fakeRunner simulates gh: Run calls fail when their joined command matches a
// configured prefix, and interactive calls are recorded separately so tests
// can assert whether login was invoked.
type fakeRunner struct {
	calls       []string
	interactive []string
	fail        map[string]error
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, call)
	for prefix, err := range r.fail {
		if strings.HasPrefix(call, prefix) {
			return []byte("simulated failure"), err
		}
	}
	return []byte("ok"), nil
}

func (r *fakeRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	call := strings.Join(append([]string{name}, args...), " ")
	r.interactive = append(r.interactive, call)
	for prefix, err := range r.fail {
		if strings.HasPrefix(call, prefix) {
			return err
		}
	}
	return nil
}

func (r *fakeRunner) loginCount() int {
	n := 0
	for _, call := range r.interactive {
		if strings.HasPrefix(call, "gh auth login") {
			n++
		}
	}
	return n
}

func TestEnsureSessionRequiresGh(t *testing.T) {
	c := Coordinator{Runner: &fakeRunner{}, Probe: fakeProbe{}}
	err := c.EnsureSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gh is not installed")
}

func TestEnsureSessionValidSessionIsNoOp(t *testing.T) {
	runner := &fakeRunner{}
	c := Coordinator{Runner: runner, Probe: fakeProbe{"gh": true}}

	require.NoError(t, c.EnsureSession(context.Background()))
	assert.Zero(t, runner.loginCount(), "login must not run when the session is already valid")
}

func TestEnsureSessionLoginThenSetupGit(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"gh auth status": errors.New("exit status 1")}}
	c := Coordinator{Runner: runner, Probe: fakeProbe{"gh": true}}

	require.NoError(t, c.EnsureSession(context.Background()))
	assert.Equal(t, 1, runner.loginCount())
	assert.Contains(t, runner.calls, "gh auth setup-git")
}

func TestEnsureSessionLoginFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"gh auth status": errors.New("exit status 1"),
		"gh auth login":  errors.New("declined"),
	}}
	c := Coordinator{Runner: runner, Probe: fakeProbe{"gh": true}}

	err := c.EnsureSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gh auth login")
	assert.NotContains(t, runner.calls, "gh auth setup-git")
}

func TestEnsureSessionSetupGitFailureIsFatal(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{
		"gh auth status":    errors.New("exit status 1"),
		"gh auth setup-git": errors.New("exit status 1"),
	}}
	c := Coordinator{Runner: runner, Probe: fakeProbe{"gh": true}}

	err := c.EnsureSession(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup-git")
}

func TestSessionValid(t *testing.T) {
	valid := Coordinator{Runner: &fakeRunner{}, Probe: fakeProbe{"gh": true}}
	assert.True(t, valid.SessionValid(context.Background()))

	invalid := Coordinator{
		Runner: &fakeRunner{fail: map[string]error{"gh auth status": errors.New("exit status 1")}},
		Probe:  fakeProbe{"gh": true},
	}
	assert.False(t, invalid.SessionValid(context.Background()))

	missing := Coordinator{Runner: &fakeRunner{}, Probe: fakeProbe{}}
	assert.False(t, missing.SessionValid(context.Background()))
}
