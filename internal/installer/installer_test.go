package installer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chbota/setup/internal/platform"
	"github.com/chbota/setup/internal/state"
	"github.com/chbota/setup/internal/step"
)

// fakeProbe is an in-memory Prober tests mutate to simulate machine state.
type fakeProbe struct {
	present  map[string]bool
	extended []string
}

func newFakeProbe(names ...string) *fakeProbe {
	p := &fakeProbe{present: map[string]bool{}}
	for _, n := range names {
		p.present[n] = true
	}
	return p
}

func (f *fakeProbe) Exists(name string) bool { return f.present[name] }

func (f *fakeProbe) Resolve(name string) (string, bool) {
	if !f.present[name] {
		return "", false
	}
	return "/usr/bin/" + name, true
}

func (f *fakeProbe) Extend(dir string) { f.extended = append(f.extended, dir) }

// fakeRunner records delegated commands and fails those matching a prefix.
type fakeRunner struct {
	calls       []string
	interactive []string
	fail        map[string]error
	onRun       func(call string)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, call)
	for prefix, err := range r.fail {
		if strings.HasPrefix(call, prefix) {
			return []byte("simulated failure"), err
		}
	}
	if r.onRun != nil {
		r.onRun(call)
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
	if r.onRun != nil {
		r.onRun(call)
	}
	return nil
}

func testEnv(p platform.Platform, probe *fakeProbe, runner *fakeRunner) *Env {
	return &Env{
		Platform: p,
		Runner:   runner,
		Lookup:   probe,
		BinDir:   "/tmp/test-bin",
		State:    &state.State{},
	}
}

func TestEnsureInstalledSkipsWhenAlreadyPresent(t *testing.T) {
	probe := newFakeProbe("widget")
	runner := &fakeRunner{}
	invoked := false
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name: "fake",
			Install: func(ctx context.Context, env *Env) error {
				invoked = true
				return nil
			},
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, runner), false)

	assert.Equal(t, step.StatusSkipped, outcome.Status)
	assert.False(t, invoked, "no install strategy may run when the probe already succeeds")
	assert.Empty(t, runner.calls)
}

func TestEnsureInstalledForceBypassesProbe(t *testing.T) {
	probe := newFakeProbe("widget")
	invoked := false
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name: "fake",
			Install: func(ctx context.Context, env *Env) error {
				invoked = true
				return nil
			},
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, &fakeRunner{}), true)

	assert.Equal(t, step.StatusInstalled, outcome.Status)
	assert.True(t, invoked)
}

func TestEnsureInstalledPicksFirstUsableStrategy(t *testing.T) {
	// brew is absent, apt-get is present: the second strategy must win even
	// though the first is listed with higher priority.
	probe := newFakeProbe("apt-get")
	runner := &fakeRunner{onRun: func(call string) {
		if strings.Contains(call, "apt-get install") {
			probe.present["widget"] = true
		}
	}}
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{
			{Name: "homebrew", Requires: "brew", Install: command("brew", "install", "widget")},
			{Name: "apt", Requires: "apt-get", Install: command("sudo", "apt-get", "install", "-y", "widget")},
		},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, runner), false)

	require.Equal(t, step.StatusInstalled, outcome.Status)
	assert.Contains(t, outcome.Message, "apt")
	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0], "apt-get")
}

func TestEnsureInstalledSkipsStrategiesForOtherPlatforms(t *testing.T) {
	probe := newFakeProbe("winget")
	runner := &fakeRunner{}
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name:      "winget",
			Platforms: []platform.Platform{platform.Windows},
			Requires:  "winget",
			Install:   command("winget", "install", "widget"),
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, runner), false)

	assert.Equal(t, step.StatusFailed, outcome.Status)
	assert.Empty(t, runner.calls)
}

func TestEnsureInstalledNoStrategyIncludesHint(t *testing.T) {
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Hint:  "apt-get install widget",
		Strategies: []Strategy{{
			Name:      "apt",
			Platforms: []platform.Platform{platform.Linux},
			Requires:  "apt-get",
			Install:   command("sudo", "apt-get", "install", "-y", "widget"),
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Unknown, newFakeProbe(), &fakeRunner{}), false)

	assert.Equal(t, step.StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Message, "apt-get install widget")
}

func TestEnsureInstalledPostconditionFailure(t *testing.T) {
	// The strategy reports success but the probe still cannot find the tool:
	// this must surface as Failed, never Installed.
	probe := newFakeProbe()
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name:    "fake",
			Install: func(ctx context.Context, env *Env) error { return nil },
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, &fakeRunner{}), false)

	assert.Equal(t, step.StatusFailed, outcome.Status)
	assert.Contains(t, outcome.Message, "not detectable")
}

func TestEnsureInstalledCommandFailure(t *testing.T) {
	probe := newFakeProbe("apt-get")
	runner := &fakeRunner{fail: map[string]error{"sudo apt-get": errors.New("exit status 100")}}
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name:     "apt",
			Requires: "apt-get",
			Install:  command("sudo", "apt-get", "install", "-y", "widget"),
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, testEnv(platform.Linux, probe, runner), false)

	assert.Equal(t, step.StatusFailed, outcome.Status)
}

func TestEnsureInstalledRecordsState(t *testing.T) {
	probe := newFakeProbe()
	env := testEnv(platform.Linux, probe, &fakeRunner{})
	spec := ToolSpec{
		Name:  "widget",
		Probe: "widget",
		Strategies: []Strategy{{
			Name: "fake",
			Install: func(ctx context.Context, env *Env) error {
				probe.present["widget"] = true
				return nil
			},
		}},
	}

	outcome := EnsureInstalled(context.Background(), spec, env, false)

	require.Equal(t, step.StatusInstalled, outcome.Status)
	require.Contains(t, env.State.Tools, "widget")
	assert.Equal(t, "fake", env.State.Tools["widget"].Strategy)
	assert.Equal(t, "/usr/bin/widget", env.State.Tools["widget"].InstallPath)
}

func TestBuiltinSpecsEndWithGenericFallback(t *testing.T) {
	// gh and chezmoi must keep a platform-independent, prerequisite-free
	// strategy in last position so machines without a package manager can
	// still bootstrap.
	for _, spec := range []ToolSpec{GitHubCLI(), Chezmoi()} {
		last := spec.Strategies[len(spec.Strategies)-1]
		assert.Equal(t, "github-release", last.Name, spec.Name)
		assert.Empty(t, last.Platforms, spec.Name)
		assert.Empty(t, last.Requires, spec.Name)
	}
	// Homebrew is the deliberate exception: macOS only, no fallback.
	for _, s := range Homebrew().Strategies {
		assert.Equal(t, []platform.Platform{platform.MacOS}, s.Platforms)
	}
}
