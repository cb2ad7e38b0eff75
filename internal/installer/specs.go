package installer

import (
	"context"

	"github.com/chbota/setup/internal/platform"
)

// Built-in tool specs, defined at build time and never mutated. Strategy
// order is significant: native package managers for the detected platform
// come first, the GitHub-release direct download comes last.

// GitHubCLI describes gh, the hosting CLI used for authentication and
// credential wiring.
func GitHubCLI() ToolSpec {
	return ToolSpec{
		Name:  "gh",
		Probe: "gh",
		Hint:  "see https://github.com/cli/cli#installation",
		Strategies: []Strategy{
			{
				Name:      "homebrew",
				Platforms: []platform.Platform{platform.MacOS, platform.Linux},
				Requires:  "brew",
				Install:   command("brew", "install", "gh"),
			},
			{
				Name:      "apt",
				Platforms: []platform.Platform{platform.Linux},
				Requires:  "apt-get",
				Install:   command("sudo", "apt-get", "install", "-y", "gh"),
			},
			{
				Name:      "dnf",
				Platforms: []platform.Platform{platform.Linux},
				Requires:  "dnf",
				Install:   command("sudo", "dnf", "install", "-y", "gh"),
			},
			{
				Name:      "pacman",
				Platforms: []platform.Platform{platform.Linux},
				Requires:  "pacman",
				Install:   command("sudo", "pacman", "-S", "--noconfirm", "github-cli"),
			},
			{
				Name:      "winget",
				Platforms: []platform.Platform{platform.Windows},
				Requires:  "winget",
				Install: command("winget", "install", "--id", "GitHub.cli", "--silent",
					"--accept-package-agreements", "--accept-source-agreements"),
			},
			{
				Name:    "github-release",
				Install: githubRelease("cli/cli", "gh"),
			},
		},
	}
}

// Chezmoi describes the dotfiles manager that owns the cloned working copy.
func Chezmoi() ToolSpec {
	return ToolSpec{
		Name:  "chezmoi",
		Probe: "chezmoi",
		Hint:  "see https://www.chezmoi.io/install/",
		Strategies: []Strategy{
			{
				Name:      "homebrew",
				Platforms: []platform.Platform{platform.MacOS, platform.Linux},
				Requires:  "brew",
				Install:   command("brew", "install", "chezmoi"),
			},
			{
				Name:      "pacman",
				Platforms: []platform.Platform{platform.Linux},
				Requires:  "pacman",
				Install:   command("sudo", "pacman", "-S", "--noconfirm", "chezmoi"),
			},
			{
				Name:      "winget",
				Platforms: []platform.Platform{platform.Windows},
				Requires:  "winget",
				Install: command("winget", "install", "--id", "twpayne.chezmoi", "--silent",
					"--accept-package-agreements", "--accept-source-agreements"),
			},
			{
				Name:    "github-release",
				Install: githubRelease("twpayne/chezmoi", "chezmoi"),
			},
		},
	}
}

// Homebrew describes the optional package-manager bootstrap. It is macOS-only
// and has no generic fallback; the sequencer only schedules it on macOS, so an
// unknown platform never reaches this spec.
func Homebrew() ToolSpec {
	return ToolSpec{
		Name:  "brew",
		Probe: "brew",
		Hint:  `/bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"`,
		Strategies: []Strategy{
			{
				Name:      "install-script",
				Platforms: []platform.Platform{platform.MacOS},
				Requires:  "curl",
				Install: func(ctx context.Context, env *Env) error {
					// The official installer prompts for sudo, so it runs with
					// the terminal attached rather than captured.
					return env.Runner.RunInteractive(ctx, "/bin/bash", "-c",
						"curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh | /bin/bash")
				},
			},
		},
	}
}
