package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/chbota/setup/internal/logger"
)

// Config holds the user-tunable knobs of the bootstrap. Everything has a
// built-in default because the tool must run with no arguments on a pristine
// machine; the YAML file and the CLI flags only override.
type Config struct {
	// Repo is the dotfiles repository handed to the dotfiles manager:
	// either a full clone URL or the owner/repo shorthand chezmoi accepts.
	Repo string `yaml:"repo"`
	// BinDir is where direct-download installs place binaries. Defaults to
	// a user-local bin directory so no elevation is required.
	BinDir string `yaml:"bin_dir"`
	// SkipAuth disables the authentication step, same as --skip-auth.
	SkipAuth bool `yaml:"skip_auth"`
}

// defaultRepo is the dotfiles repository cloned when nothing overrides it.
const defaultRepo = "chbota/dotfiles"

// Default returns the built-in configuration used when no config file exists.
func Default() Config {
	return Config{
		Repo:   defaultRepo,
		BinDir: DefaultBinDir(),
	}
}

// DefaultBinDir is the user-local directory direct downloads install into.
func DefaultBinDir() string {
	return filepath.Join(xdg.Home, ".local", "bin")
}

// StatePath returns the location of the JSON state file, placed under the
// XDG state directory.
func StatePath() string {
	p, err := xdg.StateFile("setup/state.json")
	if err != nil {
		// XDG resolution can only fail when no home directory exists at all;
		// fall back to the working directory so the run still proceeds.
		logger.Debug("[DEBUG] XDG state path unavailable: %v\n", err)
		return "setup-state.json"
	}
	return p
}

// Load reads the YAML config at path. When path is empty the XDG config
// directories are searched for setup/config.yaml. A missing or unreadable
// file is not an error: defaults apply so a fresh machine bootstraps with
// zero configuration.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join("setup", "config.yaml"))
		if err != nil {
			logger.Debug("[DEBUG] No config file found, using defaults\n")
			return cfg
		}
		path = found
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("[WARN] Failed to read config %s: %v. Using defaults.\n", path, err)
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		logger.Warn("[WARN] Failed to parse config %s: %v. Using defaults.\n", path, err)
		return Default()
	}

	// Re-apply defaults for anything the file left blank.
	if cfg.Repo == "" {
		cfg.Repo = defaultRepo
	}
	if cfg.BinDir == "" {
		cfg.BinDir = DefaultBinDir()
	}
	logger.Debug("[DEBUG] Loaded config from %s: repo=%s bin_dir=%s\n", path, cfg.Repo, cfg.BinDir)
	return cfg
}
