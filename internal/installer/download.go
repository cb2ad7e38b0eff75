package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chbota/setup/internal/logger"
	"github.com/chbota/setup/internal/platform"
)

// release mirrors the fields of the GitHub release JSON the downloader needs.
type release struct {
	TagName string `json:"tag_name"` // The release tag (e.g., v1.0.0)
	Assets  []struct {
		Name               string `json:"name"`                 // Asset filename
		BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
	} `json:"assets"`
}

// githubRelease builds the direct-download fallback strategy: fetch the
// latest release of repo, pick the archive asset matching this OS and
// architecture, extract it, and copy the named binary with executable
// permissions into the user-local bin directory. The lookup is extended with
// that directory so the rest of the run sees the tool without requiring a
// new shell session.
func githubRelease(repo, binary string) func(ctx context.Context, env *Env) error {
	return func(ctx context.Context, env *Env) error {
		rel, err := fetchLatestRelease(ctx, repo)
		if err != nil {
			return err
		}

		assetName, assetURL, err := selectAsset(rel, env.Platform, runtime.GOARCH)
		if err != nil {
			return err
		}

		tmpDir, err := os.MkdirTemp("", "setup-*")
		if err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		archivePath := filepath.Join(tmpDir, assetName)
		logger.Info("[INFO] Downloading %s (%s)...\n", assetName, rel.TagName)
		if err := downloadFile(ctx, assetURL, archivePath); err != nil {
			return err
		}

		binPath := archivePath
		if isArchive(assetName) {
			root, err := extractArchive(archivePath, tmpDir)
			if err != nil {
				return fmt.Errorf("failed to extract %s: %w", assetName, err)
			}
			binPath, err = findBinary(root, binary)
			if err != nil {
				return err
			}
		}

		if err := os.MkdirAll(env.BinDir, 0755); err != nil {
			return fmt.Errorf("failed to create bin dir %s: %w", env.BinDir, err)
		}
		dest := filepath.Join(env.BinDir, exeName(binary))
		if err := installBinary(binPath, dest); err != nil {
			return err
		}

		// Extend the in-process search path so later steps resolve the tool.
		env.Lookup.Extend(env.BinDir)
		logger.Debug("[DEBUG] Installed %s to %s\n", binary, dest)
		return nil
	}
}

// apiBase returns the GitHub API root. Overridable through the environment
// for tests and API proxies.
func apiBase() string {
	if base := os.Getenv("SETUP_GH_API"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "https://api.github.com"
}

// fetchLatestRelease queries the GitHub API for the latest release metadata.
func fetchLatestRelease(ctx context.Context, repo string) (*release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", apiBase(), repo)
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build release request for %s: %w", repo, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching release for %s: %w", repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub release fetch failed for %s: HTTP status %d", repo, resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub release JSON for %s: %w", repo, err)
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", rel.TagName, len(rel.Assets))
	return &rel, nil
}

// osTokens maps a platform to the name fragments release assets use for it.
func osTokens(p platform.Platform) []string {
	switch p {
	case platform.Linux:
		return []string{"linux"}
	case platform.MacOS:
		return []string{"darwin", "macos"}
	case platform.Windows:
		return []string{"windows"}
	default:
		// Unknown platform: try the raw GOOS so fallback installs can still
		// work on OSes the enum does not classify.
		return []string{runtime.GOOS}
	}
}

// archTokens maps a GOARCH to the fragments release assets use for it.
func archTokens(goarch string) []string {
	switch goarch {
	case "amd64":
		return []string{"amd64", "x86_64"}
	case "arm64":
		return []string{"arm64", "aarch64"}
	default:
		return []string{goarch}
	}
}

// selectAsset picks the first archive asset matching the OS and architecture
// tokens, in token priority order.
func selectAsset(rel *release, p platform.Platform, goarch string) (name, url string, err error) {
	for _, osTok := range osTokens(p) {
		for _, archTok := range archTokens(goarch) {
			for _, a := range rel.Assets {
				lower := strings.ToLower(a.Name)
				if strings.Contains(lower, osTok) && strings.Contains(lower, archTok) && isArchive(lower) {
					logger.Debug("[DEBUG] Found matching asset: %s\n", a.Name)
					return a.Name, a.BrowserDownloadURL, nil
				}
			}
		}
	}
	return "", "", fmt.Errorf("no release asset matches os=%s arch=%s in release %s", p, goarch, rel.TagName)
}

var archiveSuffixes = []string{".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".zip", ".7z"}

func isArchive(name string) bool {
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// downloadFile downloads the content at url and saves it to destPath.
func downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write response to file: %w", err)
	}

	logger.Debug("[DEBUG] Downloaded asset to: %s\n", destPath)
	return nil
}

// findBinary walks an extraction root looking for the named binary. Release
// archives sometimes nest the binary under a versioned top-level directory,
// so the whole tree is searched.
func findBinary(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if base := d.Name(); base == name || base == name+".exe" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no %q binary found under %s", name, root)
	}
	return found, nil
}

// exeName appends the Windows executable suffix when needed.
func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// installBinary copies a file into place with executable permissions.
func installBinary(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	return nil
}
