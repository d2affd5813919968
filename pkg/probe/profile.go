package probe

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ProfileProber probes a Chromium user profile on disk instead of a live
// browser. A resource is reachable when some installed version of the
// extension ships the file. This lets one-shot scans run without
// launching a browser at all.
type ProfileProber struct {
	extensionsDir string
}

// NewProfileProber creates a prober over the given profile directory, the
// directory that contains Extensions/ (for example
// ~/.config/google-chrome/Default).
func NewProfileProber(profileDir string) *ProfileProber {
	return &ProfileProber{extensionsDir: filepath.Join(profileDir, "Extensions")}
}

// DefaultProfileDir returns the default Chrome profile directory for the
// current platform.
func DefaultProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default"), nil
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default"), nil
	}
}

// Available reports whether the profile has an Extensions directory.
func (p *ProfileProber) Available() bool {
	info, err := os.Stat(p.extensionsDir)
	return err == nil && info.IsDir()
}

// Probe checks whether any installed version of the extension named by
// the URL host ships the resource file named by the URL path. Installed
// extensions whose package no longer contains the file count as absent.
func (p *ProfileProber) Probe(ctx context.Context, resourceURL string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	u, err := url.Parse(resourceURL)
	if err != nil {
		return false, fmt.Errorf("invalid resource url: %w", err)
	}
	if u.Host == "" {
		return false, fmt.Errorf("resource url %q has no extension id", resourceURL)
	}

	extDir := filepath.Join(p.extensionsDir, u.Host)
	versions, err := os.ReadDir(extDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read extension directory: %w", err)
	}

	// Chromium keeps one subdirectory per installed version.
	rel := filepath.FromSlash(strings.TrimPrefix(u.Path, "/"))
	for _, v := range versions {
		if !v.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(extDir, v.Name(), rel)); err == nil {
			return true, nil
		}
	}

	return false, nil
}
