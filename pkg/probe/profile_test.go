package probe

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProfileExtension fabricates an installed extension inside a
// Chromium-style profile directory.
func writeProfileExtension(t *testing.T, profileDir, id, version string, files ...string) {
	t.Helper()
	versionDir := filepath.Join(profileDir, "Extensions", id, version)
	require.NoError(t, os.MkdirAll(versionDir, 0o755))
	for _, f := range files {
		path := filepath.Join(versionDir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func TestProfileProberAvailable(t *testing.T) {
	profileDir := t.TempDir()

	p := NewProfileProber(profileDir)
	assert.False(t, p.Available(), "no Extensions directory yet")

	require.NoError(t, os.MkdirAll(filepath.Join(profileDir, "Extensions"), 0o755))
	assert.True(t, p.Available())
}

func TestProfileProberProbe(t *testing.T) {
	profileDir := t.TempDir()
	writeProfileExtension(t, profileDir, "gighmmpiobklfepjocnamgkkbiglidom", "6.14.0_0",
		"manifest.json", "icons/icon24.png")
	writeProfileExtension(t, profileDir, "bmnlcjabgnpnenekpadlanbbkooimhnj", "13.0.1_0",
		"manifest.json")

	p := NewProfileProber(profileDir)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "installed extension with the resource",
			url:  "chrome-extension://gighmmpiobklfepjocnamgkkbiglidom/icons/icon24.png",
			want: true,
		},
		{
			name: "installed extension without the resource counts absent",
			url:  "chrome-extension://bmnlcjabgnpnenekpadlanbbkooimhnj/img/logo-button.svg",
			want: false,
		},
		{
			name: "extension not installed",
			url:  "chrome-extension://nkbihfbeogaeaoehlefnkodbefgpgknn/images/icon-128.png",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Probe(ctx, tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileProberProbeSecondVersionDir(t *testing.T) {
	profileDir := t.TempDir()
	// Two versions installed; only the newer one carries the resource.
	writeProfileExtension(t, profileDir, "dhdgffkkebhmkfjojejmpbldmpobfkfo", "5.0.0_0", "manifest.json")
	writeProfileExtension(t, profileDir, "dhdgffkkebhmkfjojejmpbldmpobfkfo", "5.1.0_0",
		"manifest.json", "images/icon128.png")

	p := NewProfileProber(profileDir)
	got, err := p.Probe(context.Background(), "chrome-extension://dhdgffkkebhmkfjojejmpbldmpobfkfo/images/icon128.png")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestProfileProberProbeBadURL(t *testing.T) {
	p := NewProfileProber(t.TempDir())

	_, err := p.Probe(context.Background(), "chrome-extension//missing-host")
	assert.Error(t, err)
}

func TestProfileProberCancelledContext(t *testing.T) {
	p := NewProfileProber(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Probe(ctx, "chrome-extension://abc/icons/icon.png")
	assert.Error(t, err)
}

func TestDefaultProfileDir(t *testing.T) {
	dir, err := DefaultProfileDir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dir, home), "profile dir should live under the home directory")
	assert.Contains(t, strings.ToLower(dir), "chrome")
}
