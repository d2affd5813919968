package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-josh-inc/extguard/pkg/catalog"
	"github.com/just-josh-inc/extguard/pkg/detect"
	"github.com/just-josh-inc/extguard/pkg/guard"
	"github.com/just-josh-inc/extguard/pkg/probe"
)

func validConfig() *Config {
	config := DefaultConfig()
	config.UnwantedExtensions = []string{"AdBlock"}
	return config
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, string(guard.ModeAlert), config.DisplayMode)
	assert.Equal(t, DriverBrowser, config.Probe.Driver)
	assert.True(t, config.Probe.Headless)
	assert.Equal(t, probe.DefaultProbeTimeout, config.Probe.Timeout)
	assert.Zero(t, config.CheckInterval)
	assert.Zero(t, config.AutoHide)

	// Defaults alone name nothing to watch for.
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one unwanted extension")
}

func TestParse(t *testing.T) {
	data := []byte(`
display_mode: modal
title: "Extension policy violation"
description: "Remove the listed extensions to continue."
unwanted_extensions: ["AdBlock", "Honey"]
unwanted_patterns: ["*VPN*"]
check_interval: 30s
auto_hide: 8s
probe:
  driver: profile
  headless: false
  timeout: 2s
  profile_dir: /tmp/chrome-profile
styles:
  accent: "#FFB3BA"
  warn: "#F38BA8"
`)

	config, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "modal", config.DisplayMode)
	assert.Equal(t, "Extension policy violation", config.Title)
	assert.Equal(t, "Remove the listed extensions to continue.", config.Description)
	assert.Equal(t, []string{"AdBlock", "Honey"}, config.UnwantedExtensions)
	assert.Equal(t, []string{"*VPN*"}, config.UnwantedPatterns)
	assert.Equal(t, 30*time.Second, config.CheckInterval)
	assert.Equal(t, 8*time.Second, config.AutoHide)
	assert.Equal(t, DriverProfile, config.Probe.Driver)
	assert.False(t, config.Probe.Headless)
	assert.Equal(t, 2*time.Second, config.Probe.Timeout)
	assert.Equal(t, "/tmp/chrome-profile", config.Probe.ProfileDir)
	assert.Equal(t, "#FFB3BA", config.Styles.Accent)
	assert.Equal(t, "#F38BA8", config.Styles.Warn)
	assert.Empty(t, config.Styles.Text)
}

func TestParseKeepsDefaultsForOmittedFields(t *testing.T) {
	config, err := Parse([]byte(`unwanted_extensions: ["AdBlock"]`))
	require.NoError(t, err)

	assert.Equal(t, string(guard.ModeAlert), config.DisplayMode)
	assert.Equal(t, DriverBrowser, config.Probe.Driver)
	assert.True(t, config.Probe.Headless)
	assert.Equal(t, probe.DefaultProbeTimeout, config.Probe.Timeout)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("display_mode: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestParseLeavesValidationToCaller(t *testing.T) {
	config, err := Parse([]byte(`
display_mode: popup
unwanted_extensions: ["AdBlock"]
`))
	require.NoError(t, err)

	err = config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown display mode")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extguard.yaml")
	data := []byte(`
display_mode: banner
unwanted_extensions: ["MetaMask"]
check_interval: 1m
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "banner", config.DisplayMode)
	assert.Equal(t, []string{"MetaMask"}, config.UnwantedExtensions)
	assert.Equal(t, time.Minute, config.CheckInterval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid minimal config",
			mutate: func(c *Config) {},
		},
		{
			name:   "patterns alone are enough",
			mutate: func(c *Config) { c.UnwantedExtensions = nil; c.UnwantedPatterns = []string{"Ad*"} },
		},
		{
			name:   "silent mode with auto hide",
			mutate: func(c *Config) { c.DisplayMode = "silent"; c.AutoHide = 5 * time.Second },
		},
		{
			name:   "profile driver",
			mutate: func(c *Config) { c.Probe.Driver = DriverProfile },
		},
		{
			name:    "unknown display mode",
			mutate:  func(c *Config) { c.DisplayMode = "popup" },
			wantErr: "unknown display mode",
		},
		{
			name:    "nothing to watch for",
			mutate:  func(c *Config) { c.UnwantedExtensions = nil },
			wantErr: "at least one unwanted extension",
		},
		{
			name:    "negative check interval",
			mutate:  func(c *Config) { c.CheckInterval = -time.Second },
			wantErr: "check_interval cannot be negative",
		},
		{
			name:    "negative auto hide",
			mutate:  func(c *Config) { c.AutoHide = -time.Second },
			wantErr: "auto_hide cannot be negative",
		},
		{
			name:    "block mode cannot auto hide",
			mutate:  func(c *Config) { c.DisplayMode = "block"; c.AutoHide = 5 * time.Second },
			wantErr: `auto_hide cannot be used with display mode "block"`,
		},
		{
			name:    "unknown probe driver",
			mutate:  func(c *Config) { c.Probe.Driver = "devtools" },
			wantErr: "invalid probe driver: devtools (must be 'browser' or 'profile')",
		},
		{
			name:    "negative probe timeout",
			mutate:  func(c *Config) { c.Probe.Timeout = -time.Second },
			wantErr: "probe timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUnwantedNames(t *testing.T) {
	cat := catalog.Catalog{
		{DisplayName: "AdBlock", ID: "gighmmpiobklfepjocnamgkkbiglidom", ProbePath: "icons/icon24.png"},
		{DisplayName: "Adblock Plus", ID: "cfhdojbkjhnklbpkdaibdccddilifddb", ProbePath: "icons/ab-19.png"},
		{DisplayName: "Honey", ID: "bmnlcjabgnpnenekpadlanbbkooimhnj", ProbePath: "img/logo-button.svg"},
	}

	t.Run("merges literals with expanded patterns", func(t *testing.T) {
		config := validConfig()
		config.UnwantedExtensions = []string{"Honey", "AdBlock"}
		config.UnwantedPatterns = []string{"Ad*"}

		names, err := config.UnwantedNames(cat)
		require.NoError(t, err)
		// Literals keep their order; pattern matches follow in catalog
		// order, minus the AdBlock duplicate.
		assert.Equal(t, []string{"Honey", "AdBlock", "Adblock Plus"}, names)
	})

	t.Run("keeps literals the catalog does not know", func(t *testing.T) {
		config := validConfig()
		config.UnwantedExtensions = []string{"Ghostery"}

		names, err := config.UnwantedNames(cat)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ghostery"}, names)
	})

	t.Run("rejects invalid patterns", func(t *testing.T) {
		config := validConfig()
		config.UnwantedPatterns = []string{"[unclosed"}

		_, err := config.UnwantedNames(cat)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid pattern")
	})

	t.Run("rejects patterns matching nothing when no literals are set", func(t *testing.T) {
		config := validConfig()
		config.UnwantedExtensions = nil
		config.UnwantedPatterns = []string{"Zz*"}

		_, err := config.UnwantedNames(cat)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matched nothing")
	})
}

type idleProber struct{}

func (idleProber) Available() bool { return false }

func (idleProber) Probe(ctx context.Context, resourceURL string) (bool, error) {
	return false, nil
}

func TestGuardOptionsCarryConfigIntoMonitor(t *testing.T) {
	config := validConfig()
	config.Title = "Extension policy violation"
	config.Description = "Remove the listed extensions."
	config.CheckInterval = 30 * time.Second
	config.AutoHide = 8 * time.Second

	engine, err := detect.NewEngine(catalog.Builtin(), idleProber{})
	require.NoError(t, err)

	monitor, err := guard.New(engine, config.Mode(), config.UnwantedExtensions, config.GuardOptions()...)
	require.NoError(t, err)

	state := monitor.Snapshot()
	assert.Equal(t, "Extension policy violation", state.Title)
	assert.Equal(t, "Remove the listed extensions.", state.Description)
	assert.Equal(t, guard.ModeAlert, state.Mode)
}

func TestBrowserOptions(t *testing.T) {
	config := validConfig()
	config.Probe.Headless = false
	config.Probe.Timeout = 2 * time.Second
	config.Probe.Origin = "https://example.com"

	opts := config.BrowserOptions()
	assert.False(t, opts.Headless)
	assert.Equal(t, 2*time.Second, opts.Timeout)
	assert.Equal(t, "https://example.com", opts.Origin)
}
