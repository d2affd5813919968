// Package config loads and validates the YAML configuration for the
// extguard command line tools. The zero config is not usable on its own:
// callers start from DefaultConfig and must name at least one unwanted
// extension or pattern before validation passes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/just-josh-inc/extguard/pkg/catalog"
	"github.com/just-josh-inc/extguard/pkg/guard"
	"github.com/just-josh-inc/extguard/pkg/probe"
)

// Probe driver selection.
const (
	DriverBrowser = "browser" // live Chromium page via Playwright
	DriverProfile = "profile" // installed-extension scan of a profile directory
)

// Config is the root configuration for an extguard run.
type Config struct {
	// DisplayMode selects how a detection is presented: silent, alert,
	// banner, modal, or block.
	DisplayMode string `yaml:"display_mode" json:"display_mode"`

	// Title and Description override the default notification copy.
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`

	// UnwantedExtensions lists catalog display names to watch for.
	UnwantedExtensions []string `yaml:"unwanted_extensions" json:"unwanted_extensions"`

	// UnwantedPatterns lists glob patterns expanded against the catalog,
	// e.g. "Ad*" or "*VPN*".
	UnwantedPatterns []string `yaml:"unwanted_patterns" json:"unwanted_patterns"`

	// CheckInterval re-runs detection on a timer. Zero disables periodic
	// re-checks; the first round still runs on start.
	CheckInterval time.Duration `yaml:"check_interval" json:"check_interval"`

	// AutoHide hides the notice after this duration. Zero keeps it up
	// until dismissed.
	AutoHide time.Duration `yaml:"auto_hide" json:"auto_hide"`

	// Probe configures how extension resources are probed.
	Probe ProbeConfig `yaml:"probe" json:"probe"`

	// Styles overrides the default terminal palette.
	Styles StyleConfig `yaml:"styles" json:"styles"`
}

// ProbeConfig configures the probe driver.
type ProbeConfig struct {
	// Driver is "browser" (live Chromium fetches) or "profile"
	// (filesystem scan of an unpacked profile directory).
	Driver string `yaml:"driver" json:"driver"`

	// Headless controls whether the browser driver shows a window.
	Headless bool `yaml:"headless" json:"headless"`

	// Timeout bounds each individual resource probe.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Origin is an optional page the browser driver navigates to before
	// probing, for resources only served to matching pages.
	Origin string `yaml:"origin" json:"origin"`

	// ProfileDir is the browser profile directory for the profile
	// driver. Empty means the per-OS default location.
	ProfileDir string `yaml:"profile_dir" json:"profile_dir"`
}

// StyleConfig carries hex color overrides for the status screen. Empty
// fields keep the built-in palette.
type StyleConfig struct {
	Accent string `yaml:"accent" json:"accent"`
	Warn   string `yaml:"warn" json:"warn"`
	Text   string `yaml:"text" json:"text"`
	Muted  string `yaml:"muted" json:"muted"`
}

// DefaultConfig returns the default configuration. Unwanted extensions
// must still be provided before it validates.
func DefaultConfig() *Config {
	return &Config{
		DisplayMode: string(guard.ModeAlert),
		Probe: ProbeConfig{
			Driver:   DriverBrowser,
			Headless: true,
			Timeout:  probe.DefaultProbeTimeout,
		},
	}
}

// Load reads and parses a config file, applying file values over the
// defaults. Callers apply their own overrides and then Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. The result is not validated.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for errors that would otherwise
// surface later as construction failures.
func (c *Config) Validate() error {
	mode, err := guard.ParseMode(c.DisplayMode)
	if err != nil {
		return err
	}

	if len(c.UnwantedExtensions) == 0 && len(c.UnwantedPatterns) == 0 {
		return fmt.Errorf("at least one unwanted extension or pattern is required")
	}

	if c.CheckInterval < 0 {
		return fmt.Errorf("check_interval cannot be negative")
	}
	if c.AutoHide < 0 {
		return fmt.Errorf("auto_hide cannot be negative")
	}
	if c.AutoHide > 0 && !mode.AllowsAutoHide() {
		return fmt.Errorf("auto_hide cannot be used with display mode %q", mode)
	}

	if c.Probe.Driver != DriverBrowser && c.Probe.Driver != DriverProfile {
		return fmt.Errorf("invalid probe driver: %s (must be 'browser' or 'profile')", c.Probe.Driver)
	}
	if c.Probe.Timeout < 0 {
		return fmt.Errorf("probe timeout cannot be negative")
	}

	return nil
}

// Mode returns the parsed display mode. Call Validate first.
func (c *Config) Mode() guard.DisplayMode {
	mode, err := guard.ParseMode(c.DisplayMode)
	if err != nil {
		return guard.ModeAlert
	}
	return mode
}

// UnwantedNames merges the literal unwanted extension names with the
// glob-expanded patterns, deduplicated. Literals keep their configured
// order; pattern matches follow in catalog order.
func (c *Config) UnwantedNames(cat catalog.Catalog) ([]string, error) {
	expanded, err := cat.Expand(c.UnwantedPatterns)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(c.UnwantedExtensions)+len(expanded))
	seen := make(map[string]struct{}, len(c.UnwantedExtensions)+len(expanded))
	for _, name := range c.UnwantedExtensions {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, name := range expanded {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no unwanted extensions: patterns matched nothing in the catalog")
	}

	return names, nil
}

// GuardOptions maps the config onto monitor options.
func (c *Config) GuardOptions() []guard.Option {
	opts := []guard.Option{}
	if c.Title != "" {
		opts = append(opts, guard.WithTitle(c.Title))
	}
	if c.Description != "" {
		opts = append(opts, guard.WithDescription(c.Description))
	}
	if c.CheckInterval > 0 {
		opts = append(opts, guard.WithCheckInterval(c.CheckInterval))
	}
	if c.AutoHide > 0 {
		opts = append(opts, guard.WithAutoHide(c.AutoHide))
	}
	return opts
}

// BrowserOptions maps the probe section onto browser prober options.
func (c *Config) BrowserOptions() probe.BrowserOptions {
	return probe.BrowserOptions{
		Headless: c.Probe.Headless,
		Timeout:  c.Probe.Timeout,
		Origin:   c.Probe.Origin,
	}
}
