// Package main provides the extguard terminal monitor. It watches a
// browser for unwanted extensions and presents detections on a terminal
// status screen, or headlessly for CI and scripted compliance checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/just-josh-inc/extguard/pkg/catalog"
	"github.com/just-josh-inc/extguard/pkg/config"
	"github.com/just-josh-inc/extguard/pkg/detect"
	"github.com/just-josh-inc/extguard/pkg/guard"
	"github.com/just-josh-inc/extguard/pkg/probe"
	"github.com/just-josh-inc/extguard/pkg/ui"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	Mode        string
	Unwanted    string
	Patterns    string
	Interval    time.Duration
	AutoHide    time.Duration
	Driver      string
	ProfileDir  string
	Origin      string
	Headed      bool
	Once        bool
	ShowVersion bool
}

func main() {
	// Parse command line flags
	cliConfig := parseFlags()

	// Show version if requested
	if cliConfig.ShowVersion {
		fmt.Printf("extguard v%s\n", version)
		return
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	// Run the monitor
	matched, err := run(ctx, cliConfig)
	if err != nil {
		cancel()
		log.Fatalf("extguard error: %v", err)
	}
	cancel()

	// Headless runs signal detections through the exit code
	if matched {
		os.Exit(2)
	}
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.Mode, "mode", "", "Display mode: silent, alert, banner, modal, or block")
	flag.StringVar(&cliConfig.Unwanted, "unwanted", "", "Comma-separated unwanted extension names")
	flag.StringVar(&cliConfig.Patterns, "patterns", "", "Comma-separated glob patterns matched against the catalog")
	flag.DurationVar(&cliConfig.Interval, "interval", 0, "Re-check interval (0 disables periodic re-checks)")
	flag.DurationVar(&cliConfig.AutoHide, "auto-hide", 0, "Hide the notice after this duration (0 keeps it up)")
	flag.StringVar(&cliConfig.Driver, "driver", "", "Probe driver: browser or profile")
	flag.StringVar(&cliConfig.ProfileDir, "profile-dir", "", "Browser profile directory for the profile driver")
	flag.StringVar(&cliConfig.Origin, "origin", "", "Page to open before probing (browser driver)")
	flag.BoolVar(&cliConfig.Headed, "headed", false, "Show the browser window (browser driver)")
	flag.BoolVar(&cliConfig.Once, "once", false, "Run a single detection round without the status screen and exit")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "extguard - Browser Extension Monitor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: extguard [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Watch for ad blockers with the default alert overlay\n")
		fmt.Fprintf(os.Stderr, "  extguard -unwanted \"AdBlock,Adblock Plus\"\n\n")
		fmt.Fprintf(os.Stderr, "  # Everything from a config file\n")
		fmt.Fprintf(os.Stderr, "  extguard -config extguard.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # One-shot CI check, exit code 2 on matches\n")
		fmt.Fprintf(os.Stderr, "  extguard -mode silent -once -patterns \"Ad*\"\n\n")
		fmt.Fprintf(os.Stderr, "  # Scan an unpacked profile instead of launching a browser\n")
		fmt.Fprintf(os.Stderr, "  extguard -driver profile -unwanted Honey\n\n")
	}

	flag.Parse()
	return cliConfig
}

// run builds the detection stack and hands it to the status screen, or to
// the headless loop for silent and one-shot runs. It reports whether
// unwanted extensions were found during a headless run.
func run(ctx context.Context, cliConfig *CLIConfig) (bool, error) {
	// Load configuration and apply CLI overrides
	cfg, err := loadConfig(cliConfig)
	if err != nil {
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate configuration
	if validationErr := cfg.Validate(); validationErr != nil {
		return false, fmt.Errorf("invalid configuration: %w", validationErr)
	}

	cat := catalog.Builtin()
	unwanted, err := cfg.UnwantedNames(cat)
	if err != nil {
		return false, fmt.Errorf("failed to resolve unwanted extensions: %w", err)
	}

	// Create the probe driver
	var prober probe.Prober
	switch cfg.Probe.Driver {
	case config.DriverBrowser:
		browser := probe.NewBrowserProber(cfg.BrowserOptions())
		if startErr := browser.Start(); startErr != nil {
			return false, fmt.Errorf("failed to start browser: %w", startErr)
		}
		defer func() {
			if closeErr := browser.Close(); closeErr != nil {
				log.Printf("failed to close browser: %v", closeErr)
			}
		}()
		prober = browser
	case config.DriverProfile:
		dir := cfg.Probe.ProfileDir
		if dir == "" {
			dir, err = probe.DefaultProfileDir()
			if err != nil {
				return false, err
			}
		}
		prober = probe.NewProfileProber(dir)
	}

	engine, err := detect.NewEngine(cat, prober)
	if err != nil {
		return false, fmt.Errorf("failed to create detection engine: %w", err)
	}

	mode := cfg.Mode()
	headless := cliConfig.Once || mode == guard.ModeSilent

	// Headless runs report detections on stdout instead of a screen. The
	// callback doubles as the silent-mode notification sink.
	var monitor *guard.Monitor
	opts := cfg.GuardOptions()
	if headless {
		opts = append(opts, guard.WithOnDetect(func([]string) {
			printReport(monitor)
		}))
	}

	monitor, err = guard.New(engine, mode, unwanted, opts...)
	if err != nil {
		return false, fmt.Errorf("failed to create monitor: %w", err)
	}

	if headless {
		return runHeadless(ctx, monitor, cliConfig.Once)
	}
	return false, runScreen(ctx, monitor, cfg)
}

// runHeadless drives the monitor without a status screen and reports
// whether any round found unwanted extensions.
func runHeadless(ctx context.Context, monitor *guard.Monitor, once bool) (bool, error) {
	if err := monitor.Start(ctx); err != nil {
		return false, fmt.Errorf("failed to start monitor: %w", err)
	}
	defer monitor.Stop()

	matched := false
	for event := range monitor.Events() {
		if event.Type != guard.EventTypeRoundCompleted {
			continue
		}
		if len(event.Matches) > 0 {
			matched = true
		}
		if once {
			monitor.Stop()
		}
	}

	return matched, nil
}

// runScreen runs the interactive status screen until the user quits or
// the context is cancelled.
func runScreen(ctx context.Context, monitor *guard.Monitor, cfg *config.Config) error {
	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	palette := ui.Palette{
		Accent: cfg.Styles.Accent,
		Warn:   cfg.Styles.Warn,
		Text:   cfg.Styles.Text,
		Muted:  cfg.Styles.Muted,
	}

	runner := ui.NewRunner(monitor, palette)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("status screen error: %w", err)
	}

	return nil
}

// printReport writes the session report to stdout as JSON.
func printReport(monitor *guard.Monitor) {
	out, err := ui.FormatReport(ui.BuildReport(monitor.Snapshot()))
	if err != nil {
		log.Printf("failed to format report: %v", err)
		return
	}
	fmt.Println(out)
}

// loadConfig loads configuration from the config file or defaults, then
// applies CLI overrides on top.
func loadConfig(cliConfig *CLIConfig) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cliConfig.ConfigFile != "" {
		cfg, err = config.Load(cliConfig.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if cliConfig.Mode != "" {
		cfg.DisplayMode = cliConfig.Mode
	}
	if cliConfig.Unwanted != "" {
		cfg.UnwantedExtensions = splitList(cliConfig.Unwanted)
	}
	if cliConfig.Patterns != "" {
		cfg.UnwantedPatterns = splitList(cliConfig.Patterns)
	}
	if cliConfig.Interval > 0 {
		cfg.CheckInterval = cliConfig.Interval
	}
	if cliConfig.AutoHide > 0 {
		cfg.AutoHide = cliConfig.AutoHide
	}
	if cliConfig.Driver != "" {
		cfg.Probe.Driver = cliConfig.Driver
	}
	if cliConfig.ProfileDir != "" {
		cfg.Probe.ProfileDir = cliConfig.ProfileDir
	}
	if cliConfig.Origin != "" {
		cfg.Probe.Origin = cliConfig.Origin
	}
	if cliConfig.Headed {
		cfg.Probe.Headless = false
	}

	return cfg, nil
}

// splitList splits a comma-separated flag value into trimmed entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
