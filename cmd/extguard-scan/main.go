// Package main provides extguard-scan, a one-shot compliance scanner. It
// runs a single detection round and reports on stdout, defaulting to the
// profile driver so scans work without launching a browser. The exit code
// is 2 when unwanted extensions were found, 0 otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

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
	Unwanted    string
	Patterns    string
	Driver      string
	ProfileDir  string
	Origin      string
	Headed      bool
	Timeout     time.Duration
	JSON        bool
	Pretty      bool
	ShowVersion bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("extguard-scan v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	matched, err := run(ctx, cliConfig)
	if err != nil {
		cancel()
		log.Fatalf("extguard-scan error: %v", err)
	}
	cancel()

	if matched {
		os.Exit(2)
	}
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.Unwanted, "unwanted", "", "Comma-separated unwanted extension names")
	flag.StringVar(&cliConfig.Patterns, "patterns", "", "Comma-separated glob patterns matched against the catalog")
	flag.StringVar(&cliConfig.Driver, "driver", "", "Probe driver: browser or profile (default profile)")
	flag.StringVar(&cliConfig.ProfileDir, "profile-dir", "", "Browser profile directory for the profile driver")
	flag.StringVar(&cliConfig.Origin, "origin", "", "Page to open before probing (browser driver)")
	flag.BoolVar(&cliConfig.Headed, "headed", false, "Show the browser window (browser driver)")
	flag.DurationVar(&cliConfig.Timeout, "timeout", time.Minute, "Overall scan deadline (0 means none)")
	flag.BoolVar(&cliConfig.JSON, "json", false, "Write the report as JSON")
	flag.BoolVar(&cliConfig.Pretty, "pretty", false, "Write the report as syntax-highlighted JSON")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "extguard-scan - One-shot Browser Extension Scan\n\n")
		fmt.Fprintf(os.Stderr, "Usage: extguard-scan [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Scan the default Chrome profile for ad blockers\n")
		fmt.Fprintf(os.Stderr, "  extguard-scan -patterns \"Ad*\"\n\n")
		fmt.Fprintf(os.Stderr, "  # Machine-readable report for CI\n")
		fmt.Fprintf(os.Stderr, "  extguard-scan -unwanted \"AdBlock,Honey\" -json\n\n")
		fmt.Fprintf(os.Stderr, "  # Probe through a live browser instead of the profile\n")
		fmt.Fprintf(os.Stderr, "  extguard-scan -driver browser -unwanted MetaMask\n\n")
	}

	flag.Parse()
	return cliConfig
}

// run performs a single detection round and writes the report. It reports
// whether unwanted extensions were found.
func run(ctx context.Context, cliConfig *CLIConfig) (bool, error) {
	cfg, err := loadConfig(cliConfig)
	if err != nil {
		return false, fmt.Errorf("failed to load configuration: %w", err)
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return false, fmt.Errorf("invalid configuration: %w", validationErr)
	}

	cat := catalog.Builtin()
	unwanted, err := cfg.UnwantedNames(cat)
	if err != nil {
		return false, fmt.Errorf("failed to resolve unwanted extensions: %w", err)
	}

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

	if cliConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliConfig.Timeout)
		defer cancel()
	}

	detected := engine.Detect(ctx)
	matches := detect.Filter(cat, detected, unwanted)

	report := ui.BuildReport(guard.State{
		SessionID:       uuid.NewString(),
		Mode:            guard.ModeSilent,
		Unwanted:        unwanted,
		Matches:         matches,
		LastRound:       matches,
		RoundsCompleted: 1,
		HasNotified:     len(matches) > 0,
		LastCheckedAt:   time.Now(),
	})

	if err := writeReport(report, detected, len(cat), cliConfig); err != nil {
		return false, err
	}

	return len(matches) > 0, nil
}

// writeReport writes the scan result to stdout in the requested format.
func writeReport(report ui.Report, detected map[string]struct{}, catalogSize int, cliConfig *CLIConfig) error {
	if cliConfig.JSON || cliConfig.Pretty {
		out, err := ui.FormatReport(report)
		if err != nil {
			return err
		}
		if cliConfig.Pretty {
			if highlighted, hlErr := ui.HighlightReport(out); hlErr == nil {
				out = highlighted
			}
		}
		fmt.Println(out)
		return nil
	}

	present := make([]string, 0, len(detected))
	for name := range detected {
		present = append(present, name)
	}
	sort.Strings(present)

	fmt.Printf("Scanned %d catalog extensions, %d present.\n", catalogSize, len(present))
	if len(present) > 0 {
		fmt.Printf("Present: %s\n", strings.Join(present, ", "))
	}

	if len(report.Matches) > 0 {
		fmt.Println("\nUnwanted extensions found:")
		for _, name := range report.Matches {
			fmt.Printf("  • %s\n", name)
		}
	} else {
		fmt.Println("\nNo unwanted extensions found.")
	}

	return nil
}

// loadConfig loads configuration from the config file or scan defaults,
// then applies CLI overrides on top.
func loadConfig(cliConfig *CLIConfig) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cliConfig.ConfigFile != "" {
		cfg, err = config.Load(cliConfig.ConfigFile)
		if err != nil {
			return nil, err
		}
	} else {
		// Scans default to the profile driver: no browser needed.
		cfg = config.DefaultConfig()
		cfg.Probe.Driver = config.DriverProfile
	}

	if cliConfig.Unwanted != "" {
		cfg.UnwantedExtensions = splitList(cliConfig.Unwanted)
	}
	if cliConfig.Patterns != "" {
		cfg.UnwantedPatterns = splitList(cliConfig.Patterns)
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
