// Package ui renders a monitor session as an interactive terminal status
// screen, including the per-mode detection notices.
//
// The package is split into multiple files for better organization:
// - program.go: Runner implementation and program lifecycle
// - model.go: Core model structure and messages
// - update.go: Bubble Tea Update function and key handling
// - view.go: Bubble Tea View function and rendering
// - report.go: Session report building and highlighting
// - styles.go: Color palette and styling
package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/just-josh-inc/extguard/pkg/guard"
	"github.com/just-josh-inc/extguard/pkg/logging"
)

var uiLog *logging.Logger

func init() {
	var err error
	uiLog, err = logging.NewLogger("ui")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		uiLog.Warnf("Failed to initialize ui logger, using stderr fallback: %v", err)
	}
}

// Runner owns the Bubble Tea program wrapped around a monitor. The
// monitor must be started by the caller; the runner stops it when the
// screen exits.
type Runner struct {
	monitor *guard.Monitor
	palette Palette
	program *tea.Program
}

// NewRunner creates a runner for the given monitor.
func NewRunner(monitor *guard.Monitor, palette Palette) *Runner {
	return &Runner{
		monitor: monitor,
		palette: palette,
	}
}

// Run starts the status screen and blocks until the user exits, the
// context is cancelled, or the monitor stops.
func (r *Runner) Run(ctx context.Context) error {
	uiLog.Debugf("Status screen starting: session=%s", r.monitor.SessionID())

	m := newModel(r.monitor, r.palette)
	r.program = tea.NewProgram(
		&m,
		tea.WithAltScreen(),
	)

	go func() {
		// Forward monitor events to the TUI until the stream ends.
		for event := range r.monitor.Events() {
			r.program.Send(monitorEventMsg{event: event})
		}
		r.program.Send(monitorClosedMsg{})
	}()

	go func() {
		select {
		case <-ctx.Done():
			r.program.Quit()
		case <-r.monitor.Done():
		}
	}()

	_, err := r.program.Run()

	// The screen is gone; the session ends with it.
	r.monitor.Stop()
	if err != nil {
		return fmt.Errorf("failed to run status screen: %w", err)
	}

	uiLog.Debugf("Status screen stopped: session=%s", r.monitor.SessionID())
	return nil
}
