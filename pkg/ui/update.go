package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/just-josh-inc/extguard/pkg/guard"
)

// Update handles all state updates for the status screen.
// This is the main event loop handler for Bubble Tea.
//
// Uses a pointer receiver so key handlers mutate the live model rather
// than a copy.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case monitorEventMsg:
		return m.handleMonitorEvent(msg.event, spinnerCmd)

	case monitorClosedMsg:
		return m, tea.Quit

	case clipboardResultMsg:
		if msg.err != nil {
			return m, m.showToast("Copy failed", msg.err.Error(), true)
		}
		return m, m.showToast("Report copied", "Session report is on the clipboard", false)

	case toastExpiredMsg:
		// Redraw only; View drops the toast once its deadline passes.
		return m, spinnerCmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg, spinnerCmd)
	}

	return m, spinnerCmd
}

// handleWindowResize processes window size change events
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	return m, nil
}

// handleMonitorEvent folds a monitor event into the screen state. The
// snapshot is authoritative; the event itself only feeds the activity
// log and decides whether the program should exit.
func (m *model) handleMonitorEvent(event guard.Event, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.state = m.monitor.Snapshot()
	m.appendActivity(event)

	if event.Type == guard.EventTypeStopped {
		return m, tea.Quit
	}
	return m, spinnerCmd
}

// handleKeyPress processes keyboard input
func (m *model) handleKeyPress(msg tea.KeyMsg, spinnerCmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc", "enter", "d":
		// Ignored by the monitor in block mode.
		if m.showReport {
			m.showReport = false
			return m, nil
		}
		m.monitor.Dismiss()
		m.state = m.monitor.Snapshot()
		return m, nil

	case "r":
		m.monitor.CheckNow()
		return m, m.showToast("Re-check requested", "", false)

	case "c":
		return m, m.copyReport()

	case "v":
		return m.toggleReport()
	}

	return m, spinnerCmd
}

// toggleReport opens or closes the session report overlay.
func (m *model) toggleReport() (tea.Model, tea.Cmd) {
	if m.showReport {
		m.showReport = false
		return m, nil
	}

	formatted, err := FormatReport(BuildReport(m.state))
	if err != nil {
		return m, m.showToast("Report failed", err.Error(), true)
	}

	highlighted, err := HighlightReport(formatted)
	if err != nil {
		// Fall back to the plain JSON
		highlighted = formatted
	}

	m.reportView = highlighted
	m.showReport = true
	return m, nil
}

// copyReport places the plain JSON report on the system clipboard.
func (m *model) copyReport() tea.Cmd {
	state := m.state
	return func() tea.Msg {
		formatted, err := FormatReport(BuildReport(state))
		if err == nil {
			err = clipboard.WriteAll(formatted)
		}
		return clipboardResultMsg{err: err}
	}
}

// appendActivity adds one line to the rolling activity feed.
func (m *model) appendActivity(event guard.Event) {
	var line string
	switch event.Type {
	case guard.EventTypeRoundStarted:
		line = fmt.Sprintf("round %d started", event.Round)
	case guard.EventTypeRoundCompleted:
		if len(event.Detected) == 0 {
			line = fmt.Sprintf("round %d completed - nothing detected", event.Round)
		} else {
			line = fmt.Sprintf("round %d completed - detected: %s", event.Round, strings.Join(event.Detected, ", "))
		}
	case guard.EventTypeDetected:
		line = fmt.Sprintf("unwanted extensions found: %s", strings.Join(event.Matches, ", "))
	case guard.EventTypeDismissed:
		if event.Reason == guard.DismissReasonTimer {
			line = "notification auto-hidden"
		} else {
			line = "notification dismissed"
		}
	case guard.EventTypeStopped:
		line = "monitor stopped"
	default:
		return
	}

	stamped := fmt.Sprintf("%s  %s", event.At.Format("15:04:05"), line)
	m.activity = append(m.activity, stamped)
	if len(m.activity) > maxActivityLines {
		m.activity = m.activity[len(m.activity)-maxActivityLines:]
	}
}
