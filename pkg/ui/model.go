package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/just-josh-inc/extguard/pkg/guard"
)

// maxActivityLines bounds the rolling activity feed.
const maxActivityLines = 8

// model represents the state of the status screen.
// It renders from monitor snapshots; monitor events only tell it when a
// fresh snapshot is worth taking.
type model struct {
	// Bubble Tea components
	spinner spinner.Model

	// Monitor integration
	monitor *guard.Monitor
	state   guard.State

	// Styling
	styles styles

	// UI state
	showReport bool
	reportView string
	toast      *toastNotification
	activity   []string

	// Window dimensions
	width  int
	height int
	ready  bool
}

// monitorEventMsg wraps a monitor event for Bubble Tea delivery.
type monitorEventMsg struct {
	event guard.Event
}

// monitorClosedMsg signals that the monitor event stream has ended.
type monitorClosedMsg struct{}

// clipboardResultMsg reports the outcome of a copy request.
type clipboardResultMsg struct {
	err error
}

// toastExpiredMsg forces a redraw once a toast deadline has passed.
type toastExpiredMsg struct{}

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	details   string
	isError   bool
	showUntil time.Time
}

func newModel(monitor *guard.Monitor, palette Palette) model {
	st := newStyles(palette)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(st.accent)

	return model{
		spinner: s,
		monitor: monitor,
		state:   monitor.Snapshot(),
		styles:  st,
		toast:   &toastNotification{},
	}
}

// Init starts the spinner tick loop.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// showToast displays a temporary notification box.
func (m *model) showToast(message, details string, isError bool) tea.Cmd {
	m.toast.active = true
	m.toast.message = message
	m.toast.details = details
	m.toast.isError = isError
	m.toast.showUntil = time.Now().Add(3 * time.Second)

	return tea.Tick(3*time.Second+50*time.Millisecond, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}
