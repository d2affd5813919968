package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-josh-inc/extguard/pkg/catalog"
	"github.com/just-josh-inc/extguard/pkg/detect"
	"github.com/just-josh-inc/extguard/pkg/guard"
)

// stubProber reports no browsing context at all.
type stubProber struct{}

func (stubProber) Available() bool { return false }

func (stubProber) Probe(ctx context.Context, resourceURL string) (bool, error) {
	return false, nil
}

func testMonitor(t *testing.T) *guard.Monitor {
	t.Helper()

	engine, err := detect.NewEngine(catalog.Builtin(), stubProber{})
	require.NoError(t, err)

	m, err := guard.New(engine, guard.ModeAlert, []string{"AdBlock"})
	require.NoError(t, err)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUpdateWindowSize(t *testing.T) {
	m := testModel(guard.ModeAlert, false, false, nil)
	m.ready = false

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	got := updated.(*model)
	assert.True(t, got.ready)
	assert.Equal(t, 120, got.width)
	assert.Equal(t, 50, got.height)
}

func TestUpdateQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m := testModel(guard.ModeAlert, false, false, nil)

			_, cmd := m.Update(keyMsg(key))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestUpdateToggleReport(t *testing.T) {
	m := testModel(guard.ModeAlert, false, true, []string{"AdBlock"})

	updated, _ := m.Update(keyMsg("v"))
	got := updated.(*model)
	assert.True(t, got.showReport)
	assert.Contains(t, got.reportView, "session_id")

	updated, _ = got.Update(keyMsg("v"))
	got = updated.(*model)
	assert.False(t, got.showReport)
}

func TestUpdateEscClosesReportBeforeDismissing(t *testing.T) {
	m := testModel(guard.ModeAlert, true, true, []string{"AdBlock"})
	m.monitor = testMonitor(t)
	m.showReport = true

	updated, _ := m.Update(keyMsg("esc"))
	got := updated.(*model)

	assert.False(t, got.showReport)
}

func TestUpdateDismissKeyRefreshesFromMonitor(t *testing.T) {
	monitor := testMonitor(t)

	m := testModel(guard.ModeAlert, true, true, []string{"AdBlock"})
	m.monitor = monitor

	// The monitor was never started and shows nothing, so dismissing is
	// a no-op; the screen still re-syncs its snapshot.
	updated, _ := m.Update(keyMsg("d"))
	got := updated.(*model)

	assert.Equal(t, monitor.SessionID(), got.state.SessionID)
	assert.False(t, got.state.Visible)
}

func TestUpdateMonitorStoppedEventQuits(t *testing.T) {
	monitor := testMonitor(t)

	m := testModel(guard.ModeAlert, false, false, nil)
	m.monitor = monitor

	_, cmd := m.Update(monitorEventMsg{event: guard.NewStoppedEvent()})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdateMonitorClosedQuits(t *testing.T) {
	m := testModel(guard.ModeAlert, false, false, nil)

	_, cmd := m.Update(monitorClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdateClipboardResultShowsToast(t *testing.T) {
	m := testModel(guard.ModeAlert, false, false, nil)

	updated, _ := m.Update(clipboardResultMsg{err: nil})
	got := updated.(*model)
	assert.True(t, got.toast.active)
	assert.Equal(t, "Report copied", got.toast.message)
	assert.False(t, got.toast.isError)

	updated, _ = got.Update(clipboardResultMsg{err: fmt.Errorf("no display")})
	got = updated.(*model)
	assert.True(t, got.toast.isError)
	assert.Equal(t, "Copy failed", got.toast.message)
}

func TestAppendActivityKeepsRecentLines(t *testing.T) {
	m := testModel(guard.ModeAlert, false, false, nil)

	for round := 1; round <= maxActivityLines+4; round++ {
		m.appendActivity(guard.NewRoundStartedEvent(round))
	}

	assert.Len(t, m.activity, maxActivityLines)
	assert.Contains(t, m.activity[len(m.activity)-1], fmt.Sprintf("round %d started", maxActivityLines+4))
}
