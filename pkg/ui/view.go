package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/just-josh-inc/extguard/pkg/guard"
)

// View renders the entire status screen.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	// Block mode takes over the whole screen; nothing else is drawn.
	if m.state.ShouldRender() && m.state.Mode == guard.ModeBlock {
		return m.renderCentered(m.blockContent())
	}

	var sections []string
	if m.state.ShouldRender() && m.state.Mode == guard.ModeBanner {
		sections = append(sections, m.buildBanner())
	}
	sections = append(sections,
		m.buildHeader(),
		m.buildTips(),
		m.buildStatus(),
		"",
		m.buildActivity(),
		m.buildBottomBar(),
	)
	baseView := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Layer overlays
	if m.state.ShouldRender() && m.state.Mode == guard.ModeModal {
		baseView = m.renderCentered(m.modalContent())
	}

	if m.state.ShouldRender() && m.state.Mode == guard.ModeAlert {
		baseView = overlayNearBottom(baseView, m.alertContent())
	}

	if m.showReport {
		baseView = m.renderCentered(m.reportContent())
	}

	// Add toast notification as overlay if active and not expired
	if m.toast.active && time.Now().Before(m.toast.showUntil) {
		baseView = overlayNearBottom(baseView, m.renderToast())
	}

	return baseView
}

// buildHeader renders the extguard ASCII art header
func (m *model) buildHeader() string {
	return m.styles.header.Render(`
	███████╗██╗  ██╗████████╗ ██████╗ ██╗   ██╗ █████╗ ██████╗ ██████╗
	██╔════╝╚██╗██╔╝╚══██╔══╝██╔════╝ ██║   ██║██╔══██╗██╔══██╗██╔══██╗
	█████╗   ╚███╔╝    ██║   ██║  ███╗██║   ██║███████║██████╔╝██║  ██║
	██╔══╝   ██╔██╗    ██║   ██║   ██║██║   ██║██╔══██║██╔══██╗██║  ██║
	███████╗██╔╝ ██╗   ██║   ╚██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
	╚══════╝╚═╝  ╚═╝   ╚═╝    ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝`)
}

// buildTips renders the usage hints line
func (m *model) buildTips() string {
	return m.styles.tips.Render(`  Tips: r to re-check now • d to dismiss a notice • v for session report • c to copy report • q to quit`)
}

// buildStatus renders the session status panel
func (m *model) buildStatus() string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s %s",
		m.styles.label.Render("Session:"),
		m.styles.value.Render(fmt.Sprintf("%s • mode: %s", shortID(m.state.SessionID), m.state.Mode))))

	lines = append(lines, fmt.Sprintf("%s %s",
		m.styles.label.Render("Watching:"),
		m.styles.value.Render(strings.Join(m.state.Unwanted, ", "))))

	switch {
	case m.state.Checking:
		lines = append(lines, fmt.Sprintf("%s %s",
			m.spinner.View(),
			m.styles.okText.Render("probing extension catalog...")))
	case m.state.RoundsCompleted > 0:
		lines = append(lines, m.styles.label.Render(fmt.Sprintf("Last check: %s • rounds: %d",
			m.state.LastCheckedAt.Format("15:04:05"), m.state.RoundsCompleted)))
	default:
		lines = append(lines, m.styles.label.Render("Waiting for first check..."))
	}

	if m.state.HasNotified {
		lines = append(lines, m.styles.warnText.Render(
			fmt.Sprintf("Detected: %s", strings.Join(m.state.Matches, ", "))))
	} else {
		lines = append(lines, m.styles.okText.Render("No unwanted extensions detected"))
	}

	return m.styles.statusBar.Render(strings.Join(lines, "\n"))
}

// buildActivity renders the rolling activity feed
func (m *model) buildActivity() string {
	if len(m.activity) == 0 {
		return m.styles.activity.Render(m.styles.tips.Render("No activity yet"))
	}
	return m.styles.activity.Render(strings.Join(m.activity, "\n"))
}

// buildBottomBar renders the bottom status bar
func (m *model) buildBottomBar() string {
	left := "extguard"
	right := fmt.Sprintf("session %s", shortID(m.state.SessionID))

	padding := m.width - len(left) - len(right) - 2
	if padding < 2 {
		padding = 2
	}

	return m.styles.statusBar.Width(m.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// buildBanner renders the full-width detection bar shown in banner mode
func (m *model) buildBanner() string {
	text := fmt.Sprintf("⚠ %s: %s • d to dismiss", m.state.Title, strings.Join(m.state.Matches, ", "))
	return m.styles.bannerBar.Width(m.width).Render(text)
}

// notificationBody builds the shared title/description/match list block
// used by the alert, modal, and block presentations.
func (m *model) notificationBody(hint string) string {
	var b strings.Builder

	b.WriteString(m.styles.warnText.Render(m.state.Title))
	b.WriteString("\n")
	if m.state.Description != "" {
		b.WriteString(m.styles.value.Render(m.state.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, name := range m.state.Matches {
		b.WriteString("  • " + m.styles.value.Render(name) + "\n")
	}
	if hint != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.tips.Render(hint))
	}

	return b.String()
}

// alertContent renders the compact bottom notice for alert mode
func (m *model) alertContent() string {
	boxWidth := m.width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}
	return m.styles.alertBox.Width(boxWidth).Render(
		m.notificationBody("esc, enter, or d to dismiss"))
}

// modalContent renders the centered dialog for modal mode
func (m *model) modalContent() string {
	boxWidth := m.width / 2
	if boxWidth < 44 {
		boxWidth = 44
	}
	return m.styles.modalBox.Width(boxWidth).Render(
		m.notificationBody("esc, enter, or d to dismiss"))
}

// blockContent renders the full takeover notice for block mode
func (m *model) blockContent() string {
	boxWidth := m.width - 8
	if boxWidth < 44 {
		boxWidth = 44
	}
	return m.styles.blockBox.Width(boxWidth).Render(
		m.notificationBody("this notice cannot be dismissed • q to quit"))
}

// reportContent renders the session report overlay
func (m *model) reportContent() string {
	var b strings.Builder
	b.WriteString(m.styles.header.Render("Session Report"))
	b.WriteString("\n\n")
	b.WriteString(m.reportView)
	b.WriteString("\n")
	b.WriteString(m.styles.tips.Render("v or esc to close • c to copy"))

	boxWidth := m.width - 8
	if boxWidth < 50 {
		boxWidth = 50
	}
	return m.styles.reportBox.Width(boxWidth).Render(b.String())
}

// renderToast renders a temporary notification box
func (m *model) renderToast() string {
	var content strings.Builder
	content.WriteString(m.toast.message)
	if m.toast.details != "" {
		content.WriteString("\n")
		content.WriteString(m.toast.details)
	}

	boxWidth := m.width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	box := m.styles.toastBox
	if m.toast.isError {
		box = m.styles.toastError
	}
	return box.Width(boxWidth).Render(content.String())
}

// renderCentered places content centered on a clean background, hiding
// the base view for a modal appearance.
func (m *model) renderCentered(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// overlayNearBottom paints content over the base view a few lines above
// the bottom edge without reflowing the layout underneath.
func overlayNearBottom(baseView, content string) string {
	if content == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	contentLines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	startLine := len(baseLines) - 3 - len(contentLines)
	if startLine < 0 {
		startLine = 0
	}

	var result strings.Builder
	for i, line := range baseLines {
		idx := i - startLine
		if idx >= 0 && idx < len(contentLines) {
			result.WriteString("  ")
			result.WriteString(contentLines[idx])
		} else {
			result.WriteString(line)
		}
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// shortID trims a session UUID down to its first group for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
