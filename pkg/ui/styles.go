package ui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all status screen colors.
// Configured palettes override these defaults per entry.
var (
	// Primary Colors - Core palette
	signalBlue  = lipgloss.Color("#7AA2F7") // Soft blue - primary accent
	alarmRed    = lipgloss.Color("#F7768E") // Soft red - detections and warnings
	mutedGray   = lipgloss.Color("#6B7280") // Muted gray - secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // Bright white - primary text
)

// Palette carries the configurable screen colors as hex strings. Empty
// entries fall back to the defaults above.
type Palette struct {
	Accent string
	Warn   string
	Text   string
	Muted  string
}

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{
		Accent: string(signalBlue),
		Warn:   string(alarmRed),
		Text:   string(brightWhite),
		Muted:  string(mutedGray),
	}
}

func (p Palette) color(hex string, fallback lipgloss.Color) lipgloss.Color {
	if hex == "" {
		return fallback
	}
	return lipgloss.Color(hex)
}

// styles holds the pre-configured lipgloss styles for every screen
// element, built once from the palette.
type styles struct {
	accent lipgloss.Color
	warn   lipgloss.Color
	text   lipgloss.Color
	muted  lipgloss.Color

	// Text Styles
	header   lipgloss.Style
	tips     lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	warnText lipgloss.Style
	okText   lipgloss.Style

	// Container Styles
	statusBar  lipgloss.Style
	activity   lipgloss.Style
	alertBox   lipgloss.Style
	bannerBar  lipgloss.Style
	modalBox   lipgloss.Style
	blockBox   lipgloss.Style
	reportBox  lipgloss.Style
	toastBox   lipgloss.Style
	toastError lipgloss.Style
}

func newStyles(p Palette) styles {
	accent := p.color(p.Accent, signalBlue)
	warn := p.color(p.Warn, alarmRed)
	text := p.color(p.Text, brightWhite)
	muted := p.color(p.Muted, mutedGray)

	return styles{
		accent: accent,
		warn:   warn,
		text:   text,
		muted:  muted,

		header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		tips: lipgloss.NewStyle().
			Foreground(muted),

		label: lipgloss.NewStyle().
			Foreground(muted),

		value: lipgloss.NewStyle().
			Foreground(text),

		warnText: lipgloss.NewStyle().
			Foreground(warn).
			Bold(true),

		okText: lipgloss.NewStyle().
			Foreground(accent),

		statusBar: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),

		activity: lipgloss.NewStyle().
			Foreground(text).
			Padding(0, 2),

		alertBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warn).
			Padding(0, 1),

		bannerBar: lipgloss.NewStyle().
			Foreground(text).
			Background(warn).
			Bold(true).
			Padding(0, 1),

		modalBox: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(warn).
			Padding(1, 2),

		blockBox: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(warn).
			Padding(1, 3),

		reportBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		toastBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		toastError: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warn).
			Padding(0, 1),
	}
}
