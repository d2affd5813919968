package guard

import "fmt"

// DisplayMode selects how a detection is presented.
type DisplayMode string

const (
	ModeSilent DisplayMode = "silent" // ModeSilent renders nothing; detection is delivered through the OnDetect callback only.
	ModeAlert  DisplayMode = "alert"  // ModeAlert shows a compact dismissable notice.
	ModeBanner DisplayMode = "banner" // ModeBanner shows a full-width bar.
	ModeModal  DisplayMode = "modal"  // ModeModal shows a centered dialog.
	ModeBlock  DisplayMode = "block"  // ModeBlock takes over the screen and cannot be dismissed.
)

// ParseMode converts a mode string into a DisplayMode.
func ParseMode(s string) (DisplayMode, error) {
	switch m := DisplayMode(s); m {
	case ModeSilent, ModeAlert, ModeBanner, ModeModal, ModeBlock:
		return m, nil
	default:
		return "", fmt.Errorf("unknown display mode: %q", s)
	}
}

// Renders reports whether the mode draws anything at all.
func (m DisplayMode) Renders() bool {
	return m != ModeSilent
}

// Dismissable reports whether a shown notification can be dismissed by
// the user. Block mode is immune to dismissal.
func (m DisplayMode) Dismissable() bool {
	return m != ModeBlock
}

// AllowsAutoHide reports whether an auto-hide timer may be combined with
// this mode. Block mode never hides on its own.
func (m DisplayMode) AllowsAutoHide() bool {
	return m != ModeBlock
}
