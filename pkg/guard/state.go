package guard

import "time"

// State is an atomic snapshot of a Monitor, safe to read from any
// goroutine. Renderers draw from it; the event stream only tells them
// when to take a fresh one.
type State struct {
	// SessionID identifies this monitor instance.
	SessionID string

	// Mode is the configured display mode.
	Mode DisplayMode

	// Title and Description are the configured notification copy.
	Title       string
	Description string

	// Unwanted is the configured unwanted extension list.
	Unwanted []string

	// Checking reports whether a probe round is currently in flight.
	Checking bool

	// RoundsCompleted counts finished probe rounds.
	RoundsCompleted int

	// Visible reports whether the notification is currently shown.
	Visible bool

	// HasNotified reports whether the one per-session notification has
	// fired. It never resets while the monitor lives.
	HasNotified bool

	// Matches is the unwanted match list captured at the instant the
	// notification fired. Later rounds do not change it.
	Matches []string

	// LastRound is the unwanted match list from the most recent
	// completed round.
	LastRound []string

	// LastCheckedAt is when the most recent round completed.
	LastCheckedAt time.Time
}

// ShouldRender reports whether a renderer should draw the notification.
func (s State) ShouldRender() bool {
	return s.Visible && s.Mode.Renders() && len(s.Matches) > 0
}
