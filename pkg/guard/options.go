package guard

import (
	"fmt"
	"time"
)

const defaultEventBuffer = 16

// settings holds the monitor configuration assembled from options. It is
// validated once in New and immutable afterwards.
type settings struct {
	title         string
	description   string
	checkInterval time.Duration
	autoHide      time.Duration
	onDetect      func(matches []string)
	eventBuffer   int
}

func defaultSettings() settings {
	return settings{
		title:       "Unwanted browser extension detected",
		eventBuffer: defaultEventBuffer,
	}
}

// validate rejects option combinations the monitor cannot honor. Invalid
// configurations fail here, at construction, never mid-session.
func (s settings) validate(mode DisplayMode) error {
	if s.checkInterval < 0 {
		return fmt.Errorf("check interval cannot be negative")
	}
	if s.autoHide < 0 {
		return fmt.Errorf("auto-hide duration cannot be negative")
	}
	if s.eventBuffer < 1 {
		return fmt.Errorf("event buffer must hold at least one event")
	}
	if mode == ModeSilent && s.onDetect == nil {
		return fmt.Errorf("silent mode requires an OnDetect callback")
	}
	if s.autoHide > 0 && !mode.AllowsAutoHide() {
		return fmt.Errorf("auto-hide cannot be combined with %s mode", mode)
	}
	return nil
}

// Option configures a Monitor at construction time.
type Option func(*settings)

// WithTitle sets the notification title.
func WithTitle(title string) Option {
	return func(s *settings) {
		s.title = title
	}
}

// WithDescription sets the notification body copy.
func WithDescription(description string) Option {
	return func(s *settings) {
		s.description = description
	}
}

// WithCheckInterval enables periodic re-checking. Zero leaves the monitor
// on its single startup round plus explicit CheckNow requests.
func WithCheckInterval(d time.Duration) Option {
	return func(s *settings) {
		s.checkInterval = d
	}
}

// WithAutoHide hides the notification d after it is shown, unless the
// user dismissed it first. Zero disables auto-hide.
func WithAutoHide(d time.Duration) Option {
	return func(s *settings) {
		s.autoHide = d
	}
}

// WithOnDetect registers a callback invoked at most once per session,
// from the monitor goroutine, when unwanted extensions are first found.
// The callback should return quickly; the monitor waits for it.
func WithOnDetect(fn func(matches []string)) Option {
	return func(s *settings) {
		s.onDetect = fn
	}
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(s *settings) {
		s.eventBuffer = n
	}
}
