package guard

import "time"

// EventType defines the type of event emitted by a Monitor.
type EventType string

const (
	EventTypeRoundStarted   EventType = "round_started"   // EventTypeRoundStarted indicates a probe round has begun.
	EventTypeRoundCompleted EventType = "round_completed" // EventTypeRoundCompleted indicates a probe round has finished.
	EventTypeDetected       EventType = "detected"        // EventTypeDetected indicates unwanted extensions were found; emitted at most once per session.
	EventTypeDismissed      EventType = "dismissed"       // EventTypeDismissed indicates the notification was hidden.
	EventTypeStopped        EventType = "stopped"         // EventTypeStopped indicates the monitor shut down.
)

// DismissReason records what hid the notification.
type DismissReason string

const (
	DismissReasonUser  DismissReason = "user"      // DismissReasonUser indicates an explicit dismissal.
	DismissReasonTimer DismissReason = "auto_hide" // DismissReasonTimer indicates the auto-hide timer expired.
)

// Event is a single observation from a Monitor. Events are advisory
// wake-ups: delivery never blocks the monitor and slow consumers may miss
// events, so renderers read Snapshot for authoritative state.
type Event struct {
	// Type indicates the kind of event.
	Type EventType

	// Round is the 1-based round number for round-scoped events.
	Round int

	// Detected holds the full detection result, sorted, for
	// round_completed events.
	Detected []string

	// Matches holds the unwanted match list for round_completed and
	// detected events.
	Matches []string

	// Reason records what hid the notification, for dismissed events.
	Reason DismissReason

	// At is when the event was emitted.
	At time.Time
}

// NewRoundStartedEvent creates a round started event.
func NewRoundStartedEvent(round int) Event {
	return Event{Type: EventTypeRoundStarted, Round: round, At: time.Now()}
}

// NewRoundCompletedEvent creates a round completed event.
func NewRoundCompletedEvent(round int, detected, matches []string) Event {
	return Event{Type: EventTypeRoundCompleted, Round: round, Detected: detected, Matches: matches, At: time.Now()}
}

// NewDetectedEvent creates a detected event.
func NewDetectedEvent(round int, matches []string) Event {
	return Event{Type: EventTypeDetected, Round: round, Matches: matches, At: time.Now()}
}

// NewDismissedEvent creates a dismissed event.
func NewDismissedEvent(reason DismissReason) Event {
	return Event{Type: EventTypeDismissed, Reason: reason, At: time.Now()}
}

// NewStoppedEvent creates a stopped event.
func NewStoppedEvent() Event {
	return Event{Type: EventTypeStopped, At: time.Now()}
}

// IsRoundEvent returns true if this event marks round progress.
func (e Event) IsRoundEvent() bool {
	return e.Type == EventTypeRoundStarted || e.Type == EventTypeRoundCompleted
}

// IsDetected returns true if this is the one-per-session detection event.
func (e Event) IsDetected() bool {
	return e.Type == EventTypeDetected
}
