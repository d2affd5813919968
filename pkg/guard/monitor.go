// Package guard owns the notification session around a detection engine:
// when to probe, whether the one per-session notification has fired, what
// is currently visible, and when timers hide it again. All state
// transitions happen on a single monitor goroutine; callers interact
// through small request channels and read state through Snapshot.
package guard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/just-josh-inc/extguard/pkg/detect"
	"github.com/just-josh-inc/extguard/pkg/logging"
)

var monitorLog *logging.Logger

func init() {
	var err error
	monitorLog, err = logging.NewLogger("guard")
	if err != nil {
		// Logger fell back to stderr due to initialization failure
		monitorLog.Warnf("Failed to initialize guard logger, using stderr fallback: %v", err)
	}
}

// roundResult carries one finished probe round from the worker goroutine
// back to the monitor loop.
type roundResult struct {
	round    int
	detected map[string]struct{}
	matches  []string
}

// dismissReq asks the monitor loop to hide the notification. done closes
// once the request has been applied or rejected.
type dismissReq struct {
	reason DismissReason
	done   chan struct{}
}

// Monitor drives detection rounds against an engine and presents the
// results according to its display mode. A monitor notifies at most once
// in its lifetime, runs at most one probe round at a time, and is
// single-use: once stopped it cannot be started again.
type Monitor struct {
	engine   *detect.Engine
	mode     DisplayMode
	unwanted []string
	cfg      settings

	sessionID string

	checkCh   chan struct{}
	dismissCh chan dismissReq
	stopCh    chan struct{}
	doneCh    chan struct{}
	roundCh   chan roundResult
	events    chan Event

	// state is written only by the monitor goroutine; the mutex makes
	// Snapshot reads atomic from any goroutine.
	mu    sync.Mutex
	state State

	lifeMu   sync.Mutex
	started  bool
	stopped  bool
	stopOnce sync.Once
}

// New creates a monitor over the given engine. The unwanted list names
// catalog extensions by display name; detection of any of them triggers
// the session's single notification in the given mode.
func New(engine *detect.Engine, mode DisplayMode, unwanted []string, opts ...Option) (*Monitor, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if len(unwanted) == 0 {
		return nil, fmt.Errorf("unwanted extension list cannot be empty")
	}

	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(mode); err != nil {
		return nil, err
	}

	m := &Monitor{
		engine:    engine,
		mode:      mode,
		unwanted:  append([]string(nil), unwanted...),
		cfg:       cfg,
		sessionID: uuid.New().String(),
		checkCh:   make(chan struct{}, 1),
		dismissCh: make(chan dismissReq),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		roundCh:   make(chan roundResult),
		events:    make(chan Event, cfg.eventBuffer),
	}
	m.state = State{
		SessionID:   m.sessionID,
		Mode:        mode,
		Title:       cfg.title,
		Description: cfg.description,
		Unwanted:    append([]string(nil), unwanted...),
		Matches:     []string{},
		LastRound:   []string{},
	}

	monitorLog.Debugf("Monitor created: session=%s mode=%s unwanted=%d interval=%s autoHide=%s",
		m.sessionID, mode, len(unwanted), cfg.checkInterval, cfg.autoHide)
	return m, nil
}

// Start runs the first probe round immediately and, when a check interval
// is configured, keeps re-checking until Stop. A monitor starts once:
// starting a running or stopped monitor is an error.
func (m *Monitor) Start(ctx context.Context) error {
	m.lifeMu.Lock()
	defer m.lifeMu.Unlock()

	if m.stopped {
		return fmt.Errorf("monitor is stopped")
	}
	if m.started {
		return fmt.Errorf("monitor is already running")
	}
	m.started = true

	go m.run(ctx)
	return nil
}

// Stop tears the monitor down: the recurring check and any pending
// auto-hide timer are cancelled, and an in-flight probe round is left to
// settle with its result discarded. Stop blocks until the monitor
// goroutine has exited and is safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })

	m.lifeMu.Lock()
	if !m.started && !m.stopped {
		// Never ran: there is no goroutine to wait for, but the monitor
		// still becomes terminal and its event stream still ends.
		m.stopped = true
		m.lifeMu.Unlock()
		close(m.events)
		close(m.doneCh)
		return
	}
	started := m.started
	m.lifeMu.Unlock()

	if started {
		<-m.doneCh
	}
}

// CheckNow requests an immediate probe round. Requests are coalesced:
// while a round is already in flight the request is dropped, not queued.
func (m *Monitor) CheckNow() {
	select {
	case m.checkCh <- struct{}{}:
	default:
	}
}

// Dismiss hides the notification at the user's request. It is a no-op
// when nothing is shown and for block mode, which cannot be dismissed.
// The per-session notification state is unaffected: dismissal never
// re-arms the notification.
func (m *Monitor) Dismiss() {
	if !m.Snapshot().Visible {
		return
	}

	req := dismissReq{reason: DismissReasonUser, done: make(chan struct{})}
	select {
	case m.dismissCh <- req:
		<-req.done
	case <-m.doneCh:
	}
}

// Snapshot returns an atomic copy of the monitor's state.
func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.state
	s.Unwanted = append([]string(nil), m.state.Unwanted...)
	s.Matches = append([]string(nil), m.state.Matches...)
	s.LastRound = append([]string(nil), m.state.LastRound...)
	return s
}

// Events returns the monitor's event stream. The channel closes once the
// monitor has stopped. Events are advisory; see Event.
func (m *Monitor) Events() <-chan Event {
	return m.events
}

// Done returns a channel that closes once the monitor has fully stopped.
func (m *Monitor) Done() <-chan struct{} {
	return m.doneCh
}

// SessionID returns this monitor's unique session identifier.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// run is the monitor goroutine. It owns every state transition and all
// timers; probe rounds execute on a worker goroutine and report back over
// roundCh so this loop stays responsive while a round is in flight.
func (m *Monitor) run(ctx context.Context) {
	defer close(m.doneCh)

	var tickC <-chan time.Time
	if m.cfg.checkInterval > 0 {
		ticker := time.NewTicker(m.cfg.checkInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	var hideTimer *time.Timer
	var hideC <-chan time.Time
	stopHide := func() {
		if hideTimer != nil {
			hideTimer.Stop()
			hideTimer = nil
			hideC = nil
		}
	}

	checking := false
	round := 0

	startRound := func() {
		if checking {
			// At most one round in flight: firings that land mid-round
			// are dropped, never queued.
			return
		}
		checking = true
		round++
		m.setChecking(true)
		m.emit(NewRoundStartedEvent(round))
		monitorLog.Debugf("Round %d started: session=%s", round, m.sessionID)
		go m.runRound(ctx, round)
	}

	startRound()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case <-m.stopCh:
			break loop

		case <-tickC:
			startRound()

		case <-m.checkCh:
			startRound()

		case res := <-m.roundCh:
			checking = false
			notified := m.applyRound(res)
			m.emit(NewRoundCompletedEvent(res.round, sortedNames(res.detected), res.matches))
			monitorLog.Debugf("Round %d completed: session=%s detected=%d matches=%d",
				res.round, m.sessionID, len(res.detected), len(res.matches))

			if notified {
				monitorLog.Infof("Notification fired: session=%s matches=%v", m.sessionID, res.matches)
				m.emit(NewDetectedEvent(res.round, res.matches))
				if m.cfg.onDetect != nil {
					m.cfg.onDetect(append([]string(nil), res.matches...))
				}
				if m.cfg.autoHide > 0 && m.mode.Renders() && m.mode.AllowsAutoHide() {
					hideTimer = time.NewTimer(m.cfg.autoHide)
					hideC = hideTimer.C
				}
			}

		case req := <-m.dismissCh:
			if m.mode.Dismissable() && m.setHidden() {
				stopHide()
				m.emit(NewDismissedEvent(req.reason))
				monitorLog.Debugf("Notification dismissed: session=%s reason=%s", m.sessionID, req.reason)
			}
			close(req.done)

		case <-hideC:
			hideTimer = nil
			hideC = nil
			if m.setHidden() {
				m.emit(NewDismissedEvent(DismissReasonTimer))
				monitorLog.Debugf("Notification auto-hidden: session=%s", m.sessionID)
			}
		}
	}

	stopHide()

	m.lifeMu.Lock()
	m.stopped = true
	m.lifeMu.Unlock()

	m.setChecking(false)
	m.emit(NewStoppedEvent())
	close(m.events)
	monitorLog.Debugf("Monitor stopped: session=%s rounds=%d", m.sessionID, round)
}

// runRound executes one probe round off the monitor goroutine. If the
// monitor stops while the round is settling, the result is discarded.
func (m *Monitor) runRound(ctx context.Context, round int) {
	detected := m.engine.Detect(ctx)
	matches := detect.Filter(m.engine.Catalog(), detected, m.unwanted)

	select {
	case m.roundCh <- roundResult{round: round, detected: detected, matches: matches}:
	case <-m.doneCh:
	}
}

// applyRound folds a finished round into the snapshot state and reports
// whether this round fired the session's single notification.
func (m *Monitor) applyRound(res roundResult) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Checking = false
	m.state.RoundsCompleted++
	m.state.LastRound = append([]string(nil), res.matches...)
	m.state.LastCheckedAt = time.Now()

	if len(res.matches) == 0 || m.state.HasNotified {
		// A later empty round does not hide an already-shown
		// notification; visibility only changes through dismissal,
		// auto-hide, or stop.
		return false
	}

	m.state.HasNotified = true
	m.state.Matches = append([]string(nil), res.matches...)
	if m.mode.Renders() {
		m.state.Visible = true
	}
	return true
}

// setHidden clears visibility and reports whether anything was shown.
func (m *Monitor) setHidden() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.Visible {
		return false
	}
	m.state.Visible = false
	return true
}

func (m *Monitor) setChecking(v bool) {
	m.mu.Lock()
	m.state.Checking = v
	m.mu.Unlock()
}

// emit delivers an event without ever blocking the monitor goroutine.
// When the buffer is full the event is dropped; Snapshot carries the
// authoritative state.
func (m *Monitor) emit(e Event) {
	select {
	case m.events <- e:
	default:
	}
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
