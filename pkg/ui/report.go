package ui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/just-josh-inc/extguard/pkg/guard"
)

// Report is the machine-readable summary of a monitor session.
type Report struct {
	SessionID       string    `json:"session_id"`
	Mode            string    `json:"mode"`
	GeneratedAt     time.Time `json:"generated_at"`
	Unwanted        []string  `json:"unwanted"`
	Matches         []string  `json:"matches"`
	LastRound       []string  `json:"last_round"`
	RoundsCompleted int       `json:"rounds_completed"`
	HasNotified     bool      `json:"has_notified"`
	LastCheckedAt   time.Time `json:"last_checked_at"`
}

// BuildReport summarizes a monitor snapshot.
func BuildReport(state guard.State) Report {
	return Report{
		SessionID:       state.SessionID,
		Mode:            string(state.Mode),
		GeneratedAt:     time.Now(),
		Unwanted:        state.Unwanted,
		Matches:         state.Matches,
		LastRound:       state.LastRound,
		RoundsCompleted: state.RoundsCompleted,
		HasNotified:     state.HasNotified,
		LastCheckedAt:   state.LastCheckedAt,
	}
}

// FormatReport renders a report as indented JSON.
func FormatReport(r Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data), nil
}

// HighlightReport applies terminal syntax highlighting to a JSON report.
// Callers fall back to the plain report when highlighting fails.
func HighlightReport(jsonReport string) (string, error) {
	var b strings.Builder
	if err := quick.Highlight(&b, jsonReport, "json", "terminal256", "monokai"); err != nil {
		return "", fmt.Errorf("failed to highlight report: %w", err)
	}
	return b.String(), nil
}
