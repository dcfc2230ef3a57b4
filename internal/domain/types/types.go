// Package types contains common types used across the application
package types

import (
	"fmt"
	"time"
)

// ReportEvent is one violation as it appears in a report.
type ReportEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Details   map[string]any `json:"details"`
}

// SessionStats summarizes the event stream of a session.
type SessionStats struct {
	TotalEvents     int       `json:"total_events"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	EventsPerMinute float64   `json:"events_per_minute"`
}

// Report is the derived integrity report for one session. It is
// recomputed on every request and never stored.
type Report struct {
	SessionID      string        `json:"session_id"`
	CandidateName  string        `json:"candidate_name"`
	Duration       string        `json:"duration"`
	IntegrityScore int           `json:"integrity_score"`
	FocusLostCount int           `json:"focus_lost_count"`
	Events         []ReportEvent `json:"events"`
	SessionStats   SessionStats  `json:"session_stats"`
}

// SessionActivity is the real-time stats view of one session.
type SessionActivity struct {
	IsActive     bool      `json:"is_active"`
	TotalEvents  int       `json:"total_events"`
	RecentEvents []Alert   `json:"recent_events"`
	LastActivity time.Time `json:"last_activity,omitzero"`
	Duration     string    `json:"session_duration,omitempty"`
}

// FormatDuration renders an elapsed duration as MM:SS.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// Alert is the shape delivered to live alert consumers, fired exactly
// once per emitted event.
type Alert struct {
	SessionID string         `json:"session_id"`
	AlertType string         `json:"alert_type"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
