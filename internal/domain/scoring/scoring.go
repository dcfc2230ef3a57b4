// Package scoring computes the integrity score and report for a
// session from its ordered event log.
package scoring

import (
	"math"
	"time"

	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/domain/types"
)

// Default scoring configuration constants.
const (
	maxScore         = 100
	defaultDeduction = 10
)

// DeductionTable maps alert types to integer point deductions. It is
// immutable process-wide configuration.
type DeductionTable map[model.AlertType]int

// DefaultDeductions returns the standard deduction weights.
func DefaultDeductions() DeductionTable {
	return DeductionTable{
		model.AlertCandidateAbsent:      15,
		model.AlertMultipleFaces:        25,
		model.AlertLookingAway:          8,
		model.ObjectAlert("cell phone"): 20,
		model.ObjectAlert("book"):       15,
		model.ObjectAlert("laptop"):     10,
		model.ObjectAlert("mouse"):      5,
		model.ObjectAlert("keyboard"):   5,
		model.ObjectAlert("remote"):     10,
	}
}

// Aggregator derives a Report from an ordered event sequence. It is a
// pure function of its inputs: the same event log always yields a
// byte-identical report.
type Aggregator struct {
	deductions       DeductionTable
	defaultDeduction int
	objectFallback   model.AlertType
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		deductions:       DefaultDeductions(),
		defaultDeduction: defaultDeduction,
		// Unrecognized OBJECT_DETECTED_* subtypes deduct the cell-phone
		// weight rather than the generic default. Deliberate policy,
		// see DESIGN.md.
		objectFallback: model.ObjectAlert("cell phone"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate computes the report for a session. The events must already
// be ordered ascending by timestamp, as the sink contract guarantees.
// Returns ErrNoEvents for an empty log so callers can distinguish "no
// data yet" from a perfect score.
func (a *Aggregator) Aggregate(sessionID string, events []model.Event, candidateName string) (types.Report, error) {
	if len(events) == 0 {
		return types.Report{}, ErrNoEvents
	}

	startTime := events[0].Timestamp
	endTime := events[len(events)-1].Timestamp

	score := maxScore
	focusLost := 0
	reportEvents := make([]types.ReportEvent, 0, len(events))

	for _, ev := range events {
		score -= a.deductionFor(ev.Type)
		if score < 0 {
			score = 0
		}

		if ev.Type == model.AlertLookingAway || ev.Type == model.AlertCandidateAbsent {
			focusLost++
		}

		reportEvents = append(reportEvents, types.ReportEvent{
			Timestamp: ev.Timestamp,
			Event:     string(ev.Type),
			Details:   ev.Details,
		})
	}

	return types.Report{
		SessionID:      sessionID,
		CandidateName:  candidateName,
		Duration:       types.FormatDuration(endTime.Sub(startTime)),
		IntegrityScore: score,
		FocusLostCount: focusLost,
		Events:         reportEvents,
		SessionStats: types.SessionStats{
			TotalEvents:     len(events),
			StartTime:       startTime,
			EndTime:         endTime,
			EventsPerMinute: eventsPerMinute(len(events), endTime.Sub(startTime)),
		},
	}, nil
}

// deductionFor looks up the deduction weight for an alert type.
func (a *Aggregator) deductionFor(at model.AlertType) int {
	if d, ok := a.deductions[at]; ok {
		return d
	}
	if at.IsObject() {
		if d, ok := a.deductions[a.objectFallback]; ok {
			return d
		}
	}
	return a.defaultDeduction
}

// eventsPerMinute returns the event rate rounded to 2 decimal places.
// A single-event session has zero elapsed time; the rate is reported as
// zero rather than dividing by it.
func eventsPerMinute(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	rate := float64(count) / elapsed.Minutes()
	return math.Round(rate*100) / 100
}
