// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// AlertType identifies one kind of integrity violation.
type AlertType string

// Fixed alert types. Object alerts are derived per target label via
// ObjectAlert.
const (
	AlertCandidateAbsent AlertType = "CANDIDATE_ABSENT"
	AlertLookingAway     AlertType = "LOOKING_AWAY"
	AlertMultipleFaces   AlertType = "MULTIPLE_FACES"
)

// ObjectAlertPrefix prefixes every object-detection alert type.
const ObjectAlertPrefix = "OBJECT_DETECTED_"

// Default debounce timing per alert type. A sustain of zero fires on the
// first true observation; a single frame of a second face or a detected
// object is already actionable.
const (
	AbsentSustain      = 10 * time.Second
	LookingAwaySustain = 5 * time.Second

	DefaultCooldown = 15 * time.Second
	AbsentCooldown  = 20 * time.Second
)

// ObjectAlert builds the alert type for a target object label,
// e.g. "cell phone" -> OBJECT_DETECTED_CELL_PHONE.
func ObjectAlert(label string) AlertType {
	suffix := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
	return AlertType(ObjectAlertPrefix + suffix)
}

// IsObject reports whether t is an object-detection alert.
func (t AlertType) IsObject() bool {
	return strings.HasPrefix(string(t), ObjectAlertPrefix)
}

// Sustain returns how long the condition must hold continuously before
// the alert fires.
func (t AlertType) Sustain() time.Duration {
	switch t {
	case AlertCandidateAbsent:
		return AbsentSustain
	case AlertLookingAway:
		return LookingAwaySustain
	default:
		return 0
	}
}

// Cooldown returns how long after firing the alert stays suppressed.
func (t AlertType) Cooldown() time.Duration {
	if t == AlertCandidateAbsent {
		return AbsentCooldown
	}
	return DefaultCooldown
}

// Event is one immutable integrity violation record. Created by the
// debounce tracker, appended to the event sink, never mutated.
type Event struct {
	EventID   string
	SessionID string
	Type      AlertType
	Timestamp time.Time
	Message   string
	Details   map[string]any
}
