// Package classify turns one frame's raw provider output into boolean
// condition signals, one per alert type.
package classify

import (
	"fmt"
	"math"

	"github.com/okian/vigil/internal/domain/model"
)

// Default classifier thresholds.
const (
	defaultGazeRatio     = 0.4
	defaultMinConfidence = 0.65
)

// defaultTargetObjects is the fixed set of suspicious object labels.
var defaultTargetObjects = []string{
	"cell phone",
	"book",
	"laptop",
	"mouse",
	"keyboard",
	"remote",
}

// Signal is the per-tick boolean value of one condition, plus the
// message and details an alert would carry if it fires.
type Signal struct {
	Type    model.AlertType
	Active  bool
	Message string
	Details map[string]any
}

// Classifier evaluates condition signals for a frame. It is stateless
// and pure: the same frame inputs always yield the same signal values.
type Classifier struct {
	gazeRatio     float64
	minConfidence float64
	targets       []string
}

// New creates a classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		gazeRatio:     defaultGazeRatio,
		minConfidence: defaultMinConfidence,
		targets:       defaultTargetObjects,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Types returns the fixed alert type enumeration the classifier covers,
// in a stable order.
func (c *Classifier) Types() []model.AlertType {
	types := []model.AlertType{
		model.AlertCandidateAbsent,
		model.AlertLookingAway,
		model.AlertMultipleFaces,
	}
	for _, label := range c.targets {
		types = append(types, model.ObjectAlert(label))
	}
	return types
}

// Classify produces the current signal value for every alert type given
// one frame's face and object results.
func (c *Classifier) Classify(faces []model.Face, objects []model.Detection) []Signal {
	signals := []Signal{
		{
			Type:    model.AlertCandidateAbsent,
			Active:  len(faces) == 0,
			Message: "Candidate is not visible.",
		},
		c.gazeSignal(faces),
		{
			Type:    model.AlertMultipleFaces,
			Active:  len(faces) > 1,
			Message: fmt.Sprintf("%d faces detected in the frame.", len(faces)),
		},
	}

	for _, label := range c.targets {
		signals = append(signals, c.objectSignal(label, objects))
	}

	return signals
}

// gazeSignal evaluates looking_away. It is computed only when exactly
// one face is present; a malformed face (missing landmarks) fails
// closed to an inactive signal rather than a violation.
func (c *Classifier) gazeSignal(faces []model.Face) Signal {
	s := Signal{
		Type:    model.AlertLookingAway,
		Message: "Candidate is looking away from the screen.",
	}
	if len(faces) != 1 {
		return s
	}

	nose, ok := faces[0].Landmarks[model.LandmarkNoseTip]
	if !ok {
		return s
	}
	leftEye, ok := faces[0].Landmarks[model.LandmarkLeftEye]
	if !ok {
		return s
	}
	rightEye, ok := faces[0].Landmarks[model.LandmarkRightEye]
	if !ok {
		return s
	}

	// Ratio of nose offset to eye distance is scale-invariant, so the
	// threshold holds regardless of how close the face is to the camera.
	eyeMidpointX := (leftEye.X + rightEye.X) / 2
	horizontalGaze := math.Abs(nose.X - eyeMidpointX)
	eyeDistance := math.Abs(leftEye.X - rightEye.X)

	s.Active = horizontalGaze > eyeDistance*c.gazeRatio
	return s
}

// objectSignal evaluates object:<label> against the frame's detections.
// Details carry the best matching detection.
func (c *Classifier) objectSignal(label string, objects []model.Detection) Signal {
	s := Signal{
		Type:    model.ObjectAlert(label),
		Message: fmt.Sprintf("Suspicious object detected: %s.", label),
	}
	best := -1.0
	for _, obj := range objects {
		if obj.Label != label || obj.Confidence < c.minConfidence {
			continue
		}
		if obj.Confidence > best {
			best = obj.Confidence
		}
	}
	if best >= 0 {
		s.Active = true
		s.Details = map[string]any{
			"object":     label,
			"confidence": math.Round(best*100) / 100,
		}
	}
	return s
}
