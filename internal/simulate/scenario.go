// Package simulate generates scripted detection scenarios and replays
// them through the monitoring pipeline.
package simulate

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/domain/model"
)

// landmark jitter keeps scripted faces organic without crossing the
// gaze threshold.
const jitter = 0.01

// Scenario is a named scripted detection sequence.
type Scenario struct {
	Name        string
	Description string
	Frames      []provider.Frame
}

// Script builds a replayable provider advancing one frame per interval.
func (s Scenario) Script(interval time.Duration) *provider.Script {
	return provider.NewScript(s.Frames, interval)
}

// Duration returns the wall-clock length of the scenario at the given
// frame interval.
func (s Scenario) Duration(interval time.Duration) time.Duration {
	return time.Duration(len(s.Frames)) * interval
}

// Scenarios returns the built-in scenario catalog.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "clean",
			Description: "candidate stays present and focused for the whole session",
			Frames:      repeat(presentFrame, 40),
		},
		{
			Name:        "absence",
			Description: "candidate leaves the frame long enough to trip the absence alert",
			Frames: concat(
				repeat(presentFrame, 6),
				repeat(absentFrame, 26),
				repeat(presentFrame, 8),
			),
		},
		{
			Name:        "looking_away",
			Description: "candidate repeatedly looks away from the screen",
			Frames: concat(
				repeat(presentFrame, 4),
				repeat(awayFrame, 14),
				repeat(presentFrame, 6),
				repeat(awayFrame, 14),
				repeat(presentFrame, 4),
			),
		},
		{
			Name:        "multiple_faces",
			Description: "a second person appears next to the candidate",
			Frames: concat(
				repeat(presentFrame, 8),
				repeat(multiFaceFrame, 10),
				repeat(presentFrame, 10),
			),
		},
		{
			Name:        "phone",
			Description: "a cell phone shows up on the desk mid-session",
			Frames: concat(
				repeat(presentFrame, 10),
				repeat(func() provider.Frame { return objectFrame("cell phone") }, 12),
				repeat(presentFrame, 8),
			),
		},
		{
			Name:        "mixed",
			Description: "absence, distraction and a suspicious object in one session",
			Frames: concat(
				repeat(presentFrame, 4),
				repeat(absentFrame, 24),
				repeat(presentFrame, 4),
				repeat(awayFrame, 14),
				repeat(func() provider.Frame { return objectFrame("book") }, 10),
				repeat(presentFrame, 4),
			),
		},
	}
}

// ByName looks up a scenario by its catalog name.
func ByName(name string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Scenario{}, false
}

// Names returns the catalog names in order.
func Names() []string {
	all := Scenarios()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

func repeat(build func() provider.Frame, n int) []provider.Frame {
	frames := make([]provider.Frame, n)
	for i := range frames {
		frames[i] = build()
	}
	return frames
}

func concat(chunks ...[]provider.Frame) []provider.Frame {
	var out []provider.Frame
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func wiggle(v float64) float64 {
	return v + gofakeit.Float64Range(-jitter, jitter)
}

func focusedFace() model.Face {
	return model.Face{Landmarks: map[string]model.Landmark{
		model.LandmarkLeftEye:  {X: wiggle(0.40), Y: wiggle(0.35)},
		model.LandmarkRightEye: {X: wiggle(0.60), Y: wiggle(0.35)},
		model.LandmarkNoseTip:  {X: wiggle(0.50), Y: wiggle(0.50)},
	}}
}

func presentFrame() provider.Frame {
	return provider.Frame{Faces: []model.Face{focusedFace()}}
}

func absentFrame() provider.Frame {
	return provider.Frame{}
}

func awayFrame() provider.Frame {
	// Nose well past the gaze threshold relative to the eye midpoint.
	return provider.Frame{Faces: []model.Face{{Landmarks: map[string]model.Landmark{
		model.LandmarkLeftEye:  {X: wiggle(0.40), Y: wiggle(0.35)},
		model.LandmarkRightEye: {X: wiggle(0.60), Y: wiggle(0.35)},
		model.LandmarkNoseTip:  {X: wiggle(0.64), Y: wiggle(0.50)},
	}}}}
}

func multiFaceFrame() provider.Frame {
	second := model.Face{Landmarks: map[string]model.Landmark{
		model.LandmarkLeftEye:  {X: wiggle(0.70), Y: wiggle(0.35)},
		model.LandmarkRightEye: {X: wiggle(0.90), Y: wiggle(0.35)},
		model.LandmarkNoseTip:  {X: wiggle(0.80), Y: wiggle(0.50)},
	}}
	return provider.Frame{Faces: []model.Face{focusedFace(), second}}
}

func objectFrame(label string) provider.Frame {
	return provider.Frame{
		Faces: []model.Face{focusedFace()},
		Objects: []model.Detection{{
			Label:      label,
			Confidence: gofakeit.Float64Range(0.70, 0.95),
			Box:        model.Box{X: wiggle(0.1), Y: wiggle(0.6), W: 0.15, H: 0.1},
		}},
	}
}
