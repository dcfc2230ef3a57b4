package simulate_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/domain/model"
	"github.com/okian/vigil/internal/simulate"
	"github.com/okian/vigil/pkg/logger"
)

func steadyFace() model.Face {
	return model.Face{Landmarks: map[string]model.Landmark{
		model.LandmarkLeftEye:  {X: 0.40, Y: 0.35},
		model.LandmarkRightEye: {X: 0.60, Y: 0.35},
		model.LandmarkNoseTip:  {X: 0.50, Y: 0.50},
	}}
}

func framesWithFace(n int) []provider.Frame {
	frames := make([]provider.Frame, n)
	for i := range frames {
		frames[i] = provider.Frame{Faces: []model.Face{steadyFace()}}
	}
	return frames
}

func framesWithPhone(n int) []provider.Frame {
	frames := make([]provider.Frame, n)
	for i := range frames {
		frames[i] = provider.Frame{
			Faces: []model.Face{steadyFace()},
			Objects: []model.Detection{{
				Label:      "cell phone",
				Confidence: 0.9,
				Box:        model.Box{X: 0.1, Y: 0.6, W: 0.15, H: 0.1},
			}},
		}
	}
	return frames
}

func TestScenarioCatalog(t *testing.T) {
	Convey("Given the scenario catalog", t, func() {
		all := simulate.Scenarios()

		Convey("Then every scenario has a name, description and frames", func() {
			So(len(all), ShouldBeGreaterThan, 0)
			for _, s := range all {
				So(s.Name, ShouldNotBeEmpty)
				So(s.Description, ShouldNotBeEmpty)
				So(len(s.Frames), ShouldBeGreaterThan, 0)
			}
		})

		Convey("When looking scenarios up by name", func() {
			s, ok := simulate.ByName("mixed")
			So(ok, ShouldBeTrue)
			So(s.Name, ShouldEqual, "mixed")

			s, ok = simulate.ByName("ABSENCE")
			So(ok, ShouldBeTrue)
			So(s.Name, ShouldEqual, "absence")

			_, ok = simulate.ByName("nope")
			So(ok, ShouldBeFalse)
		})

		Convey("When listing names", func() {
			So(simulate.Names(), ShouldContain, "clean")
			So(len(simulate.Names()), ShouldEqual, len(all))
		})

		Convey("When building a script", func() {
			s, _ := simulate.ByName("phone")
			script := s.Script(10 * time.Millisecond)
			So(script, ShouldNotBeNil)
			So(s.Duration(10*time.Millisecond), ShouldEqual, time.Duration(len(s.Frames))*10*time.Millisecond)
		})
	})
}

func TestRunner(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a scenario where a phone reappears after the cooldown", t, func() {
		// At a 10ms tick the object cooldown compresses to 300ms, so a
		// second sighting 500ms after the first must fire again.
		var frames []provider.Frame
		frames = append(frames, framesWithPhone(5)...)
		frames = append(frames, framesWithFace(50)...)
		frames = append(frames, framesWithPhone(5)...)
		frames = append(frames, framesWithFace(3)...)
		scenario := simulate.Scenario{
			Name:        "phone-twice",
			Description: "the phone comes back out once the coast seems clear",
			Frames:      frames,
		}

		runner := simulate.NewRunner(scenario, simulate.WithTick(10*time.Millisecond))

		Convey("When the runner replays it", func() {
			report, err := runner.Run(ctx)

			Convey("Then both sightings show up in the report", func() {
				So(err, ShouldBeNil)
				phones := 0
				for _, ev := range report.Events {
					if ev.Event == "OBJECT_DETECTED_CELL_PHONE" {
						phones++
					}
				}
				So(phones, ShouldEqual, 2)
			})
		})
	})

	Convey("Given the multiple_faces scenario on a compressed clock", t, func() {
		scenario, ok := simulate.ByName("multiple_faces")
		So(ok, ShouldBeTrue)

		runner := simulate.NewRunner(scenario, simulate.WithTick(10*time.Millisecond))

		Convey("When the runner replays it", func() {
			report, err := runner.Run(ctx)

			Convey("Then the report shows the violation", func() {
				So(err, ShouldBeNil)
				So(report.SessionID, ShouldNotBeEmpty)
				So(report.SessionStats.TotalEvents, ShouldBeGreaterThanOrEqualTo, 1)
				So(report.IntegrityScore, ShouldBeLessThan, 100)

				found := false
				for _, ev := range report.Events {
					if ev.Event == "MULTIPLE_FACES" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
