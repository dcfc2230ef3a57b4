package provider_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/adapters/provider"
	"github.com/okian/vigil/internal/domain/model"
)

func TestScript(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty script", t, func() {
		s := provider.NewScript(nil, 10*time.Millisecond)

		Convey("When detecting", func() {
			_, err := s.DetectFaces(ctx)

			Convey("Then it reports not ready", func() {
				So(errors.Is(err, provider.ErrNotReady), ShouldBeTrue)
			})
		})
	})

	Convey("Given a two-frame script", t, func() {
		frames := []provider.Frame{
			{Faces: []model.Face{{}}},
			{Objects: []model.Detection{{Label: "book", Confidence: 0.9}}},
		}
		s := provider.NewScript(frames, 30*time.Millisecond)

		Convey("When reading within the first interval", func() {
			faces, err := s.DetectFaces(ctx)
			So(err, ShouldBeNil)
			objects, err := s.DetectObjects(ctx)
			So(err, ShouldBeNil)

			Convey("Then both reads see the first frame", func() {
				So(len(faces), ShouldEqual, 1)
				So(objects, ShouldBeEmpty)
			})
		})

		Convey("When the script advances past the first frame", func() {
			_, _ = s.DetectFaces(ctx) // starts the clock
			time.Sleep(40 * time.Millisecond)

			faces, err := s.DetectFaces(ctx)
			So(err, ShouldBeNil)
			objects, err := s.DetectObjects(ctx)
			So(err, ShouldBeNil)

			Convey("Then reads see the second frame", func() {
				So(faces, ShouldBeEmpty)
				So(len(objects), ShouldEqual, 1)
			})
		})

		Convey("When the script runs out of frames", func() {
			_, _ = s.DetectFaces(ctx)
			time.Sleep(100 * time.Millisecond)

			objects, err := s.DetectObjects(ctx)

			Convey("Then the last frame repeats", func() {
				So(err, ShouldBeNil)
				So(len(objects), ShouldEqual, 1)
			})
		})
	})
}
