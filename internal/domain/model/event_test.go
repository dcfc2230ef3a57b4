package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/domain/model"
)

func TestAlertTypes(t *testing.T) {
	Convey("Given object alert type derivation", t, func() {
		Convey("When the label has spaces", func() {
			So(model.ObjectAlert("cell phone"), ShouldEqual, model.AlertType("OBJECT_DETECTED_CELL_PHONE"))
		})

		Convey("When the label is a single word", func() {
			So(model.ObjectAlert("book"), ShouldEqual, model.AlertType("OBJECT_DETECTED_BOOK"))
		})

		Convey("When the label has surrounding whitespace", func() {
			So(model.ObjectAlert("  remote "), ShouldEqual, model.AlertType("OBJECT_DETECTED_REMOTE"))
		})
	})

	Convey("Given the object predicate", t, func() {
		So(model.ObjectAlert("laptop").IsObject(), ShouldBeTrue)
		So(model.AlertCandidateAbsent.IsObject(), ShouldBeFalse)
		So(model.AlertLookingAway.IsObject(), ShouldBeFalse)
	})

	Convey("Given the timing defaults", t, func() {
		Convey("Then sustain windows match per type", func() {
			So(model.AlertCandidateAbsent.Sustain(), ShouldEqual, 10*time.Second)
			So(model.AlertLookingAway.Sustain(), ShouldEqual, 5*time.Second)
			So(model.AlertMultipleFaces.Sustain(), ShouldEqual, time.Duration(0))
			So(model.ObjectAlert("book").Sustain(), ShouldEqual, time.Duration(0))
		})

		Convey("Then cooldown windows match per type", func() {
			So(model.AlertCandidateAbsent.Cooldown(), ShouldEqual, 20*time.Second)
			So(model.AlertLookingAway.Cooldown(), ShouldEqual, 15*time.Second)
			So(model.AlertMultipleFaces.Cooldown(), ShouldEqual, 15*time.Second)
			So(model.ObjectAlert("mouse").Cooldown(), ShouldEqual, 15*time.Second)
		})
	})
}
