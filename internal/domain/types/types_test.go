package types_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/vigil/internal/domain/types"
)

func TestFormatDuration(t *testing.T) {
	Convey("Given elapsed durations", t, func() {
		cases := []struct {
			in   time.Duration
			want string
		}{
			{0, "00:00"},
			{5 * time.Second, "00:05"},
			{65 * time.Second, "01:05"},
			{10 * time.Minute, "10:00"},
			{99*time.Minute + 59*time.Second, "99:59"},
			{-3 * time.Second, "00:00"},
			{1500 * time.Millisecond, "00:01"},
		}

		Convey("Then each renders as MM:SS", func() {
			for _, c := range cases {
				So(types.FormatDuration(c.in), ShouldEqual, c.want)
			}
		})
	})
}
