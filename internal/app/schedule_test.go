package service

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNextRun(t *testing.T) {
	Convey("Given a service scheduled for 06:30 in New York", t, func() {
		loc, err := time.LoadLocation("America/New_York")
		So(err, ShouldBeNil)

		svc := New(WithSchedule(6, 30, loc))

		Convey("When now is before the scheduled time", func() {
			now := time.Date(2026, 8, 25, 4, 0, 0, 0, loc)

			Convey("Then the next run is the same day", func() {
				next := svc.nextRun(now)
				So(next.Day(), ShouldEqual, 25)
				So(next.Hour(), ShouldEqual, 6)
				So(next.Minute(), ShouldEqual, 30)
			})
		})

		Convey("When now is past the scheduled time", func() {
			now := time.Date(2026, 8, 25, 7, 0, 0, 0, loc)

			Convey("Then the next run rolls to tomorrow", func() {
				next := svc.nextRun(now)
				So(next.Day(), ShouldEqual, 26)
				So(next.Hour(), ShouldEqual, 6)
			})
		})

		Convey("When now is exactly the scheduled time", func() {
			now := time.Date(2026, 8, 25, 6, 30, 0, 0, loc)

			Convey("Then the next run is strictly after now", func() {
				next := svc.nextRun(now)
				So(next.After(now), ShouldBeTrue)
				So(next.Day(), ShouldEqual, 26)
			})
		})

		Convey("When the clocks change overnight", func() {
			// 2026-11-01 is the fall-back date in the US
			now := time.Date(2026, 10, 31, 7, 0, 0, 0, loc)

			Convey("Then the wall-clock time still holds", func() {
				next := svc.nextRun(now)
				So(next.Day(), ShouldEqual, 1)
				So(next.Month(), ShouldEqual, time.November)
				So(next.Hour(), ShouldEqual, 6)
				So(next.Minute(), ShouldEqual, 30)
			})
		})
	})
}
