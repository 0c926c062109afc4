package periods_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/pragati/internal/domain/periods"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPeriodTokens(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	Convey("Given rating tokens", t, func() {
		w, err := periods.Rating("90d", now)
		So(err, ShouldBeNil)
		So(w.Days, ShouldEqual, 90)
		So(w.Start, ShouldEqual, now.AddDate(0, 0, -90))
		So(w.Label(), ShouldEqual, "Last 90 days")

		def, err := periods.Rating("", now)
		So(err, ShouldBeNil)
		So(def.Days, ShouldEqual, 30)

		_, err = periods.Rating("7d", now)
		So(errors.Is(err, periods.ErrInvalidPeriod), ShouldBeTrue)
	})

	Convey("Given overview tokens", t, func() {
		w, err := periods.Overview("7d", now)
		So(err, ShouldBeNil)
		So(w.Days, ShouldEqual, 7)

		_, err = periods.Overview("365d", now)
		So(errors.Is(err, periods.ErrInvalidPeriod), ShouldBeTrue)
	})

	Convey("Given trend ranges", t, func() {
		for token, days := range map[string]int{"week": 7, "month": 30, "quarter": 90, "year": 365} {
			w, err := periods.Trend(token, now)
			So(err, ShouldBeNil)
			So(w.Days, ShouldEqual, days)
		}
		_, err := periods.Trend("decade", now)
		So(errors.Is(err, periods.ErrInvalidPeriod), ShouldBeTrue)
	})

	Convey("Given lookback days", t, func() {
		w, err := periods.Lookback(0, now)
		So(err, ShouldBeNil)
		So(w.Days, ShouldEqual, periods.DefaultLookbackDays)

		_, err = periods.Lookback(400, now)
		So(errors.Is(err, periods.ErrInvalidPeriod), ShouldBeTrue)
		_, err = periods.Lookback(-1, now)
		So(errors.Is(err, periods.ErrInvalidPeriod), ShouldBeTrue)
	})

	Convey("Given a window", t, func() {
		w := periods.Ending(now, 7)
		So(w.Contains(now), ShouldBeTrue)
		So(w.Contains(now.AddDate(0, 0, -7)), ShouldBeTrue)
		So(w.Contains(now.AddDate(0, 0, -8)), ShouldBeFalse)
		So(w.Contains(now.Add(time.Second)), ShouldBeFalse)
	})
}
