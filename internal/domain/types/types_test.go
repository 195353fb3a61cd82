package types_test

import (
	"errors"
	"testing"

	types "github.com/reefscout/reefscout/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSource(t *testing.T) {
	Convey("Given source strings", t, func() {
		Convey("When parsing known values", func() {
			Convey("Then live and prescout resolve", func() {
				s, err := types.ParseSource("")
				So(err, ShouldBeNil)
				So(s, ShouldEqual, types.SourceLive)

				s, err = types.ParseSource("Prescout")
				So(err, ShouldBeNil)
				So(s, ShouldEqual, types.SourcePrescout)
			})

			Convey("Then the misspelled presecout is a synonym", func() {
				s, err := types.ParseSource("presecout")
				So(err, ShouldBeNil)
				So(s, ShouldEqual, types.SourcePrescout)
			})
		})

		Convey("When parsing an unknown value", func() {
			_, err := types.ParseSource("archive")

			Convey("Then it should fail with ErrInvalidSelector", func() {
				So(errors.Is(err, types.ErrInvalidSelector), ShouldBeTrue)
			})
		})
	})
}

func TestParseModeZeroMetric(t *testing.T) {
	Convey("Given mode, zero and metric strings", t, func() {
		m, err := types.ParseMode("TOP50")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, types.ModeTop50)

		m, err = types.ParseMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, types.ModeAverage)

		_, err = types.ParseMode("median")
		So(errors.Is(err, types.ErrInvalidSelector), ShouldBeTrue)

		z, err := types.ParseZeroHandling("exclude")
		So(err, ShouldBeNil)
		So(z, ShouldEqual, types.ZeroExclude)

		_, err = types.ParseZeroHandling("drop")
		So(err, ShouldNotBeNil)

		metric, err := types.ParseMetric("count")
		So(err, ShouldBeNil)
		So(metric, ShouldEqual, types.MetricCount)
	})
}

func TestParseQuery(t *testing.T) {
	Convey("Given a default query", t, func() {
		base := types.DefaultQuery()

		Convey("When only some selectors are provided", func() {
			q, err := types.ParseQuery(base, "prescout", "", "exclude", "")

			Convey("Then the rest fall back to the base", func() {
				So(err, ShouldBeNil)
				So(q, ShouldResemble, types.Query{
					Source: types.SourcePrescout,
					Mode:   types.ModeAverage,
					Zero:   types.ZeroExclude,
					Metric: types.MetricEPA,
				})
			})
		})

		Convey("When one selector is invalid", func() {
			_, err := types.ParseQuery(base, "", "", "", "elo")

			Convey("Then the whole query is rejected", func() {
				So(errors.Is(err, types.ErrInvalidSelector), ShouldBeTrue)
			})
		})
	})
}
