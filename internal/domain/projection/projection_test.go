package projection_test

import (
	"errors"
	"testing"

	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func team(n int, auton, teleop, climb float64, matches int) scoring.TeamAggregate {
	return scoring.TeamAggregate{
		TeamNumber:   n,
		AutonPoints:  auton,
		TeleopPoints: teleop,
		ClimbPoints:  climb,
		TotalPoints:  auton + teleop + climb,
		MatchCount:   matches,
	}
}

func TestSummarize(t *testing.T) {
	Convey("Given an alliance of three teams", t, func() {
		a := projection.Summarize([]scoring.TeamAggregate{
			team(1, 10, 20, 12, 12),
			team(2, 5, 10, 6, 3),
			team(3, 0, 0, 0, 0),
		})

		Convey("Then phase scores are summed", func() {
			So(a.Teams, ShouldResemble, []int{1, 2, 3})
			So(a.Auton, ShouldEqual, 15)
			So(a.Teleop, ShouldEqual, 30)
			So(a.Endgame, ShouldEqual, 18)
			So(a.Total, ShouldEqual, 63)
		})

		Convey("Then climb reliability averages capped climb ratios", func() {
			So(a.ClimbReliability, ShouldAlmostEqual, (1+0.5+0)/3, 1e-9)
		})

		Convey("Then confidence rewards match count", func() {
			// 12 matches: 0.7+0.3; 3 matches: 0.175+0.3; 0 matches: 0.
			So(a.Confidence, ShouldAlmostEqual, (1.0+0.475+0)/3, 1e-9)
		})
	})

	Convey("Given an empty alliance", t, func() {
		a := projection.Summarize(nil)
		So(a.Total, ShouldEqual, 0)
		So(a.ClimbReliability, ShouldEqual, 0)
		So(a.Confidence, ShouldEqual, 0)
	})
}

func TestProject(t *testing.T) {
	Convey("Given two all-zero alliances", t, func() {
		zero := []scoring.TeamAggregate{team(1, 0, 0, 0, 0), team(2, 0, 0, 0, 0)}
		other := []scoring.TeamAggregate{team(3, 0, 0, 0, 0), team(4, 0, 0, 0, 0)}
		res := projection.Project(zero, other)

		Convey("Then the split is exactly 50/50", func() {
			So(res.Momentum, ShouldEqual, 0)
			So(res.Red.WinPercent, ShouldEqual, 50.0)
			So(res.Blue.WinPercent, ShouldEqual, 50.0)
		})
	})

	Convey("Given a stronger red alliance", t, func() {
		red := []scoring.TeamAggregate{team(254, 12, 40, 12, 12), team(1114, 10, 30, 8, 10)}
		blue := []scoring.TeamAggregate{team(118, 6, 20, 4, 4), team(971, 3, 15, 0, 2)}
		ab := projection.Project(red, blue)
		ba := projection.Project(blue, red)

		Convey("Then red is favoured and the percentages sum to 100", func() {
			So(ab.Momentum, ShouldBeGreaterThan, 0)
			So(ab.Red.WinPercent, ShouldBeGreaterThan, 50)
			So(ab.Red.WinPercent+ab.Blue.WinPercent, ShouldEqual, 100)
		})

		Convey("Then swapping the alliances mirrors the result", func() {
			So(ba.Momentum, ShouldEqual, -ab.Momentum)
			So(ba.Blue.WinPercent, ShouldEqual, ab.Red.WinPercent)
			So(ba.Red.WinPercent, ShouldEqual, ab.Blue.WinPercent)
		})

		Convey("Then the favourite's share is rounded to two decimals", func() {
			p := ab.Red.WinPercent * 100
			So(p, ShouldAlmostEqual, float64(int64(p+0.5)), 1e-6)
		})
	})

	Convey("Given custom weights that only look at totals", t, func() {
		w := projection.Weights{Total: 1}
		res := w.Project(
			[]scoring.TeamAggregate{team(1, 0, 0, 0, 0)},
			[]scoring.TeamAggregate{team(2, 0, 1, 0, 0)},
		)

		Convey("Then blue wins by sigmoid(1)", func() {
			So(res.Momentum, ShouldEqual, -1)
			So(res.Blue.WinPercent, ShouldEqual, 73.11)
			So(res.Red.WinPercent, ShouldAlmostEqual, 26.89, 1e-9)
		})
	})
}

func TestProjectChecked(t *testing.T) {
	Convey("Given alliances of invalid size", t, func() {
		four := []scoring.TeamAggregate{team(1, 0, 0, 0, 0), team(2, 0, 0, 0, 0), team(3, 0, 0, 0, 0), team(4, 0, 0, 0, 0)}
		one := []scoring.TeamAggregate{team(5, 0, 0, 0, 0)}

		Convey("Then empty and oversized alliances are rejected", func() {
			_, err := projection.ProjectChecked(nil, one)
			So(errors.Is(err, projection.ErrAllianceSize), ShouldBeTrue)
			_, err = projection.ProjectChecked(one, four)
			So(errors.Is(err, projection.ErrAllianceSize), ShouldBeTrue)
		})

		Convey("Then single-team alliances are allowed", func() {
			res, err := projection.ProjectChecked(one, one)
			So(err, ShouldBeNil)
			So(res.Red.WinPercent, ShouldEqual, 50.0)
		})
	})
}
