package planning_test

import (
	"errors"
	"testing"

	"github.com/reefscout/reefscout/internal/domain/planning"
	. "github.com/smartystreets/goconvey/convey"
)

func qm(n int, at int64, red, blue []int) planning.Match {
	return planning.Match{Key: "2025test_qm", Level: "qm", Number: n, Red: red, Blue: blue, Time: at}
}

func schedule() []planning.Match {
	return []planning.Match{
		qm(1, 100, []int{254, 1, 2}, []int{3, 4, 5}),
		qm(2, 200, []int{6, 7, 8}, []int{9, 10, 11}),
		qm(3, 300, []int{10, 12, 13}, []int{14, 15, 20}),
		qm(4, 400, []int{21, 22, 23}, []int{24, 25, 26}),
		qm(5, 500, []int{254, 10, 21}, []int{30, 31, 32}),
		qm(6, 600, []int{30, 40, 41}, []int{42, 43, 44}),
		qm(7, 700, []int{40, 50, 51}, []int{254, 52, 53}),
	}
}

func TestAlliances(t *testing.T) {
	Convey("Given a match", t, func() {
		m := qm(7, 0, []int{40, 50, 51}, []int{254, 52, 53})

		So(planning.AllianceOf(m, 254), ShouldEqual, "blue")
		So(planning.AllianceOf(m, 40), ShouldEqual, "red")
		So(planning.AllianceOf(m, 9999), ShouldEqual, "")
		So(planning.Partners(m, 254), ShouldResemble, []int{52, 53})
		So(planning.Opponents(m, 254), ShouldResemble, []int{40, 50, 51})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given team 254 with qualification matches 1, 5 and 7", t, func() {
		event := schedule()
		teamMatches := []planning.Match{event[6], event[0], event[4]}

		Convey("When planning after match 1", func() {
			plan, err := planning.Build(254, 1, teamMatches, event, 0)

			Convey("Then the next two matches are targets", func() {
				So(err, ShouldBeNil)
				So(plan.Selected.Number, ShouldEqual, 1)
				So(len(plan.Assignments), ShouldEqual, 2)
				So(plan.Assignments[0].Target.Number, ShouldEqual, 5)
				So(plan.Assignments[1].Target.Number, ShouldEqual, 7)
			})

			Convey("Then only matches strictly between selected and target are listed", func() {
				first := plan.Assignments[0].ToScout
				So(len(first), ShouldEqual, 3)
				So(first[0].Match.Number, ShouldEqual, 2)
				So(first[0].Teams, ShouldResemble, []int{10})
				So(first[1].Match.Number, ShouldEqual, 3)
				So(first[1].Teams, ShouldResemble, []int{10})
				So(first[2].Match.Number, ShouldEqual, 4)
				So(first[2].Teams, ShouldResemble, []int{21})
			})

			Convey("Then the consolidated list merges targets by match number", func() {
				So(plan.Consolidated, ShouldResemble, []planning.Consolidated{
					{MatchNumber: 2, Teams: []int{10}},
					{MatchNumber: 3, Teams: []int{10}},
					{MatchNumber: 4, Teams: []int{21}},
					{MatchNumber: 6, Teams: []int{40}},
				})
			})
		})

		Convey("When planning after the last match", func() {
			plan, err := planning.Build(254, 7, teamMatches, event, 2)
			So(err, ShouldBeNil)
			So(plan.Assignments, ShouldBeEmpty)
			So(plan.Consolidated, ShouldBeEmpty)
		})

		Convey("When the selected match is not ours", func() {
			_, err := planning.Build(254, 2, teamMatches, event, 2)
			So(errors.Is(err, planning.ErrMatchNotFound), ShouldBeTrue)
		})

		Convey("When predicted times are present", func() {
			event[1].PredictedTime = 650
			plan, err := planning.Build(254, 1, teamMatches, event, 1)
			So(err, ShouldBeNil)
			So(plan.Assignments[0].ToScout[0].Match.Number, ShouldEqual, 3)
		})
	})
}
