package normalize_test

import (
	"testing"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func sheetRow() map[string]string {
	return map[string]string{
		"Scouter":                   " Ana ",
		"Event":                     "2025onosh",
		"Match-Level":               "qm",
		"Match-Number":              "12",
		"Robot":                     "Red2",
		"Team-Number":               "1114",
		"Auton-Position":            "center",
		"Auton-Leave-Start":         "y",
		"Auton-Coral-L4":            "2",
		"Auton-Coral-L1":            "1",
		"Auton-Algae-Net":           "1",
		"Teleop-Coral-L3":           "4",
		"Teleop-Coral-L2":           "3abc",
		"Teleop-Algae-Processor":    "2",
		"TeleOp-Removed- from-Reef": "1",
		"Climb-Status":              "d",
		"Driver-Skill":              "e",
		"Defense-Rating":            "g",
		"Died-YN":                   "n",
		"Tipped-YN":                 "Y",
		"Comments":                  "fast cycles",
	}
}

func TestRecord(t *testing.T) {
	Convey("Given a row exported from the scouting sheet", t, func() {
		r := normalize.Record(sheetRow())

		Convey("Then identity fields are parsed and cleaned", func() {
			So(r.Scouter, ShouldEqual, "Ana")
			So(r.Event, ShouldEqual, "2025onosh")
			So(r.Level, ShouldEqual, model.LevelQualification)
			So(r.MatchNumber, ShouldEqual, 12)
			So(r.Robot, ShouldEqual, "red2")
			So(r.TeamNumber, ShouldEqual, 1114)
		})

		Convey("Then counts use the leading integer", func() {
			So(r.Auton, ShouldResemble, model.PhaseCounts{L1: 1, L4: 2, Net: 1})
			So(r.Teleop, ShouldResemble, model.PhaseCounts{L2: 3, L3: 4, Processor: 2})
			So(r.TeleopAlgaeRemoved, ShouldEqual, 1)
		})

		Convey("Then qualitative fields use the synonym tables", func() {
			So(r.LeftStart, ShouldBeTrue)
			So(r.Climb, ShouldEqual, model.ClimbDeep)
			So(r.DriverSkill, ShouldEqual, 3)
			So(r.DefenseRating, ShouldEqual, 2)
			So(r.Died, ShouldBeFalse)
			So(r.Tipped, ShouldBeTrue)
		})
	})

	Convey("Given rows with alias headers", t, func() {
		Convey("When defense rating is spelled three ways", func() {
			for _, key := range []string{"Defense-Rating", "Defense Rating", "defense_rating"} {
				r := normalize.Record(map[string]string{key: "excellent"})
				So(r.DefenseRating, ShouldEqual, 3)
			}
		})

		Convey("When died, tipped and net use old names", func() {
			r := normalize.Record(map[string]string{
				"Died":              "yes",
				"Tippy":             "true",
				"Auton-Algae-Barge": "2",
			})
			So(r.Died, ShouldBeTrue)
			So(r.Tipped, ShouldBeTrue)
			So(r.Auton.Net, ShouldEqual, 2)
		})

		Convey("When an alias and the canonical header disagree", func() {
			r := normalize.Record(map[string]string{
				"Tipped-YN": "n",
				"Tippy":     "y",
			})
			So(r.Tipped, ShouldBeFalse)
		})
	})

	Convey("Given an empty row", t, func() {
		r := normalize.Record(map[string]string{"Unrelated": "x"})

		Convey("Then every field is its zero value", func() {
			So(r.MatchNumber, ShouldEqual, 0)
			So(r.Level, ShouldEqual, model.LevelQualification)
			So(r.Climb, ShouldEqual, model.ClimbNone)
			So(r.Auton, ShouldResemble, model.PhaseCounts{})
		})
	})
}

func TestScalarParsers(t *testing.T) {
	Convey("Given integer text", t, func() {
		So(normalize.Int(""), ShouldEqual, 0)
		So(normalize.Int("abc"), ShouldEqual, 0)
		So(normalize.Int("3abc"), ShouldEqual, 3)
		So(normalize.Int(" 7 "), ShouldEqual, 7)
		So(normalize.Int("2.9"), ShouldEqual, 2)
		So(normalize.Int("-4"), ShouldEqual, 0)
		So(normalize.Int("99999999999999999999999"), ShouldEqual, 0)
	})

	Convey("Given ordinal text", t, func() {
		So(normalize.Ordinal("3"), ShouldEqual, 3)
		So(normalize.Ordinal("Excellent"), ShouldEqual, 3)
		So(normalize.Ordinal("g"), ShouldEqual, 2)
		So(normalize.Ordinal("fair"), ShouldEqual, 1)
		So(normalize.Ordinal("p"), ShouldEqual, 0)
		So(normalize.Ordinal("9"), ShouldEqual, 3)
		So(normalize.Ordinal("-1"), ShouldEqual, 0)
		So(normalize.Ordinal("great"), ShouldEqual, 0)
	})

	Convey("Given climb text", t, func() {
		So(normalize.Climb("D"), ShouldEqual, model.ClimbDeep)
		So(normalize.Climb("shallow"), ShouldEqual, model.ClimbShallow)
		So(normalize.Climb("p"), ShouldEqual, model.ClimbPark)
		So(normalize.Climb("x"), ShouldEqual, model.ClimbFailed)
		So(normalize.Climb("f"), ShouldEqual, model.ClimbFailed)
		So(normalize.Climb("fail"), ShouldEqual, model.ClimbFailed)
		So(normalize.Climb("n"), ShouldEqual, model.ClimbNone)
		So(normalize.Climb("hang"), ShouldEqual, model.ClimbNone)
	})

	Convey("Given boolean text", t, func() {
		for _, s := range []string{"y", "YES", "1", "true", "T"} {
			So(normalize.Bool(s), ShouldBeTrue)
		}
		for _, s := range []string{"", "n", "no", "0", "maybe"} {
			So(normalize.Bool(s), ShouldBeFalse)
		}
	})
}

func TestFieldsRoundTrip(t *testing.T) {
	Convey("Given normalized records", t, func() {
		rows := []map[string]string{
			sheetRow(),
			{},
			{"Team-Number": "-5", "Climb-Status": "failed", "Match-Level": "sf", "Robot": "BLUE3"},
		}

		Convey("Then normalizing the rendered fields is idempotent", func() {
			for _, row := range rows {
				once := normalize.Record(row)
				twice := normalize.Record(normalize.Fields(once))
				So(twice, ShouldResemble, once)
			}
		})

		Convey("Then rendered fields use canonical headers only", func() {
			fields := normalize.Fields(normalize.Record(sheetRow()))
			So(len(fields), ShouldEqual, len(normalize.Headers()))
			for _, h := range normalize.Headers() {
				_, ok := fields[h]
				So(ok, ShouldBeTrue)
			}
		})
	})
}

func TestSuggest(t *testing.T) {
	Convey("Given headers that are not in the alias table", t, func() {
		Convey("When a header is misspelled", func() {
			got, ok := normalize.Suggest("Defence-Ratng")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, normalize.FieldDefenseRating)
		})

		Convey("When a header is a known alias", func() {
			got, ok := normalize.Suggest("team")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, normalize.FieldTeamNumber)
		})

		Convey("When a header is unrelated", func() {
			_, ok := normalize.Suggest("zzzzzzzzzzzzzzzz")
			So(ok, ShouldBeFalse)
		})
	})
}
