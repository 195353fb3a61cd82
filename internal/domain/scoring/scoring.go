// Package scoring derives point estimates and team aggregates from
// normalized scouting records.
package scoring

import (
	"sort"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/stats"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithPointTable replaces the default point table.
func WithPointTable(t Table) Option {
	return func(c *Calculator) {
		if t.Climb != nil {
			c.table = t
		}
	}
}

// Calculator aggregates records into TeamAggregate values. It is stateless
// apart from its point table and safe for concurrent use.
type Calculator struct {
	table Table
}

// NewCalculator creates a calculator using DefaultTable unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{table: DefaultTable}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the point table in use.
func (c *Calculator) Table() Table { return c.table }

// TeamAggregate is one team's view under a given mode and zero handling.
type TeamAggregate struct {
	TeamNumber int `json:"teamNumber"`
	MatchCount int `json:"matchCount"`

	Auton  PhaseAverages `json:"auton"`
	Teleop PhaseAverages `json:"teleop"`

	AutonAlgaeRemoved  float64 `json:"autonAlgaeRemoved"`
	TeleopAlgaeRemoved float64 `json:"teleopAlgaeRemoved"`

	AutonPoints  float64 `json:"autonPoints"`
	TeleopPoints float64 `json:"teleopPoints"`
	AlgaePoints  float64 `json:"algaePoints"`
	ClimbPoints  float64 `json:"climbPoints"`
	TotalPoints  float64 `json:"totalPoints"`

	AutonCoral  float64 `json:"autonCoral"`
	AutonAlgae  float64 `json:"autonAlgae"`
	TeleopCoral float64 `json:"teleopCoral"`
	TeleopAlgae float64 `json:"teleopAlgae"`
	TotalCoral  float64 `json:"totalCoral"`

	DriverSkill   float64 `json:"driverSkill"`
	DefenseRating float64 `json:"defenseRating"`
	DiedCount     int     `json:"diedCount"`
	TippedCount   int     `json:"tippedCount"`
	LeftStartRate float64 `json:"leftStartRate"`

	PredictedClimb model.ClimbStatus         `json:"predictedClimb"`
	ClimbCounts    map[model.ClimbStatus]int `json:"climbCounts"`
}

// series extracts one integer field across records.
func series(records []model.Record, f func(model.Record) int) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(f(r))
	}
	return out
}

// Aggregate reduces one team's records. Each field is processed
// independently; points are derived from the aggregated counts except
// climb, which is processed over per-match climb points.
func (c *Calculator) Aggregate(team int, records []model.Record, mode types.Mode, zero types.ZeroHandling) TeamAggregate {
	agg := TeamAggregate{
		TeamNumber:     team,
		MatchCount:     len(records),
		PredictedClimb: model.ClimbNone,
		ClimbCounts:    map[model.ClimbStatus]int{},
	}
	if len(records) == 0 {
		return agg
	}

	p := func(f func(model.Record) int) float64 {
		return stats.Process(series(records, f), mode, zero)
	}

	agg.Auton = PhaseAverages{
		L1:        p(func(r model.Record) int { return r.Auton.L1 }),
		L2:        p(func(r model.Record) int { return r.Auton.L2 }),
		L3:        p(func(r model.Record) int { return r.Auton.L3 }),
		L4:        p(func(r model.Record) int { return r.Auton.L4 }),
		Processor: p(func(r model.Record) int { return r.Auton.Processor }),
		Net:       p(func(r model.Record) int { return r.Auton.Net }),
	}
	agg.Teleop = PhaseAverages{
		L1:        p(func(r model.Record) int { return r.Teleop.L1 }),
		L2:        p(func(r model.Record) int { return r.Teleop.L2 }),
		L3:        p(func(r model.Record) int { return r.Teleop.L3 }),
		L4:        p(func(r model.Record) int { return r.Teleop.L4 }),
		Processor: p(func(r model.Record) int { return r.Teleop.Processor }),
		Net:       p(func(r model.Record) int { return r.Teleop.Net }),
	}
	agg.AutonAlgaeRemoved = p(func(r model.Record) int { return r.AutonAlgaeRemoved })
	agg.TeleopAlgaeRemoved = p(func(r model.Record) int { return r.TeleopAlgaeRemoved })
	agg.DriverSkill = p(func(r model.Record) int { return r.DriverSkill })
	agg.DefenseRating = p(func(r model.Record) int { return r.DefenseRating })

	climb := make([]float64, len(records))
	left := 0
	for i, r := range records {
		climb[i] = c.table.ClimbPoints(r.Climb)
		agg.ClimbCounts[r.Climb]++
		if r.Died {
			agg.DiedCount++
		}
		if r.Tipped {
			agg.TippedCount++
		}
		if r.LeftStart {
			left++
		}
	}
	agg.ClimbPoints = stats.Process(climb, mode, zero)
	agg.LeftStartRate = stats.Round2(float64(left) / float64(len(records)))
	agg.PredictedClimb = PredictClimb(records)

	agg.AutonPoints = c.table.AutonPoints(agg.Auton)
	agg.TeleopPoints = c.table.TeleopPoints(agg.Teleop)
	agg.AlgaePoints = c.table.AlgaePoints(agg.Auton, agg.Teleop)
	agg.TotalPoints = agg.AutonPoints + agg.TeleopPoints + agg.ClimbPoints

	agg.AutonCoral = agg.Auton.Coral()
	agg.AutonAlgae = agg.Auton.Algae()
	agg.TeleopCoral = agg.Teleop.Coral()
	agg.TeleopAlgae = agg.Teleop.Algae()
	agg.TotalCoral = agg.AutonCoral + agg.TeleopCoral
	return agg
}

// AggregateAll groups records by team and aggregates each group.
// The result is ordered by team number ascending.
func (c *Calculator) AggregateAll(records []model.Record, mode types.Mode, zero types.ZeroHandling) []TeamAggregate {
	byTeam := GroupByTeam(records)
	teams := make([]int, 0, len(byTeam))
	for t := range byTeam {
		teams = append(teams, t)
	}
	sort.Ints(teams)

	out := make([]TeamAggregate, 0, len(teams))
	for _, t := range teams {
		out = append(out, c.Aggregate(t, byTeam[t], mode, zero))
	}
	return out
}

// GroupByTeam buckets records by team number, keeping input order.
func GroupByTeam(records []model.Record) map[int][]model.Record {
	out := make(map[int][]model.Record)
	for _, r := range records {
		out[r.TeamNumber] = append(out[r.TeamNumber], r)
	}
	return out
}

// climbPriority breaks ties between equally common outcomes.
var climbPriority = []model.ClimbStatus{
	model.ClimbDeep, model.ClimbShallow, model.ClimbPark, model.ClimbNone, model.ClimbFailed,
}

// PredictClimb returns the most common climb outcome, none when there are
// no records. Ties prefer deep, shallow, park, none, failed in that order.
func PredictClimb(records []model.Record) model.ClimbStatus {
	counts := make(map[model.ClimbStatus]int, len(climbPriority))
	for _, r := range records {
		counts[r.Climb]++
	}
	best, bestN := model.ClimbNone, 0
	for _, c := range climbPriority {
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best
}
