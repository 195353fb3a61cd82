// Package ranking orders team aggregates. It never recomputes aggregates.
package ranking

import (
	"sort"

	"github.com/reefscout/reefscout/internal/domain/scoring"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// Entry is one ranked team.
type Entry struct {
	Rank       int                   `json:"rank"`
	TeamNumber int                   `json:"teamNumber"`
	Value      float64               `json:"value"`
	Aggregate  scoring.TeamAggregate `json:"aggregate"`
}

// Board is the overall ranking plus the phase and defense sub-rankings.
type Board struct {
	Metric  types.Metric `json:"metric"`
	Overall []Entry      `json:"overall"`
	Auton   []Entry      `json:"auton"`
	Teleop  []Entry      `json:"teleop"`
	Defense []Entry      `json:"defense"`
}

// Key picks the value a ranking sorts on.
type Key func(scoring.TeamAggregate) float64

// By sorts descending on key. The sort is stable, so callers passing
// aggregates in team order get ties broken by team number.
func By(aggs []scoring.TeamAggregate, key Key) []Entry {
	out := make([]Entry, len(aggs))
	for i, a := range aggs {
		out[i] = Entry{TeamNumber: a.TeamNumber, Value: key(a), Aggregate: a}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Rank orders teams on total points (epa) or total coral (count).
func Rank(aggs []scoring.TeamAggregate, metric types.Metric) []Entry {
	if metric == types.MetricCount {
		return By(aggs, func(a scoring.TeamAggregate) float64 { return a.TotalCoral })
	}
	return By(aggs, func(a scoring.TeamAggregate) float64 { return a.TotalPoints })
}

// Auton orders on autonomous points, or auton pieces for count.
func Auton(aggs []scoring.TeamAggregate, metric types.Metric) []Entry {
	if metric == types.MetricCount {
		return By(aggs, func(a scoring.TeamAggregate) float64 { return a.AutonCoral + a.AutonAlgae })
	}
	return By(aggs, func(a scoring.TeamAggregate) float64 { return a.AutonPoints })
}

// Teleop orders on teleop points, or teleop pieces for count.
func Teleop(aggs []scoring.TeamAggregate, metric types.Metric) []Entry {
	if metric == types.MetricCount {
		return By(aggs, func(a scoring.TeamAggregate) float64 { return a.TeleopCoral + a.TeleopAlgae })
	}
	return By(aggs, func(a scoring.TeamAggregate) float64 { return a.TeleopPoints })
}

// Defense orders on the aggregated defense rating.
func Defense(aggs []scoring.TeamAggregate) []Entry {
	return By(aggs, func(a scoring.TeamAggregate) float64 { return a.DefenseRating })
}

// NewBoard builds every ranking from the same aggregates.
func NewBoard(aggs []scoring.TeamAggregate, metric types.Metric) Board {
	return Board{
		Metric:  metric,
		Overall: Rank(aggs, metric),
		Auton:   Auton(aggs, metric),
		Teleop:  Teleop(aggs, metric),
		Defense: Defense(aggs),
	}
}

// Limit truncates entries to n when n is positive.
func Limit(entries []Entry, n int) []Entry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}

// Bucket counts teams whose total points fall in [Min, Max).
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max,omitempty"`
	Count int     `json:"count"`
}

// Distribution buckets total points into 0-10, 10-20, ... 50+.
func Distribution(aggs []scoring.TeamAggregate) []Bucket {
	buckets := []Bucket{
		{Label: "0-10", Min: 0, Max: 10},
		{Label: "10-20", Min: 10, Max: 20},
		{Label: "20-30", Min: 20, Max: 30},
		{Label: "30-40", Min: 30, Max: 40},
		{Label: "40-50", Min: 40, Max: 50},
		{Label: "50+", Min: 50},
	}
	last := len(buckets) - 1
	for _, a := range aggs {
		i := int(a.TotalPoints / 10)
		if i < 0 {
			i = 0
		}
		if i > last {
			i = last
		}
		buckets[i].Count++
	}
	return buckets
}
