// Package projection estimates the win probability of two alliances from
// their members' aggregates.
package projection

import (
	"fmt"
	"math"

	"github.com/reefscout/reefscout/internal/domain/scoring"
	"github.com/reefscout/reefscout/internal/domain/stats"
)

// Alliance size bounds.
const (
	MinAllianceSize = 1
	MaxAllianceSize = 3
)

// Confidence model: a team is fully trusted after this many matches.
const (
	fullConfidenceMatches = 12
	minReliableMatches    = 3
	matchWeight           = 0.7
	reliableWeight        = 0.3
)

// Weights of the momentum term.
type Weights struct {
	Total            float64
	Auton            float64
	Teleop           float64
	Endgame          float64
	ClimbReliability float64
	Confidence       float64
}

// DefaultWeights are tuned so a 20 point edge is roughly a 70/30 split.
var DefaultWeights = Weights{
	Total:            0.045,
	Auton:            0.02,
	Teleop:           0.015,
	Endgame:          0.01,
	ClimbReliability: 0.8,
	Confidence:       0.5,
}

// Alliance is the projected output of one side.
type Alliance struct {
	Teams            []int   `json:"teams"`
	Auton            float64 `json:"auton"`
	Teleop           float64 `json:"teleop"`
	Endgame          float64 `json:"endgame"`
	Total            float64 `json:"total"`
	ClimbReliability float64 `json:"climbReliability"`
	Confidence       float64 `json:"confidence"`
	WinPercent       float64 `json:"winPercent"`
}

// Result pairs both alliances with the momentum that decided the split.
type Result struct {
	Red      Alliance `json:"red"`
	Blue     Alliance `json:"blue"`
	Momentum float64  `json:"momentum"`
}

// Summarize sums expected scores for one alliance. WinPercent is left 0.
func Summarize(teams []scoring.TeamAggregate) Alliance {
	a := Alliance{Teams: make([]int, 0, len(teams))}
	if len(teams) == 0 {
		return a
	}
	var rel, conf float64
	for _, t := range teams {
		a.Teams = append(a.Teams, t.TeamNumber)
		a.Auton += t.AutonPoints
		a.Teleop += t.TeleopPoints
		a.Endgame += t.ClimbPoints
		a.Total += t.TotalPoints
		rel += math.Min(t.ClimbPoints/scoring.MaxClimbPoints, 1)
		conf += confidence(t.MatchCount)
	}
	n := float64(len(teams))
	a.ClimbReliability = rel / n
	a.Confidence = conf / n
	return a
}

func confidence(matches int) float64 {
	c := matchWeight * math.Min(float64(matches), fullConfidenceMatches) / fullConfidenceMatches
	if matches >= minReliableMatches {
		c += reliableWeight
	}
	return c
}

// Momentum is the weighted difference between red and blue.
func (w Weights) Momentum(red, blue Alliance) float64 {
	return w.Total*(red.Total-blue.Total) +
		w.Auton*(red.Auton-blue.Auton) +
		w.Teleop*(red.Teleop-blue.Teleop) +
		w.Endgame*(red.Endgame-blue.Endgame) +
		w.ClimbReliability*(red.ClimbReliability-blue.ClimbReliability) +
		w.Confidence*(red.Confidence-blue.Confidence)
}

// Project splits 100% between red and blue with DefaultWeights.
func Project(red, blue []scoring.TeamAggregate) Result {
	return DefaultWeights.Project(red, blue)
}

// Project splits 100% between red and blue. The favourite gets
// round2(100*sigmoid(|momentum|)) and the other side the remainder, so
// swapping the alliances mirrors the result exactly.
func (w Weights) Project(red, blue []scoring.TeamAggregate) Result {
	r, b := Summarize(red), Summarize(blue)
	m := w.Momentum(r, b)

	fav := stats.Round2(100 * sigmoid(math.Abs(m)))
	switch {
	case m > 0:
		r.WinPercent, b.WinPercent = fav, 100-fav
	case m < 0:
		b.WinPercent, r.WinPercent = fav, 100-fav
	default:
		r.WinPercent, b.WinPercent = 50, 50
	}
	return Result{Red: r, Blue: b, Momentum: m}
}

// ProjectChecked rejects alliances outside 1..3 teams.
func ProjectChecked(red, blue []scoring.TeamAggregate) (Result, error) {
	if err := checkSize("red", len(red)); err != nil {
		return Result{}, err
	}
	if err := checkSize("blue", len(blue)); err != nil {
		return Result{}, err
	}
	return Project(red, blue), nil
}

func checkSize(side string, n int) error {
	if n < MinAllianceSize || n > MaxAllianceSize {
		return fmt.Errorf("%w: %s has %d teams", ErrAllianceSize, side, n)
	}
	return nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
