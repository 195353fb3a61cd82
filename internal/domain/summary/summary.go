// Package summary turns a team's scouting history into yes/no ability
// flags for pre-match briefings.
package summary

import (
	"fmt"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/scoring"
	"github.com/reefscout/reefscout/internal/domain/stats"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// Ability keys.
const (
	CoralL4        = "coralL4"
	CoralL3        = "coralL3"
	CoralL2        = "coralL2"
	CoralL1        = "coralL1"
	AlgaeProcessor = "algaeProcessor"
	AlgaeBarge     = "algaeBarge"
	CanClimb       = "canClimb"
	AvgEPA         = "avgEPA"
	Reliability    = "reliability"
	DriverSkill    = "driverSkill"
	DoesDefense    = "doesDefense"
)

// Thresholds for the judged abilities.
const (
	climbSuccessRate = 0.4
	minEPA           = 12
	reliabilityRate  = 0.85
	minDriverSkill   = 2
	minDefense       = 1.5
)

// Ability is one flag with a human readable detail.
type Ability struct {
	Has    bool   `json:"has"`
	Detail string `json:"detail"`
}

// Team is the briefing for one team.
type Team struct {
	TeamNumber int                `json:"teamNumber"`
	Alliance   string             `json:"alliance,omitempty"`
	MatchCount int                `json:"matchCount"`
	HasData    bool               `json:"hasData"`
	Abilities  map[string]Ability `json:"abilities"`
}

// Match is the briefing for every team in one match.
type Match struct {
	Match planning.Match `json:"match"`
	Red   []Team         `json:"red"`
	Blue  []Team         `json:"blue"`
}

func scored(n int) Ability {
	if n > 0 {
		return Ability{Has: true, Detail: fmt.Sprintf("%d scored", n)}
	}
	return Ability{}
}

// ForTeam judges abilities from records. EPA and driver skill come from the
// average aggregate with zeros included.
func ForTeam(team int, records []model.Record, calc *scoring.Calculator) Team {
	out := Team{TeamNumber: team, MatchCount: len(records), Abilities: map[string]Ability{}}
	if len(records) == 0 {
		return out
	}
	out.HasData = true

	var l1, l2, l3, l4, processor, net int
	var attempts, successes, died, tipped int
	defense := make([]float64, 0, len(records))
	for _, r := range records {
		l1 += r.Auton.L1 + r.Teleop.L1
		l2 += r.Auton.L2 + r.Teleop.L2
		l3 += r.Auton.L3 + r.Teleop.L3
		l4 += r.Auton.L4 + r.Teleop.L4
		processor += r.Auton.Processor + r.Teleop.Processor
		net += r.Auton.Net + r.Teleop.Net
		if r.Climb.Attempted() {
			attempts++
		}
		if r.Climb.Succeeded() {
			successes++
		}
		if r.Died {
			died++
		}
		if r.Tipped {
			tipped++
		}
		if r.DefenseRating > 0 {
			defense = append(defense, float64(r.DefenseRating))
		}
	}

	a := out.Abilities
	a[CoralL4], a[CoralL3], a[CoralL2], a[CoralL1] = scored(l4), scored(l3), scored(l2), scored(l1)
	a[AlgaeProcessor], a[AlgaeBarge] = scored(processor), scored(net)

	agg := calc.Aggregate(team, records, types.ModeAverage, types.ZeroInclude)

	if attempts > 0 {
		rate := float64(successes) / float64(attempts)
		a[CanClimb] = Ability{
			Has:    rate >= climbSuccessRate,
			Detail: fmt.Sprintf("%.0f%% success (%s)", rate*100, agg.PredictedClimb),
		}
	} else {
		a[CanClimb] = Ability{Detail: "No attempts recorded"}
	}

	a[AvgEPA] = Ability{Has: agg.TotalPoints >= minEPA, Detail: fmt.Sprintf("%.1f pts", agg.TotalPoints)}

	reliable := len(records) - died - tipped
	rate := float64(reliable) / float64(len(records))
	a[Reliability] = Ability{
		Has:    rate >= reliabilityRate,
		Detail: fmt.Sprintf("%d/%d matches (%.0f%% uptime)", reliable, len(records), rate*100),
	}

	if agg.DriverSkill > 0 {
		a[DriverSkill] = Ability{Has: agg.DriverSkill >= minDriverSkill, Detail: fmt.Sprintf("avg %.1f", agg.DriverSkill)}
	} else {
		a[DriverSkill] = Ability{Detail: "No ratings"}
	}

	if d := stats.Mean(defense); d > 0 {
		a[DoesDefense] = Ability{Has: d >= minDefense, Detail: fmt.Sprintf("rating %.1f", d)}
	} else {
		a[DoesDefense] = Ability{Detail: "Not recorded"}
	}
	return out
}

// ForMatch briefs every team in m. Teams without records get HasData false.
func ForMatch(m planning.Match, byTeam map[int][]model.Record, calc *scoring.Calculator) Match {
	out := Match{Match: m, Red: make([]Team, 0, len(m.Red)), Blue: make([]Team, 0, len(m.Blue))}
	for _, t := range m.Red {
		s := ForTeam(t, byTeam[t], calc)
		s.Alliance = "red"
		out.Red = append(out.Red, s)
	}
	for _, t := range m.Blue {
		s := ForTeam(t, byTeam[t], calc)
		s.Alliance = "blue"
		out.Blue = append(out.Blue, s)
	}
	return out
}
