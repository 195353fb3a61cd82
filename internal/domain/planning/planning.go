// Package planning picks which matches to watch before upcoming
// qualification matches, so partners and opponents get scouted in time.
package planning

import (
	"fmt"
	"sort"
)

// DefaultLookahead is how many upcoming matches a plan covers.
const DefaultLookahead = 2

// Match is a scheduled match with plain team numbers.
type Match struct {
	Key           string `json:"key"`
	Level         string `json:"level"`
	Number        int    `json:"matchNumber"`
	Red           []int  `json:"red"`
	Blue          []int  `json:"blue"`
	Time          int64  `json:"time"`
	PredictedTime int64  `json:"predictedTime,omitempty"`
}

// When is the predicted start, falling back to the scheduled one.
func (m Match) When() int64 {
	if m.PredictedTime != 0 {
		return m.PredictedTime
	}
	return m.Time
}

// Teams lists red then blue.
func (m Match) Teams() []int {
	out := make([]int, 0, len(m.Red)+len(m.Blue))
	out = append(out, m.Red...)
	return append(out, m.Blue...)
}

func (m Match) has(team int) bool {
	for _, t := range m.Teams() {
		if t == team {
			return true
		}
	}
	return false
}

// AllianceOf returns "red", "blue" or "" when the team is not playing.
func AllianceOf(m Match, team int) string {
	for _, t := range m.Red {
		if t == team {
			return "red"
		}
	}
	for _, t := range m.Blue {
		if t == team {
			return "blue"
		}
	}
	return ""
}

// Partners are the other teams on our alliance.
func Partners(m Match, team int) []int {
	side := m.Blue
	if AllianceOf(m, team) == "red" {
		side = m.Red
	}
	out := make([]int, 0, len(side))
	for _, t := range side {
		if t != team {
			out = append(out, t)
		}
	}
	return out
}

// Opponents are the teams on the other alliance.
func Opponents(m Match, team int) []int {
	side := m.Red
	if AllianceOf(m, team) == "red" {
		side = m.Blue
	}
	return append([]int(nil), side...)
}

// Watch is one earlier match and the target-match teams playing in it.
type Watch struct {
	Match Match `json:"match"`
	Teams []int `json:"teams"`
}

// Assignment lists what to watch before one target match.
type Assignment struct {
	Target  Match   `json:"target"`
	ToScout []Watch `json:"toScout"`
}

// Consolidated merges every assignment into match number -> teams.
type Consolidated struct {
	MatchNumber int   `json:"matchNumber"`
	Teams       []int `json:"teams"`
}

// Plan is the output of Build.
type Plan struct {
	Team         int            `json:"team"`
	Selected     Match          `json:"selected"`
	Assignments  []Assignment   `json:"assignments"`
	Consolidated []Consolidated `json:"consolidated"`
}

// Qualifications returns the qm matches sorted by match number.
func Qualifications(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Level == "qm" {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Build plans scouting for team after its qualification match selected.
// For each of the next lookahead team matches, every event match strictly
// between the selected and target start times that features a target-match
// team other than ours is listed.
func Build(team, selected int, teamMatches, eventMatches []Match, lookahead int) (Plan, error) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	upcoming := Qualifications(teamMatches)
	idx := -1
	for i, m := range upcoming {
		if m.Number == selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Plan{}, fmt.Errorf("%w: team %d has no qualification match %d", ErrMatchNotFound, team, selected)
	}

	plan := Plan{Team: team, Selected: upcoming[idx], Assignments: []Assignment{}, Consolidated: []Consolidated{}}
	end := idx + 1 + lookahead
	if end > len(upcoming) {
		end = len(upcoming)
	}

	from := plan.Selected.When()
	merged := map[int]map[int]bool{}
	for _, target := range upcoming[idx+1 : end] {
		targetTeams := make([]int, 0, 5)
		for _, t := range target.Teams() {
			if t != team {
				targetTeams = append(targetTeams, t)
			}
		}

		between := make([]Match, 0)
		for _, m := range eventMatches {
			if w := m.When(); w > from && w < target.When() {
				between = append(between, m)
			}
		}
		sort.SliceStable(between, func(i, j int) bool { return between[i].When() < between[j].When() })

		a := Assignment{Target: target, ToScout: []Watch{}}
		for _, m := range between {
			var teams []int
			for _, t := range targetTeams {
				if m.has(t) {
					teams = append(teams, t)
				}
			}
			if len(teams) == 0 {
				continue
			}
			a.ToScout = append(a.ToScout, Watch{Match: m, Teams: teams})
			if merged[m.Number] == nil {
				merged[m.Number] = map[int]bool{}
			}
			for _, t := range teams {
				merged[m.Number][t] = true
			}
		}
		plan.Assignments = append(plan.Assignments, a)
	}

	for n, set := range merged {
		c := Consolidated{MatchNumber: n, Teams: make([]int, 0, len(set))}
		for t := range set {
			c.Teams = append(c.Teams, t)
		}
		sort.Ints(c.Teams)
		plan.Consolidated = append(plan.Consolidated, c)
	}
	sort.Slice(plan.Consolidated, func(i, j int) bool {
		return plan.Consolidated[i].MatchNumber < plan.Consolidated[j].MatchNumber
	})
	return plan, nil
}
