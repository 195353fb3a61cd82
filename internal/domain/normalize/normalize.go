// Package normalize turns loosely keyed scouting rows into model.Record.
// Normalization never fails: absent or malformed values become zero values.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/reefscout/reefscout/internal/domain/model"
)

// Record normalizes one raw row. When several raw keys resolve to the same
// field, an exact canonical header wins, otherwise the first non-empty value
// in key order.
func Record(raw map[string]string) model.Record {
	v := resolve(raw)

	return model.Record{
		Scouter:     strings.TrimSpace(v[FieldScouter]),
		Event:       strings.TrimSpace(v[FieldEvent]),
		Level:       model.ParseMatchLevel(v[FieldMatchLevel]),
		MatchNumber: Int(v[FieldMatchNumber]),
		Robot:       strings.ToLower(strings.TrimSpace(v[FieldRobot])),
		TeamNumber:  Int(v[FieldTeamNumber]),

		StartPosition: strings.TrimSpace(v[FieldAutonPosition]),
		LeftStart:     Bool(v[FieldAutonLeaveStart]),

		Auton: model.PhaseCounts{
			L1:        Int(v[FieldAutonCoralL1]),
			L2:        Int(v[FieldAutonCoralL2]),
			L3:        Int(v[FieldAutonCoralL3]),
			L4:        Int(v[FieldAutonCoralL4]),
			Processor: Int(v[FieldAutonProcessor]),
			Net:       Int(v[FieldAutonNet]),
		},
		Teleop: model.PhaseCounts{
			L1:        Int(v[FieldTeleopCoralL1]),
			L2:        Int(v[FieldTeleopCoralL2]),
			L3:        Int(v[FieldTeleopCoralL3]),
			L4:        Int(v[FieldTeleopCoralL4]),
			Processor: Int(v[FieldTeleopProcessor]),
			Net:       Int(v[FieldTeleopNet]),
		},
		AutonAlgaeRemoved:  Int(v[FieldAutonAlgaeRemoved]),
		TeleopAlgaeRemoved: Int(v[FieldTeleopAlgaeRemoved]),

		DefensePlayed: Bool(v[FieldDefensePlayed]),
		GroundPickup:  Bool(v[FieldGroundPickup]),
		Climb:         Climb(v[FieldClimbStatus]),
		NoClimbReason: strings.TrimSpace(v[FieldNoClimbReason]),
		DriverSkill:   Ordinal(v[FieldDriverSkill]),
		DefenseRating: Ordinal(v[FieldDefenseRating]),
		Died:          Bool(v[FieldDied]),
		Tipped:        Bool(v[FieldTipped]),
		Comments:      strings.TrimSpace(v[FieldComments]),
	}
}

func resolve(raw map[string]string) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(headers))
	exact := make(map[string]bool, len(headers))
	for _, k := range keys {
		canonical, ok := Canonical(k)
		if !ok {
			continue
		}
		val := raw[k]
		switch {
		case k == canonical:
			out[canonical] = val
			exact[canonical] = true
		case exact[canonical]:
		case strings.TrimSpace(out[canonical]) == "":
			out[canonical] = val
		}
	}
	return out
}

// Fields renders a record with canonical headers. Record(Fields(r)) == r for
// any normalized r.
func Fields(r model.Record) map[string]string {
	return map[string]string{
		FieldScouter:            r.Scouter,
		FieldEvent:              r.Event,
		FieldMatchLevel:         string(r.Level),
		FieldMatchNumber:        strconv.Itoa(r.MatchNumber),
		FieldRobot:              r.Robot,
		FieldTeamNumber:         strconv.Itoa(r.TeamNumber),
		FieldAutonPosition:      r.StartPosition,
		FieldAutonLeaveStart:    yn(r.LeftStart),
		FieldAutonCoralL4:       strconv.Itoa(r.Auton.L4),
		FieldAutonCoralL3:       strconv.Itoa(r.Auton.L3),
		FieldAutonCoralL2:       strconv.Itoa(r.Auton.L2),
		FieldAutonCoralL1:       strconv.Itoa(r.Auton.L1),
		FieldAutonAlgaeRemoved:  strconv.Itoa(r.AutonAlgaeRemoved),
		FieldAutonProcessor:     strconv.Itoa(r.Auton.Processor),
		FieldAutonNet:           strconv.Itoa(r.Auton.Net),
		FieldTeleopCoralL4:      strconv.Itoa(r.Teleop.L4),
		FieldTeleopCoralL3:      strconv.Itoa(r.Teleop.L3),
		FieldTeleopCoralL2:      strconv.Itoa(r.Teleop.L2),
		FieldTeleopCoralL1:      strconv.Itoa(r.Teleop.L1),
		FieldTeleopAlgaeRemoved: strconv.Itoa(r.TeleopAlgaeRemoved),
		FieldTeleopProcessor:    strconv.Itoa(r.Teleop.Processor),
		FieldTeleopNet:          strconv.Itoa(r.Teleop.Net),
		FieldDefensePlayed:      yn(r.DefensePlayed),
		FieldGroundPickup:       yn(r.GroundPickup),
		FieldClimbStatus:        r.Climb.Code(),
		FieldNoClimbReason:      r.NoClimbReason,
		FieldDriverSkill:        strconv.Itoa(r.DriverSkill),
		FieldDefenseRating:      strconv.Itoa(r.DefenseRating),
		FieldDied:               yn(r.Died),
		FieldTipped:             yn(r.Tipped),
		FieldComments:           r.Comments,
	}
}

func yn(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

// Int parses the leading integer of s. Absent, malformed or overflowing
// input is 0 and negatives clamp to 0.
func Int(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Ordinal maps a 0..3 rating. Letters and words follow the sheet's
// excellent/good/fair/poor scale. Numbers clamp into range.
func Ordinal(s string) int {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e", "excellent":
		return 3
	case "g", "good":
		return 2
	case "f", "fair":
		return 1
	case "p", "poor":
		return 0
	}
	n := Int(s)
	if n > 3 {
		return 3
	}
	return n
}

// Climb maps a climb code or word. Anything unrecognised is none.
func Climb(s string) model.ClimbStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "deep":
		return model.ClimbDeep
	case "s", "shallow":
		return model.ClimbShallow
	case "p", "park":
		return model.ClimbPark
	case "x", "f", "fail", "failed":
		return model.ClimbFailed
	default:
		return model.ClimbNone
	}
}

// Bool accepts y, yes, 1, true and t in any case.
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "1", "true", "t":
		return true
	default:
		return false
	}
}
