package normalize

import (
	"strings"
	"unicode"
)

// Canonical field names. They match the column headers of the scouting sheet
// export so stored documents stay readable by older tooling.
const (
	FieldScouter            = "Scouter"
	FieldEvent              = "Event"
	FieldMatchLevel         = "Match-Level"
	FieldMatchNumber        = "Match-Number"
	FieldRobot              = "Robot"
	FieldTeamNumber         = "Team-Number"
	FieldAutonPosition      = "Auton-Position"
	FieldAutonLeaveStart    = "Auton-Leave-Start"
	FieldAutonCoralL4       = "Auton-Coral-L4"
	FieldAutonCoralL3       = "Auton-Coral-L3"
	FieldAutonCoralL2       = "Auton-Coral-L2"
	FieldAutonCoralL1       = "Auton-Coral-L1"
	FieldAutonAlgaeRemoved  = "Algae-Removed- from-Reef"
	FieldAutonProcessor     = "Auton-Algae-Processor"
	FieldAutonNet           = "Auton-Algae-Net"
	FieldTeleopCoralL4      = "Teleop-Coral-L4"
	FieldTeleopCoralL3      = "Teleop-Coral-L3"
	FieldTeleopCoralL2      = "Teleop-Coral-L2"
	FieldTeleopCoralL1      = "Teleop-Coral-L1"
	FieldTeleopAlgaeRemoved = "TeleOp-Removed- from-Reef"
	FieldTeleopProcessor    = "Teleop-Algae-Processor"
	FieldTeleopNet          = "Teleop-Algae-Net"
	FieldDefensePlayed      = "Defense-Played-on-Robot"
	FieldGroundPickup       = "Ground-Pick-Up"
	FieldClimbStatus        = "Climb-Status"
	FieldNoClimbReason      = "No-Climb-Reason"
	FieldDriverSkill        = "Driver-Skill"
	FieldDefenseRating      = "Defense-Rating"
	FieldDied               = "Died-YN"
	FieldTipped             = "Tipped-YN"
	FieldComments           = "Comments"
)

// headers is the canonical column order.
var headers = []string{
	FieldScouter, FieldEvent, FieldMatchLevel, FieldMatchNumber, FieldRobot, FieldTeamNumber,
	FieldAutonPosition, FieldAutonLeaveStart,
	FieldAutonCoralL4, FieldAutonCoralL3, FieldAutonCoralL2, FieldAutonCoralL1,
	FieldAutonAlgaeRemoved, FieldAutonProcessor, FieldAutonNet,
	FieldTeleopCoralL4, FieldTeleopCoralL3, FieldTeleopCoralL2, FieldTeleopCoralL1,
	FieldTeleopAlgaeRemoved, FieldTeleopProcessor, FieldTeleopNet,
	FieldDefensePlayed, FieldGroundPickup, FieldClimbStatus, FieldNoClimbReason,
	FieldDriverSkill, FieldDefenseRating, FieldDied, FieldTipped, FieldComments,
}

// extra spellings seen in exported sheets, keyed by canonical field.
var extraAliases = map[string][]string{
	FieldScouter:            {"scout", "scouter name", "scouter_name"},
	FieldEvent:              {"event code", "event_key"},
	FieldMatchLevel:         {"level", "comp level", "comp_level"},
	FieldMatchNumber:        {"match", "match no", "match #"},
	FieldRobot:              {"station", "driver station"},
	FieldTeamNumber:         {"team", "team #", "team no"},
	FieldAutonPosition:      {"start position", "starting position"},
	FieldAutonLeaveStart:    {"left start", "leave start", "auton leave", "mobility"},
	FieldAutonCoralL4:       {"auton l4"},
	FieldAutonCoralL3:       {"auton l3"},
	FieldAutonCoralL2:       {"auton l2"},
	FieldAutonCoralL1:       {"auton l1"},
	FieldAutonAlgaeRemoved:  {"auton algae removed", "auton removed from reef"},
	FieldAutonProcessor:     {"auton processor"},
	FieldAutonNet:           {"auton algae barge", "auton net", "auton barge"},
	FieldTeleopCoralL4:      {"teleop l4"},
	FieldTeleopCoralL3:      {"teleop l3"},
	FieldTeleopCoralL2:      {"teleop l2"},
	FieldTeleopCoralL1:      {"teleop l1"},
	FieldTeleopAlgaeRemoved: {"teleop algae removed"},
	FieldTeleopProcessor:    {"teleop processor"},
	FieldTeleopNet:          {"teleop algae barge", "teleop net", "teleop barge"},
	FieldDefensePlayed:      {"defense played"},
	FieldGroundPickup:       {"ground pickup"},
	FieldClimbStatus:        {"climb", "endgame", "cage"},
	FieldNoClimbReason:      {"climb notes"},
	FieldDriverSkill:        {"driver rating"},
	FieldDefenseRating:      {"defense"},
	FieldDied:               {"died", "dead"},
	FieldTipped:             {"tipped", "tippy", "tipped over"},
	FieldComments:           {"comment", "notes"},
}

// aliases maps a folded header to its canonical field.
var aliases = buildAliases()

func buildAliases() map[string]string {
	m := make(map[string]string, len(headers)*3)
	for _, h := range headers {
		m[fold(h)] = h
	}
	for canonical, extra := range extraAliases {
		for _, a := range extra {
			if _, taken := m[fold(a)]; !taken {
				m[fold(a)] = canonical
			}
		}
	}
	return m
}

// fold lower-cases and drops whitespace, '-' and '_' so
// "Defense Rating", "defense_rating" and "Defense-Rating" compare equal.
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Headers returns the canonical field names in sheet order.
func Headers() []string {
	out := make([]string, len(headers))
	copy(out, headers)
	return out
}

// Canonical resolves a header through the alias table.
func Canonical(header string) (string, bool) {
	c, ok := aliases[fold(header)]
	return c, ok
}
