// Package model contains domain models passed between layers.
package model

import "strings"

// MatchLevel is the competition level of a match.
type MatchLevel string

const (
	LevelQualification MatchLevel = "qm"
	LevelSemifinal     MatchLevel = "sf"
	LevelFinal         MatchLevel = "f"
)

// ParseMatchLevel maps free text onto a level. Unknown values are qm.
func ParseMatchLevel(s string) MatchLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sf", "semifinal", "semifinals", "playoff", "playoffs":
		return LevelSemifinal
	case "f", "final", "finals":
		return LevelFinal
	default:
		return LevelQualification
	}
}

// ClimbStatus is the endgame outcome of one robot in one match.
type ClimbStatus string

const (
	ClimbNone    ClimbStatus = "none"
	ClimbPark    ClimbStatus = "park"
	ClimbShallow ClimbStatus = "shallow"
	ClimbDeep    ClimbStatus = "deep"
	ClimbFailed  ClimbStatus = "failed"
)

// Code is the one-letter form used in scouting sheets.
func (c ClimbStatus) Code() string {
	switch c {
	case ClimbDeep:
		return "d"
	case ClimbShallow:
		return "s"
	case ClimbPark:
		return "p"
	case ClimbFailed:
		return "x"
	default:
		return "n"
	}
}

// Attempted reports whether the robot went for the cage or barge zone.
func (c ClimbStatus) Attempted() bool { return c != ClimbNone && c != "" }

// Succeeded reports a deep or shallow hang.
func (c ClimbStatus) Succeeded() bool { return c == ClimbDeep || c == ClimbShallow }

// PhaseCounts holds game pieces scored in one phase of one match.
type PhaseCounts struct {
	L1        int `json:"l1"`
	L2        int `json:"l2"`
	L3        int `json:"l3"`
	L4        int `json:"l4"`
	Processor int `json:"processor"`
	Net       int `json:"net"`
}

// Coral is the number of coral placed on any level.
func (p PhaseCounts) Coral() int { return p.L1 + p.L2 + p.L3 + p.L4 }

// Algae is the number of algae scored in the processor or net.
func (p PhaseCounts) Algae() int { return p.Processor + p.Net }

// Robot station identifiers.
var Stations = []string{"red1", "red2", "red3", "blue1", "blue2", "blue3"}

// Record is one robot in one match as seen by one scouter.
// Every numeric field is non-negative.
type Record struct {
	Scouter     string     `json:"scouter"`
	Event       string     `json:"event"`
	Level       MatchLevel `json:"level"`
	MatchNumber int        `json:"matchNumber"`
	Robot       string     `json:"robot"`
	TeamNumber  int        `json:"teamNumber"`

	StartPosition string `json:"startPosition,omitempty"`
	LeftStart     bool   `json:"leftStart"`

	Auton  PhaseCounts `json:"auton"`
	Teleop PhaseCounts `json:"teleop"`

	AutonAlgaeRemoved  int `json:"autonAlgaeRemoved"`
	TeleopAlgaeRemoved int `json:"teleopAlgaeRemoved"`

	DefensePlayed bool        `json:"defensePlayed"`
	GroundPickup  bool        `json:"groundPickup"`
	Climb         ClimbStatus `json:"climb"`
	NoClimbReason string      `json:"noClimbReason,omitempty"`
	DriverSkill   int         `json:"driverSkill"`
	DefenseRating int         `json:"defenseRating"`
	Died          bool        `json:"died"`
	Tipped        bool        `json:"tipped"`
	Comments      string      `json:"comments,omitempty"`
}

// Alliance returns "red" or "blue" from the robot station, or "".
func (r Record) Alliance() string {
	switch {
	case strings.HasPrefix(r.Robot, "red"):
		return "red"
	case strings.HasPrefix(r.Robot, "blue"):
		return "blue"
	default:
		return ""
	}
}

// TotalCoral is coral scored across both phases.
func (r Record) TotalCoral() int { return r.Auton.Coral() + r.Teleop.Coral() }
