package scoring

import "github.com/reefscout/reefscout/internal/domain/model"

// PhasePoints holds point values for one phase.
type PhasePoints struct {
	L1, L2, L3, L4 float64
	Processor, Net float64
}

// Table is a versioned point-value table.
type Table struct {
	Version string
	Auton   PhasePoints
	Teleop  PhasePoints
	Climb   map[model.ClimbStatus]float64
}

// DefaultTable is the 2025 Reefscape table used everywhere in reefscout.
var DefaultTable = Table{
	Version: "2025.2",
	Auton:   PhasePoints{L1: 3, L2: 4, L3: 6, L4: 7, Processor: 6, Net: 4},
	Teleop:  PhasePoints{L1: 2, L2: 3, L3: 4, L4: 5, Processor: 6, Net: 4},
	Climb: map[model.ClimbStatus]float64{
		model.ClimbDeep:    12,
		model.ClimbShallow: 8,
		model.ClimbPark:    4,
	},
}

// MaxClimbPoints is the best endgame outcome.
const MaxClimbPoints = 12

// PhaseAverages holds aggregated counts for one phase.
type PhaseAverages struct {
	L1        float64 `json:"l1"`
	L2        float64 `json:"l2"`
	L3        float64 `json:"l3"`
	L4        float64 `json:"l4"`
	Processor float64 `json:"processor"`
	Net       float64 `json:"net"`
}

// Coral sums the four reef levels.
func (p PhaseAverages) Coral() float64 { return p.L1 + p.L2 + p.L3 + p.L4 }

// Algae sums processor and net.
func (p PhaseAverages) Algae() float64 { return p.Processor + p.Net }

func phasePoints(pts PhasePoints, c PhaseAverages) float64 {
	return c.L1*pts.L1 + c.L2*pts.L2 + c.L3*pts.L3 + c.L4*pts.L4 +
		c.Processor*pts.Processor + c.Net*pts.Net
}

// AutonPoints is the autonomous score for aggregated counts.
func (t Table) AutonPoints(c PhaseAverages) float64 { return phasePoints(t.Auton, c) }

// TeleopPoints is the teleop score for aggregated counts.
func (t Table) TeleopPoints(c PhaseAverages) float64 { return phasePoints(t.Teleop, c) }

// AlgaePoints is the processor and net share of both phases.
func (t Table) AlgaePoints(auton, teleop PhaseAverages) float64 {
	return auton.Processor*t.Auton.Processor + auton.Net*t.Auton.Net +
		teleop.Processor*t.Teleop.Processor + teleop.Net*t.Teleop.Net
}

// ClimbPoints maps an outcome to points. None, failed and unknown are 0.
func (t Table) ClimbPoints(c model.ClimbStatus) float64 { return t.Climb[c] }
