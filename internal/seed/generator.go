package seed

import (
	"math/rand/v2"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
)

// Record is one generated submission body.
type Record struct {
	Source string         `json:"source"`
	Record map[string]any `json:"record"`
}

// climbs by ascending difficulty.
var climbs = []string{"n", "p", "s", "d"}

// Generate builds six records per match. Teams rotate through the
// stations so every team plays roughly Matches*6/Teams times. Each team
// has a fixed strength so rankings come out stable.
func Generate(cfg Config) []Record {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	teams := make([]int, cfg.Teams)
	strength := make(map[int]float64, cfg.Teams)
	for i := range teams {
		teams[i] = 100 + i*7
		strength[teams[i]] = rng.Float64()
	}

	out := make([]Record, 0, cfg.Matches*len(model.Stations))
	slot := 0
	for m := 1; m <= cfg.Matches; m++ {
		for _, station := range model.Stations {
			team := teams[slot%len(teams)]
			slot++
			out = append(out, Record{
				Source: cfg.Source,
				Record: row(rng, cfg.Event, m, station, team, strength[team]),
			})
		}
	}
	return out
}

// count draws a piece count around s*n.
func count(rng *rand.Rand, s float64, n int) int {
	v := int(s*float64(n) + rng.NormFloat64())
	if v < 0 {
		return 0
	}
	return v
}

func yn(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func row(rng *rand.Rand, event string, match int, station string, team int, s float64) map[string]any {
	climb := climbs[min(len(climbs)-1, int(s*float64(len(climbs))+rng.Float64()-0.5))]
	if climb != "n" && rng.Float64() > 0.6+s*0.4 {
		climb = "x"
	}
	return map[string]any{
		normalize.FieldScouter:            "seed",
		normalize.FieldEvent:              event,
		normalize.FieldMatchLevel:         "qm",
		normalize.FieldMatchNumber:        match,
		normalize.FieldRobot:              station,
		normalize.FieldTeamNumber:         team,
		normalize.FieldAutonLeaveStart:    yn(rng.Float64() < 0.5+s/2),
		normalize.FieldAutonCoralL4:       count(rng, s, 2),
		normalize.FieldAutonCoralL1:       count(rng, 1-s, 1),
		normalize.FieldAutonNet:           count(rng, s, 1),
		normalize.FieldTeleopCoralL4:      count(rng, s, 6),
		normalize.FieldTeleopCoralL3:      count(rng, s, 4),
		normalize.FieldTeleopCoralL2:      count(rng, s, 3),
		normalize.FieldTeleopCoralL1:      count(rng, 1-s, 4),
		normalize.FieldTeleopProcessor:    count(rng, s, 2),
		normalize.FieldTeleopNet:          count(rng, s, 3),
		normalize.FieldClimbStatus:        climb,
		normalize.FieldDriverSkill:        1 + int(s*2.99),
		normalize.FieldDefenseRating:      rng.IntN(4),
		normalize.FieldDied:               yn(rng.Float64() < 0.05),
		normalize.FieldTipped:             yn(rng.Float64() < 0.03),
		normalize.FieldTeleopAlgaeRemoved: count(rng, s, 2),
	}
}
