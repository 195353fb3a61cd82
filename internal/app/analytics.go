package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/reefscout/reefscout/internal/adapters/export"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/ranking"
	"github.com/reefscout/reefscout/internal/domain/scoring"
	"github.com/reefscout/reefscout/internal/domain/summary"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// Aggregates computes every team aggregate for q, in team order.
func (s *Service) Aggregates(ctx context.Context, q types.Query) ([]scoring.TeamAggregate, error) {
	recs, err := s.store.ListMatches(ctx, q.Source)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", q.Source, err)
	}
	start := time.Now()
	aggs := s.calc.AggregateAll(recs, q.Mode, q.Zero)
	metrics.RecordEngineComputation("aggregate", start)
	metrics.RecordTeamsAggregated(len(aggs))
	return aggs, nil
}

// Rankings builds the ranking board for q, each list capped at limit.
// limit <= 0 or above the configured maximum uses the maximum.
func (s *Service) Rankings(ctx context.Context, q types.Query, limit int) (ranking.Board, error) {
	aggs, err := s.Aggregates(ctx, q)
	if err != nil {
		return ranking.Board{}, err
	}
	start := time.Now()
	b := ranking.NewBoard(aggs, q.Metric)
	metrics.RecordEngineComputation("rank", start)

	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	b.Overall = ranking.Limit(b.Overall, limit)
	b.Auton = ranking.Limit(b.Auton, limit)
	b.Teleop = ranking.Limit(b.Teleop, limit)
	b.Defense = ranking.Limit(b.Defense, limit)
	return b, nil
}

// Distribution buckets teams by total points.
func (s *Service) Distribution(ctx context.Context, q types.Query) ([]ranking.Bucket, error) {
	aggs, err := s.Aggregates(ctx, q)
	if err != nil {
		return nil, err
	}
	return ranking.Distribution(aggs), nil
}

// ExportRankings writes the full board for q as an xlsx workbook.
func (s *Service) ExportRankings(ctx context.Context, w io.Writer, q types.Query) error {
	b, err := s.Rankings(ctx, q, s.maxLimit)
	if err != nil {
		return err
	}
	return export.WriteRankings(w, b)
}

// Reliability counts breakdowns over a team's matches.
type Reliability struct {
	Matches int     `json:"matches"`
	Died    int     `json:"died"`
	Tipped  int     `json:"tipped"`
	Rate    float64 `json:"rate"`
}

// TeamReport is the per-team drill-down.
type TeamReport struct {
	TeamNumber     int                   `json:"teamNumber"`
	Query          types.Query           `json:"query"`
	Aggregate      scoring.TeamAggregate `json:"aggregate"`
	PredictedClimb model.ClimbStatus     `json:"predictedClimb"`
	Reliability    Reliability           `json:"reliability"`
	Abilities      summary.Team          `json:"abilities"`
	Matches        []model.Record        `json:"matches"`
}

// TeamReport aggregates one team. A team with no records is ErrNoData.
func (s *Service) TeamReport(ctx context.Context, team int, q types.Query) (TeamReport, error) {
	recs, err := s.store.ListMatchesForTeam(ctx, team, q.Source)
	if err != nil {
		return TeamReport{}, fmt.Errorf("list team %d: %w", team, err)
	}
	if len(recs) == 0 {
		return TeamReport{}, fmt.Errorf("team %d: %w", team, ErrNoData)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MatchNumber < recs[j].MatchNumber })

	start := time.Now()
	agg := s.calc.Aggregate(team, recs, q.Mode, q.Zero)
	metrics.RecordEngineComputation("team_report", start)

	rel := Reliability{Matches: len(recs), Died: agg.DiedCount, Tipped: agg.TippedCount}
	if ok := len(recs) - agg.DiedCount - agg.TippedCount; ok > 0 {
		rel.Rate = float64(ok) / float64(len(recs))
	}

	return TeamReport{
		TeamNumber:     team,
		Query:          q,
		Aggregate:      agg,
		PredictedClimb: agg.PredictedClimb,
		Reliability:    rel,
		Abilities:      summary.ForTeam(team, recs, s.calc),
		Matches:        recs,
	}, nil
}

// ProjectTeams projects an explicit red vs blue line-up.
func (s *Service) ProjectTeams(ctx context.Context, red, blue []int, q types.Query) (projection.Result, error) {
	byTeam, err := s.teamsOf(ctx, q.Source)
	if err != nil {
		return projection.Result{}, err
	}
	redAggs := s.aggregateTeams(red, byTeam, q)
	blueAggs := s.aggregateTeams(blue, byTeam, q)

	start := time.Now()
	res, err := projection.ProjectChecked(redAggs, blueAggs)
	metrics.RecordEngineComputation("project", start)
	if errors.Is(err, projection.ErrAllianceSize) {
		return projection.Result{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return res, err
}

func (s *Service) teamsOf(ctx context.Context, source types.Source) (map[int][]model.Record, error) {
	recs, err := s.store.ListMatches(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", source, err)
	}
	return scoring.GroupByTeam(recs), nil
}

// aggregateTeams keeps the caller's team order. Unknown teams aggregate
// to zeros with MatchCount 0.
func (s *Service) aggregateTeams(teams []int, byTeam map[int][]model.Record, q types.Query) []scoring.TeamAggregate {
	out := make([]scoring.TeamAggregate, len(teams))
	for i, t := range teams {
		out[i] = s.calc.Aggregate(t, byTeam[t], q.Mode, q.Zero)
	}
	return out
}
