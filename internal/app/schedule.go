package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reefscout/reefscout/internal/adapters/settings"
	"github.com/reefscout/reefscout/internal/adapters/tba"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/summary"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// ToPlanningMatch strips "frc" prefixes from a remote match.
func ToPlanningMatch(m tba.MatchInfo) planning.Match { //nolint:gocritic // hugeParam: value semantics
	return planning.Match{
		Key:           m.Key,
		Level:         m.CompLevel,
		Number:        m.MatchNumber,
		Red:           tba.TeamNumbers(m.Alliances.Red.TeamKeys),
		Blue:          tba.TeamNumbers(m.Alliances.Blue.TeamKeys),
		Time:          m.Time,
		PredictedTime: m.PredictedTime,
	}
}

func toPlanningMatches(ms []tba.MatchInfo) []planning.Match {
	out := make([]planning.Match, len(ms))
	for i := range ms {
		out[i] = ToPlanningMatch(ms[i])
	}
	return out
}

func (s *Service) eventCode(ctx context.Context) (string, error) {
	if s.matches == nil {
		return "", ErrNoMatchData
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load app config: %w", err)
	}
	return cfg.EventCode, nil
}

func (s *Service) fetchMatch(ctx context.Context, match int, level string) (planning.Match, error) {
	event, err := s.eventCode(ctx)
	if err != nil {
		return planning.Match{}, err
	}
	m, err := s.matches.GetMatch(ctx, event, match, level)
	if err != nil {
		return planning.Match{}, fmt.Errorf("fetch match %s%d: %w", level, match, err)
	}
	return ToPlanningMatch(m), nil
}

// MatchProjection is a projection for a scheduled match.
type MatchProjection struct {
	Match  planning.Match    `json:"match"`
	Result projection.Result `json:"projection"`
}

// ProjectMatch projects a scheduled match from its remote line-up.
func (s *Service) ProjectMatch(ctx context.Context, match int, level string, q types.Query) (MatchProjection, error) {
	m, err := s.fetchMatch(ctx, match, level)
	if err != nil {
		return MatchProjection{}, err
	}
	res, err := s.ProjectTeams(ctx, m.Red, m.Blue, q)
	if err != nil {
		return MatchProjection{}, err
	}
	return MatchProjection{Match: m, Result: res}, nil
}

// MatchSummary briefs every team in a scheduled match.
func (s *Service) MatchSummary(ctx context.Context, match int, level string, source types.Source) (summary.Match, error) {
	m, err := s.fetchMatch(ctx, match, level)
	if err != nil {
		return summary.Match{}, err
	}
	byTeam, err := s.teamsOf(ctx, source)
	if err != nil {
		return summary.Match{}, err
	}
	start := time.Now()
	out := summary.ForMatch(m, byTeam, s.calc)
	metrics.RecordEngineComputation("summary", start)
	return out, nil
}

// Plan lists the matches to watch before team's next qualification
// matches after match. lookahead <= 0 uses the configured default.
func (s *Service) Plan(ctx context.Context, team, match, lookahead int) (planning.Plan, error) {
	event, err := s.eventCode(ctx)
	if err != nil {
		return planning.Plan{}, err
	}
	if lookahead <= 0 {
		lookahead = s.lookahead
	}
	teamMatches, err := s.matches.GetTeamMatches(ctx, event, team)
	if err != nil {
		return planning.Plan{}, fmt.Errorf("fetch team %d matches: %w", team, err)
	}
	eventMatches, err := s.matches.GetEventMatches(ctx, event)
	if err != nil {
		return planning.Plan{}, fmt.Errorf("fetch event matches: %w", err)
	}

	start := time.Now()
	plan, err := planning.Build(team, match, toPlanningMatches(teamMatches), toPlanningMatches(eventMatches), lookahead)
	metrics.RecordEngineComputation("plan", start)
	if err != nil {
		return planning.Plan{}, fmt.Errorf("plan team %d match %d: %w", team, match, err)
	}
	return plan, nil
}

// Config returns the app config with the API key masked.
func (s *Service) Config(ctx context.Context) (settings.AppConfig, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return settings.AppConfig{}, fmt.Errorf("load app config: %w", err)
	}
	return cfg.Redacted(), nil
}

// UpdateConfig merges p into the app config and returns it masked.
func (s *Service) UpdateConfig(ctx context.Context, p settings.Partial) (settings.AppConfig, error) {
	cfg, err := s.settings.Set(ctx, p)
	if err != nil {
		return settings.AppConfig{}, fmt.Errorf("update app config: %w", err)
	}
	return cfg.Redacted(), nil
}
