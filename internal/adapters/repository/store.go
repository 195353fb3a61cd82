// Package repository persists normalized scouting records per source.
package repository

import (
	"context"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// Store provides read/write access to scouting records.
type Store interface {
	// ListMatches returns every record of source in insertion order.
	ListMatches(ctx context.Context, source types.Source) ([]model.Record, error)
	// ListMatchesForTeam returns the records of one team.
	ListMatchesForTeam(ctx context.Context, team int, source types.Source) ([]model.Record, error)
	// Append adds records after the existing ones.
	Append(ctx context.Context, source types.Source, recs ...model.Record) error
	// Replace overwrites every record of source.
	Replace(ctx context.Context, source types.Source, recs []model.Record) error
	// Count returns the number of records of source.
	Count(ctx context.Context, source types.Source) (int, error)
}

func filterTeam(recs []model.Record, team int) []model.Record {
	out := make([]model.Record, 0)
	for _, r := range recs {
		if r.TeamNumber == team {
			out = append(out, r)
		}
	}
	return out
}

func checkSource(source types.Source) error {
	switch source {
	case types.SourceLive, types.SourcePrescout:
		return nil
	default:
		return ErrUnknownSource
	}
}
