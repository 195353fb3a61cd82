package service

import (
	"context"
	"fmt"
	"time"

	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	"github.com/reefscout/reefscout/internal/adapters/tba"
	"github.com/reefscout/reefscout/internal/config"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

// OpenStore selects the record store backend named by cfg.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil
	case config.BackendSQLite:
		st, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath, repository.WithLogger(log.Named("store")))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return st, nil
	default:
		return repository.NewJSONStore(cfg.DataDir,
			repository.WithLogger(log.Named("store")),
			repository.WithFile(types.SourceLive, cfg.LiveFile),
			repository.WithFile(types.SourcePrescout, cfg.PrescoutFile),
		), nil
	}
}

// FromConfig wires the configured store, the settings document and a TBA
// client into a Service. opts are applied last.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	defaults, err := types.ParseQuery(types.DefaultQuery(), "", cfg.DefaultMode, cfg.DefaultZeroHandling, "")
	if err != nil {
		return nil, fmt.Errorf("default query: %w", err)
	}

	store, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	st := settings.NewFileStore(cfg.AppConfigPath(), settings.WithLogger(log.Named("settings")))

	client := tba.NewClient(settings.APIKey(st),
		tba.WithBaseURL(cfg.TBABaseURL),
		tba.WithTimeout(time.Duration(cfg.TBATimeoutMS)*time.Millisecond),
		tba.WithRateLimit(cfg.TBARatePerSec, cfg.TBABurst),
		tba.WithLogger(log.Named("tba")),
	)

	base := []Option{
		WithLogger(log.Named("service")),
		WithStore(store),
		WithSettings(st),
		WithMatchData(client),
		WithWorkerCount(cfg.IngestWorkers),
		WithQueueSize(cfg.IngestQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithMaxRankingLimit(cfg.MaxRankingLimit),
		WithDefaultQuery(defaults),
	}
	return New(append(base, opts...)...), nil
}
