package repository

import (
	"context"
	"time"

	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// StartMetricsUpdater publishes per-source record counts every interval
// until ctx is done.
func StartMetricsUpdater(ctx context.Context, s Store, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				UpdateMetrics(ctx, s)
			}
		}
	}()
}

// UpdateMetrics publishes per-source record counts once.
func UpdateMetrics(ctx context.Context, s Store) {
	for _, src := range types.Sources() {
		if n, err := s.Count(ctx, src); err == nil {
			metrics.UpdateStoredRecords(string(src), n)
		}
	}
}
