// Package service wires the scouting engine to its stores, the ingest
// pipeline and the remote match-data client. HTTP, CLI and MCP all go
// through it.
package service

import (
	"context"
	"runtime"
	"sync"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/adapters/mq/queue"
	"github.com/reefscout/reefscout/internal/adapters/mq/worker"
	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	"github.com/reefscout/reefscout/internal/adapters/tba"
	"github.com/reefscout/reefscout/internal/domain/dedupe"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/scoring"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// MatchData is the remote schedule source. *tba.Client satisfies it.
type MatchData interface {
	GetMatch(ctx context.Context, eventCode string, matchNumber int, level string) (tba.MatchInfo, error)
	GetTeamMatches(ctx context.Context, eventCode string, team int) ([]tba.MatchInfo, error)
	GetEventMatches(ctx context.Context, eventCode string) ([]tba.MatchInfo, error)
}

// Service is the analytics facade.
type Service struct {
	mu sync.RWMutex

	store     repository.Store
	settings  settings.Store
	matches   MatchData
	calc      *scoring.Calculator
	importer  *csvimport.Importer
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool
	defaults  types.Query
	maxLimit  int
	lookahead int

	workerCount int
	queueSize   int
	dedupeSize  int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithSettings sets the app config store.
func WithSettings(s settings.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.settings = s
		}
	}
}

// WithMatchData sets the remote schedule client.
func WithMatchData(m MatchData) Option {
	return func(svc *Service) { svc.matches = m }
}

// WithCalculator overrides the score calculator.
func WithCalculator(c *scoring.Calculator) Option {
	return func(svc *Service) {
		if c != nil {
			svc.calc = c
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the ingest queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the fingerprint cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDefaultQuery sets the selectors used when a caller omits them.
func WithDefaultQuery(q types.Query) Option {
	return func(s *Service) { s.defaults = q }
}

// WithMaxRankingLimit caps ranking list lengths.
func WithMaxRankingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLookahead sets how many upcoming matches a plan covers.
func WithLookahead(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lookahead = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Call Start before submitting records.
func New(opts ...Option) *Service {
	s := &Service{
		store:       repository.NewMemoryStore(),
		settings:    settings.NewMemoryStore(settings.Defaults()),
		calc:        scoring.NewCalculator(),
		defaults:    types.DefaultQuery(),
		maxLimit:    200,
		lookahead:   planning.DefaultLookahead,
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  50_000,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.importer = csvimport.New(s.store, csvimport.WithLogger(s.logger.Named("import")))
	return s
}

// Defaults returns the selectors applied when a request omits them.
func (s *Service) Defaults() types.Query { return s.defaults }

// Store returns the record store.
func (s *Service) Store() repository.Store { return s.store }

// Start creates the deduper, queue and worker pool and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store,
		worker.WithLogger(s.logger),
		worker.WithForgetter(s.deduper),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "scouting service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains the ingest queue and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	err := s.pool.Shutdown(ctx)
	if closer, ok := s.store.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil {
			s.logger.Error(ctx, "close store", logger.Error(cerr))
		}
	}
	s.logger.Info(ctx, "scouting service stopped", logger.Int64("stored", s.pool.Processed()))
	return err
}

// Started reports whether Start was called without a matching Stop.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["stored"] = s.pool.Processed()
	}

	records := make(map[string]int)
	for _, src := range types.Sources() {
		n, err := s.store.Count(ctx, src)
		if err != nil {
			s.logger.Warn(ctx, "count records", logger.String("source", string(src)), logger.Error(err))
			continue
		}
		records[string(src)] = n
		metrics.UpdateStoredRecords(string(src), n)
	}
	stats["records"] = records
	return stats
}
