// Package worker drains the ingest queue into the record store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/reefscout/reefscout/internal/adapters/mq/queue"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Appender stores records. repository.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, source types.Source, recs ...model.Record) error
}

// Forgetter releases a fingerprint. dedupe.Deduper satisfies it.
type Forgetter interface {
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Item
}

// InMemoryWorker stores one submission at a time.
type InMemoryWorker struct {
	name   string
	queue  Queue
	store  Appender
	forget Forgetter
	logger logger.Logger

	processed *atomic.Int64
	shutdown  chan struct{}
	done      chan struct{}
}

// NewInMemoryWorker creates a worker reading from q and writing to store.
func NewInMemoryWorker(q Queue, store Appender, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		name:      "worker",
		queue:     q,
		store:     store,
		logger:    logger.Nop(),
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run consumes submissions until ctx is done, Shutdown is called, or the
// queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case it, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, it); err != nil {
				w.logger.Error(ctx, "store submission", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker and waits for the current submission.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, it queue.Item) error { //nolint:gocritic // hugeParam: passed by value off the channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.store.Append(ctx, it.Source, it.Record); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordIngestError("store")
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		if w.forget != nil && it.Fingerprint != "" {
			w.forget.Unrecord(ctx, it.Fingerprint)
		}
		return fmt.Errorf("append submission %s: %w", it.ID, err)
	}

	metrics.RecordRecordsStored(string(it.Source), 1)
	w.processed.Add(1)
	w.logger.Debug(ctx, "submission stored",
		logger.String("id", it.ID),
		logger.String("source", string(it.Source)),
		logger.Int("team", it.Record.TeamNumber),
		logger.Int("match", it.Record.MatchNumber),
	)
	return nil
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	processed *atomic.Int64
	lastTick  time.Time

	shutdown chan struct{}
	logger   logger.Logger
}

// NewPool creates workerCount workers. workerCount < 1 means NumCPU.
func NewPool(workerCount int, q Queue, store Appender, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     q,
		processed: new(atomic.Int64),
		lastTick:  time.Now(),
		shutdown:  make(chan struct{}),
		logger:    logger.Nop(),
	}
	probe := &InMemoryWorker{logger: p.logger}
	for _, opt := range opts {
		opt(probe)
	}
	p.logger = probe.logger.Named("worker-pool")

	for i := range p.workers {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		w := NewInMemoryWorker(q, store, wopts...)
		w.processed = p.processed
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many submissions were stored since start.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start launches every worker plus the throughput updater.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			cur := p.processed.Load()
			if secs := now.Sub(p.lastTick).Seconds(); secs > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(cur-last) / secs)
			}
			last = cur
			p.lastTick = now
		}
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "close queue", logger.Error(err))
		}
	}
	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
