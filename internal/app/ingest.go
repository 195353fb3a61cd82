package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/domain/dedupe"
	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// Submission statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

// SubmitResult acknowledges one submitted record.
type SubmitResult struct {
	ID          string `json:"id,omitempty"`
	Status      string `json:"status"`
	Fingerprint string `json:"fingerprint"`
}

// Submit normalizes a raw record and queues it for storage. A record
// already seen (same source, event, level, match, team, scouter) is
// acknowledged as a duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, source types.Source, raw map[string]string) (SubmitResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}
	metrics.RecordRecordReceived(string(source))

	rec := normalize.Record(raw)
	if rec.TeamNumber == 0 {
		metrics.RecordIngestError("validate")
		return SubmitResult{}, fmt.Errorf("%w: record has no team number", ErrBadRequest)
	}

	fp := dedupe.Fingerprint(source, rec)
	if s.deduper.SeenAndRecord(ctx, fp) {
		metrics.RecordRecordDuplicate(string(source))
		s.logger.Debug(ctx, "duplicate submission", logger.String("fingerprint", fp))
		return SubmitResult{Status: StatusDuplicate, Fingerprint: fp}, nil
	}

	sub := model.Submission{
		ID:          uuid.NewString(),
		Source:      source,
		Fingerprint: fp,
		Record:      rec,
		ReceivedAt:  time.Now(),
	}
	if !s.queue.Enqueue(ctx, sub) {
		s.deduper.Unrecord(ctx, fp)
		metrics.RecordIngestError("enqueue")
		return SubmitResult{}, ErrBackpressure
	}
	return SubmitResult{ID: sub.ID, Status: StatusAccepted, Fingerprint: fp}, nil
}

// SubmitRecord queues an already typed record.
func (s *Service) SubmitRecord(ctx context.Context, source types.Source, rec model.Record) (SubmitResult, error) {
	return s.Submit(ctx, source, normalize.Fields(rec))
}

// Import loads a CSV sheet into source.
func (s *Service) Import(ctx context.Context, source types.Source, mode csvimport.Mode, r io.Reader) (csvimport.Report, error) {
	rep, err := s.importer.Import(ctx, source, mode, r)
	if err != nil {
		return rep, fmt.Errorf("import %s: %w", source, err)
	}
	return rep, nil
}
