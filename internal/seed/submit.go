package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"

	"github.com/reefscout/reefscout/pkg/logger"
)

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

type submitCounts struct {
	accepted, duplicate, failed int
}

// submit posts records with a fixed pool of workers.
func (r *Runner) submit(ctx context.Context, records []Record) (submitCounts, error) {
	url := r.cfg.BaseURL + "/records"

	var bar *progressbar.ProgressBar
	if r.cfg.Progress != nil {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetWriter(r.cfg.Progress),
			progressbar.OptionSetDescription("seeding"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var accepted, duplicate, failed atomic.Int64
	jobs := make(chan Record, r.cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				switch r.post(ctx, url, rec) {
				case outcomeAccepted:
					accepted.Add(1)
				case outcomeDuplicate:
					duplicate.Add(1)
				default:
					failed.Add(1)
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			case jobs <- rec:
			}
		}
	}()
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	counts := submitCounts{
		accepted:  int(accepted.Load()),
		duplicate: int(duplicate.Load()),
		failed:    int(failed.Load()),
	}
	if err := ctx.Err(); err != nil {
		return counts, fmt.Errorf("submit records: %w", err)
	}
	r.logger.Info(ctx, "records submitted",
		logger.Int("accepted", counts.accepted),
		logger.Int("duplicate", counts.duplicate),
		logger.Int("failed", counts.failed))
	return counts, nil
}

// post maps the ack status onto an outcome: 202 accepted, 200 duplicate.
func (r *Runner) post(ctx context.Context, url string, rec Record) outcome {
	body, err := json.Marshal(rec)
	if err != nil {
		return outcomeFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return outcomeFailed
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug(ctx, "submit failed", logger.Error(err))
		return outcomeFailed
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		return outcomeDuplicate
	default:
		r.logger.Debug(ctx, "submit rejected", logger.Int("status", resp.StatusCode))
		return outcomeFailed
	}
}
