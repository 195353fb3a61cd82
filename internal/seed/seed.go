// Package seed drives a running service with synthetic scouting records:
// it generates plausible matches, submits them concurrently to
// POST /records and checks that GET /rankings reflects them.
package seed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/reefscout/reefscout/pkg/logger"
)

// Config holds the seeding parameters.
type Config struct {
	BaseURL string
	Event   string
	Source  string
	Teams   int
	Matches int
	Workers int
	Timeout time.Duration
	// Seed makes generation reproducible.
	Seed uint64
	// Settle bounds how long Run waits for the ingest workers to store
	// every accepted record.
	Settle time.Duration
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:9080"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Event == "" {
		c.Event = "2025seed"
	}
	if c.Source == "" {
		c.Source = "live"
	}
	if c.Teams < 6 {
		c.Teams = 24
	}
	if c.Matches <= 0 {
		c.Matches = 12
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Settle <= 0 {
		c.Settle = 30 * time.Second
	}
	return c
}

// Stats summarizes one run.
type Stats struct {
	Generated int           `json:"generated"`
	Accepted  int           `json:"accepted"`
	Duplicate int           `json:"duplicate"`
	Failed    int           `json:"failed"`
	Ranked    int           `json:"ranked"`
	Duration  time.Duration `json:"duration"`
}

// Runner executes seeding runs against one service.
type Runner struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		if c != nil {
			r.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(cfg Config, opts ...Option) *Runner {
	cfg = cfg.withDefaults()
	r := &Runner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks health, generates and submits records, waits for them to be
// stored and verifies the rankings.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var st Stats

	r.logger.Info(ctx, "starting seed run",
		logger.String("baseURL", r.cfg.BaseURL),
		logger.Int("teams", r.cfg.Teams),
		logger.Int("matches", r.cfg.Matches),
		logger.Int("workers", r.cfg.Workers))

	if err := r.checkHealth(ctx); err != nil {
		return st, err
	}

	records := Generate(r.cfg)
	st.Generated = len(records)

	sub, err := r.submit(ctx, records)
	if err != nil {
		return st, err
	}
	st.Accepted, st.Duplicate, st.Failed = sub.accepted, sub.duplicate, sub.failed

	if err := r.waitStored(ctx, st.Accepted); err != nil {
		return st, err
	}

	ranked, err := r.verify(ctx)
	st.Ranked = ranked
	st.Duration = time.Since(start)
	if err != nil {
		return st, err
	}

	r.logger.Info(ctx, "seed run completed",
		logger.Int("generated", st.Generated),
		logger.Int("accepted", st.Accepted),
		logger.Int("duplicate", st.Duplicate),
		logger.Int("failed", st.Failed),
		logger.Int("ranked", st.Ranked),
		logger.Duration("duration", st.Duration))
	return st, nil
}

func (r *Runner) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}
