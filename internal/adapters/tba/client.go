// Package tba is a small client for The Blue Alliance v3 match API.
package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

const (
	DefaultBaseURL = "https://www.thebluealliance.com/api/v3"
	authHeader     = "X-TBA-Auth-Key"
	maxErrorBody   = 4 << 10
)

// Alliance is one side of a match.
type Alliance struct {
	TeamKeys []string `json:"team_keys"`
	Score    int      `json:"score"`
}

// Alliances pairs red and blue.
type Alliances struct {
	Red  Alliance `json:"red"`
	Blue Alliance `json:"blue"`
}

// MatchInfo is the subset of the TBA match model the service uses.
type MatchInfo struct {
	Key           string    `json:"key"`
	CompLevel     string    `json:"comp_level"`
	SetNumber     int       `json:"set_number"`
	MatchNumber   int       `json:"match_number"`
	Alliances     Alliances `json:"alliances"`
	Time          int64     `json:"time"`
	PredictedTime int64     `json:"predicted_time"`
	ActualTime    int64     `json:"actual_time"`
}

// TeamNumber converts "frc254" to 254. Unparseable keys yield 0.
func TeamNumber(key string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(key), "frc"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// TeamNumbers converts a list of team keys, dropping unparseable ones.
func TeamNumbers(keys []string) []int {
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		if n := TeamNumber(k); n > 0 {
			out = append(out, n)
		}
	}
	return out
}

// Credentials supplies the API key at request time so config edits take
// effect without rebuilding the client.
type Credentials func(ctx context.Context) (apiKey string, err error)

// StaticKey returns Credentials for a fixed key.
func StaticKey(key string) Credentials {
	return func(context.Context) (string, error) { return key, nil }
}

// Client talks to the remote match-data API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	creds   Credentials
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRateLimit caps outgoing requests. perSec <= 0 disables limiting.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		if perSec <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a client using creds for the API key.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 5),
		creds:   creds,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMatch fetches one match, e.g. level "qm" and number 12.
func (c *Client) GetMatch(ctx context.Context, eventCode string, matchNumber int, level string) (MatchInfo, error) {
	if err := needEvent(eventCode); err != nil {
		return MatchInfo{}, err
	}
	if level == "" {
		level = "qm"
	}
	key := fmt.Sprintf("%s_%s%d", strings.ToLower(eventCode), strings.ToLower(level), matchNumber)
	var m MatchInfo
	if err := c.get(ctx, "match", "/match/"+url.PathEscape(key), &m); err != nil {
		return MatchInfo{}, err
	}
	return m, nil
}

// GetTeamMatches lists every match of team at eventCode.
func (c *Client) GetTeamMatches(ctx context.Context, eventCode string, team int) ([]MatchInfo, error) {
	if err := needEvent(eventCode); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/team/frc%d/event/%s/matches", team, url.PathEscape(strings.ToLower(eventCode)))
	var ms []MatchInfo
	if err := c.get(ctx, "team_matches", path, &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// GetEventMatches lists every match at eventCode.
func (c *Client) GetEventMatches(ctx context.Context, eventCode string) ([]MatchInfo, error) {
	if err := needEvent(eventCode); err != nil {
		return nil, err
	}
	var ms []MatchInfo
	if err := c.get(ctx, "event_matches", "/event/"+url.PathEscape(strings.ToLower(eventCode))+"/matches", &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func needEvent(eventCode string) error {
	if strings.TrimSpace(eventCode) == "" {
		return fmt.Errorf("%w: event code is not set", ErrPrecondition)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, out any) error {
	key, err := c.creds(ctx)
	if err != nil {
		return fmt.Errorf("resolve api key: %w", err)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: api key is not set", ErrPrecondition)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(authHeader, key)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordTBARequest(endpoint, 0, float64(time.Since(start).Milliseconds()))
		metrics.RecordErrorByComponent("tba", "transport")
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordTBARequest(endpoint, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.RecordErrorByComponent("tba", "upstream_status")
		c.log.Warn(ctx, "upstream error",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode),
		)
		return &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
