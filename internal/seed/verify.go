package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type statsResponse struct {
	Stored int `json:"stored"`
}

type rankingsResponse struct {
	Overall []struct {
		Rank       int     `json:"rank"`
		TeamNumber int     `json:"teamNumber"`
		Value      float64 `json:"value"`
	} `json:"overall"`
}

func (r *Runner) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// waitStored polls /stats until the workers have stored want records.
// The stored counter covers the service lifetime, so it may exceed want.
func (r *Runner) waitStored(ctx context.Context, want int) error {
	if want == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Settle)
	defer cancel()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		var st statsResponse
		if err := r.getJSON(ctx, "/stats", &st); err == nil && st.Stored >= want {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: want %d", ErrNotSettled, want)
		case <-tick.C:
		}
	}
}

// verify checks the overall ranking is non-empty and ordered descending.
func (r *Runner) verify(ctx context.Context) (int, error) {
	q := url.Values{"source": {r.cfg.Source}}
	var board rankingsResponse
	if err := r.getJSON(ctx, "/rankings?"+q.Encode(), &board); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if len(board.Overall) == 0 {
		return 0, fmt.Errorf("%w: no ranked teams", ErrVerification)
	}
	for i, e := range board.Overall {
		if e.Rank != i+1 {
			return len(board.Overall), fmt.Errorf("%w: rank %d at position %d", ErrVerification, e.Rank, i+1)
		}
		if i > 0 && e.Value > board.Overall[i-1].Value {
			return len(board.Overall), fmt.Errorf("%w: team %d out of order", ErrVerification, e.TeamNumber)
		}
	}
	return len(board.Overall), nil
}
