package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// document is the on-disk shape shared with the scouting sheet export.
type document struct {
	Matches []map[string]any `json:"matches"`
}

// JSONStore keeps one document per source in a directory. Every write
// rewrites the whole file; the last writer wins.
type JSONStore struct {
	mu    sync.RWMutex
	dir   string
	files map[types.Source]string
	log   logger.Logger
}

// NewJSONStore creates a store rooted at dir. Files are created lazily.
func NewJSONStore(dir string, opts ...Option) *JSONStore {
	o := apply(opts)
	return &JSONStore{dir: dir, files: o.files, log: o.log}
}

// Path returns the file backing source.
func (s *JSONStore) Path(source types.Source) string {
	return filepath.Join(s.dir, s.files[source])
}

func (s *JSONStore) read(source types.Source) ([]model.Record, error) {
	data, err := os.ReadFile(s.Path(source))
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path(source), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.Path(source), err)
	}
	out := make([]model.Record, 0, len(doc.Matches))
	for _, m := range doc.Matches {
		out = append(out, normalize.Record(stringify(m)))
	}
	return out, nil
}

// stringify flattens scalar JSON values to the strings normalize expects.
func stringify(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = x
		case json.Number:
			out[k] = x.String()
		case bool:
			if x {
				out[k] = "y"
			} else {
				out[k] = "n"
			}
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

func (s *JSONStore) write(source types.Source, recs []model.Record) error {
	doc := document{Matches: make([]map[string]any, 0, len(recs))}
	for _, r := range recs {
		fields := normalize.Fields(r)
		m := make(map[string]any, len(fields))
		for k, v := range fields {
			m[k] = v
		}
		doc.Matches = append(doc.Matches, m)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", source, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := s.Path(source)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func observe(backend, op string, start time.Time) {
	metrics.RecordStoreLatency(backend, op, float64(time.Since(start).Microseconds())/1000)
}

func (s *JSONStore) ListMatches(_ context.Context, source types.Source) ([]model.Record, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	defer observe("json", "list", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(source)
}

func (s *JSONStore) ListMatchesForTeam(ctx context.Context, team int, source types.Source) ([]model.Record, error) {
	all, err := s.ListMatches(ctx, source)
	if err != nil {
		return nil, err
	}
	return filterTeam(all, team), nil
}

func (s *JSONStore) Append(ctx context.Context, source types.Source, recs ...model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	defer observe("json", "append", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(source)
	if err != nil {
		return err
	}
	if err := s.write(source, append(current, recs...)); err != nil {
		return err
	}
	s.log.Debug(ctx, "records appended", logger.String("source", string(source)), logger.Int("count", len(recs)))
	return nil
}

func (s *JSONStore) Replace(ctx context.Context, source types.Source, recs []model.Record) error {
	if err := checkSource(source); err != nil {
		return err
	}
	defer observe("json", "replace", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(source, recs); err != nil {
		return err
	}
	s.log.Info(ctx, "records replaced", logger.String("source", string(source)), logger.Int("count", len(recs)))
	return nil
}

func (s *JSONStore) Count(ctx context.Context, source types.Source) (int, error) {
	recs, err := s.ListMatches(ctx, source)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
