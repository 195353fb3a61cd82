// Package dedupe tracks which scouting submissions were already accepted.
package dedupe

import (
	"container/list"
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/metrics"
)

const defaultMaxSize = 50_000

// Deduper records seen fingerprints to ensure at-most-once ingest.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a submission rejected downstream
	// (queue backpressure) can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// Fingerprint identifies one scouter's report of one robot in one match.
func Fingerprint(source types.Source, r model.Record) string {
	return strings.Join([]string{
		string(source),
		strings.ToLower(r.Event),
		string(r.Level),
		strconv.Itoa(r.MatchNumber),
		strconv.Itoa(r.TeamNumber),
		strings.ToLower(r.Scouter),
	}, "|")
}

// inMemoryDeduper keeps fingerprints in insertion order. In bounded mode
// the oldest entry is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(string))
	}
	d.seen[id] = d.order.PushBack(id)
	metrics.UpdateDedupeSize(int64(d.order.Len()))
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[id]; ok {
		d.order.Remove(e)
		delete(d.seen, id)
		metrics.UpdateDedupeSize(int64(d.order.Len()))
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
