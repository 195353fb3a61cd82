// Package queue holds accepted submissions until a worker stores them.
package queue

import (
	"context"
	"sync"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Item is the payload type flowing through the queue.
type Item = model.Submission

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an item. It returns false when the queue is full or closed.
	Enqueue(ctx context.Context, it Item) bool

	// Dequeue returns a channel that receives items until the queue is
	// closed and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan Item

	Len(ctx context.Context) int
	Capacity() int

	// Close stops accepting items. Items already queued are still delivered.
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

func (q *InMemoryQueue) publishSize() int {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, it Item) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.items <- it:
		metrics.RecordQueueEnqueue()
		q.publishSize()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Item {
	out := make(chan Item)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case it, ok := <-q.items:
				if !ok {
					return
				}
				select {
				case out <- it:
					metrics.RecordQueueDequeue()
					q.publishSize()
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(_ context.Context) int { return q.publishSize() }

func (q *InMemoryQueue) Capacity() int { return q.capacity }

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
