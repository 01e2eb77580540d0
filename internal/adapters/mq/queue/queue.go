// Package queue defines the bounded edit queue feeding the session
// runner. Edits are consumed strictly in enqueue order; backpressure is
// reported to the transport instead of interleaving work.
package queue

import (
	"context"
	"sync"

	"github.com/okian/crewcast/internal/domain/model"
	"github.com/okian/crewcast/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 256
)

// Result is the outcome of one orchestration cycle, delivered on the
// envelope's reply channel.
type Result struct {
	Prediction *model.Prediction
	Err        error
}

// Envelope carries one edit command together with its reply channel. The
// reply channel must have capacity one so the runner never blocks on a
// departed caller.
type Envelope struct {
	Cmd   model.EditCommand
	Reply chan Result
}

// NewEnvelope wraps a command with a buffered reply channel.
func NewEnvelope(cmd model.EditCommand) Envelope {
	return Envelope{Cmd: cmd, Reply: make(chan Result, 1)}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an envelope. Returns false when the queue is full or
	// closed and the envelope was not accepted.
	Enqueue(ctx context.Context, e Envelope) bool

	// Dequeue returns the consumption channel. It is closed when the
	// queue is closed.
	Dequeue(ctx context.Context) <-chan Envelope

	// Len returns the current number of pending envelopes.
	Len(ctx context.Context) int

	// Close stops the queue. Pending envelopes remain consumable.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	envelopes chan Envelope
	capacity  int
	mu        sync.RWMutex
	closed    bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending edits.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates an in-memory edit queue with configuration
// options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.envelopes = make(chan Envelope, q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue adds an envelope to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Envelope) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEditRejected()
		return false
	}

	select {
	case q.envelopes <- e:
		metrics.UpdateQueueDepth(len(q.envelopes))
		return true
	case <-ctx.Done():
		metrics.RecordEditRejected()
		return false
	default:
		metrics.RecordEditRejected()
		return false
	}
}

// Dequeue returns the consumption channel.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Envelope {
	return q.envelopes
}

// Len returns the current number of pending envelopes.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.envelopes)
	metrics.UpdateQueueDepth(n)
	return n
}

// Close stops the queue. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.envelopes)
	q.closed = true
	return nil
}
