// Package dedupe tracks event IDs seen during ingestion so overlapping
// source files cannot double-count rows.
package dedupe

import (
	"context"
	"sync"
)

// Default guard configuration constants.
const (
	defaultMaxSize = 500_000
)

// Guard records seen event IDs for at-most-once ingestion.
type Guard interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of recorded IDs.
	Size() int64
}

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize bounds the number of IDs kept in memory. When the bound is
// reached the oldest recorded IDs are evicted first.
func WithMaxSize(n int) Option {
	return func(g *inMemoryGuard) {
		if n > 0 {
			g.maxSize = n
		}
	}
}

// inMemoryGuard implements Guard with a map plus an insertion-order ring
// for FIFO eviction.
type inMemoryGuard struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	head    int
	maxSize int
}

// NewInMemoryGuard creates an in-memory guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.seen = make(map[string]struct{})
	// order grows lazily and never exceeds maxSize entries.
	return g
}

func (g *inMemoryGuard) SeenAndRecord(_ context.Context, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[id]; ok {
		return true
	}

	if len(g.seen) >= g.maxSize {
		// Evict the oldest recorded ID.
		oldest := g.order[g.head]
		delete(g.seen, oldest)
		g.order[g.head] = id
		g.head = (g.head + 1) % g.maxSize
	} else {
		g.order = append(g.order, id)
	}
	g.seen[id] = struct{}{}
	return false
}

func (g *inMemoryGuard) Size() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return int64(len(g.seen))
}
