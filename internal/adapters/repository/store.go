// Package repository persists the workspace session record.
package repository

import (
	"context"
	"sync"

	"github.com/okian/crewcast/internal/domain/model"
)

// Store provides read/write access to the persisted session record.
type Store interface {
	// Load returns the current record. Returns ErrNotInitialized when no
	// record has ever been saved; callers must treat that as a distinct
	// condition, not a transient failure.
	Load(ctx context.Context) (model.SessionRecord, error)

	// Save replaces the record. Called only after a fully successful
	// pipeline run.
	Save(ctx context.Context, record model.SessionRecord) error
}

// MemoryStore implements Store in process memory. Used by tests and by
// deployments that accept losing state on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	record      model.SessionRecord
	initialized bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record or ErrNotInitialized.
func (s *MemoryStore) Load(_ context.Context) (model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.SessionRecord{}, ErrNotInitialized
	}
	return s.record.Clone(), nil
}

// Save replaces the stored record.
func (s *MemoryStore) Save(_ context.Context, record model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = record.Clone()
	s.initialized = true
	return nil
}
