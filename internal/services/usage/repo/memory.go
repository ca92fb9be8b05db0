package repo

import (
	"context"
	"sync"

	"birdspot/internal/services/usage/domain"
)

// Memory keeps entries in process; Err, when set, fails every call
type Memory struct {
	mu      sync.Mutex
	entries []domain.Entry
	Err     error
}

// NewMemory returns an empty repo
func NewMemory() *Memory { return &Memory{} }

var _ domain.Repo = (*Memory)(nil)

// Append implements domain.Repo
func (m *Memory) Append(_ context.Context, e domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.entries = append(m.entries, e)
	return nil
}

// Recent implements domain.Repo
func (m *Memory) Recent(_ context.Context, limit int) ([]domain.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	limit = min(domain.ClampRecent(limit), len(m.entries))
	out := make([]domain.Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

// All returns every entry in append order
func (m *Memory) All() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Entry(nil), m.entries...)
}
