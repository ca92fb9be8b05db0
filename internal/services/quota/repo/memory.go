package repo

import (
	"context"
	"sync"

	"birdspot/internal/services/quota/domain"
)

// Memory is a process local ledger for tests
type Memory struct {
	mu     sync.Mutex
	counts map[[2]string]int
}

// NewMemory returns an empty ledger
func NewMemory() *Memory { return &Memory{counts: map[[2]string]int{}} }

var _ domain.Ledger = (*Memory)(nil)

// Count implements domain.Ledger
func (m *Memory) Count(_ context.Context, identity, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[[2]string{identity, day}], nil
}

// Increment implements domain.Ledger
func (m *Memory) Increment(_ context.Context, identity, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{identity, day}
	m.counts[k]++
	return m.counts[k], nil
}

// IncrementIfBelow implements domain.Ledger
func (m *Memory) IncrementIfBelow(_ context.Context, identity, day string, limit int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{identity, day}
	if m.counts[k] >= limit {
		return m.counts[k], false, nil
	}
	m.counts[k]++
	return m.counts[k], true, nil
}

// Reset implements domain.Ledger
func (m *Memory) Reset(_ context.Context, identity, day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, [2]string{identity, day})
	return nil
}
