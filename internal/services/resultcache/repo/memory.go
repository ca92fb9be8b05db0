package repo

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is a process local Repo for tests and single node experiments
// it does not survive restarts
type Memory struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage

	// Err, when set, fails every call
	Err error
}

// NewMemory returns an empty Memory repo
func NewMemory() *Memory { return &Memory{data: map[string]json.RawMessage{}} }

var _ Repo = (*Memory)(nil)

// Get implements Repo
func (m *Memory) Get(_ context.Context, key string) (json.RawMessage, bool, error) {
	if m.Err != nil {
		return nil, false, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), v...), true, nil
}

// Set implements Repo
func (m *Memory) Set(_ context.Context, key string, value json.RawMessage) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append(json.RawMessage(nil), value...)
	return nil
}

// Delete implements Repo
func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

// Count implements Repo
func (m *Memory) Count(context.Context) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data)), nil
}
