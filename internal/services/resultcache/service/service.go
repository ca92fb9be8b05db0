// Package service implements the result cache with an optional in-process memo
package service

import (
	"context"
	"encoding/json"
	"time"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/services/resultcache/domain"
	"birdspot/internal/services/resultcache/repo"

	gocache "github.com/patrickmn/go-cache"
)

// Service is the result cache contract
type Service interface {
	domain.Port
	domain.AdminPort
}

// Config tunes the service
type Config struct {
	Backend domain.Backend
	// MemoTTL keeps recent entries in process, 0 disables the memo
	MemoTTL time.Duration
}

// Svc implements Service over a durable repo
type Svc struct {
	repo    repo.Repo
	memo    *gocache.Cache
	backend domain.Backend
}

var _ Service = (*Svc)(nil)

// New constructs the service; storage errors are never masked by the memo
func New(r repo.Repo, cfg Config) *Svc {
	if r == nil {
		panic("resultcache.Service requires a non nil Repo")
	}
	s := &Svc{repo: r, backend: cfg.Backend}
	if cfg.MemoTTL > 0 {
		s.memo = gocache.New(cfg.MemoTTL, 2*cfg.MemoTTL)
	}
	return s
}

// Get returns the stored payload for key
func (s *Svc) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	if s.memo != nil {
		if v, ok := s.memo.Get(key); ok {
			return clone(v.(json.RawMessage)), true, nil
		}
	}
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if s.memo != nil {
		s.memo.SetDefault(key, clone(v))
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value
func (s *Svc) Set(ctx context.Context, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return perr.InvalidArgf("result cache value for %s is not json", key)
	}
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	if s.memo != nil {
		s.memo.SetDefault(key, clone(value))
	}
	return nil
}

// Delete removes key and reports whether it existed
func (s *Svc) Delete(ctx context.Context, key string) (bool, error) {
	if s.memo != nil {
		s.memo.Delete(key)
	}
	return s.repo.Delete(ctx, key)
}

// Stats counts stored entries
func (s *Svc) Stats(ctx context.Context) (domain.Stats, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	st := domain.Stats{Backend: s.backend, Entries: n}
	if s.memo != nil {
		st.MemoEntries = s.memo.ItemCount()
	}
	return st, nil
}

func clone(b json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), b...)
}
