// Package service records and lists usage entries
package service

import (
	"context"

	perr "birdspot/internal/platform/errors"
	ptime "birdspot/internal/platform/time"
	"birdspot/internal/services/usage/domain"

	"github.com/google/uuid"
)

// Service is the usage contract
type Service interface {
	domain.RecorderPort
	domain.ReaderPort
}

// Svc writes to the authoritative repo and then to the optional sink
type Svc struct {
	repo  domain.Repo
	sink  domain.Sink
	clock ptime.Clock
	newID func() uuid.UUID
}

var _ Service = (*Svc)(nil)

// New constructs the service; sink may be nil
func New(repo domain.Repo, sink domain.Sink, clock ptime.Clock) *Svc {
	if repo == nil {
		panic("usage.Service requires a non nil Repo")
	}
	return &Svc{repo: repo, sink: sink, clock: clock, newID: uuid.New}
}

// Log appends e, filling its id and timestamp when unset
func (s *Svc) Log(ctx context.Context, e domain.Entry) error {
	if e.Endpoint == "" {
		return perr.InvalidArgf("usage entry has no endpoint")
	}
	if e.ID == uuid.Nil {
		e.ID = s.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock.Now().UTC()
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return err
	}
	if s.sink != nil {
		s.sink.Enqueue(e)
	}
	return nil
}

// Recent lists the newest entries; limit is clamped to [1, 500] with 50 as default
func (s *Svc) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.repo.Recent(ctx, domain.ClampRecent(limit))
}
