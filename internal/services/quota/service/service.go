// Package service enforces daily identification quotas
package service

import (
	"context"
	"strings"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/metrics"
	ptime "birdspot/internal/platform/time"
	"birdspot/internal/services/quota/domain"
)

// Service is the quota contract
type Service interface {
	domain.EnforcerPort
	domain.AdminPort
}

// Config tunes enforcement
type Config struct {
	Mode    domain.Mode
	Limits  domain.Limits
	Clock   ptime.Clock
	Metrics *metrics.Metrics
}

// Svc implements Service over a Ledger
type Svc struct {
	ledger domain.Ledger
	cfg    Config
}

var _ Service = (*Svc)(nil)

// New constructs the service
func New(ledger domain.Ledger, cfg Config) *Svc {
	if ledger == nil {
		panic("quota.Service requires a non nil Ledger")
	}
	if cfg.Mode == "" {
		cfg.Mode = domain.ModeCheckThenIncrement
	}
	if cfg.Clock == nil {
		cfg.Clock = ptime.System()
	}
	return &Svc{ledger: ledger, cfg: cfg}
}

// Enforce charges one request to who for the current UTC day
func (s *Svc) Enforce(ctx context.Context, who domain.Caller) (domain.Usage, error) {
	if strings.TrimSpace(who.Identity) == "" {
		return domain.Usage{}, perr.InvalidArgf("quota identity is empty")
	}
	day := s.cfg.Clock.Day()
	limit := s.cfg.Limits.For(who)
	u := domain.Usage{Identity: who.Identity, Day: day, Limit: limit}

	var (
		n   int
		ok  bool
		err error
	)
	switch s.cfg.Mode {
	case domain.ModeAtomic:
		n, ok, err = s.ledger.IncrementIfBelow(ctx, who.Identity, day, limit)
	default:
		n, err = s.ledger.Count(ctx, who.Identity, day)
		if err == nil && n < limit {
			n, err = s.ledger.Increment(ctx, who.Identity, day)
			ok = err == nil
		}
	}
	if err != nil {
		return u, err
	}
	u.Count = n
	if !ok {
		s.cfg.Metrics.QuotaRejected(who.Explicit)
		logger.C(ctx).Info().
			Str("identity", who.Identity).
			Int("count", n).
			Int("limit", limit).
			Msg("quota rejected")
		return u, perr.TooManyf("daily identification limit reached (%d/day)", limit)
	}
	return u, nil
}

// Usage reads the counter of identity on day, today when day is empty
func (s *Svc) Usage(ctx context.Context, identity, day string) (domain.Usage, error) {
	day, err := s.day(day)
	if err != nil {
		return domain.Usage{}, err
	}
	n, err := s.ledger.Count(ctx, identity, day)
	if err != nil {
		return domain.Usage{}, err
	}
	limit := s.cfg.Limits.For(domain.Caller{Identity: identity, Explicit: !strings.HasPrefix(identity, "ip:")})
	return domain.Usage{Identity: identity, Day: day, Count: n, Limit: limit}, nil
}

// Reset clears the counter of identity on day, today when day is empty
func (s *Svc) Reset(ctx context.Context, identity, day string) error {
	day, err := s.day(day)
	if err != nil {
		return err
	}
	if err := s.ledger.Reset(ctx, identity, day); err != nil {
		return err
	}
	logger.C(ctx).Info().Str("identity", identity).Str("day", day).Msg("quota reset")
	return nil
}

func (s *Svc) day(day string) (string, error) {
	if day == "" {
		return s.cfg.Clock.Day(), nil
	}
	if !ptime.ValidDay(day) {
		return "", perr.WithField(perr.Validationf("day must look like %s", ptime.DayLayout), "day")
	}
	return day, nil
}
