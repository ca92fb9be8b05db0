package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	perr "birdspot/internal/platform/errors"
	ptime "birdspot/internal/platform/time"
	"birdspot/internal/services/quota/domain"
	"birdspot/internal/services/quota/repo"
)

var day1 = time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)

func newSvc(mode domain.Mode, now *time.Time) (*Svc, *repo.Memory) {
	mem := repo.NewMemory()
	return New(mem, Config{
		Mode:   mode,
		Limits: domain.Limits{User: 2, IP: 3},
		Clock:  func() time.Time { return *now },
	}), mem
}

func TestEnforceLimitThenNextDay(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeCheckThenIncrement, domain.ModeAtomic} {
		t.Run(string(mode), func(t *testing.T) {
			now := day1
			s, _ := newSvc(mode, &now)
			ctx := context.Background()
			who := domain.Caller{Identity: "alice", Explicit: true}

			for i := 1; i <= 2; i++ {
				u, err := s.Enforce(ctx, who)
				if err != nil {
					t.Fatalf("call %d: %v", i, err)
				}
				if u.Count != i || u.Limit != 2 || u.Day != "2026-05-01" {
					t.Fatalf("call %d usage = %+v", i, u)
				}
			}
			u, err := s.Enforce(ctx, who)
			if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
				t.Fatalf("third call err = %v", err)
			}
			if u.Count != 2 {
				t.Fatalf("rejected usage = %+v", u)
			}
			if pe, ok := perr.As(err); !ok || pe.Message() != "daily identification limit reached (2/day)" {
				t.Fatalf("message = %v", err)
			}

			now = day1.Add(2 * time.Minute)
			if _, err := s.Enforce(ctx, who); err != nil {
				t.Fatalf("next day: %v", err)
			}
		})
	}
}

func TestEnforceUsesIPLimitForAnonymousCallers(t *testing.T) {
	now := day1
	s, _ := newSvc(domain.ModeCheckThenIncrement, &now)
	who := domain.Caller{Identity: "ip:192.0.2.1"}
	for i := 0; i < 3; i++ {
		if _, err := s.Enforce(context.Background(), who); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if _, err := s.Enforce(context.Background(), who); !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("err = %v", err)
	}
}

func TestEnforceZeroLimitRejectsEverything(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeCheckThenIncrement, domain.ModeAtomic} {
		mem := repo.NewMemory()
		s := New(mem, Config{Mode: mode, Clock: ptime.Fixed(day1)})
		if _, err := s.Enforce(context.Background(), domain.Caller{Identity: "bob", Explicit: true}); !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
			t.Fatalf("%s: err = %v", mode, err)
		}
		if n, _ := mem.Count(context.Background(), "bob", "2026-05-01"); n != 0 {
			t.Fatalf("%s: rejected call was charged, count = %d", mode, n)
		}
	}
}

func TestEnforceRejectsEmptyIdentity(t *testing.T) {
	now := day1
	s, _ := newSvc(domain.ModeAtomic, &now)
	if _, err := s.Enforce(context.Background(), domain.Caller{Identity: "  "}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestAtomicModeNeverOvershoots(t *testing.T) {
	now := day1
	s, mem := newSvc(domain.ModeAtomic, &now)
	who := domain.Caller{Identity: "carol", Explicit: true}

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Enforce(context.Background(), who); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	if ok.Load() != 2 {
		t.Fatalf("admitted %d, want 2", ok.Load())
	}
	if n, _ := mem.Count(context.Background(), "carol", "2026-05-01"); n != 2 {
		t.Fatalf("count = %d", n)
	}
}

type failingLedger struct{ repo.Memory }

func (*failingLedger) Count(context.Context, string, string) (int, error) {
	return 0, perr.Unavailablef("ledger down")
}

func TestEnforcePropagatesLedgerErrors(t *testing.T) {
	s := New(&failingLedger{}, Config{Limits: domain.Limits{User: 5}, Clock: ptime.Fixed(day1)})
	if _, err := s.Enforce(context.Background(), domain.Caller{Identity: "dave", Explicit: true}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestUsageAndReset(t *testing.T) {
	now := day1
	s, _ := newSvc(domain.ModeCheckThenIncrement, &now)
	ctx := context.Background()
	who := domain.Caller{Identity: "erin", Explicit: true}
	_, _ = s.Enforce(ctx, who)
	_, _ = s.Enforce(ctx, who)

	u, err := s.Usage(ctx, "erin", "")
	if err != nil || u.Count != 2 || u.Limit != 2 || u.Day != "2026-05-01" {
		t.Fatalf("usage = %+v, %v", u, err)
	}
	if err := s.Reset(ctx, "erin", "2026-05-01"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := s.Enforce(ctx, who); err != nil {
		t.Fatalf("after reset: %v", err)
	}

	ip, _ := s.Usage(ctx, "ip:10.0.0.1", "2026-04-30")
	if ip.Limit != 3 || ip.Count != 0 {
		t.Fatalf("ip usage = %+v", ip)
	}
}

func TestBadDayIsValidation(t *testing.T) {
	now := day1
	s, _ := newSvc(domain.ModeCheckThenIncrement, &now)
	if _, err := s.Usage(context.Background(), "x", "01/05/2026"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("usage err = %v", err)
	}
	if err := s.Reset(context.Background(), "x", "yesterday"); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("reset err = %v", err)
	}
}

func TestNewPanicsWithoutLedger(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil, Config{})
}
