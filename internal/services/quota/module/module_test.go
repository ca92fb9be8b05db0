package module

import (
	"testing"

	"birdspot/internal/modkit"
	"birdspot/internal/platform/config"
	"birdspot/internal/platform/testkit"
	"birdspot/internal/services/quota/domain"
)

func TestFromConfigDefaults(t *testing.T) {
	o := FromConfig(config.New())
	want := Options{
		Backend: domain.BackendPG,
		Mode:    domain.ModeCheckThenIncrement,
		Limits:  domain.Limits{User: 25, IP: 100},
	}
	if o != want {
		t.Fatalf("options = %+v, want %+v", o, want)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("QUOTA_BACKEND", "redis")
	t.Setenv("QUOTA_MODE", "ATOMIC")
	t.Setenv("QUOTA_DAILY_LIMIT_USER", "3")
	t.Setenv("QUOTA_DAILY_LIMIT_IP", "7")
	o := FromConfig(config.New())
	if o.Backend != domain.BackendRedis || o.Mode != domain.ModeAtomic || o.Limits != (domain.Limits{User: 3, IP: 7}) {
		t.Fatalf("options = %+v", o)
	}
}

func TestFromConfigRejectsUnknownMode(t *testing.T) {
	t.Setenv("QUOTA_MODE", "optimistic")
	testkit.MustPanic(t, func() { FromConfig(config.New()) })
}

func TestNewRequiresBackend(t *testing.T) {
	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{Backend: domain.BackendPG}) })
	testkit.MustPanic(t, func() { New(modkit.Deps{}, Options{Backend: domain.BackendRedis}) })
}
