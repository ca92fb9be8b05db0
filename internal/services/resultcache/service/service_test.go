package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/testkit"
	"birdspot/internal/services/resultcache/domain"
	"birdspot/internal/services/resultcache/repo"
	"birdspot/internal/services/resultcache/service"
)

func TestSetGetIdempotence(t *testing.T) {
	ctx := context.Background()
	s := service.New(repo.NewMemory(), service.Config{Backend: domain.BackendPG})

	if _, ok, err := s.Get(ctx, "photo_a"); ok || err != nil {
		t.Fatalf("empty cache hit: %v %v", ok, err)
	}
	v1 := json.RawMessage(`{"notes":"one"}`)
	v2 := json.RawMessage(`{"notes":"two"}`)

	if err := s.Set(ctx, "photo_a", v1); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "photo_a")
	if err != nil || !ok || string(got) != string(v1) {
		t.Fatalf("get after set = %s %v %v", got, ok, err)
	}
	if err := s.Set(ctx, "photo_a", v2); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = s.Get(ctx, "photo_a")
	if string(got) != string(v2) {
		t.Fatalf("last write should win, got %s", got)
	}
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	s := service.New(repo.NewMemory(), service.Config{})
	if err := s.Set(context.Background(), "k", json.RawMessage(`{`)); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestStorageErrorsSurface(t *testing.T) {
	mem := repo.NewMemory()
	mem.Err = perr.Unavailablef("db down")
	s := service.New(mem, service.Config{MemoTTL: time.Minute})
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "k"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("get err = %v", err)
	}
	if err := s.Set(ctx, "k", json.RawMessage(`{}`)); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("set err = %v", err)
	}
	if _, err := s.Stats(ctx); err == nil {
		t.Fatalf("stats should fail")
	}
}

func TestMemoServesRepeatReads(t *testing.T) {
	ctx := context.Background()
	mem := repo.NewMemory()
	s := service.New(mem, service.Config{Backend: domain.BackendRedis, MemoTTL: time.Minute})

	if err := s.Set(ctx, "audio_x", json.RawMessage(`{"cached":false}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	// the durable store going away does not hide a memoized entry
	mem.Err = perr.Unavailablef("gone")
	got, ok, err := s.Get(ctx, "audio_x")
	if err != nil || !ok || string(got) != `{"cached":false}` {
		t.Fatalf("memo get = %s %v %v", got, ok, err)
	}

	// callers may mutate what they get back
	got[0] = 'X'
	again, _, _ := s.Get(ctx, "audio_x")
	if again[0] != '{' {
		t.Fatalf("memo entry was aliased")
	}
	mem.Err = nil

	st, err := s.Stats(ctx)
	if err != nil || st.Entries != 1 || st.MemoEntries != 1 || st.Backend != domain.BackendRedis {
		t.Fatalf("stats = %+v %v", st, err)
	}

	existed, err := s.Delete(ctx, "audio_x")
	if err != nil || !existed {
		t.Fatalf("delete = %v %v", existed, err)
	}
	if _, ok, _ := s.Get(ctx, "audio_x"); ok {
		t.Fatalf("deleted key still served")
	}
	if existed, _ := s.Delete(ctx, "audio_x"); existed {
		t.Fatalf("second delete reported existing")
	}
}

func TestNewPanicsWithoutRepo(t *testing.T) {
	testkit.MustPanic(t, func() { service.New(nil, service.Config{}) })
}
