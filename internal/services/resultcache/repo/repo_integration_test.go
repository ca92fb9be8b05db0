//go:build integration_pg

package repo_test

import (
	"context"
	"encoding/json"
	"testing"

	"birdspot/internal/platform/store/storetest"
	"birdspot/internal/services/resultcache/repo"
)

func TestPGRoundTrip(t *testing.T) {
	s := storetest.OpenPG(t)
	r := repo.NewPG().Bind(s.PG)
	ctx := context.Background()

	if _, ok, err := r.Get(ctx, "photo_missing"); ok || err != nil {
		t.Fatalf("missing key = %v %v", ok, err)
	}
	if err := r.Set(ctx, "photo_a", json.RawMessage(`{"notes":"one"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.Set(ctx, "photo_a", json.RawMessage(`{"notes":"two"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := r.Get(ctx, "photo_a")
	if err != nil || !ok {
		t.Fatalf("get = %v %v", ok, err)
	}
	var m map[string]string
	if err := json.Unmarshal(got, &m); err != nil || m["notes"] != "two" {
		t.Fatalf("payload = %s", got)
	}
	if n, err := r.Count(ctx); err != nil || n != 1 {
		t.Fatalf("count = %d %v", n, err)
	}
	if ok, err := r.Delete(ctx, "photo_a"); err != nil || !ok {
		t.Fatalf("delete = %v %v", ok, err)
	}
}
