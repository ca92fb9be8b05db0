//go:build integration_pg

package store_test

import (
	"context"
	"errors"
	"testing"

	"birdspot/internal/platform/store"
	"birdspot/internal/platform/store/storetest"
)

func TestOpenMigratesAndGuards(t *testing.T) {
	s := storetest.OpenPG(t)
	ctx := context.Background()

	if err := s.Guard(ctx); err != nil {
		t.Fatalf("guard: %v", err)
	}
	n, _, err := store.Lookup[int](ctx, s.PG, `SELECT count(*) FROM schema_migrations`)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied migrations = %d", n)
	}

	// second run is a no-op
	if err := store.Migrate(ctx, s.PG); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
}

func TestTxRollsBack(t *testing.T) {
	s := storetest.OpenPG(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.PG.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO result_cache (key, payload) VALUES ('k', '{}')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	n, _, err := store.Lookup[int](ctx, s.PG, `SELECT count(*) FROM result_cache`)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows after rollback = %d", n)
	}
}
