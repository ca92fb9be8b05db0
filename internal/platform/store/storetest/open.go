//go:build integration_pg

package storetest

import (
	"context"
	"io"
	"testing"

	"birdspot/internal/platform/store"

	"github.com/rs/zerolog"
)

// OpenPG starts postgres, applies the embedded migrations and returns an open store
func OpenPG(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:        true,
			URL:            Postgres(t),
			AutoMigrate:    true,
			ConnectRetries: 10,
		},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}
