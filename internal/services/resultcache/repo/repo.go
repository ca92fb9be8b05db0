// Package repo provides durable storage for cached results
package repo

import (
	"context"
	"encoding/json"

	"birdspot/internal/modkit/repokit"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/store"
)

// Repo is the persistence surface of the result cache
type Repo interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type (
	// PG binds the repo to a Queryer
	PG struct{}
	// queries implements Repo over postgres
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const (
	sqlGet = `SELECT payload FROM result_cache WHERE key = $1`

	sqlUpsert = `
INSERT INTO result_cache (key, payload)
VALUES ($1, $2::jsonb)
ON CONFLICT (key) DO UPDATE
SET payload = EXCLUDED.payload, updated_at = now()`

	sqlDelete = `DELETE FROM result_cache WHERE key = $1`

	sqlCount = `SELECT count(*) FROM result_cache`
)

func (r *queries) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	payload, ok, err := store.Lookup[[]byte](ctx, r.q, sqlGet, key)
	if err != nil || !ok {
		return nil, false, perr.FromPostgres(err, "result cache get")
	}
	return json.RawMessage(payload), true, nil
}

func (r *queries) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.q.Exec(ctx, sqlUpsert, key, string(value))
	return perr.FromPostgres(err, "result cache set")
}

func (r *queries) Delete(ctx context.Context, key string) (bool, error) {
	n, err := store.Affected(ctx, r.q, sqlDelete, key)
	if err != nil {
		return false, perr.FromPostgres(err, "result cache delete")
	}
	return n > 0, nil
}

func (r *queries) Count(ctx context.Context) (int64, error) {
	n, _, err := store.Lookup[int64](ctx, r.q, sqlCount)
	if err != nil {
		return 0, perr.FromPostgres(err, "result cache count")
	}
	return n, nil
}
