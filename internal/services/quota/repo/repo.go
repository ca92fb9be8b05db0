// Package repo provides quota ledger storage
package repo

import (
	"context"

	"birdspot/internal/modkit/repokit"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/store"
	"birdspot/internal/services/quota/domain"
)

type (
	// PG binds the ledger to a Queryer
	PG struct{}
	// queries implements domain.Ledger over postgres
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres ledger
func NewPG() repokit.Binder[domain.Ledger] { return PG{} }

// Bind wires a Queryer to the ledger
func (PG) Bind(q repokit.Queryer) domain.Ledger { return &queries{q: q} }

const (
	sqlCount = `SELECT count FROM usage_counters WHERE identity = $1 AND day = $2`

	sqlIncrement = `
INSERT INTO usage_counters (identity, day, count)
VALUES ($1, $2, 1)
ON CONFLICT (identity, day) DO UPDATE
SET count = usage_counters.count + 1, updated_at = now()
RETURNING count`

	// the WHERE on the conflict arm turns the upsert into a no-op at the ceiling
	sqlIncrementIfBelow = `
INSERT INTO usage_counters (identity, day, count)
SELECT $1::text, $2::text, 1 WHERE $3::int > 0
ON CONFLICT (identity, day) DO UPDATE
SET count = usage_counters.count + 1, updated_at = now()
WHERE usage_counters.count < $3::int
RETURNING count`

	sqlReset = `DELETE FROM usage_counters WHERE identity = $1 AND day = $2`
)

func (r *queries) Count(ctx context.Context, identity, day string) (int, error) {
	n, _, err := store.Lookup[int](ctx, r.q, sqlCount, identity, day)
	if err != nil {
		return 0, perr.FromPostgres(err, "quota count")
	}
	return n, nil
}

func (r *queries) Increment(ctx context.Context, identity, day string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, sqlIncrement, identity, day).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "quota increment")
	}
	return n, nil
}

func (r *queries) IncrementIfBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	n, ok, err := store.Lookup[int](ctx, r.q, sqlIncrementIfBelow, identity, day, limit)
	if err != nil {
		return 0, false, perr.FromPostgres(err, "quota increment if below")
	}
	if !ok {
		// rejected: report the current count
		cur, cerr := r.Count(ctx, identity, day)
		return cur, false, cerr
	}
	return n, true, nil
}

func (r *queries) Reset(ctx context.Context, identity, day string) error {
	_, err := r.q.Exec(ctx, sqlReset, identity, day)
	return perr.FromPostgres(err, "quota reset")
}
