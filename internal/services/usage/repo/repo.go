// Package repo stores usage entries in postgres
package repo

import (
	"context"

	"birdspot/internal/modkit/repokit"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/store"
	"birdspot/internal/services/usage/domain"
)

type (
	// PG binds the repo to a Queryer
	PG struct{}
	// queries implements domain.Repo over postgres
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

const (
	sqlAppend = `
INSERT INTO usage_logs (id, identity, ip, endpoint, fingerprint, cached, model, input_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	sqlRecent = `
SELECT id, identity, ip, endpoint, fingerprint, cached, model, input_bytes, created_at
FROM usage_logs
ORDER BY created_at DESC, id DESC
LIMIT $1`
)

func (r *queries) Append(ctx context.Context, e domain.Entry) error {
	_, err := r.q.Exec(ctx, sqlAppend,
		e.ID, e.Identity, e.IP, e.Endpoint, e.Fingerprint, e.Cached, e.Model, e.InputBytes, e.CreatedAt)
	return perr.FromPostgres(err, "usage append")
}

func (r *queries) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	out, err := store.Many(ctx, r.q, scanEntry, sqlRecent, domain.ClampRecent(limit))
	if err != nil {
		return nil, perr.FromPostgres(err, "usage recent")
	}
	return out, nil
}

func scanEntry(row store.Row) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(&e.ID, &e.Identity, &e.IP, &e.Endpoint, &e.Fingerprint, &e.Cached, &e.Model, &e.InputBytes, &e.CreatedAt)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, err
}
