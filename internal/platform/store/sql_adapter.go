package store

import (
	"context"
	"errors"
	"time"

	"birdspot/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the statement surface shared by the pool and a pgx.Tx
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced runs statements on db and reports each one to the pg tracer
type traced struct {
	db pgxQuerier
	pg *pg.PG
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.db.Exec(ctx, sql, args...)
	t.pg.Trace(ctx, sql, args, start, err)
	return ct, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.db.Query(ctx, sql, args...)
	t.pg.Trace(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow is traced when the row is scanned, which is when pgx reports the error
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return scanHook{
		Row: t.db.QueryRow(ctx, sql, args...),
		done: func(err error) {
			if errors.Is(err, pgx.ErrNoRows) {
				err = nil
			}
			t.pg.Trace(ctx, sql, args, start, err)
		},
	}
}

// pgAdapter is the TxRunner over the pool
type pgAdapter struct {
	traced
}

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{traced{db: p.Pool, pg: p}} }

// Ping asks the pool for a live connection
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.pg == nil {
		return errors.New("pg: not open")
	}
	return a.pg.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.pg.Close(); return nil }

// Tx commits when fn returns nil and rolls back otherwise
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.pg.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{db: tx, pg: a.pg}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

type scanHook struct {
	pgx.Row
	done func(error)
}

func (s scanHook) Scan(dst ...any) error {
	err := s.Row.Scan(dst...)
	s.done(err)
	return err
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	names := make([]string, len(fds))
	for i, fd := range fds {
		names[i] = fd.Name
	}
	return names
}
