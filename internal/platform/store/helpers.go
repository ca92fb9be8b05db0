package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Affected runs a write and reports how many rows it touched
func Affected(ctx context.Context, q RowQuerier, sql string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Lookup scans the first column of a single row into T
// found is false with a nil error when the query returns nothing
func Lookup[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (v T, found bool, err error) {
	err = q.QueryRow(ctx, sql, args...).Scan(&v)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		var zero T
		return zero, false, nil
	case err != nil:
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// Many maps every row through scan, returning an empty slice rather than nil
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
