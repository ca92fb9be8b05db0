// Package repokit holds the seams SQL repos are written against
package repokit

import (
	"fmt"
	"reflect"

	"birdspot/internal/platform/store"
)

type (
	// Queryer is what a bound repo runs statements on: the pool or an open transaction
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner

	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder produces a repo T bound to a Queryer
// a repo bound inside TxRunner.Tx takes part in that transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// MustBind binds b to q and panics when q is nil
// modules call it at construction so a missing database fails at startup
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic(fmt.Sprintf("repokit: %s needs a Queryer, got nil", reflect.TypeFor[T]()))
	}
	return b.Bind(q)
}
