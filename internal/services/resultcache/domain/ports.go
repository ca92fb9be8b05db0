// Package domain holds the result cache contracts
package domain

import (
	"context"
	"encoding/json"
)

// Port is the fingerprint keyed response store
// Set overwrites, so concurrent writers of one key resolve to the last write
type Port interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// AdminPort is the operator surface
type AdminPort interface {
	Delete(ctx context.Context, key string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
}
