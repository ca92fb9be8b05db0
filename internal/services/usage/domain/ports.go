// Package domain holds the usage log contracts
package domain

import "context"

// Repo is the authoritative store of usage entries
type Repo interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Sink mirrors entries somewhere best effort; Enqueue never blocks
type Sink interface {
	Enqueue(e Entry)
}

// RecorderPort is what request flows write to
type RecorderPort interface {
	Log(ctx context.Context, e Entry) error
}

// ReaderPort is the operator surface
type ReaderPort interface {
	// Recent returns the newest entries first
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
