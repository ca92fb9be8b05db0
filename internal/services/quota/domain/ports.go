// Package domain holds the quota ledger contracts
package domain

import "context"

// Ledger is the per identity per day counter store
type Ledger interface {
	// Count returns 0 for an absent row
	Count(ctx context.Context, identity, day string) (int, error)
	// Increment creates or bumps the row by exactly one and returns the new count
	Increment(ctx context.Context, identity, day string) (int, error)
	// Reset removes the row
	Reset(ctx context.Context, identity, day string) error
	// IncrementIfBelow bumps the row only while count < limit, in one atomic step
	IncrementIfBelow(ctx context.Context, identity, day string, limit int) (count int, ok bool, err error)
}

// EnforcerPort gates inference spend
type EnforcerPort interface {
	// Enforce records one accepted request for who today or rejects with TooManyRequests
	Enforce(ctx context.Context, who Caller) (Usage, error)
}

// AdminPort is the operator surface
type AdminPort interface {
	Usage(ctx context.Context, identity, day string) (Usage, error)
	Reset(ctx context.Context, identity, day string) error
}
