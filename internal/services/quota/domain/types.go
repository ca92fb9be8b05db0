package domain

// Mode picks how Enforce talks to the ledger
type Mode string

// Enforcement modes
const (
	// ModeCheckThenIncrement reads then writes; concurrent callers may overshoot the limit slightly
	ModeCheckThenIncrement Mode = "check_then_increment"
	// ModeAtomic uses IncrementIfBelow and never overshoots
	ModeAtomic Mode = "atomic"
)

// Backend names a ledger store
type Backend string

// Supported backends
const (
	BackendPG    Backend = "pg"
	BackendRedis Backend = "redis"
)

// Caller is who a request is charged to
// Explicit is false for identities synthesized from the client ip
type Caller struct {
	Identity string
	Explicit bool
}

// Limits are the daily ceilings
type Limits struct {
	User int
	IP   int
}

// For returns the ceiling that applies to c
func (l Limits) For(c Caller) int {
	if c.Explicit {
		return l.User
	}
	return l.IP
}

// Usage is a counter snapshot
type Usage struct {
	Identity string `json:"identity" example:"user-42"`
	Day      string `json:"day" example:"2026-05-01"`
	Count    int    `json:"count" example:"3"`
	Limit    int    `json:"limit,omitempty" example:"25"`
}
