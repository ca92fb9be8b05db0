package domain

// Backend names a durable cache store
type Backend string

// Supported backends
const (
	BackendPG    Backend = "pg"
	BackendRedis Backend = "redis"
)

// Stats summarizes the cache
type Stats struct {
	Backend     Backend `json:"backend" example:"pg"`
	Entries     int64   `json:"entries" example:"1204"`
	MemoEntries int     `json:"memo_entries" example:"37"`
}
