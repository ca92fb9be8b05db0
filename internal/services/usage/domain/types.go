package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recent listing bounds
const (
	DefaultRecent = 50
	MaxRecent     = 500
)

// Entry is one append only usage record
type Entry struct {
	ID          uuid.UUID `json:"id" example:"6f1c1f84-5c8e-4c55-9a3e-2f1d3c1f1b7a"`
	Identity    string    `json:"identity" example:"ip:203.0.113.7"`
	IP          string    `json:"ip" example:"203.0.113.7"`
	Endpoint    string    `json:"endpoint" example:"/api/identify/photo"`
	Fingerprint string    `json:"fingerprint" example:"photo_9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
	Cached      bool      `json:"cached"`
	Model       string    `json:"model" example:"gpt-4o-mini"`
	InputBytes  int64     `json:"input_bytes" example:"183204"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClampRecent maps a requested limit into [1, MaxRecent], 0 or less meaning the default
func ClampRecent(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecent
	case limit > MaxRecent:
		return MaxRecent
	}
	return limit
}
