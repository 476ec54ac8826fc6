package repository

import (
	"context"
	"time"
)

// Entry is a cached reply, already split into chunks.
type Entry struct {
	Key       string    `json:"key"`
	Chunks    []string  `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository stores replies keyed by normalized final message.
// Get reports ok=false for absent entries and for entries older than the TTL.
type Repository interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, entry Entry) error
	Len(ctx context.Context) (int, error)
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
