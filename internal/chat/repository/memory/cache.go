package memory

import (
	"context"
	"sync"
	"time"

	"nutrition-assistant/internal/chat/repository"
)

// implRepository is a process-local cache. It never evicts: an expired entry
// stays in memory until a newer reply for the same key overwrites it.
type implRepository struct {
	mu      sync.RWMutex
	entries map[string]repository.Entry
	ttl     time.Duration
	now     repository.Clock
}

// New creates an in-memory Repository. A nil clock uses time.Now.
func New(ttl time.Duration, now repository.Clock) repository.Repository {
	if now == nil {
		now = time.Now
	}
	return &implRepository{
		entries: make(map[string]repository.Entry),
		ttl:     ttl,
		now:     now,
	}
}

func (r *implRepository) Get(ctx context.Context, key string) (repository.Entry, bool, error) {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok || r.now().Sub(entry.CreatedAt) >= r.ttl {
		return repository.Entry{}, false, nil
	}
	return entry, true, nil
}

func (r *implRepository) Set(ctx context.Context, entry repository.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	chunks := make([]string, len(entry.Chunks))
	copy(chunks, entry.Chunks)
	entry.Chunks = chunks

	r.mu.Lock()
	r.entries[entry.Key] = entry
	r.mu.Unlock()
	return nil
}

// Len counts stored entries, expired ones included.
func (r *implRepository) Len(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries), nil
}
