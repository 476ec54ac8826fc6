package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"nutrition-assistant/internal/chat/repository"
)

const keyPrefix = "chat:reply:"

type implRepository struct {
	client *redis.Client
	ttl    time.Duration
	now    repository.Clock
}

// New creates a Redis backed Repository shared by every instance pointing at
// the same server. Keys expire after ttl; CreatedAt is checked on read as well.
func New(ctx context.Context, client *redis.Client, ttl time.Duration, now repository.Clock) (repository.Repository, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &implRepository{client: client, ttl: ttl, now: now}, nil
}

func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (r *implRepository) Get(ctx context.Context, key string) (repository.Entry, bool, error) {
	data, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err == redis.Nil {
		return repository.Entry{}, false, nil
	}
	if err != nil {
		return repository.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var entry repository.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return repository.Entry{}, false, fmt.Errorf("decode entry: %w", err)
	}

	// Hash collision or stale entry
	if entry.Key != key || r.now().Sub(entry.CreatedAt) >= r.ttl {
		return repository.Entry{}, false, nil
	}
	return entry, true, nil
}

func (r *implRepository) Set(ctx context.Context, entry repository.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(entry.Key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *implRepository) Len(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return n, nil
}
