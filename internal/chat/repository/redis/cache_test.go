package redis

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"nutrition-assistant/internal/chat/repository"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRepo(t *testing.T) (repository.Repository, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	repo, err := New(context.Background(), client, time.Hour, clock.Now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return repo, mr, clock
}

func TestRedisKey(t *testing.T) {
	k1 := redisKey("what should i eat for breakfast?")
	k2 := redisKey("what should i eat for breakfast?")
	k3 := redisKey("hi")

	if k1 != k2 {
		t.Errorf("expected stable key, got %s and %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("expected different keys for different input")
	}
	if !strings.HasPrefix(k1, keyPrefix) || len(k1) != len(keyPrefix)+64 {
		t.Errorf("unexpected key format %s", k1)
	}
}

func TestNew_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := New(ctx, client, time.Hour, nil); err == nil {
		t.Fatal("expected ping error for unreachable server")
	}
}

func TestRepository_TTL(t *testing.T) {
	ctx := context.Background()
	repo, mr, clock := newTestRepo(t)
	start := clock.Now()

	if _, ok, err := repo.Get(ctx, "hi"); ok || err != nil {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := repo.Set(ctx, repository.Entry{Key: "hi", Chunks: []string{"a ", "b"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL(redisKey("hi")); ttl != time.Hour {
		t.Errorf("expected EXPIRE of 1h, got %v", ttl)
	}

	clock.Advance(59 * time.Minute)
	entry, ok, err := repo.Get(ctx, "hi")
	if err != nil || !ok {
		t.Fatalf("expected hit within TTL, ok=%v err=%v", ok, err)
	}
	if len(entry.Chunks) != 2 || entry.Chunks[0] != "a " || entry.Chunks[1] != "b" {
		t.Errorf("unexpected chunks %q", entry.Chunks)
	}
	if !entry.CreatedAt.Equal(start) {
		t.Errorf("expected CreatedAt %v, got %v", start, entry.CreatedAt)
	}

	// The server still holds the key; the CreatedAt check alone reports the miss.
	clock.Advance(2 * time.Minute)
	if _, ok, _ := repo.Get(ctx, "hi"); ok {
		t.Fatal("expected miss after 61 minutes")
	}

	if err := repo.Set(ctx, repository.Entry{Key: "hi", Chunks: []string{"new"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	entry, ok, _ = repo.Get(ctx, "hi")
	if !ok || len(entry.Chunks) != 1 || entry.Chunks[0] != "new" {
		t.Errorf("expected overwritten entry, got ok=%v %q", ok, entry.Chunks)
	}
	if n, err := repo.Len(ctx); err != nil || n != 1 {
		t.Errorf("expected 1 key, got %d (%v)", n, err)
	}
}

func TestRepository_Get(t *testing.T) {
	tests := []struct {
		name    string
		stored  string
		wantHit bool
		wantErr bool
	}{
		{
			name:    "matching entry",
			stored:  `{"key":"hi","chunks":["hello"],"created_at":"2024-01-01T08:00:00Z"}`,
			wantHit: true,
		},
		{
			name:   "hash collision with another key",
			stored: `{"key":"other","chunks":["hello"],"created_at":"2024-01-01T08:00:00Z"}`,
		},
		{
			name:   "created exactly one TTL ago",
			stored: `{"key":"hi","chunks":["hello"],"created_at":"2024-01-01T07:00:00Z"}`,
		},
		{
			name:    "corrupt payload",
			stored:  `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mr, _ := newTestRepo(t)
			if err := mr.Set(redisKey("hi"), tt.stored); err != nil {
				t.Fatalf("seed: %v", err)
			}

			_, ok, err := repo.Get(context.Background(), "hi")
			if ok != tt.wantHit {
				t.Errorf("hit = %v, want %v", ok, tt.wantHit)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepository_StoredFormat(t *testing.T) {
	ctx := context.Background()
	repo, mr, clock := newTestRepo(t)

	if err := repo.Set(ctx, repository.Entry{Key: "hi", Chunks: []string{"x ", "y"}}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = repo.Set(ctx, repository.Entry{Key: "other", Chunks: []string{"z"}})

	raw, err := mr.Get(redisKey("hi"))
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	var stored repository.Entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if stored.Key != "hi" || len(stored.Chunks) != 2 || !stored.CreatedAt.Equal(clock.Now()) {
		t.Errorf("unexpected stored entry %+v", stored)
	}

	// Keys outside the prefix are not counted.
	_ = mr.Set("unrelated", "1")
	if n, _ := repo.Len(ctx); n != 2 {
		t.Errorf("expected 2 cache keys, got %d", n)
	}
}
