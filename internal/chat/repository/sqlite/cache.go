package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nutrition-assistant/internal/chat/repository"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

const createRepliesTable = `
CREATE TABLE IF NOT EXISTS chat_replies (
	cache_key  TEXT PRIMARY KEY,
	chunks     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

type implRepository struct {
	db  *sql.DB
	ttl time.Duration
	now repository.Clock
}

// New creates a SQLite backed Repository that survives restarts.
// created_at is stored as unix nanoseconds so the injected clock round-trips exactly.
func New(ctx context.Context, db *sql.DB, ttl time.Duration, now repository.Clock) (repository.Repository, error) {
	if _, err := db.ExecContext(ctx, createRepliesTable); err != nil {
		return nil, fmt.Errorf("migrate chat_replies: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &implRepository{db: db, ttl: ttl, now: now}, nil
}

func (r *implRepository) Get(ctx context.Context, key string) (repository.Entry, bool, error) {
	var (
		raw       string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT chunks, created_at FROM chat_replies WHERE cache_key = ?`, key,
	).Scan(&raw, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.Entry{}, false, nil
	}
	if err != nil {
		return repository.Entry{}, false, fmt.Errorf("sqlite get: %w", err)
	}

	entry := repository.Entry{Key: key, CreatedAt: time.Unix(0, createdAt)}
	if r.now().Sub(entry.CreatedAt) >= r.ttl {
		return repository.Entry{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &entry.Chunks); err != nil {
		return repository.Entry{}, false, fmt.Errorf("sqlite decode: %w", err)
	}
	return entry, true, nil
}

func (r *implRepository) Set(ctx context.Context, entry repository.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	chunks, err := json.Marshal(entry.Chunks)
	if err != nil {
		return fmt.Errorf("sqlite encode: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO chat_replies (cache_key, chunks, created_at) VALUES (?, ?, ?)`,
		entry.Key, string(chunks), entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Len counts stored rows, expired ones included.
func (r *implRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_replies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite count: %w", err)
	}
	return n, nil
}
