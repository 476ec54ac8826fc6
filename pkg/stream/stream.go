// Package stream delivers a finite sequence of text chunks one at a time
// with a fixed pause between emissions.
package stream

import (
	"context"
	"io"
	"sync"
	"time"
)

// DefaultDelay is the pause between two successive chunks.
const DefaultDelay = 50 * time.Millisecond

// Stream is a non-restartable, paced iterator over chunks.
// A Stream is safe for use by one consumer; Next calls are serialized.
type Stream struct {
	mu      sync.Mutex
	chunks  []string
	pos     int
	delay   time.Duration
	started bool
}

// New returns a Stream over a copy of chunks.
func New(chunks []string, delay time.Duration) *Stream {
	cp := make([]string, len(chunks))
	copy(cp, chunks)
	return &Stream{chunks: cp, delay: delay}
}

// Next returns the next chunk. The first chunk is returned immediately,
// every following one after the configured delay. It returns io.EOF once
// all chunks were emitted and ctx.Err() if ctx ends while waiting.
func (s *Stream) Next(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if s.started && s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	s.started = true
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

// Remaining reports how many chunks are left.
func (s *Stream) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks) - s.pos
}

// WriteTo drains the stream into w, calling flush after every chunk when
// flush is non-nil. It stops early on ctx cancellation or a write error.
func (s *Stream) WriteTo(ctx context.Context, w io.Writer, flush func()) (int64, error) {
	var n int64
	for {
		chunk, err := s.Next(ctx)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		written, err := io.WriteString(w, chunk)
		n += int64(written)
		if err != nil {
			return n, err
		}
		if flush != nil {
			flush()
		}
	}
}
