package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"nutrition-assistant/internal/chat/repository/memory"
	"nutrition-assistant/pkg/llmprovider"
	"nutrition-assistant/pkg/stream"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// mockProvider records every prompt and returns a fixed reply or error.
type mockProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	release chan struct{} // when set, calls block until closed
	prompts []string
}

func (m *mockProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, req.Messages[0].Parts[0].Text)
	release := m.release
	m.mu.Unlock()

	if release != nil {
		<-release
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llmprovider.Response{
		Content:      llmprovider.Message{Role: llmprovider.RoleAssistant, Parts: []llmprovider.Part{{Text: m.reply}}},
		ProviderName: "mock",
		ModelName:    "mock-model",
		Usage:        &llmprovider.Usage{},
	}, nil
}

func (m *mockProvider) Name() string  { return "mock" }
func (m *mockProvider) Model() string { return "mock-model" }

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockProvider) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

var errMockUpstream = errors.New("quota exceeded")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	uc       *implUseCase
	provider *mockProvider
	clock    *fakeClock
}

// newTestEnv wires the usecase with a mock provider behind a real Manager,
// an in-memory cache with a fake clock and no pacing.
func newTestEnv(provider *mockProvider, singleFlight bool) testEnv {
	clock := newFakeClock()
	manager := llmprovider.NewManager([]llmprovider.Provider{provider}, &llmprovider.Config{RetryAttempts: 1}, &mockLogger{})
	repo := memory.New(time.Hour, clock.Now)
	uc := New(&mockLogger{}, manager, repo, Config{SystemPrompt: "SYSTEM", SingleFlight: singleFlight})
	return testEnv{uc: uc, provider: provider, clock: clock}
}

// drain reads every chunk of s.
func drain(t *testing.T, s *stream.Stream) []string {
	t.Helper()
	chunks, err := collect(s)
	if err != nil {
		t.Fatalf("stream.Next: %v", err)
	}
	return chunks
}

func collect(s *stream.Stream) ([]string, error) {
	var chunks []string
	for {
		chunk, err := s.Next(context.Background())
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
}
