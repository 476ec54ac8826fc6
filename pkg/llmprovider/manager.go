package llmprovider

import (
	"context"
	"fmt"
	"time"

	"nutrition-assistant/pkg/log"
)

// Manager tries providers in the order given. Each provider is retried in
// place before the next one is consulted, and only when fallback is on.
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config tunes retry and fallback for a Manager.
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int // values below 1 mean a single attempt
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // zero disables the global timeout
}

// NewManager returns a Manager over providers. A nil config means one attempt
// against the first provider with no overall deadline.
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	if config == nil {
		config = &Config{}
	}
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// Providers returns the providers in priority order.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// GenerateContent returns the first successful reply. When every provider
// fails the error wraps ErrAllProvidersFailed and the last ProviderError.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("llm deadline reached with %d provider(s) configured: %w",
				len(m.providers), ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		m.report(ctx, provider, resp, err)
		if err == nil {
			return resp, nil
		}
		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry waits attempt*RetryDelay between calls.
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * m.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// report logs the outcome of one provider's attempts: info on success, warn
// when it is exhausted.
func (m *Manager) report(ctx context.Context, p Provider, resp *Response, err error) {
	if err != nil {
		m.logger.Warnf(ctx, "llm %s/%s gave up: %v", p.Name(), p.Model(), err)
		return
	}
	var in, out int
	if resp.Usage != nil {
		in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
	}
	m.logger.Infof(ctx, "llm reply from %s/%s (tokens in=%d out=%d)", p.Name(), p.Model(), in, out)
}
