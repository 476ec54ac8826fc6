package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadYAML(t *testing.T, raw string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(raw)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return fromViper(v)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "  env-key  ")

	cfg, err := loadYAML(t, "environment:\n  name: test\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Environment.Name != "test" {
		t.Errorf("expected environment test, got %s", cfg.Environment.Name)
	}
	if cfg.HTTPServer.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPServer.Port)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Chat.Pacing != 50*time.Millisecond {
		t.Errorf("expected 50ms pacing, got %v", cfg.Chat.Pacing)
	}
	if cfg.Cache.Backend != CacheBackendMemory || cfg.Cache.SingleFlight {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.LLM.RetryAttempts != 1 || cfg.LLM.FallbackEnabled {
		t.Errorf("expected single attempt without fallback, got %+v", cfg.LLM)
	}
	if cfg.LLM.MaxTotalTimeoutDuration() != 0 {
		t.Errorf("expected no global timeout, got %v", cfg.LLM.MaxTotalTimeoutDuration())
	}

	if cfg.Telemetry.Enabled || cfg.Telemetry.Dir != "logs" || cfg.Telemetry.MetricsInterval != 10*time.Second {
		t.Errorf("unexpected telemetry defaults %+v", cfg.Telemetry)
	}
	if cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMin != 60 {
		t.Errorf("expected rate limiting off by default, got %+v", cfg.RateLimit)
	}
	if cfg.Logger.FilePath != "" || cfg.Logger.MaxSizeMB != 10 {
		t.Errorf("unexpected logger defaults %+v", cfg.Logger)
	}

	if len(cfg.LLM.Providers) != 1 {
		t.Fatalf("expected default gemini provider, got %d", len(cfg.LLM.Providers))
	}
	p := cfg.LLM.Providers[0]
	if p.Name != "gemini" || p.APIKey != "env-key" || p.Model != "gemini-1.5-flash" {
		t.Errorf("unexpected default provider %+v", p)
	}
}

func TestLoad_Providers(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-secret")

	cfg, err := loadYAML(t, `
cache:
  backend: redis
  ttl: 30m
  single_flight: true
cors:
  allowed_origins: "http://localhost:3000, https://app.example.com"
llm:
  fallback_enabled: true
  retry_attempts: 2
  retry_delay: 250ms
  providers:
    - name: gemini
      enabled: true
      priority: 1
      api_key: plain-key
      model: gemini-1.5-flash
    - name: openrouter
      enabled: true
      priority: 2
      api_key: ${OPENROUTER_API_KEY}
      model: meta-llama/llama-3.1-8b-instruct
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.TTL != 30*time.Minute || !cfg.Cache.SingleFlight {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.LLM.RetryDelayDuration() != 250*time.Millisecond {
		t.Errorf("unexpected retry delay %v", cfg.LLM.RetryDelayDuration())
	}
	if len(cfg.LLM.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cfg.LLM.Providers))
	}
	if cfg.LLM.Providers[1].APIKey != "or-secret" {
		t.Errorf("expected env expansion, got %q", cfg.LLM.Providers[1].APIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad backend", "cache:\n  backend: disk\n"},
		{"zero ttl", "cache:\n  ttl: 0s\n"},
		{"sqlite without path", "cache:\n  backend: sqlite\nsqlite:\n  path: \"\"\n"},
		{"telemetry without interval", "telemetry:\n  enabled: true\n  metrics_interval: 0s\n"},
		{"duplicate priority", `
llm:
  providers:
    - {name: gemini, enabled: true, priority: 1, api_key: a}
    - {name: openrouter, enabled: true, priority: 1, api_key: b}
`},
		{"none enabled", `
llm:
  providers:
    - {name: gemini, enabled: false, priority: 1, api_key: a}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadYAML(t, tt.raw); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
