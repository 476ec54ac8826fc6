package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig

	// Chat relay
	Chat  ChatConfig
	Cache  CacheConfig
	Redis  RedisConfig
	SQLite SQLiteConfig

	// Observability
	Telemetry TelemetryConfig

	// LLM Provider Abstraction
	LLM LLMConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
	FilePath     string // optional rotated log file, written alongside stdout
	MaxSizeMB    int
	MaxBackups   int
	MaxAgeDays   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
	MaxClients     int
}

// ChatConfig controls prompt building and delivery pacing.
type ChatConfig struct {
	SystemPrompt string        // empty uses the built-in nutrition assistant prompt
	Pacing       time.Duration // pause between two streamed words
}

// CacheConfig controls the response cache.
type CacheConfig struct {
	Backend      string // "memory", "redis" or "sqlite"
	TTL          time.Duration
	SingleFlight bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

// TelemetryConfig controls OpenTelemetry traces and metrics, exported as
// JSON into rotated files under Dir.
type TelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	Dir             string
	MetricsInterval time.Duration
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendSQLite = "sqlite"
)

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // empty means no timeout
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

// fromViper maps a populated viper instance onto Config.
func fromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.FilePath = v.GetString("logger.file_path")
	cfg.Logger.MaxSizeMB = v.GetInt("logger.max_size_mb")
	cfg.Logger.MaxBackups = v.GetInt("logger.max_backups")
	cfg.Logger.MaxAgeDays = v.GetInt("logger.max_age_days")
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))

	cfg.RateLimit.Enabled = v.GetBool("rate_limit.enabled")
	cfg.RateLimit.RequestsPerMin = v.GetInt("rate_limit.requests_per_min")
	cfg.RateLimit.MaxClients = v.GetInt("rate_limit.max_clients")

	// Chat relay
	cfg.Chat.SystemPrompt = v.GetString("chat.system_prompt")
	cfg.Chat.Pacing = v.GetDuration("chat.pacing")

	cfg.Cache.Backend = strings.ToLower(v.GetString("cache.backend"))
	cfg.Cache.TTL = v.GetDuration("cache.ttl")
	cfg.Cache.SingleFlight = v.GetBool("cache.single_flight")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")

	cfg.SQLite.Path = v.GetString("sqlite.path")

	cfg.Telemetry.Enabled = v.GetBool("telemetry.enabled")
	cfg.Telemetry.ServiceName = v.GetString("telemetry.service_name")
	cfg.Telemetry.Dir = v.GetString("telemetry.dir")
	cfg.Telemetry.MetricsInterval = v.GetDuration("telemetry.metrics_interval")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = v.GetString("llm.max_total_timeout")

	if v.IsSet("llm.providers") {
		if providersList, ok := v.Get("llm.providers").([]interface{}); ok {
			for _, p := range providersList {
				providerMap, ok := p.(map[string]interface{})
				if !ok {
					continue
				}
				cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
					Name:     getStringFromMap(providerMap, "name"),
					Enabled:  getBoolFromMap(providerMap, "enabled"),
					Priority: getIntFromMap(providerMap, "priority"),
					APIKey:   expandEnvVar(v, getStringFromMap(providerMap, "api_key")),
					BaseURL:  getStringFromMap(providerMap, "base_url"),
					Model:    getStringFromMap(providerMap, "model"),
				})
			}
		}
	}

	// Without a providers section, fall back to Gemini keyed by GEMINI_API_KEY.
	if len(cfg.LLM.Providers) == 0 {
		cfg.LLM.Providers = []ProviderConfig{{
			Name:     "gemini",
			Enabled:  true,
			Priority: 1,
			APIKey:   strings.TrimSpace(v.GetString("gemini_api_key")),
			Model:    "gemini-1.5-flash",
		}}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 28)
	v.SetDefault("cors.allowed_origins", "*")

	// Off unless asked for: POST /api/chat has no per-client limit by default.
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_min", 60)
	v.SetDefault("rate_limit.max_clients", 1000)

	v.SetDefault("chat.pacing", "50ms")
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.single_flight", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("sqlite.path", "chat_cache.db")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "nutrition-assistant")
	v.SetDefault("telemetry.dir", "logs")
	v.SetDefault("telemetry.metrics_interval", "10s")

	// One attempt, one provider: a failed generation is reported, not retried.
	v.SetDefault("llm.fallback_enabled", false)
	v.SetDefault("llm.retry_attempts", 1)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "")
}

func (cfg *Config) validate() error {
	if cfg.HTTPServer.Port <= 0 {
		return fmt.Errorf("http_server.port must be positive")
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if cfg.Chat.Pacing < 0 {
		return fmt.Errorf("chat.pacing must not be negative")
	}
	switch cfg.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	case CacheBackendSQLite:
		if cfg.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite cache backend")
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported", cfg.Cache.Backend)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsInterval <= 0 {
		return fmt.Errorf("telemetry.metrics_interval must be positive")
	}
	return validateLLMConfig(&cfg.LLM)
}

// RetryDelayDuration parses RetryDelay, returning zero when unset or invalid.
func (c LLMConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// MaxTotalTimeoutDuration parses MaxTotalTimeout, returning zero when unset or invalid.
func (c LLMConfig) MaxTotalTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.MaxTotalTimeout)
	return d
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return strings.TrimSpace(envValue)
	}
	return strings.TrimSpace(os.Getenv(envVar))
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if !provider.Enabled {
			continue
		}
		enabledCount++

		if provider.Priority <= 0 {
			return fmt.Errorf("provider %s: priority must be positive", provider.Name)
		}
		if priorityMap[provider.Priority] {
			return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
		}
		priorityMap[provider.Priority] = true
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}
