package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const DEFAULT_MAX_BODY_BYTES = 64 << 10

type ServerConfig struct {
	Host            string `toml:"host"`
	Port            string `toml:"port"`
	ReadTimeout     int    `toml:"read_timeout_seconds"`
	WriteTimeout    int    `toml:"write_timeout_seconds"`
	IdleTimeout     int    `toml:"idle_timeout_seconds"`
	ShutdownTimeout int    `toml:"shutdown_timeout_seconds"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
}

type SentimentConfig struct {
	StripMarkdown bool `toml:"strip_markdown"`
}

type ValkeyConfig struct {
	Address             string `toml:"address"`
	Password            string `toml:"password"`
	TLS                 bool   `toml:"tls"`
	CacheTTL            int    `toml:"cache_ttl_seconds"`
	HealthcheckInterval int    `toml:"healthcheck_interval_seconds"`
}

type Config struct {
	Env       string          `toml:"-"`
	LogLevel  string          `toml:"log_level"`
	Server    ServerConfig    `toml:"server"`
	Sentiment SentimentConfig `toml:"sentiment"`
	Valkey    ValkeyConfig    `toml:"valkey"`
}

func Default() *Config {
	return &Config{
		Env:      "dev",
		LogLevel: "info",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "5000",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			MaxBodyBytes:    DEFAULT_MAX_BODY_BYTES,
		},
		Valkey: ValkeyConfig{
			CacheTTL:            86400,
			HealthcheckInterval: 15,
		},
	}
}

// Load starts from defaults, applies the TOML file named by CONFIG_PATH if
// any, then environment variables, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	return cfg, cfg.validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnvOrDefault("APP_ENV", c.Env)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)

	c.Server.Host = getEnvOrDefault("HOST", c.Server.Host)
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvOrDefaultInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvOrDefaultInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvOrDefaultInt("IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvOrDefaultInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = int64(getEnvOrDefaultInt("MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))

	c.Sentiment.StripMarkdown = getEnvOrDefaultBool("STRIP_MARKDOWN", c.Sentiment.StripMarkdown)

	c.Valkey.Address = getEnvOrDefault("VALKEY_INIT_ADDRESS", c.Valkey.Address)
	c.Valkey.Password = getEnvOrDefault("VALKEY_PASSWORD", c.Valkey.Password)
	c.Valkey.TLS = getEnvOrDefaultBool("VALKEY_TLS", c.Valkey.TLS)
	c.Valkey.CacheTTL = getEnvOrDefaultInt("CACHE_TTL", c.Valkey.CacheTTL)
	c.Valkey.HealthcheckInterval = getEnvOrDefaultInt("HEALTHCHECK_INTERVAL", c.Valkey.HealthcheckInterval)
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return &ConfigError{Field: "PORT", Message: fmt.Sprintf("invalid port %q", c.Server.Port)}
	}
	if _, err := c.SlogLevel(); err != nil {
		return &ConfigError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}

	positive := []struct {
		field string
		value int
	}{
		{"READ_TIMEOUT", c.Server.ReadTimeout},
		{"WRITE_TIMEOUT", c.Server.WriteTimeout},
		{"IDLE_TIMEOUT", c.Server.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout},
		{"CACHE_TTL", c.Valkey.CacheTTL},
		{"HEALTHCHECK_INTERVAL", c.Valkey.HealthcheckInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ConfigError{Field: p.field, Message: "must be a positive number of seconds"}
		}
	}

	if c.Server.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "MAX_BODY_BYTES", Message: "must be positive"}
	}

	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

func (c *Config) CacheEnabled() bool {
	return c.Valkey.Address != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration     { return seconds(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration    { return seconds(s.WriteTimeout) }
func (s ServerConfig) IdleTimeoutDuration() time.Duration     { return seconds(s.IdleTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration { return seconds(s.ShutdownTimeout) }

func (v ValkeyConfig) CacheTTLDuration() time.Duration            { return seconds(v.CacheTTL) }
func (v ValkeyConfig) HealthcheckIntervalDuration() time.Duration { return seconds(v.HealthcheckInterval) }

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		slog.Warn("Ignoring non-numeric environment value",
			slog.String("key", key))
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		slog.Warn("Ignoring non-boolean environment value",
			slog.String("key", key))
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
