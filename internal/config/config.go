// Package config provides unified configuration loading for the knowledge engine.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the knowledge engine.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cache         CacheConfig         `yaml:"cache"`
	LLM           LLMConfig           `yaml:"llm"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig holds disambiguation cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// LLMConfig holds language model settings.
type LLMConfig struct {
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// RetrievalConfig holds retrieval pipeline settings.
type RetrievalConfig struct {
	MaxResults      int           `yaml:"max_results"`
	ProductTopK     int           `yaml:"product_top_k"`
	LoadRetries     int           `yaml:"load_retries"`
	LoadBackoff     time.Duration `yaml:"load_backoff"`
	RecentOrderSpan int           `yaml:"recent_order_span"`
}

// ResolverConfig holds specific-product resolver settings.
type ResolverConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	FallbackThreshold   float64 `yaml:"fallback_threshold"`
	HistoryTurns        int     `yaml:"history_turns"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8086,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     30 * time.Second,
			GracefulShutdown: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             "postgres://localhost:5432/support?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        30 * time.Minute,
			MaxEntries: 100,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
		},
		LLM: LLMConfig{
			Model:      "openai/gpt-4o-mini",
			BaseURL:    "https://openrouter.ai/api/v1",
			Timeout:    20 * time.Second,
			MaxRetries: 2,
		},
		Retrieval: RetrievalConfig{
			MaxResults:      5,
			ProductTopK:     3,
			LoadRetries:     3,
			LoadBackoff:     2 * time.Second,
			RecentOrderSpan: 5,
		},
		Resolver: ResolverConfig{
			ConfidenceThreshold: 0.3,
			FallbackThreshold:   5.0,
			HistoryTurns:        4,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// Load reads configuration from the given YAML file, then applies
// environment overrides. A missing file is not an error: defaults plus
// environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config values from KE_-prefixed environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("KE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("KE_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("KE_CACHE_DRIVER"); v != "" {
		c.Cache.Driver = v
	}
	if v := os.Getenv("KE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv("KE_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KE_REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("KE_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("KE_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("KE_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("KE_LOG_LEVEL"); v != "" {
		c.Observability.LogLevel = v
	}
	if v := os.Getenv("KE_LOG_FORMAT"); v != "" {
		c.Observability.LogFormat = v
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max_entries must be positive")
	}
	if c.Retrieval.MaxResults <= 0 {
		return fmt.Errorf("retrieval max_results must be positive")
	}
	if c.Resolver.ConfidenceThreshold < 0 || c.Resolver.ConfidenceThreshold > 1 {
		return fmt.Errorf("resolver confidence_threshold must be in [0,1]")
	}
	if !strings.HasPrefix(c.Database.DSN, "postgres://") && !strings.Contains(c.Database.DSN, "host=") {
		return fmt.Errorf("database dsn does not look like a postgres DSN")
	}
	return nil
}
