// Package config loads application configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the services
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
	Gateway   GatewayConfig
	Logging   LoggingConfig
}

// ServerConfig holds the listen address and public base URL
type ServerConfig struct {
	Port    string
	BaseURL string
	// IPSalt pseudonymizes client addresses in click events
	IPSalt string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the database file for the sqlite driver
	Path string
}

// DSN assembles the driver-specific connection string
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Backend is "redis" or "memory"
	Backend  string
	RedisURL string
	PoolSize int
	// LookupTTL and RedirectTTL override the URL cache defaults when set
	LookupTTL   time.Duration
	RedirectTTL time.Duration
}

// KafkaConfig holds click event streaming configuration
type KafkaConfig struct {
	// Enabled gates click publishing; the redirector runs without Kafka
	// when false
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// RateLimitConfig holds admission control configuration. The fixed mode
// admits Requests per WindowSeconds in a single window; the tiered mode
// layers burst, minute and hour windows.
type RateLimitConfig struct {
	Enabled       bool
	Mode          string
	Requests      int
	WindowSeconds int
}

// GatewayConfig holds the upstream addresses the gateway proxies to
type GatewayConfig struct {
	ShortenerURL  string
	RedirectorURL string
	AnalyticsURL  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
			IPSalt:  getEnv("IP_HASH_SALT", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "cliplink"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "cliplink"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "cliplink.db"),
		},
		Cache: CacheConfig{
			Backend:     getEnv("CACHE_BACKEND", "redis"),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			PoolSize:    getEnvInt("REDIS_POOL_SIZE", 10),
			LookupTTL:   getEnvDuration("CACHE_LOOKUP_TTL", 0),
			RedirectTTL: getEnvDuration("CACHE_REDIRECT_TTL", 0),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_CLICK_TOPIC", "url.clicks"),
			GroupID: getEnv("KAFKA_GROUP_ID", "cliplink-analytics"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvBool("RATE_LIMIT_ENABLED", true),
			Mode:          getEnv("RATE_LIMIT_MODE", "tiered"),
			Requests:      getEnvInt("RATE_LIMIT_REQUESTS", 100),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW", 60),
		},
		Gateway: GatewayConfig{
			ShortenerURL:  getEnv("SHORTENER_URL", "http://localhost:8001"),
			RedirectorURL: getEnv("REDIRECTOR_URL", "http://localhost:8002"),
			AnalyticsURL:  getEnv("ANALYTICS_URL", "http://localhost:8003"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("CACHE_BACKEND must be redis or memory, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis cache backend")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when Kafka is enabled")
	}
	switch c.RateLimit.Mode {
	case "fixed", "tiered":
	default:
		return fmt.Errorf("RATE_LIMIT_MODE must be fixed or tiered, got %q", c.RateLimit.Mode)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
