package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the PhotoVault API.
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Tracing  TracingConfig
	Metrics  MetricsConfig
	Upload   UploadConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information. Originals and
// thumbnails live in separate buckets keyed by the same object name.
type MinIOConfig struct {
	Endpoint         string
	AccessKeyID      string
	SecretAccessKey  string
	OriginalsBucket  string
	ThumbnailsBucket string
	UseSSL           bool
	Region           string
}

// RedisConfig contains connection details for the hash-lookup cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the Redis address in host:port form.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TracingConfig groups OpenTelemetry export settings.
type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// UploadConfig bounds uploads and thumbnail generation.
type UploadConfig struct {
	MaxUploadSize  int64
	ThumbMaxWidth  int
	ThumbMaxHeight int
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("PHOTOVAULT_API_HOST", "0.0.0.0"),
			Port:         getInt("PHOTOVAULT_API_PORT", 8080),
			ReadTimeout:  getDuration("PHOTOVAULT_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("PHOTOVAULT_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("PHOTOVAULT_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "photovault_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "photovault"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:         getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:      getString("MINIO_ROOT_USER", "photovault"),
			SecretAccessKey:  getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			OriginalsBucket:  getString("MINIO_ORIGINALS_BUCKET", "images"),
			ThumbnailsBucket: getString("MINIO_THUMBNAILS_BUCKET", "thumbnails"),
			UseSSL:           getBool("MINIO_USE_SSL", false),
			Region:           getString("MINIO_REGION", ""),
		},
		Redis: RedisConfig{
			Host:     getString("REDIS_HOST", "localhost"),
			Port:     getInt("REDIS_PORT", 6379),
			Password: getString("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Tracing: TracingConfig{
			Enabled:      getBool("PHOTOVAULT_TRACING_ENABLED", false),
			ServiceName:  getString("PHOTOVAULT_SERVICE_NAME", "photovault-api"),
			OTLPEndpoint: getString("OTLP_ENDPOINT", "localhost:4318"),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("PHOTOVAULT_METRICS_PATH", "/metrics"),
		},
		Upload: UploadConfig{
			MaxUploadSize:  getInt64("PHOTOVAULT_MAX_UPLOAD_SIZE", 50*1024*1024),
			ThumbMaxWidth:  getInt("PHOTOVAULT_THUMB_MAX_WIDTH", 3000),
			ThumbMaxHeight: getInt("PHOTOVAULT_THUMB_MAX_HEIGHT", 300),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
