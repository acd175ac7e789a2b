package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded from environment variables
// (optionally seeded from a .env file).
type Config struct {
	Environment string
	Host        string
	Port        string

	// Database selects the job store: "sqlite" (default) or "postgres".
	Database    string `validate:"oneof=sqlite postgres"`
	SQLitePath  string
	PostgresDSN string

	// InlineLimit is the inline upload ceiling in bytes.
	InlineLimit int64 `validate:"gt=0"`

	// Engine selects the adapter: "http" (default) or "whisper".
	Engine           string `validate:"oneof=http whisper"`
	EngineConfigPath string
	OpenAIAPIKey     string

	PollInterval time.Duration

	// Retention window before scrubbed jobs are swept.
	RetentionWindow time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr     string
	RedisPassword string
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are fine; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load reads the configuration from the environment with defaults applied.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:      getEnv("SCRIBE_ENV", "development"),
		Host:             getEnv("SCRIBE_HOST", "0.0.0.0"),
		Port:             getEnv("SCRIBE_PORT", "8080"),
		Database:         getEnv("SCRIBE_DB", "sqlite"),
		SQLitePath:       getEnv("SCRIBE_SQLITE_PATH", "data/meetscribe.db"),
		PostgresDSN:      os.Getenv("SCRIBE_POSTGRES_DSN"),
		Engine:           getEnv("SCRIBE_ENGINE", "http"),
		EngineConfigPath: getEnv("SCRIBE_ENGINE_CONFIG", "config/engine.yaml"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:      getEnv("MINIO_BUCKET", "meetscribe-audio"),
		MinioUseSSL:      os.Getenv("MINIO_USE_SSL") == "true",
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
	}

	inlineLimit, err := getEnvInt64("SCRIBE_INLINE_LIMIT", 4_500_000)
	if err != nil {
		return nil, err
	}
	cfg.InlineLimit = inlineLimit

	cfg.PollInterval, err = getEnvDuration("SCRIBE_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.RetentionWindow, err = getEnvDuration("SCRIBE_RETENTION_WINDOW", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Database == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("SCRIBE_POSTGRES_DSN is required when SCRIBE_DB=postgres")
	}
	if cfg.Engine == "whisper" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required when SCRIBE_ENGINE=whisper")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
