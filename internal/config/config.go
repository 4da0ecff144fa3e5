package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the server needs from the environment.
// It is built once in main and passed down explicitly; no package in
// this repository reads environment variables after startup.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// TokenSecret signs session tokens. TokenTTL bounds their lifetime.
	TokenSecret string
	TokenTTL    time.Duration

	// StorageRoot is the directory artifacts are written under.
	StorageRoot string

	// UploadsPerMinute caps song uploads across all callers.
	UploadsPerMinute int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		TokenSecret:      os.Getenv("TOKEN_SECRET"),
		StorageRoot:      getEnv("STORAGE_ROOT", "./data"),
		TokenTTL:         30 * time.Minute,
		UploadsPerMinute: 30,
	}

	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is not set")
	}

	if ttl := os.Getenv("TOKEN_TTL_MINUTES"); ttl != "" {
		minutes, err := strconv.Atoi(ttl)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES %q", ttl)
		}
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	}

	if limit := os.Getenv("UPLOADS_PER_MINUTE"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid UPLOADS_PER_MINUTE %q", limit)
		}
		cfg.UploadsPerMinute = n
	}

	return cfg, nil
}

// ConnString builds the postgres connection string for pgx.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
