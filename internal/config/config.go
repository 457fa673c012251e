package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

// Config holds everything cmd/api needs to wire the server.
type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	KafkaBrokers     []string
	KafkaTopicPrefix string
	RatingWorkers    int
	LogLevel         string
	DeliveryCharge   float64
}

// MemoryMode reports whether the in-memory stores should be used instead of postgres.
func (c *Config) MemoryMode() bool { return c.DatabaseURL == "" }

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getenv("APP_PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		KafkaTopicPrefix: getenv("KAFKA_TOPIC_PREFIX", "foodcourt"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	workers, err := strconv.Atoi(getenv("RATING_WORKERS", "4"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("invalid RATING_WORKERS: %q", os.Getenv("RATING_WORKERS"))
	}
	cfg.RatingWorkers = workers

	charge, err := strconv.ParseFloat(getenv("DELIVERY_CHARGE", "2"), 64)
	if err != nil || charge < 0 {
		return nil, fmt.Errorf("invalid DELIVERY_CHARGE: %q", os.Getenv("DELIVERY_CHARGE"))
	}
	cfg.DeliveryCharge = charge

	if cfg.JWTSecret == "" {
		if !cfg.MemoryMode() {
			return nil, fmt.Errorf("JWT_SECRET is required when DATABASE_URL is set")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
