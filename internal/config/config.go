// Package config reads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port   string
	AppEnv string

	DBURL          string
	RedisAddr      string
	KafkaBroker    string
	KafkaTopic     string
	JWTSecret      string
	ConnectRetries int

	RunMigrations bool
	MigrationsDir string

	GuestCartTTL time.Duration
	CheckoutTTL  time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// durenv accepts Go duration strings ("30m", "5s").
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		Port:   getenv("PORT", "3000"),
		AppEnv: getenv("APP_ENV", "production"),

		DBURL:          getenv("DB_URL", ""),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:    getenv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:     getenv("KAFKA_TOPIC", "order.events"),
		JWTSecret:      getenv("JWT_SECRET", ""),
		ConnectRetries: atoienv("CONNECT_RETRIES", 5),

		RunMigrations: boolenv("RUN_MIGRATIONS", false),
		MigrationsDir: getenv("MIGRATIONS_DIR", "internal/shared/database/migrations"),

		GuestCartTTL: durenv("GUEST_CART_TTL", 24*time.Hour),
		CheckoutTTL:  durenv("CHECKOUT_TTL", 30*time.Minute),

		OutboxPollInterval: durenv("OUTBOX_POLL_INTERVAL", 5*time.Second),
		OutboxBatchSize:    atoienv("OUTBOX_BATCH_SIZE", 10),

		ReadTimeout:     durenv("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    durenv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:     durenv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: durenv("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}
