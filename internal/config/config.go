// Package config читает настройки процесса из окружения и необязательного .env файла.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	HTTPAddr string
	Store    string

	MongoURI      string
	MongoDatabase string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	KafkaBrokers []string

	AdminEmail    string
	AdminPassword string
	AdminName     string
	AdminPhone    string

	SweepInterval time.Duration
	SweepBatch    int

	CORSOrigins  []string
	CookieSecure bool
	LogLevel     logrus.Level
	SentryDSN    string
}

// Load подгружает .env (если есть) и разбирает переменные окружения
func Load(envFiles ...string) (*Config, error) {
	// missing .env is normal outside local development
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":9091"),
		Store:         strings.ToLower(getEnv("STORE", StoreMemory)),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "medirural"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "")),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminPhone:    getEnv("ADMIN_PHONE", ""),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		SentryDSN:     getEnv("SENTRY_DSN", ""),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SUBSCRIPTION_SWEEP_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.SweepBatch, err = getInt("SUBSCRIPTION_SWEEP_BATCH", 100); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Store != StoreMemory && c.Store != StoreMongo {
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StoreMongo, c.Store)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("SUBSCRIPTION_SWEEP_INTERVAL must not be negative")
	}
	if c.SweepBatch <= 0 {
		return fmt.Errorf("SUBSCRIPTION_SWEEP_BATCH must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
