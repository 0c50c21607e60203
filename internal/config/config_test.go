package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMemory || cfg.HTTPAddr != ":9091" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.JWTTTL != 7*24*time.Hour || cfg.SweepInterval != 0 || cfg.SweepBatch != 100 {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if cfg.LogLevel != logrus.InfoLevel || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE", "Mongo")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SUBSCRIPTION_SWEEP_INTERVAL", "1m")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != StoreMongo {
		t.Fatalf("store %q", cfg.Store)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers %v", cfg.KafkaBrokers)
	}
	if cfg.SweepInterval != time.Minute || cfg.LogLevel != logrus.DebugLevel {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad store":      {"JWT_SECRET": "x", "STORE": "postgres"},
		"bad duration":   {"JWT_SECRET": "x", "JWT_TTL": "week"},
		"bad batch":      {"JWT_SECRET": "x", "SUBSCRIPTION_SWEEP_BATCH": "0"},
		"bad level":      {"JWT_SECRET": "x", "LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nADMIN_EMAIL=root@example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables already present
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("ADMIN_EMAIL", "")
	os.Unsetenv("ADMIN_EMAIL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-file" || cfg.AdminEmail != "root@example.com" {
		t.Fatalf("unexpected %+v", cfg)
	}
}
