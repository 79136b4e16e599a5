package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "AI_TIMEOUT", "DEBUG_ERRORS", "REDIS_HOST"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("DB.Driver = %q, want postgres", cfg.DB.Driver)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("AI.Timeout = %v, want 60s", cfg.AI.Timeout)
	}
	if cfg.DebugErrors {
		t.Errorf("DebugErrors should default to false")
	}
	if cfg.Redis.Host != "" {
		t.Errorf("Redis.Host = %q, want empty", cfg.Redis.Host)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("DEBUG_ERRORS", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AI_API_URL", "http://localhost:9999/v1/")

	cfg := Load()
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.AI.Timeout != 15*time.Second {
		t.Errorf("AI.Timeout = %v, want 15s", cfg.AI.Timeout)
	}
	if !cfg.DebugErrors {
		t.Errorf("DebugErrors = false, want true")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
	if cfg.AI.APIURL != "http://localhost:9999/v1" {
		t.Errorf("AI.APIURL = %q, trailing slash not trimmed", cfg.AI.APIURL)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	if cfg.AI.Timeout != 60*time.Second {
		t.Errorf("AI.Timeout = %v, want default", cfg.AI.Timeout)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("Redis.DB = %d, want 0", cfg.Redis.DB)
	}
}

func TestDSN(t *testing.T) {
	pg := DBConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	if dsn := pg.DSN(); !strings.Contains(dsn, "host=db") || !strings.Contains(dsn, "dbname=n") {
		t.Errorf("postgres DSN = %q", dsn)
	}

	withURL := DBConfig{Driver: "postgres", URL: "postgres://x"}
	if dsn := withURL.DSN(); dsn != "postgres://x" {
		t.Errorf("DATABASE_URL not preferred, got %q", dsn)
	}

	if got := SQLiteDSN("quiz.db"); got != "quiz.db?_pragma=foreign_keys(1)" {
		t.Errorf("SQLiteDSN = %q", got)
	}
	if got := SQLiteDSN("quiz.db?mode=rwc"); got != "quiz.db?mode=rwc&_pragma=foreign_keys(1)" {
		t.Errorf("SQLiteDSN with query = %q", got)
	}
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	if _, err := InitDB(&DBConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestInitRedisDisabled(t *testing.T) {
	client, err := InitRedis(&RedisConfig{})
	if err != nil || client != nil {
		t.Fatalf("InitRedis with empty host = (%v, %v), want (nil, nil)", client, err)
	}
}
