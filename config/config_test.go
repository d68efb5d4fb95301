package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "DB_HOST", "DB_NAME", "REDIS_DB",
		"JWT_SECRET", "JWT_EXPIRY_HOURS",
		"RATE_LIMIT_MESSAGES_PER_SECOND", "RATE_LIMIT_REQUESTS_PER_SECOND",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.ExpiryHours != 168 {
		t.Errorf("ExpiryHours = %d, want 168", cfg.JWT.ExpiryHours)
	}
	if cfg.API.RateLimitMessagesPerSec != 10 {
		t.Errorf("RateLimitMessagesPerSec = %d, want 10", cfg.API.RateLimitMessagesPerSec)
	}
	if cfg.API.RateLimitRequestsPerSec != 50 {
		t.Errorf("RateLimitRequestsPerSec = %d, want 50", cfg.API.RateLimitRequestsPerSec)
	}
	if !strings.Contains(cfg.GetDSN(), "dbname=hirelink_db") {
		t.Errorf("GetDSN() = %s, want hirelink_db", cfg.GetDSN())
	}
	if cfg.GetRedisAddr() != "localhost:6379" {
		t.Errorf("GetRedisAddr() = %s, want localhost:6379", cfg.GetRedisAddr())
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
	if cfg.JWT.ExpiryHours != 168 {
		t.Errorf("ExpiryHours = %d, want fallback 168 on a bad value", cfg.JWT.ExpiryHours)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for production without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "an-actual-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}
