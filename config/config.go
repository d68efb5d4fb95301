// Package config reads the service configuration from the environment. Only
// knobs the messaging service actually consumes are exposed; everything has a
// development default so a bare `go run` works against local Postgres/Redis.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	API      APIConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	// RateLimitMessagesPerSec bounds message sends per user; requests covers
	// everything else under /api/v1.
	RateLimitMessagesPerSec int
	RateLimitRequestsPerSec int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment, falling back to development
// defaults. A production environment must carry a real JWT secret.
func Load() (*Config, error) {
	// A .env file is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "hirelink"),
			Password: getEnv("DB_PASSWORD", "hirelink_password"),
			DBName:   getEnv("DB_NAME", "hirelink_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-key"),
			ExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 168),
		},
		API: APIConfig{
			RateLimitMessagesPerSec: getEnvInt("RATE_LIMIT_MESSAGES_PER_SECOND", 10),
			RateLimitRequestsPerSec: getEnvInt("RATE_LIMIT_REQUESTS_PER_SECOND", 50),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
	}

	if cfg.Server.Env == "production" && cfg.JWT.Secret == "change-this-secret-key" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// GetDSN returns the Postgres connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis host:port address.
func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
