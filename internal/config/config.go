package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBParams   string

	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	Port string
}

// Load reads the .env file when present and resolves all settings from the
// environment. Database credentials and JWT secrets have no usable default.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	return Config{
		DBUser:     getEnvOrDefault("DB_USER", ""),
		DBPassword: getEnvOrDefault("DB_PASSWORD", ""),
		DBHost:     getEnvOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:     getEnvOrDefault("DB_PORT", "3306"),
		DBName:     getEnvOrDefault("DB_NAME", "crm"),
		DBParams:   getEnvOrDefault("DB_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC"),

		JWTAccessSecret:  getEnvOrDefault("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret: getEnvOrDefault("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:   getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL:  getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
