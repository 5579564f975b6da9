package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// StorageTimeout bounds every storage call.
	StorageTimeout time.Duration

	// JWT for site users
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Trainer back office
	TrainerSessionSecret   string
	TrainerSessionTTL      time.Duration
	TrainerInitialPassword string
	CookieDomain           string

	// Admin
	AdminEmails string
	AdminToken  string

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string

	LogRetentionDays int
}

// Load reads configuration from the environment, after merging a .env file if one exists.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info(".env file loaded")
	}

	jwtSecret := getEnv("JWT_SECRET", "")

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "club_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StorageTimeout: parseDuration(getEnv("STORAGE_TIMEOUT", "5s"), 5*time.Second),

		JWTSecret:        jwtSecret,
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		TrainerSessionSecret:   getEnv("TRAINER_SESSION_SECRET", jwtSecret),
		TrainerSessionTTL:      parseDuration(getEnv("TRAINER_SESSION_TTL", "168h"), 168*time.Hour),
		TrainerInitialPassword: getEnv("TRAINER_INITIAL_PASSWORD", "Cajla123"),
		CookieDomain:           getEnv("COOKIE_DOMAIN", ""),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
