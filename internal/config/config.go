package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth (tokens are issued by the identity provider, we only verify)
	JWTSecret  string
	JWTJWKSURL string

	// AI completion API (OpenAI-compatible)
	AIAPIKey  string
	AIAPIURL  string
	AIModel   string
	AITimeout time.Duration

	// Place lookup (Overpass)
	PlacesAPIURL  string
	PlacesTimeout time.Duration
	PlacesRPS     float64

	// Entitlements
	FreeDailyMessageLimit int
	TrialDays             int
	EarlyAdopterLimit     int
	MaxHistoryMessages    int

	// Cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UserCountTTL  time.Duration

	// Webhooks
	RevenueCatWebhookAuth string

	// Server
	Port             string
	CORSOrigins      string
	LogRetentionDays int
	SentryDSN        string
	AppEnv           string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "bridebuddy"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTJWKSURL: getEnv("JWT_JWKS_URL", ""),

		AIAPIKey:  getEnv("AI_API_KEY", ""),
		AIAPIURL:  getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIModel:   getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		PlacesAPIURL:  getEnv("PLACES_API_URL", "https://overpass-api.de/api/interpreter"),
		PlacesTimeout: parseDuration(getEnv("PLACES_TIMEOUT", "15s"), 15*time.Second),
		PlacesRPS:     getEnvFloat("PLACES_RPS", 1),

		FreeDailyMessageLimit: getEnvInt("FREE_DAILY_MESSAGE_LIMIT", 20),
		TrialDays:             getEnvInt("TRIAL_DAYS", 7),
		EarlyAdopterLimit:     getEnvInt("EARLY_ADOPTER_LIMIT", 100),
		MaxHistoryMessages:    getEnvInt("MAX_HISTORY_MESSAGES", 50),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		UserCountTTL:  parseDuration(getEnv("USER_COUNT_TTL", "5m"), 5*time.Minute),

		RevenueCatWebhookAuth: getEnv("REVENUECAT_WEBHOOK_AUTH", ""),

		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		AppEnv:           getEnv("APP_ENV", "development"),
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
