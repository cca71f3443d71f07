package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	GoogleClientID string

	OTLPEndpoint string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RateLimit RateLimitConfig
}

// RateLimitConfig controls the redis-backed submission limiter.
type RateLimitConfig struct {
	Enabled     bool
	RedisAddr   string
	SubmitRate  float64
	SubmitBurst int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "sobremesa"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		GoogleClientID:   strings.TrimSpace(getenv("GOOGLE_CLIENT_ID", "")),
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:           getenv("DATABASE_TYPE", "postgres"),
		DBHost:           getenv("DATABASE_HOST", "localhost"),
		DBPort:           getenv("DATABASE_PORT", "5432"),
		DBName:           getenv("DATABASE_NAME", "sobremesa"),
		DBUser:           getenv("DATABASE_USER", "postgres"),
		DBPassword:       getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:        getenv("DATABASE_SSLMODE", "disable"),
		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:   strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			SubmitRate:  getenvFloat("RATE_LIMIT_SUBMIT_RATE", 1),
			SubmitBurst: getenvInt("RATE_LIMIT_SUBMIT_BURST", 5),
		},
	}
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
