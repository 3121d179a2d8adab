package app

import (
	"os"
	"strconv"
	"time"

	"github.com/midgarden/userd/pkg/cryptox"
	"github.com/midgarden/userd/pkg/jwtx"
)

type Config struct {
	Issuer    string // Optional: issuer claim for tokens (default: userd)
	JWTSecret string // Required: HS256 signing secret, at least 32 bytes

	TokenTTL            time.Duration // Optional: access token lifetime (default: 24h)
	BcryptCost          int           // Optional: password hashing cost (default: 12)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./users.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:              getEnvOrDefault("USERD_ISSUER", "userd"),
		JWTSecret:           os.Getenv("USERD_JWT_SECRET"),
		TokenTTL:            getEnvDurationOrDefault("USERD_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		BcryptCost:          getEnvIntOrDefault("USERD_BCRYPT_COST", cryptox.DefaultCost),
		DatabaseFile:        getEnvOrDefault("USERD_DATABASE_FILE", "users.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Duration syntax first (e.g. "1h", "30m", "90s"), then bare minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
