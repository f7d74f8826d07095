package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TokenExpiry time.Duration // Optional: default lifetime for issued tokens (default: 30m)
	RequireTLS  bool          // Optional: refuse issuance over plain HTTP (default: true)

	StoreDriver       string // Optional: token store driver (memory, file, sqlite) (default: file)
	TokensDir         string // Optional: directory for the file store (default: ./tokens)
	DatabaseFile      string // Optional: path to SQLite database file (default: ./tokend.db)
	QueryTokenEnabled bool   // Optional: accept ?authorization_token= in addition to the header (default: false)
	BootstrapToken    string // Optional: token seeded at startup with full permissions

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		TokenExpiry: time.Duration(getEnvIntOrDefault("LOGIN_TOKEN_EXPIRES_MINUTES", 30)) * time.Minute,
		RequireTLS:  getEnvBoolOrDefault("LOGIN_REQUIRES_TLS", true),

		StoreDriver:       getEnvOrDefault("TOKEND_STORE", "file"),
		TokensDir:         getEnvOrDefault("TOKEND_TOKENS_DIR", "tokens"),
		DatabaseFile:      getEnvOrDefault("TOKEND_DATABASE_FILE", "tokend.db"),
		QueryTokenEnabled: getEnvBoolOrDefault("TOKEND_QUERY_TOKEN_ENABLED", false),
		BootstrapToken:    os.Getenv("TOKEND_BOOTSTRAP_TOKEN"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
