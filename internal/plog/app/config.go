package app

import (
	"os"
	"strconv"
	"time"

	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/tokencache"
)

type Config struct {
	JWTSecret       string        // Required: HS256 signing secret
	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 14 days)
	TokenCacheSize  int           // Optional: refresh token cache capacity (default: 1000)

	CookieDomain string // Optional: refresh cookie Domain attribute (default: localhost, i.e. omitted)
	CookieSecure bool   // Optional: mark the refresh cookie Secure (default: true)

	DatabaseFile string // Optional: path to SQLite database file (default: ./plog.db)
	RedisAddr    string // Optional: Redis address for view counters; empty disables them

	MinioEndpoint  string // Optional: object storage endpoint; empty keeps images in memory
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	ViewSyncInterval    time.Duration // View count flush interval (default: 1m)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:       os.Getenv("PLOG_JWT_SECRET"),
		AccessTokenTTL:  getEnvDurationOrDefault("PLOG_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("PLOG_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		TokenCacheSize:  getEnvIntOrDefault("PLOG_TOKEN_CACHE_SIZE", tokencache.DefaultCapacity),

		CookieDomain: getEnvOrDefault("PLOG_COOKIE_DOMAIN", "localhost"),
		CookieSecure: getEnvBoolOrDefault("PLOG_COOKIE_SECURE", true),

		DatabaseFile: getEnvOrDefault("PLOG_DATABASE_FILE", "plog.db"),
		RedisAddr:    os.Getenv("PLOG_REDIS_ADDR"),

		MinioEndpoint:  os.Getenv("PLOG_MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("PLOG_MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("PLOG_MINIO_SECRET_KEY"),
		MinioBucket:    getEnvOrDefault("PLOG_MINIO_BUCKET", "plog-images"),
		MinioUseSSL:    getEnvBoolOrDefault("PLOG_MINIO_USE_SSL", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		ViewSyncInterval:    getEnvDurationOrDefault("VIEWSYNC_INTERVAL", time.Minute),
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept bare integers as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
