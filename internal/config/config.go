// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Media    MediaConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
	// PublicBaseURL is the externally visible origin used to build retrieval URLs
	PublicBaseURL string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds the owner credentials and session token settings
type AuthConfig struct {
	Secret            string
	SessionExpiry     time.Duration
	OwnerEmail        string
	OwnerPasswordHash string
}

// StorageConfig selects and configures the object store
type StorageConfig struct {
	Driver       string
	BasePath     string
	SignedURLTTL time.Duration
}

// MinIOConfig holds S3-compatible object store settings
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Timeout   time.Duration
}

// RedisConfig holds Redis connection settings for the retrieval URL cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration
}

// MediaConfig holds media workflow settings
type MediaConfig struct {
	DraftTTL           time.Duration
	DraftSweepSchedule string
	UploadConcurrency  int
}

const (
	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"
)

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPort, err := intFromEnv("DB_PORT", "")
	if err != nil {
		return nil, err
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPort, err := intFromEnv("SERVER_PORT", "8080")
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = serverPort

	cfg.Server.PublicBaseURL = strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = fmt.Sprintf("http://localhost:%d", serverPort)
	}

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Auth configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.Auth.Secret = jwtSecret

	cfg.Auth.SessionExpiry, err = durationFromEnv("JWT_SESSION_EXPIRY", "12h")
	if err != nil {
		return nil, err
	}

	cfg.Auth.OwnerEmail = os.Getenv("OWNER_EMAIL")
	if cfg.Auth.OwnerEmail == "" {
		return nil, fmt.Errorf("OWNER_EMAIL is required")
	}
	cfg.Auth.OwnerPasswordHash = os.Getenv("OWNER_PASSWORD_HASH")
	if cfg.Auth.OwnerPasswordHash == "" {
		return nil, fmt.Errorf("OWNER_PASSWORD_HASH is required")
	}

	// Storage configuration
	cfg.Storage.Driver = os.Getenv("STORAGE_DRIVER")
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverLocal
	}
	cfg.Storage.BasePath = os.Getenv("MEDIA_BASE_PATH")

	// One year, matching the lifetime of stored retrieval links
	cfg.Storage.SignedURLTTL, err = durationFromEnv("SIGNED_URL_TTL", "8760h")
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case StorageDriverLocal:
		if cfg.Storage.BasePath == "" {
			return nil, fmt.Errorf("MEDIA_BASE_PATH is required for the local storage driver")
		}
	case StorageDriverMinIO:
		cfg.MinIO.Endpoint = os.Getenv("MINIO_ENDPOINT")
		if cfg.MinIO.Endpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required for the minio storage driver")
		}
		cfg.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
		cfg.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
		cfg.MinIO.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"
		cfg.MinIO.Timeout, err = durationFromEnv("MINIO_TIMEOUT", "60s")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %s", cfg.Storage.Driver)
	}

	// Redis configuration (optional, an empty host disables the URL cache)
	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Port, err = intFromEnv("REDIS_PORT", "6379")
	if err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	cfg.Redis.DB, err = intFromEnv("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}
	cfg.Redis.CacheTTL, err = durationFromEnv("URL_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	// Media workflow configuration
	cfg.Media.DraftTTL, err = durationFromEnv("DRAFT_TTL", "2h")
	if err != nil {
		return nil, err
	}
	cfg.Media.DraftSweepSchedule = os.Getenv("DRAFT_SWEEP_SCHEDULE")
	if cfg.Media.DraftSweepSchedule == "" {
		cfg.Media.DraftSweepSchedule = "@every 1m"
	}
	cfg.Media.UploadConcurrency, err = intFromEnv("UPLOAD_CONCURRENCY", "4")
	if err != nil {
		return nil, err
	}
	if cfg.Media.UploadConcurrency <= 0 {
		return nil, fmt.Errorf("UPLOAD_CONCURRENCY must be positive")
	}

	return cfg, nil
}

// DSN returns the database connection string.
// clientFoundRows makes UPDATE report matched rows rather than changed rows.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns host:port of the Redis server, or empty string when the cache is disabled
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// intFromEnv parses an integer variable, using def when it is unset.
// An empty def makes the variable required.
func intFromEnv(key, def string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		if def == "" {
			return 0, fmt.Errorf("%s is required", key)
		}
		raw = def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationFromEnv(key, def string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseOrigins splits a comma-separated origin list.
// Defaults to allow all origins if nothing valid is given (for development).
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, origin := range parts {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
