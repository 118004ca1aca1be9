package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "portfolio")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "portfolio")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("OWNER_EMAIL", "owner@example.com")
	t.Setenv("OWNER_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("MEDIA_BASE_PATH", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicBaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 365*24*time.Hour, cfg.Storage.SignedURLTTL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionExpiry)
	assert.Equal(t, 4, cfg.Media.UploadConcurrency)
	assert.Equal(t, "@every 1m", cfg.Media.DraftSweepSchedule)
	assert.Empty(t, cfg.RedisAddr())
	assert.Equal(t, "portfolio:secret@tcp(localhost:3306)/portfolio?parseTime=true&charset=utf8mb4&clientFoundRows=true", cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://media.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("URL_CACHE_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://media.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "minio:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, 60*time.Second, cfg.MinIO.Timeout)
	assert.Equal(t, "redis:6379", cfg.RedisAddr())
	assert.Equal(t, time.Hour, cfg.Redis.CacheTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		errorContains string
	}{
		{
			name:          "missing db host",
			env:           map[string]string{"DB_HOST": ""},
			errorContains: "DB_HOST is required",
		},
		{
			name:          "invalid db port",
			env:           map[string]string{"DB_PORT": "abc"},
			errorContains: "invalid DB_PORT",
		},
		{
			name:          "missing jwt secret",
			env:           map[string]string{"JWT_SECRET": ""},
			errorContains: "JWT_SECRET is required",
		},
		{
			name:          "unknown storage driver",
			env:           map[string]string{"STORAGE_DRIVER": "ftp"},
			errorContains: "invalid STORAGE_DRIVER",
		},
		{
			name:          "minio without endpoint",
			env:           map[string]string{"STORAGE_DRIVER": "minio"},
			errorContains: "MINIO_ENDPOINT is required",
		},
		{
			name:          "local without base path",
			env:           map[string]string{"MEDIA_BASE_PATH": ""},
			errorContains: "MEDIA_BASE_PATH is required",
		},
		{
			name:          "invalid signed url ttl",
			env:           map[string]string{"SIGNED_URL_TTL": "forever"},
			errorContains: "invalid SIGNED_URL_TTL",
		},
		{
			name:          "non positive upload concurrency",
			env:           map[string]string{"UPLOAD_CONCURRENCY": "0"},
			errorContains: "UPLOAD_CONCURRENCY must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
