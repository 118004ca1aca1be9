package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/portfolio-site/backend/internal/cache"
	"github.com/portfolio-site/backend/internal/config"
	"github.com/portfolio-site/backend/internal/logger"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/services"
	"github.com/portfolio-site/backend/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setup loads the configuration and initialises the process logger.
// The returned cleanup flushes the logger.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.Sync, nil
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// newMigrator prepares golang-migrate over an open connection
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "media_schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Running from cmd/portfolio
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// runMigrations applies every pending migration
func runMigrations(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// newObjectStore returns the blob store selected by STORAGE_DRIVER
func newObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.ObjectStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMinIO:
		store, err := storage.NewMinIOStorage(storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Timeout:   cfg.MinIO.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		buckets := make([]string, 0, len(models.AllKinds()))
		for _, kind := range models.AllKinds() {
			policy, _ := kind.Policy()
			buckets = append(buckets, policy.Bucket)
		}
		if err := store.EnsureBuckets(ctx, buckets...); err != nil {
			return nil, err
		}
		return store, nil
	default:
		log.Info("using local storage", zap.String("base_path", cfg.Storage.BasePath))
		return storage.NewLocalStorage(cfg.Storage.BasePath), nil
	}
}

// newURLCache returns the Redis retrieval URL cache, or a no-op cache when REDIS_HOST is unset.
// The returned close function releases the Redis client.
func newURLCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.URLCache, func(), error) {
	addr := cfg.RedisAddr()
	if addr == "" {
		log.Info("retrieval URL cache disabled")
		return cache.NopURLCache{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("retrieval URL cache enabled", zap.String("addr", addr), zap.Duration("ttl", cfg.Redis.CacheTTL))
	return cache.NewRedisURLCache(client, cfg.Redis.CacheTTL), func() { client.Close() }, nil
}
