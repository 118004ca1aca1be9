package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/portfolio-site/backend/docs"
	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/config"
	"github.com/portfolio-site/backend/internal/handlers"
	"github.com/portfolio-site/backend/internal/logger"
	"github.com/portfolio-site/backend/internal/metrics"
	"github.com/portfolio-site/backend/internal/middlewares"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/repositories"
	"github.com/portfolio-site/backend/internal/services"
	"github.com/portfolio-site/backend/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	apiPrefix      = "/api/v1"
	maxRequestSize = 1 * 1024 * 1024

	// Room for a batch of videos at the per-file limit
	maxUploadSize = 512 * 1024 * 1024
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func serve(ctx context.Context, skipMigrations bool) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Logger.Info("Starting portfolio media service")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	if !skipMigrations {
		if err := runMigrations(db); err != nil {
			logger.Logger.Error("Failed to run migrations", zap.Error(err))
			return err
		}
	}

	ctx, stop := signalContext(ctx)
	defer stop()

	// Initialize storage and URL cache
	store, err := newObjectStore(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Logger.Error("Failed to initialize object storage", zap.Error(err))
		return err
	}
	urlCache, closeCache, err := newURLCache(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Logger.Error("Failed to initialize URL cache", zap.Error(err))
		return err
	}
	defer closeCache()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.NewPrometheusObserver("portfolio_media", registry)
	if err != nil {
		return err
	}

	// Initialize core components
	gate := auth.NewGate(auth.Config{
		Secret:            cfg.Auth.Secret,
		SessionExpiry:     cfg.Auth.SessionExpiry,
		OwnerEmail:        cfg.Auth.OwnerEmail,
		OwnerPasswordHash: cfg.Auth.OwnerPasswordHash,
	})
	signer := storage.NewURLSigner(cfg.Auth.Secret, cfg.Server.PublicBaseURL)
	gateway := services.NewBlobGateway(store, signer, urlCache, observer, cfg.Storage.SignedURLTTL, logger.Logger)
	mediaRepo := repositories.NewMediaRepository(db, logger.Logger)
	catalog := services.NewCatalogService(mediaRepo, gateway, observer, logger.Logger)
	drafts := services.NewDraftRegistry(catalog, gateway, cfg.Media.UploadConcurrency, cfg.Media.DraftTTL, apiPrefix+"/drafts", logger.Logger)
	reconciler := services.NewReconciler(catalog, gateway, logger.Logger)

	scheduler := cron.New()
	if err := drafts.ScheduleSweep(scheduler, cfg.Media.DraftSweepSchedule); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	openLive := func(ctx context.Context, projectID string, kind models.MediaKind) (handlers.LiveMedia, error) {
		manager, err := services.NewLiveManager(projectID, kind, catalog, gateway, logger.Logger)
		if err != nil {
			return nil, err
		}
		if err := manager.Load(ctx); err != nil {
			return nil, err
		}
		return manager, nil
	}

	// Initialize handlers
	authMw := auth.Middleware(gate)
	authHandler := handlers.NewAuthHandler(gate, strings.HasPrefix(cfg.Server.PublicBaseURL, "https://"), logger.Logger)
	mediaHandler := handlers.NewMediaHandler(catalog, gateway, openLive, reconciler, authMw, logger.Logger)
	draftHandler := handlers.NewDraftHandler(drafts, logger.Logger)
	storageHandler := handlers.NewStorageHandler(gateway, logger.Logger)

	r := newRouter(cfg, db, registry, authMw, authHandler, mediaHandler, draftHandler, storageHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  5 * time.Minute, // Long timeout for video uploads
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		logger.Logger.Error("Server failed to start", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
	return nil
}

func newRouter(
	cfg *config.Config,
	db *sql.DB,
	gatherer prometheus.Gatherer,
	authMw func(http.Handler) http.Handler,
	authHandler *handlers.AuthHandler,
	mediaHandler *handlers.MediaHandler,
	draftHandler *handlers.DraftHandler,
	storageHandler *handlers.StorageHandler,
) chi.Router {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(logger.Middleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize, maxUploadSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.Server.PublicBaseURL+"/swagger/doc.json"),
	))

	r.Get("/health", healthHandler(db))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Signed object downloads live outside the API prefix, matching the retrieval URLs
	storageHandler.RegisterRoutes(r)

	r.Route(apiPrefix, func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		mediaHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			draftHandler.RegisterRoutes(r)
		})
	})

	return r
}

// healthHandler reports whether the catalog database is reachable
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
