package main

import (
	"fmt"
	"strings"

	"github.com/portfolio-site/backend/internal/auth"
	"github.com/portfolio-site/backend/internal/logger"
	"github.com/portfolio-site/backend/internal/metrics"
	"github.com/portfolio-site/backend/internal/models"
	"github.com/portfolio-site/backend/internal/repositories"
	"github.com/portfolio-site/backend/internal/services"
	"github.com/portfolio-site/backend/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSyncCommand() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "sync <projectID>",
		Short: "Add catalog entries for stored files no entry references",
		Long: "Scans the project's folder in each kind's bucket and adds a catalog entry for every " +
			"stored file that no entry references. Runs with the owner's authority.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := make([]models.MediaKind, 0, len(kinds))
			for _, raw := range kinds {
				kind := models.MediaKind(strings.ToLower(strings.TrimSpace(raw)))
				if !kind.IsValid() {
					return fmt.Errorf("%w: %s", models.ErrInvalidKind, raw)
				}
				selected = append(selected, kind)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			cfg, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			db, err := connectDB(cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			store, err := newObjectStore(ctx, cfg, logger.Logger)
			if err != nil {
				return err
			}
			urlCache, closeCache, err := newURLCache(ctx, cfg, logger.Logger)
			if err != nil {
				return err
			}
			defer closeCache()

			observer, err := metrics.NewPrometheusObserver("portfolio_media", prometheus.NewRegistry())
			if err != nil {
				return err
			}
			signer := storage.NewURLSigner(cfg.Auth.Secret, cfg.Server.PublicBaseURL)
			gateway := services.NewBlobGateway(store, signer, urlCache, observer, cfg.Storage.SignedURLTTL, logger.Logger)
			catalog := services.NewCatalogService(repositories.NewMediaRepository(db, logger.Logger), gateway, observer, logger.Logger)
			reconciler := services.NewReconciler(catalog, gateway, logger.Logger)

			// Operators with database access act as the owner
			owner := &auth.Session{Subject: cfg.Auth.OwnerEmail}
			projectID := args[0]
			for _, kind := range selected {
				synced, err := reconciler.Sync(ctx, owner, projectID, kind)
				if err != nil {
					return fmt.Errorf("failed to sync %s: %w", kind, err)
				}
				logger.Logger.Info("Synced orphaned files",
					zap.String("project_id", projectID),
					zap.String("kind", string(kind)),
					zap.Int("count", len(synced)),
				)
				for _, item := range synced {
					cmd.Printf("%s\t%s\t%s\n", kind, item.ID, item.Metadata.Label(kind))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", []string{string(models.MediaKindVideo)}, "media kinds to sync: image, audio, video")
	return cmd
}
