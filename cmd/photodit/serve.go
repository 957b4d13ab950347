package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/photodit/photodit/internal/backup"
	"github.com/photodit/photodit/internal/config"
	"github.com/photodit/photodit/internal/content"
	"github.com/photodit/photodit/internal/events"
	"github.com/photodit/photodit/internal/media"
	"github.com/photodit/photodit/internal/server"
	"github.com/photodit/photodit/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (PHOTODIT_NATS_URL not set)")
		}

		// Create media storage when a bucket is configured.
		var mediaSvc *media.Service
		var storage media.Storage
		if cfg.MediaBucket != "" {
			s3, err := media.NewS3Storage(
				context.Background(),
				cfg.MediaBucket,
				cfg.MediaRegion,
				cfg.MediaEndpoint,
				cfg.MediaBaseURL,
			)
			if err != nil {
				publisher.Close()
				store.Close()
				return err
			}
			storage = s3
			mediaSvc = media.NewService(store, s3, publisher, logger)
			logger.Info("media storage enabled", "bucket", cfg.MediaBucket)
		} else {
			logger.Info("media storage disabled (PHOTODIT_MEDIA_BUCKET not set)")
		}

		// Create server components.
		contentSvc := content.NewService(store, publisher, logger, cfg.CacheTTL)
		apiServer := server.NewServer(store, contentSvc, mediaSvc, publisher, logger)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: apiServer.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the backup scheduler when storage is available.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 && storage != nil {
			dest := backup.NewStorageDestination(storage, cfg.BackupKey)
			scheduler = backup.NewScheduler(store, []backup.Destination{dest}, cfg.BackupInterval, logger)
			scheduler.Start()
			logger.Info("backup scheduler started", "interval", cfg.BackupInterval, "key", cfg.BackupKey)
		}

		// When NATS is available, drop cache entries for documents peers
		// have rewritten. Out-of-band database writes still age out by TTL.
		var invalidateCancel func()
		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err != nil {
				logger.Error("failed to create cache invalidation subscriber", "err", err)
			} else {
				ch, cancel, err := sub.Subscribe(events.TopicContentUpdated)
				if err != nil {
					logger.Error("failed to subscribe to content updates", "err", err)
					sub.Close()
				} else {
					invalidateCancel = func() {
						cancel()
						sub.Close()
					}
					go func() {
						for payload := range ch {
							var ev events.ContentUpdated
							if err := json.Unmarshal(payload, &ev); err != nil {
								logger.Warn("bad content update payload", "err", err)
								continue
							}
							contentSvc.Invalidate(ev.Key)
						}
					}()
					logger.Info("cache invalidation subscriber started")
				}
			}
		}

		logger.Info("photodit server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if invalidateCancel != nil {
			invalidateCancel()
			logger.Info("cache invalidation subscriber stopped")
		}

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
