package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/community-records-api/internal/api"
	"github.com/community-records-api/internal/config"
	"github.com/community-records-api/internal/database"
	"github.com/community-records-api/internal/metrics"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/repository"
	"github.com/community-records-api/internal/service"
	"github.com/community-records-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Community Records API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var opts []api.Option

	// Initialize database when a component needs it
	var repos *repository.Repositories
	if cfg.NeedsDatabase() {
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		if err := metrics.RegisterDB(db.DB, cfg.Database.Name); err != nil {
			log.Warn().Err(err).Msg("Failed to register database metrics")
		}

		repos = repository.New(db, log)
		opts = append(opts, api.WithHealthCheck(db.HealthCheck))
	}

	// Select the record client
	var client records.Client
	switch cfg.Records.Backend {
	case config.RecordsBackendHTTP:
		client, err = records.NewHTTPClient(&cfg.Records, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create record client")
		}
	default:
		client = repos.Records
	}
	client = metrics.Instrument(client)

	log.Info().
		Str("records_backend", cfg.Records.Backend).
		Str("comment_backend", cfg.Comments.Backend).
		Bool("platform", cfg.Platform.Enabled).
		Msg("Backends selected")

	// Initialize services
	services := service.NewServices(client, cfg, log)

	if cfg.Platform.Enabled {
		opts = append(opts, api.WithPlatform(repos))
	}

	// Rate limiting is optional; a Redis outage at startup disables it
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Rate limiting disabled")
		} else {
			defer rdb.Close()
			opts = append(opts, api.WithRateLimiter(rdb))
		}
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log, opts...)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
