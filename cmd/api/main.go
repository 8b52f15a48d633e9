package main

//go:generate swag init --dir ../.. --generalInfo cmd/api/main.go --output ../../internal/docs --outputTypes go

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealscout/internal/cache"
	"dealscout/internal/config"
	"dealscout/internal/database"
	"dealscout/internal/logger"
	"dealscout/internal/server"
	"dealscout/internal/validator"

	_ "dealscout/internal/docs" // Import swagger docs
)

// @title           DealScout API
// @version         1.0
// @description     DealScout evaluates real-estate investment deals: listing review, per-user cost presets and deal search ranked by profit and ROI.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey PipelineAPIKey
// @in header
// @name X-API-Key
// @description Shared key of the listing ingestion pipeline.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	listingCache, closeCache, err := newListingCache(appConfig)
	if err != nil {
		return err
	}
	defer closeCache()

	validator.Register()

	svc := server.NewServices(dbManager.DB(), listingCache)
	if err := svc.SeedAdmin(appConfig.AdminEmail, appConfig.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed administrator: %w", err)
	}

	router := server.NewRouter(svc, server.Options{
		PipelineAPIKey: appConfig.PipelineAPIKey,
		RequestLogging: true,
	})
	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set; listing ingestion is disabled")
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting DealScout server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newListingCache connects to redis when an address is configured.
func newListingCache(cfg *config.Config) (cache.ListingCache, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Named("cache").Info("REDIS_ADDR not set; published listings are read from the database on every search")
		return cache.Noop{}, func() {}, nil
	}

	rc := cache.NewRedis(cache.RedisConfig{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.ListingCacheTTL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Named("cache").Infof("Listing cache connected to %s", cfg.RedisAddr)
	return rc, func() {
		if err := rc.Close(); err != nil {
			logger.Named("cache").Warnf("redis close error: %v", err)
		}
	}, nil
}
