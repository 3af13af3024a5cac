package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coupleswish/wishes-backend/config"
	"github.com/coupleswish/wishes-backend/internal/app/controller"
	"github.com/coupleswish/wishes-backend/internal/app/repository"
	"github.com/coupleswish/wishes-backend/internal/app/service"
	"github.com/coupleswish/wishes-backend/internal/db"
	"github.com/coupleswish/wishes-backend/internal/router"
	"github.com/coupleswish/wishes-backend/internal/scheduler"
	"github.com/coupleswish/wishes-backend/internal/storage"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/coupleswish/wishes-backend/pkg/metrics"
	"github.com/coupleswish/wishes-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting wishes backend server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	gormDB, err := db.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}

	// Run migrations
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	checks := map[string]router.Pinger{
		"database": router.PingFunc(func(ctx context.Context) error {
			return db.Ping(ctx, gormDB)
		}),
	}

	// Couple cache (optional)
	var cache *service.CoupleCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}
		cache = service.NewCoupleCache(redisClient, cfg.Redis.CacheTTL)
		checks["redis"] = redisClient
	} else {
		logger.Info("Redis not configured, couple cache disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	coupleRepo := repository.NewCoupleRepository(gormDB)
	wishRepo := repository.NewWishRepository(gormDB)

	// Initialize services
	userService := service.NewUserService(gormDB, userRepo, coupleRepo, wishRepo, cache)
	coupleService := service.NewCoupleService(gormDB, userRepo, coupleRepo, wishRepo, cache)
	wishService := service.NewWishService(gormDB, userRepo, coupleRepo, wishRepo, cache)

	// Image uploads (optional)
	var presigner controller.ImagePresigner
	if cfg.S3.Enabled() {
		presigner = storage.NewS3Storage(context.Background(), &cfg.S3)
	} else {
		logger.Info("S3 bucket not configured, image uploads disabled")
	}

	// Initialize controllers
	userController := controller.NewUserController(userService)
	coupleController := controller.NewCoupleController(coupleService)
	wishController := controller.NewWishController(wishService)
	uploadController := controller.NewUploadController(presigner, coupleService)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	// Empty couple janitor
	var janitor *scheduler.JanitorScheduler
	if cfg.Janitor.Schedule != "" {
		janitor = scheduler.NewJanitorScheduler(coupleService, cfg.Janitor.Schedule, jobMetrics)
		if err := janitor.Start(); err != nil {
			logger.Fatal("Failed to start janitor scheduler", err)
		}
	}

	// Setup router
	r := router.NewRouter(
		userController,
		coupleController,
		wishController,
		uploadController,
		httpMetrics,
		registry,
		checks,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...", map[string]interface{}{
		"timeout": cfg.Server.ShutdownTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	err = srv.Shutdown(ctx)
	if janitor != nil {
		janitor.Stop()
	}
	if redisClient != nil {
		err = multierr.Append(err, redisClient.Close())
	}
	err = multierr.Append(err, db.Close(gormDB))

	if err != nil {
		logger.Error("Server stopped with errors", err)
		os.Exit(1)
	}
	logger.Info("Server stopped successfully")
}
