// File: clinicvoice/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"clinicvoice/config"
	"clinicvoice/cron"
	"clinicvoice/database"
	availabilityRepo "clinicvoice/database/repository/availability"
	directoryRepo "clinicvoice/database/repository/directory"
	monitoringRepo "clinicvoice/database/repository/monitoring"
	"clinicvoice/handlers"
	"clinicvoice/middleware"
	"clinicvoice/routes"
	"clinicvoice/services/availability"
	"clinicvoice/services/matching"
	"clinicvoice/services/monitoring"
	syncService "clinicvoice/services/sync"
	"clinicvoice/upstream"
	"clinicvoice/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := utils.InitLogger(cfg.IsProduction())

	mongoClient, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	db := mongoClient.Database(database.DatabaseName)

	cacheClient, err := utils.NewCacheClient(cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// repositories.
	cacheRepo := availabilityRepo.NewMongoCacheRepo(db)
	dirRepo := directoryRepo.NewMongoDirectoryRepo(db, cacheClient, cfg.ClinicCacheTTL())
	recordsRepo := monitoringRepo.NewMongoMonitoringRepo(db)

	for _, ensure := range []func() error{
		cacheRepo.EnsureIndexes,
		dirRepo.EnsureIndexes,
		recordsRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	upstreamClient := upstream.NewClient(cfg, logger)
	resolver := matching.NewResolver(cfg.SimilarityThreshold)

	queryService := &availability.DefaultQueryService{
		Cache:     cacheRepo,
		Directory: dirRepo,
		Resolver:  resolver,
		Logger:    logger,
	}
	warmer := &availability.Warmer{
		Source:    upstreamClient,
		Cache:     cacheRepo,
		Directory: dirRepo,
		Cfg:       cfg,
		Logger:    logger,
	}
	syncSvc := &syncService.DefaultSyncService{
		Source:    upstreamClient,
		Directory: dirRepo,
		Warmer:    warmer,
		Logger:    logger,
	}
	monitorService := &monitoring.DefaultMonitorService{
		Records: recordsRepo,
		Cache:   cacheRepo,
		Cfg:     cfg,
		Logger:  logger,
	}

	// Background worker: periodic warm cycles and retention.
	worker := &cron.Worker{
		Cfg:       cfg,
		Sync:      syncSvc,
		Directory: dirRepo,
		Cache:     cacheRepo,
		Records:   recordsRepo,
		Logger:    logger,
	}
	worker.Start()

	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisTaskQueueDB,
	})

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(dirRepo, queryService, logger)
	monitoringHandler := handlers.NewMonitoringHandler(monitorService, logger)
	adminHandler := handlers.NewAdminHandler(taskClient, logger)

	routes.RegisterRoutes(router, &routes.Handlers{
		Availability: availabilityHandler,
		Monitoring:   monitoringHandler,
		Admin:        adminHandler,
	})

	utils.StartHealthMonitor(cacheClient, mongoClient)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
