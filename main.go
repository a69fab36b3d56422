package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quitcoach/config"
	"quitcoach/cron"
	"quitcoach/database"
	"quitcoach/database/repository"
	"quitcoach/handlers"
	"quitcoach/middleware"
	"quitcoach/routes"
	"quitcoach/services/scheduling"
	"quitcoach/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	seed, err := repository.ParseCatalog(config.AppConfig.TimeSlots)
	if err != nil {
		logger.Fatal("main: invalid TIME_SLOTS", zap.Error(err))
	}

	// Storage.
	var (
		catalog      repository.TimeSlotCatalog
		availability repository.AvailabilityRepository
		appointments repository.AppointmentRepository
		profiles     repository.ProfileDirectory
	)
	switch config.AppConfig.StorageDriver {
	case "memory":
		logger.Warn("main: using in-memory storage; data is lost on restart")
		if catalog, err = repository.NewStaticCatalog(seed); err != nil {
			logger.Fatal("main: failed to build time slot catalog", zap.Error(err))
		}
		availability = repository.NewMemoryAvailabilityRepo()
		appointments = repository.NewMemoryAppointmentRepo()
		profiles = repository.NewMemoryProfileDirectory()
	default:
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		db := database.Database()
		if !config.AppConfig.SeedTimeSlots {
			seed = nil
		}
		if catalog, err = repository.LoadMongoCatalog(ctx, db, seed); err != nil {
			logger.Fatal("main: failed to load time slot catalog", zap.Error(err))
		}
		if availability, err = repository.NewMongoAvailabilityRepo(ctx, db); err != nil {
			logger.Fatal("main: failed to init availability repository", zap.Error(err))
		}
		if appointments, err = repository.NewMongoAppointmentRepo(ctx, db); err != nil {
			logger.Fatal("main: failed to init appointment repository", zap.Error(err))
		}
		profiles = repository.NewMongoProfileDirectory(db)
	}

	// Week cache.
	var weekCache scheduling.WeekCache = scheduling.NoopWeekCache{}
	if config.AppConfig.CacheEnabled {
		if err := utils.InitCache(); err != nil {
			logger.Warn("main: Redis unavailable, week cache disabled", zap.Error(err))
		} else {
			weekCache = scheduling.NewRedisWeekCache(utils.GetCacheClient(), config.AppConfig.WeekCacheTTL, logger)
		}
	}
	utils.StartHealthMonitor(ctx, utils.GetCacheClient(), database.MongoClient)

	svc, err := scheduling.New(ctx, scheduling.Options{
		Catalog:      catalog,
		Availability: availability,
		Appointments: appointments,
		Zones: &scheduling.ProfileZones{
			Profiles: profiles,
			Default:  config.Location(),
			Logger:   logger,
		},
		Cache:        weekCache,
		Logger:       logger,
		SlotCapacity: config.AppConfig.SlotCapacity,
	})
	if err != nil {
		logger.Fatal("main: failed to build scheduling service", zap.Error(err))
	}

	var sweeper *cron.SweepWorker
	if config.AppConfig.SweepEnabled {
		if sweeper, err = cron.NewSweepWorker(config.AppConfig.SweepSchedule, svc, logger); err != nil {
			logger.Fatal("main: failed to start sweep worker", zap.Error(err))
		}
		sweeper.Start()
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := handlers.NewHandlerBundle(handlers.NewSchedulingHandler(svc, profiles))
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if sweeper != nil {
		sweeper.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	stop()
	if database.MongoClient != nil {
		if err := database.MongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Warn("main: MongoDB disconnect failed", zap.Error(err))
		}
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
