package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	catalogRepo "medibook/database/repository/catalog"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/scheduling"
	"medibook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	schedules := scheduleRepo.NewMongoScheduleRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()

	if err := schedules.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}
	if err := appointments.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}

	// The scheduling engine: slot computation plus conflict-safe booking.
	engine := &scheduling.DefaultSchedulingEngine{
		Schedules:    schedules,
		Appointments: appointments,
		Catalog:      catalog,
		Cache:        utils.GetCacheClient(),
		CacheTTL:     time.Duration(config.AppConfig.AvailabilityCacheTTLS) * time.Second,
		NumberPrefix: config.AppConfig.AppointmentPrefix,
	}

	// Background no-show sweep.
	cron.InitNoShowWorker(engine)

	// Assemble the handler bundle and register routes.
	bundle := &routes.HandlerBundle{
		Scheduling:    handlers.NewSchedulingHandler(engine, logger),
		Appointments:  handlers.NewAppointmentHandler(engine, logger),
		ScheduleAdmin: handlers.NewScheduleAdminHandler(schedules, logger),
	}
	routes.RegisterRoutes(router, bundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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
