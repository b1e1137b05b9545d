package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openspectrum/sas-registry/audit"
	"github.com/openspectrum/sas-registry/config"
	"github.com/openspectrum/sas-registry/controller"
	"github.com/openspectrum/sas-registry/db"
	logger "github.com/openspectrum/sas-registry/logging"
	"github.com/openspectrum/sas-registry/router"
	"github.com/openspectrum/sas-registry/service"
	"github.com/openspectrum/sas-registry/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize SQLite
	if err := db.InitSQLite(); err != nil {
		logger.Fatal("Failed to initialize registry database", zap.Error(err))
	}
	defer db.CloseSQLite()

	// Initialize Redis
	cacheEnabled := config.GetBool("cache.enabled")
	if cacheEnabled {
		if err := db.InitRedis(); err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer db.CloseRedis()
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()

	// Initialize the audit mirror
	var auditRepository audit.Repository = audit.NewDisabledRepository()
	if config.GetBool("audit.enabled") {
		esRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
		if err != nil {
			logger.Fatal("Failed to initialize Elasticsearch audit repository", zap.Error(err))
		}
		auditRepository = esRepository
	}
	auditService := audit.NewService(auditRepository)

	// Initialize services
	services, err := service.InitializeServices(
		db.SasDB,
		auditService,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
		config.GetBool("registry.cascadeGrantTermination"),
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	rateLimitWindow, err := time.ParseDuration(config.GetString("ratelimit.window"))
	if err != nil {
		rateLimitWindow = time.Minute
	}
	engine := router.SetupRouter(
		controllers,
		cacheEnabled,
		config.GetInt("ratelimit.requests"),
		rateLimitWindow,
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
