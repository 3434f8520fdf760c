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

	batchapp "github.com/wms/backend/internal/application/batch"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	warehouseapp "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	lowStockAlertRepo := persistence.NewGormLowStockAlertRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	operationRepo := persistence.NewGormOperationRepository(db.DB)

	// Transaction scopes bind multi-record writes to a single database
	// transaction
	inventoryTxScope := persistence.NewGormInventoryTransactionScope(db.DB)
	warehouseTxScope := persistence.NewGormWarehouseTransactionScope(db.DB)

	// Event bus with the audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize application services
	ledgerService := inventoryapp.NewLedgerService(stockRecordRepo, stockMovementRepo, productRepo, inventoryTxScope)
	ledgerService.SetEventPublisher(eventBus)

	reservationService := inventoryapp.NewReservationService(inventoryTxScope)
	reservationService.SetEventPublisher(eventBus)

	alertService := inventoryapp.NewAlertService(lowStockAlertRepo, stockRecordRepo, productRepo)
	alertService.SetEventPublisher(eventBus)

	expiryService := batchapp.NewExpiryService(batchRepo, productRepo)

	operationService := warehouseapp.NewOperationService(operationRepo, warehouseTxScope)
	operationService.SetEventPublisher(eventBus)

	// Background sweeper for alert checks, batch refreshes and cleanup
	var sweeper *scheduler.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewSweeper(scheduler.Config{
			AlertCheckInterval:   cfg.Scheduler.AlertCheckInterval,
			BatchRefreshInterval: cfg.Scheduler.BatchRefreshInterval,
			CleanupInterval:      cfg.Scheduler.CleanupInterval,
			ResolvedRetention:    cfg.Alert.ResolvedRetention,
		}, alertService, expiryService, log)
		sweeper.Start(context.Background())
		log.Info("Background sweeper started",
			zap.Duration("alert_check_interval", cfg.Scheduler.AlertCheckInterval),
			zap.Duration("batch_refresh_interval", cfg.Scheduler.BatchRefreshInterval),
		)
	}

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Register routes
	router.NewRouter(engine).
		Register(handler.NewStockHandler(ledgerService)).
		Register(handler.NewReservationHandler(reservationService)).
		Register(handler.NewAlertHandler(alertService)).
		Register(handler.NewBatchHandler(expiryService)).
		Register(handler.NewOperationHandler(operationService)).
		Register(handler.NewHealthHandler(db)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop()
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
