package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/brewdash/backend/internal/application/catalog"
	ledgerapp "github.com/brewdash/backend/internal/application/ledger"
	procurementapp "github.com/brewdash/backend/internal/application/procurement"
	productionapp "github.com/brewdash/backend/internal/application/production"
	warehouseapp "github.com/brewdash/backend/internal/application/warehouse"
	"github.com/brewdash/backend/internal/domain/ledger"
	"github.com/brewdash/backend/internal/infrastructure/cache"
	"github.com/brewdash/backend/internal/infrastructure/config"
	"github.com/brewdash/backend/internal/infrastructure/event"
	"github.com/brewdash/backend/internal/infrastructure/logger"
	"github.com/brewdash/backend/internal/infrastructure/persistence"
	"github.com/brewdash/backend/internal/interfaces/http/handler"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
	"github.com/brewdash/backend/internal/interfaces/http/router"
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
		_ = log.Sync()
	}()

	log.Info("Starting BrewDash Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
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

	// Repositories
	ingredientRepo := persistence.NewGormIngredientRepository(db.DB)
	levelRepo := persistence.NewGormStockLevelRepository(db.DB)
	transactionRepo := persistence.NewGormStockTransactionRepository(db.DB)
	warehouseBatchRepo := persistence.NewGormWarehouseBatchRepository(db.DB)
	productionBatchRepo := persistence.NewGormProductionBatchRepository(db.DB)

	// Transaction scopes bind the level mutation and ledger append into
	// one database transaction per operation
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	warehouseScope := persistence.NewGormWarehouseTransactionScope(db.DB)
	productionScope := persistence.NewGormProductionTransactionScope(db.DB)

	// Alert sink and snapshot cache, Redis-backed when enabled
	var alertSink ledgerapp.AlertSink
	var alertReader handler.AlertReader
	var snapshots cache.SnapshotCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()

		redisSink := cache.NewRedisAlertSinkWithClient(redisClient)
		alertSink = redisSink
		alertReader = redisSink
		snapshots = cache.NewRedisSnapshotCache(redisClient, cfg.Cache.StockLevelTTL)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		memSink := cache.NewMemoryAlertSink()
		alertSink = memSink
		alertReader = memSink
		snapshots = cache.NewMemorySnapshotCache(cfg.Cache.StockLevelTTL)
		log.Info("Redis disabled, using in-memory alert sink and snapshot cache")
	}

	// Application services
	ingredientService := catalogapp.NewIngredientService(ingredientRepo)
	ledgerService := ledgerapp.NewLedgerService(ledgerScope, levelRepo, transactionRepo, ingredientRepo)
	procurementService := procurementapp.NewProcurementService(ingredientRepo, levelRepo)
	intakeService := warehouseapp.NewIntakeService(warehouseScope, warehouseBatchRepo, ingredientRepo)
	batchService := productionapp.NewBatchService(productionScope, productionBatchRepo, ingredientRepo)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	alertHandler := ledgerapp.NewStockAlertHandler(alertSink, log)
	eventBus.Subscribe(alertHandler)

	invalidationHandler := cache.NewSnapshotInvalidationHandler(snapshots, log,
		ledger.EventTypeStockChanged,
		ledger.EventTypeStockReserved,
		ledger.EventTypeStockReleased,
		ledger.EventTypeStockConsumed,
	)
	eventBus.Subscribe(invalidationHandler)

	log.Info("Event handlers registered",
		zap.Strings("alert_events", alertHandler.EventTypes()),
		zap.Strings("invalidation_events", invalidationHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	ledgerService.SetEventPublisher(eventBus)
	intakeService.SetEventPublisher(eventBus)
	batchService.SetEventPublisher(eventBus)

	// HTTP handlers
	ingredientHandler := handler.NewIngredientHandler(ingredientService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, snapshots, alertReader)
	warehouseHandler := handler.NewWarehouseHandler(intakeService)
	productionHandler := handler.NewProductionHandler(batchService)
	procurementHandler := handler.NewProcurementHandler(procurementService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and request logs
	// carry it, tenant resolution last so rejected requests are logged
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.TenantWithConfig(middleware.TenantConfig{
		SkipPaths: []string{"/api/v1/health", "/api/v1/system"},
		Required:  true,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler)
	r.Register(ingredientHandler)
	r.Register(ledgerHandler)
	r.Register(warehouseHandler)
	r.Register(productionHandler)
	r.Register(procurementHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
