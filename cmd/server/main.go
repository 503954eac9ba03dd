package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/vetcollars/storefront/internal/application/analytics"
	cartapp "github.com/vetcollars/storefront/internal/application/cart"
	catalogapp "github.com/vetcollars/storefront/internal/application/catalog"
	identityapp "github.com/vetcollars/storefront/internal/application/identity"
	orderapp "github.com/vetcollars/storefront/internal/application/order"
	"github.com/vetcollars/storefront/internal/infrastructure/auth"
	"github.com/vetcollars/storefront/internal/infrastructure/cache"
	"github.com/vetcollars/storefront/internal/infrastructure/config"
	"github.com/vetcollars/storefront/internal/infrastructure/event"
	"github.com/vetcollars/storefront/internal/infrastructure/logger"
	"github.com/vetcollars/storefront/internal/infrastructure/messaging"
	"github.com/vetcollars/storefront/internal/infrastructure/notify"
	"github.com/vetcollars/storefront/internal/infrastructure/persistence"
	"github.com/vetcollars/storefront/internal/infrastructure/scheduler"
	"github.com/vetcollars/storefront/internal/infrastructure/storage"
	"github.com/vetcollars/storefront/internal/infrastructure/telemetry"
	"github.com/vetcollars/storefront/internal/interfaces/http/handler"
	"github.com/vetcollars/storefront/internal/interfaces/http/middleware"
	"github.com/vetcollars/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Vet Collar Storefront API
//	@version		1.0
//	@description	Catalog, cart and checkout for the storefront plus the admin back office.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin access token. Format: "Bearer {token}"

func main() {
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

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
		TimeFormat: logger.DefaultTimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is installed before the database so GORM spans get a provider
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database
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
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DefaultSlowQueryThreshold); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Carts, idempotency keys and revoked tokens
	stores, err := cache.NewStoreFactory(cfg.Redis, cfg.Cart,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStores(ctx)
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Warn("Error closing stores", zap.Error(err))
		}
	}()

	var blacklist auth.TokenBlacklist
	if stores.Redis != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Redis)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// External collaborators
	images, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	notifier, err := notify.New(cfg.Telegram, log)
	if err != nil {
		log.Fatal("Failed to initialize order notifier", zap.Error(err))
	}

	// Event bus with the optional Kafka forwarder
	eventBus := event.NewInMemoryEventBus(log)
	var forwarder *messaging.KafkaForwarder
	if cfg.Kafka.Enabled {
		forwarder = messaging.NewKafkaForwarder(messaging.NewKafkaWriter(cfg.Kafka), cfg.Kafka.BufferSize, log)
		eventBus.Subscribe(forwarder, forwarder.EventTypes()...)
		forwarder.Start()
		log.Info("Forwarding order events to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userLogRepo := persistence.NewGormUserLogRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)

	// Application services
	analyticsService := analyticsapp.NewService(userLogRepo, log)
	productService := catalogapp.NewProductService(productRepo, analyticsService, images, log)
	orderService := orderapp.NewService(orderRepo, productRepo, stores.Idempotency, eventBus, notifier,
		orderapp.Options{
			TrustClientTotal: cfg.Order.TrustClientTotal,
			IdempotencyTTL:   cfg.Order.IdempotencyTTL,
		}, log)
	cartService := cartapp.NewService(stores.Carts, productRepo, orderService, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(adminRepo, jwtService, blacklist, log)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	// Background maintenance
	var maintenance *scheduler.Scheduler
	var trigger *scheduler.DailyTrigger
	if cfg.Maintenance.Enabled {
		maintenance, trigger, err = startMaintenance(ctx, cfg.Maintenance, analyticsService, log)
		if err != nil {
			log.Fatal("Failed to start maintenance jobs", zap.Error(err))
		}
	}

	// HTTP
	checks := map[string]handler.Pinger{"database": handler.PingerFunc(db.Ping)}
	if stores.Redis != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		})
	}

	var uploadDir string
	if local, ok := images.(*storage.LocalStorage); ok {
		uploadDir = local.Dir()
	}

	server := router.New(router.Options{
		HTTP:      cfg.HTTP,
		Session:   cfg.Session,
		Telemetry: cfg.Telemetry,
		Auth: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		UploadDir: uploadDir,
		Logger:    log,
	}, router.Handlers{
		Catalog:      handler.NewCatalogHandler(productService),
		Cart:         handler.NewCartHandler(cartService),
		Order:        handler.NewOrderHandler(orderService),
		Auth:         handler.NewAuthHandler(authService),
		AdminProduct: handler.NewAdminProductHandler(productService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		System:       handler.NewSystemHandler(version, checks),
	})
	defer server.Close()

	for _, route := range server.Router.Routes() {
		log.Debug("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("group", route.Group),
		)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        server.Engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		trigger.Stop()
	}
	if maintenance != nil {
		if err := maintenance.Stop(shutdownCtx); err != nil {
			log.Warn("Maintenance scheduler stop failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	if forwarder != nil {
		if err := forwarder.Close(shutdownCtx); err != nil {
			log.Warn("Kafka forwarder did not flush", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}

// startMaintenance schedules the daily user log purge
func startMaintenance(ctx context.Context, cfg config.MaintenanceConfig, analytics *analyticsapp.Service, log *zap.Logger) (*scheduler.Scheduler, *scheduler.DailyTrigger, error) {
	hour, minute, err := scheduler.ParseDailySchedule(cfg.Schedule)
	if err != nil {
		return nil, nil, err
	}

	s := scheduler.New(scheduler.Config{
		Workers:       1,
		JobTimeout:    cfg.JobTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}, log.Named("scheduler"))
	if err := s.Start(ctx); err != nil {
		return nil, nil, err
	}

	retention := scheduler.NewJob("user_log_retention", func(ctx context.Context) error {
		_, err := analytics.PurgeOlderThan(ctx, cfg.RetentionDays)
		return err
	})
	trigger := scheduler.NewDailyTrigger(s, hour, minute, log.Named("scheduler"), retention)
	if err := trigger.Start(ctx); err != nil {
		return nil, nil, err
	}
	return s, trigger, nil
}
