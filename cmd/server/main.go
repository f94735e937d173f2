package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/billingkit/backend/internal/application/checkout"
	appmetrics "github.com/billingkit/backend/internal/application/metrics"
	apporder "github.com/billingkit/backend/internal/application/order"
	appsubscription "github.com/billingkit/backend/internal/application/subscription"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/infrastructure/cache"
	"github.com/billingkit/backend/internal/infrastructure/config"
	"github.com/billingkit/backend/internal/infrastructure/event"
	"github.com/billingkit/backend/internal/infrastructure/logger"
	paymentinfra "github.com/billingkit/backend/internal/infrastructure/payment"
	"github.com/billingkit/backend/internal/infrastructure/persistence"
	"github.com/billingkit/backend/internal/infrastructure/scheduler"
	"github.com/billingkit/backend/internal/interfaces/http/handler"
	"github.com/billingkit/backend/internal/interfaces/http/middleware"
	"github.com/billingkit/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting billing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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
	log.Info("Database connected")

	// Repositories
	subRepo := persistence.NewGormSubscriptionRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	otpRepo := persistence.NewGormOneTimeProductRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	usageRepo := persistence.NewGormUsageRecordRepository(db.DB)
	metricRepo := persistence.NewGormMetricRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Settings store, decorated with the configured cache backend
	cacheFactory := cache.NewSettingsCacheFactory(cfg.Billing, cfg.Redis, log)
	settingsStore, err := cacheFactory.WrapStore(persistence.NewGormSettingsStore(db.DB))
	if err != nil {
		log.Fatal("Failed to initialize settings cache", zap.Error(err))
	}

	// Event bus with an audit subscriber for every published event
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Payment providers. The offline provider serves locally-managed
	// subscriptions and orders; external gateways register here when
	// their credentials are configured.
	providers := paymentinfra.NewRegistry(paymentinfra.NewOfflineProvider(log))

	// Application services
	discountSvc := checkout.NewDiscountService(discountRepo, shared.SystemClock{}, log)
	calcSvc := checkout.NewCalculationService(otpRepo, discountSvc, log)
	subSvc := appsubscription.NewService(appsubscription.ServiceConfig{
		SubscriptionRepo: subRepo,
		PlanRepo:         planRepo,
		DiscountService:  discountSvc,
		Providers:        providers,
		Settings:         settingsStore,
		EventPublisher:   eventBus,
		Logger:           log,
	})
	usageSvc := appsubscription.NewUsageService(subRepo, usageRepo, providers, shared.SystemClock{}, log)
	orderSvc := apporder.NewService(orderRepo, calcSvc, discountSvc, settingsStore, eventBus, log)
	txSvc := apporder.NewTransactionService(txRepo, eventBus, log)
	metricsSvc := appmetrics.NewService(metricRepo, subRepo, txRepo, userRepo, shared.SystemClock{}, log)

	// Background schedulers
	if cfg.Scheduler.Enabled {
		beat := scheduler.NewMetricsBeatScheduler(metricsSvc, cfg.Scheduler.BeatCheckInterval, shared.SystemClock{}, log)
		beat.Start(context.Background())
		defer beat.Stop()

		sweep := scheduler.NewLocalSubscriptionSweepScheduler(subSvc, cfg.Scheduler.SweepCheckInterval, log)
		sweep.Start(context.Background())
		defer sweep.Stop()

		log.Info("Schedulers started",
			zap.Duration("beat_check_interval", cfg.Scheduler.BeatCheckInterval),
			zap.Duration("sweep_check_interval", cfg.Scheduler.SweepCheckInterval),
		)
	}

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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSubscriptionHandler(subSvc, usageSvc, log))
	r.Register(handler.NewOrderHandler(orderSvc, log))
	r.Register(handler.NewCheckoutHandler(calcSvc, planRepo, settingsStore, log))
	r.Register(handler.NewWebhookHandler(txSvc, subSvc, cfg.Billing.WebhookSecret, log))
	r.Register(handler.NewMetricHandler(metricsSvc))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
