package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JINWOOK1234/pos-project/internal/app"
	"github.com/JINWOOK1234/pos-project/internal/auth"
	"github.com/JINWOOK1234/pos-project/internal/inventory"
	jobmetrics "github.com/JINWOOK1234/pos-project/internal/jobs"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/customers"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/products"
	"github.com/JINWOOK1234/pos-project/internal/masterdata/suppliers"
	"github.com/JINWOOK1234/pos-project/internal/observability"
	"github.com/JINWOOK1234/pos-project/internal/platform/cache"
	"github.com/JINWOOK1234/pos-project/internal/platform/db"
	"github.com/JINWOOK1234/pos-project/internal/purchasing"
	"github.com/JINWOOK1234/pos-project/internal/receivables"
	"github.com/JINWOOK1234/pos-project/internal/sales"
	"github.com/JINWOOK1234/pos-project/internal/salesreport"
	"github.com/JINWOOK1234/pos-project/internal/shared"
	"github.com/JINWOOK1234/pos-project/internal/store"
	"github.com/JINWOOK1234/pos-project/internal/store/memory"
	"github.com/JINWOOK1234/pos-project/internal/store/postgres"
	"github.com/JINWOOK1234/pos-project/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}

	var (
		st   store.Store
		pool *pgxpool.Pool
	)
	switch cfg.StoreDriver {
	case app.StorePostgres:
		pool, err = db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns, ConnMaxLifetime: time.Hour})
		if err != nil {
			logger.Error("connect database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		pgStore := postgres.New(pool)
		pgStore.SetLockTimeout(cfg.PGLockTimeout)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Error("migrate database", slog.Any("error", err))
			os.Exit(1)
		}
		st = pgStore
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		st = memory.New()
	}

	redisClient, err := cache.New(ctx, cfg.RedisOptions())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool, logger)
	idempotency := shared.NewIdempotencyStore(pool)
	metrics := observability.NewMetrics()
	if pool == nil {
		// No worker runs against the memory driver, so the API process sweeps its own keys.
		sweeper := jobs.NewIdempotencyCleanupJob(idempotency, logger, jobmetrics.NewMetrics(metrics.Registerer()))
		go sweeper.RunEvery(ctx, time.Hour, 24*time.Hour)
	}

	stockLedger := inventory.NewLedger()
	creditLedger := receivables.NewLedger()
	reportService := salesreport.NewService(st, salesreport.NewCache(redisClient, cfg.SalesCacheTTL), logger)

	salesService := sales.NewService(st, stockLedger, creditLedger, logger, sales.Options{
		Audit:       auditLogger,
		Idempotency: idempotency,
		Cache:       reportService,
		Events:      metrics,
	})
	purchasingService := purchasing.NewService(st, stockLedger, auditLogger, metrics)
	receivablesService := receivables.NewService(st, creditLedger, auditLogger)
	inventoryService := inventory.NewService(st, stockLedger, auditLogger)
	productService := products.NewService(st, stockLedger, auditLogger)
	customerService := customers.NewService(st, auditLogger)
	supplierService := suppliers.NewService(st, auditLogger)
	authService := auth.NewService(auth.NewRepository(st))

	inspector := asynq.NewInspector(redisOpt)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		Metrics:            metrics,
		AuthHandler:        auth.NewHandler(logger, authService, sessionManager, csrfManager),
		SalesHandler:       sales.NewHandler(logger, salesService),
		PurchasingHandler:  purchasing.NewHandler(logger, purchasingService),
		ReceivablesHandler: receivables.NewHandler(logger, receivablesService),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService),
		ProductsHandler:    products.NewHandler(logger, productService),
		CustomersHandler:   customers.NewHandler(logger, customerService),
		SuppliersHandler:   suppliers.NewHandler(logger, supplierService),
		SalesReportHandler: salesreport.NewHandler(logger, reportService),
		JobHandler:         jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
