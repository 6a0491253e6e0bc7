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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/client"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/database"
	"github.com/sangkips/ventapett-pos/internal/infrastructure/repository"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/handler"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/routes"
	"github.com/sangkips/ventapett-pos/pkg/logger"
	"github.com/sangkips/ventapett-pos/pkg/metrics"
	"github.com/sangkips/ventapett-pos/pkg/printer"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the durable state store
	store, closeStore, err := openStateStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open state store")
	}
	defer closeStore()
	keyspace := repository.PerUserKeyspace(store)

	var (
		m        *metrics.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
		gatherer = prometheus.DefaultGatherer
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name)

	// Upstream API client; requests carry the caller's upstream token
	api := client.New(cfg.Upstream, nil, m, log)
	authService := service.NewAuthService(api, keyspace, jwtManager, log)
	api.SetTokenSource(authService)

	loc := cfg.Cashout.Location()
	header := entity.ReceiptHeader{StoreName: cfg.Store.Name, Address: cfg.Store.Address}

	// Initialize services
	catalogService := service.NewCatalogService(api, time.Minute, log)
	staffService := service.NewStaffService(api, 5*time.Minute, log)
	carts := service.NewCartRegistry()
	saleService := service.NewSaleService(api, carts, catalogService, cfg.Tax.Rate, header, m, log)
	historyService := service.NewSalesHistoryService(api, staffService, loc, log)
	exportService := service.NewExportService(loc)
	cashoutService := service.NewCashoutService(api, staffService, keyspace, service.CashoutSettings{
		BaseFloat: cfg.Cashout.BaseFloat,
		Location:  loc,
		FetchMode: cfg.Cashout.FetchMode,
		ViewTTL:   cfg.Cashout.ViewTTL,
	}, m, log)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer.Type, cfg.Printer.CharWidth, header, loc, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(catalogService),
		User:    handler.NewUserHandler(staffService),
		Cart:    handler.NewCartHandler(service.NewCartService(carts, catalogService)),
		Sale:    handler.NewSaleHandler(saleService, printerService),
		Cashout: handler.NewCashoutHandler(cashoutService, exportService, printerService),
		History: handler.NewHistoryHandler(historyService, exportService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Sessions:        authService,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(store),
		RateLimiter:     rateLimiter,
		Gatherer:        gatherer,
		Log:             log,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env, "state": cfg.State.Driver}).
			Infof("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

// openStateStore connects the configured state driver. The returned func
// releases the connection.
func openStateStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (domainRepo.KeyValueStore, func(), error) {
	switch cfg.State.Driver {
	case "memory":
		log.Warn("Using the in-memory state store; sessions and counts are lost on restart")
		return repository.NewMemoryStore(), func() {}, nil

	case "sqlite":
		db, err := database.OpenSQLite(cfg.State.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteStore(db), func() { _ = db.Close() }, nil

	case "redis":
		rdb, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(rdb, cfg.Redis.Prefix), func() { _ = rdb.Close() }, nil

	default:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db, log); err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormStore(db), closeDB, nil
	}
}
