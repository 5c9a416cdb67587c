package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kuttybrothers/fleetdesk/internal/config"
	"github.com/kuttybrothers/fleetdesk/internal/repository/cache"
	"github.com/kuttybrothers/fleetdesk/internal/repository/firebase"
	"github.com/kuttybrothers/fleetdesk/internal/repository/memory"
	"github.com/kuttybrothers/fleetdesk/internal/repository/mongodb"
	"github.com/kuttybrothers/fleetdesk/internal/repository/sheets"
	"github.com/kuttybrothers/fleetdesk/internal/repository/store"
	"github.com/kuttybrothers/fleetdesk/internal/scheduler"
	"github.com/kuttybrothers/fleetdesk/internal/server/handlers"
	"github.com/kuttybrothers/fleetdesk/internal/server/router"
	"github.com/kuttybrothers/fleetdesk/internal/service/customers"
	"github.com/kuttybrothers/fleetdesk/internal/service/inventory"
	whatsappclient "github.com/kuttybrothers/fleetdesk/pkg/clients/whatsapp"
	"github.com/kuttybrothers/fleetdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recordStore, err := newStore(ctx, cfg, baseLogger.Named("repo.store"))
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.Error(err))
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			baseLogger.Error("failed to close record store", zap.Error(err))
		}
	}()

	var snapshotCache cache.SnapshotCache
	if cfg.Cache.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer func() { _ = redisClient.Close() }()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			baseLogger.Warn("redis unreachable, snapshot cache disabled", zap.Error(err))
		} else {
			snapshotCache = cache.NewRedisCache(redisClient, cfg.Cache.TTL)
			baseLogger.Info("redis snapshot cache enabled", zap.String("addr", cfg.Cache.RedisAddr))
		}
	}

	var (
		sinks   scheduler.Sinks
		archive handlers.ReportArchive
	)

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks.Archive = mongoRepo
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks.Sheet = sheetsRepo
	}

	if cfg.WhatsApp.Enabled() {
		sinks.Notifier = whatsappclient.NewNotifier(whatsappclient.NewClient(cfg.WhatsApp))
		baseLogger.Info("whatsapp digest enabled", zap.String("recipient", cfg.WhatsApp.ReportRecipient))
	}

	inventorySvc := inventory.NewService(recordStore, snapshotCache, cfg.Store.StockPath, baseLogger.Named("svc.inventory"))
	customerSvc := customers.NewService(recordStore, cfg.Store.CustomersPath, baseLogger.Named("svc.customers"))

	if cfg.Store.Watch {
		go func() {
			if err := inventorySvc.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				baseLogger.Error("inventory watch stopped", zap.Error(err))
			}
		}()
	}

	sched, err := scheduler.NewScheduler(*cfg, inventorySvc, sinks, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Stock:     handlers.NewStockHandler(inventorySvc, baseLogger.Named("handlers.stock")),
		Customers: handlers.NewCustomerHandler(customerSvc, baseLogger.Named("handlers.customers")),
		Reports:   handlers.NewReportHandler(archive, sched, cfg.Store.StockPath, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory record store, data is lost on restart")
		return memory.NewStore(logger), nil
	default:
		return firebase.NewStore(ctx, cfg.Firebase, logger)
	}
}
