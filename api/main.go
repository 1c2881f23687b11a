package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/activity"
	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/imagestore"
	"github.com/rogerio-castellano/product-catalog/internal/logger"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
	"go.uber.org/zap"
)

// @title Product Catalog API
// @version 1.0
// @description REST API for managing catalog products, their pricing breakdown and images.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	l, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := repo.DialectFor(cfg.Database.Driver)
	if err != nil {
		l.Fatal("unsupported database driver", zap.Error(err))
	}

	database, err := db.Connect(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		l.Fatal("could not connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dialect); err != nil {
		l.Fatal("could not migrate database", zap.Error(err))
	}

	var activityLog activity.Log = activity.NewMemoryLog(int(cfg.Redis.ActivityMax))
	if cfg.Redis.Enabled {
		rs, err := redissvc.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			l.Fatal("could not connect to redis", zap.Error(err))
		}
		defer rs.Close()
		activityLog = activity.NewRedisLog(rs.Rdb(), cfg.Redis.ActivityKey, cfg.Redis.ActivityMax)
	}

	images := imagestore.NewOnDisk(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	productRepo := repo.NewSQLProductRepository(database, dialect, cfg.Database.QueryTimeout)

	svc := service.NewProductService(productRepo, images,
		service.WithMetrics(repo.NewSQLMetricsRepository(database, cfg.Database.QueryTimeout)),
		service.WithActivityLog(activityLog),
		service.WithIdentity(func() string { return cfg.Identity.User }),
		service.WithDefaultTax(cfg.Pricing.DefaultTaxPercentage),
		service.WithLogger(l.Named("service")),
	)
	handlers.SetProductService(svc)

	limiter := rl.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(router.Options{
			Uploads:       images.FileSystem(),
			UploadsPrefix: images.URLPrefix(),
			Limiter:       limiter,
			Logger:        l.Named("http"),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info("server running", zap.String("addr", cfg.Server.Addr), zap.String("database", dialect.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
	}
}
