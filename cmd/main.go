package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kosench/shortlink-service/internal/cache"
	"github.com/Kosench/shortlink-service/internal/config"
	"github.com/Kosench/shortlink-service/internal/database"
	"github.com/Kosench/shortlink-service/internal/handler"
	"github.com/Kosench/shortlink-service/internal/logger"
	"github.com/Kosench/shortlink-service/internal/metrics"
	"github.com/Kosench/shortlink-service/internal/repository"
	"github.com/Kosench/shortlink-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zlog); err != nil {
		zlog.Error("service stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	deps := handler.RouterDeps{
		Logger:         zlog,
		AllowedOrigins: cfg.GetAllowedOrigins(),
		RateLimit:      cfg.RateLimit,
	}

	var (
		linkRepo  repository.ShortLinkRepository
		groupRepo repository.LinkGroupRepository
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		zlog.Warn("using in-memory store, data is lost on restart")
		linkRepo = repository.NewMemoryShortLinkRepository()
		groupRepo = repository.NewMemoryLinkGroupRepository()
	default:
		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database.DSN()); err != nil {
				return err
			}
			zlog.Info("database migrations applied")
		}

		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if version, err := database.GetVersion(ctx, db); err == nil {
			zlog.Info("connected to database", zap.String("version", version))
		}

		linkRepo = repository.NewPostgresShortLinkRepository(db)
		groupRepo = repository.NewPostgresLinkGroupRepository(db)
		deps.DB = db
	}

	var c cache.Cache = cache.NewNullCache()
	keys := cache.NewKeyBuilder(cfg.Redis.Namespace)

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			CacheTTL:     cfg.Redis.CacheTTL,
			Namespace:    cfg.Redis.Namespace,
		})
		if err != nil {
			// Продолжаем без кэша
			zlog.Warn("failed to connect to Redis, running without cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			zlog.Info("connected to Redis")
			c = redisClient
			keys = redisClient.KeyBuilder()
			deps.Cache = redisClient
			deps.RateLimiter = redisClient
		}
	}
	deps.Keys = keys

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)
	deps.Gatherer = registry

	deps.Links = service.NewLinkService(linkRepo, c, keys, zlog, m, service.LinkServiceConfig{
		BaseURL:    cfg.GetBaseURL(),
		CodeLength: cfg.App.ShortCodeLength,
		MaxRetries: cfg.App.MaxRetries,
	})
	deps.Groups = service.NewGroupService(groupRepo, m, service.GroupServiceConfig{
		BaseURL:    cfg.GetBaseURL(),
		CodeLength: cfg.App.GroupCodeLength,
		MaxRetries: cfg.App.MaxRetries,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler.NewRouter(deps),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		zlog.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("base_url", cfg.GetBaseURL()),
			zap.Bool("cache", deps.Cache != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-ctx.Done()
		zlog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		zlog.Info("server gracefully stopped")
		return nil
	})

	return eg.Wait()
}
