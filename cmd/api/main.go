package main

// @title POI Nearest Neighbor API
// @version 2.0.0
// @description Сервис загрузки точек интереса (POI) из CSV и поиска k ближайших точек.
// @description
// @description Основные возможности:
// @description - Загрузка и валидация CSV с POI, построение пространственных индексов по типам
// @description - Поиск ближайших POI одного типа или всех типов по геодезическому расстоянию
// @description - Статистика и список типов загруженного набора
// @description - История загрузок (PostgreSQL) и события набора (Redis Streams)

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/poi-service/docs/swagger"
	"github.com/poi-service/internal/config"
	"github.com/poi-service/internal/dataset"
	httpDelivery "github.com/poi-service/internal/delivery/http"
	"github.com/poi-service/internal/delivery/http/handler"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/metrics"
	"github.com/poi-service/internal/pkg/logger"
	"github.com/poi-service/internal/repository/cache"
	"github.com/poi-service/internal/repository/postgres"
	redisRepo "github.com/poi-service/internal/repository/redis"
	"github.com/poi-service/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting POI Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Int("default_k", cfg.Query.DefaultK),
		zap.Int("max_k", cfg.Query.MaxK),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("db_enabled", cfg.Database.Enabled),
	)

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 4. Optional Redis: nearest cache and dataset events
	var (
		cacheRepo   repository.CacheRepository
		eventsRepo  repository.EventPublisher
		uploadsRepo repository.UploadRepository
		redisClient *cache.Redis
		db          *postgres.DB
	)

	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheRepo = cache.NewCacheRepository(redisClient)
		if cfg.Events.Enabled {
			eventsRepo = redisRepo.NewStreamRepository(redisClient.Client(), cfg.Events.Stream, log)
		}
		log.Info("Redis connected", zap.Bool("events", cfg.Events.Enabled))
	}

	// 5. Optional PostgreSQL: upload history
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		uploadsRepo = postgres.NewUploadRepository(db)
		log.Info("PostgreSQL connected")
	}

	// 6. Core and use cases
	manager := dataset.NewManager(dataset.Options{
		DefaultK: cfg.Query.DefaultK,
		MaxK:     cfg.Query.MaxK,
	})

	poiUC := usecase.NewPOIUseCase(
		manager,
		cacheRepo,
		eventsRepo,
		uploadsRepo,
		m,
		usecase.POIConfig{
			MaxUploadBytes:    cfg.MaxUploadBytes(),
			MaxRows:           cfg.Upload.MaxRows,
			AllowedExtensions: cfg.Upload.AllowedExtensions,
			MaxK:              cfg.Query.MaxK,
			CacheTTL:          cfg.Cache.NearestCacheTTL,
			Environment:       cfg.Server.Env,
		},
		log,
	)
	if redisClient != nil {
		poiUC.AddHealthCheck("redis", redisClient)
	}
	if db != nil {
		poiUC.AddHealthCheck("postgres", db)
	}

	log.Info("Use cases initialized")

	// 7. HTTP
	server := httpDelivery.NewServer(
		cfg,
		log,
		m,
		reg,
		handler.NewPOIHandler(poiUC, cfg.MaxUploadBytes(), log),
		handler.NewHealthHandler(poiUC),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
