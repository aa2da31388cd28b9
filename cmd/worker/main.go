package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poi-service/internal/config"
	"github.com/poi-service/internal/metrics"
	"github.com/poi-service/internal/pkg/logger"
	"github.com/poi-service/internal/repository/cache"
	"github.com/poi-service/internal/repository/postgres"
	redisRepo "github.com/poi-service/internal/repository/redis"
	"github.com/poi-service/internal/worker"
	"github.com/poi-service/internal/worker/audit"
	"go.uber.org/zap"
)

const migrateTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled. Set WORKER_ENABLED=true to run the dataset audit worker.")
		return
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Dataset audit worker failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Worker shutdown complete")
}

// run поднимает зависимости, запускает воркер и блокируется до отмены ctx
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting dataset audit worker",
		zap.String("stream", cfg.Events.Stream),
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeWith(log, "PostgreSQL", db.Close)

	migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	err = db.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closeWith(log, "Redis", rdb.Close)

	manager := worker.NewManager(log, worker.DefaultShutdownTimeout)
	manager.Register(audit.NewWorker(
		redisRepo.NewStreamConsumer(rdb.Client(), cfg.Events.Stream, log),
		postgres.NewEventRepository(db),
		metrics.Nop(),
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		log,
	))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if err := manager.Start(workerCtx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	<-ctx.Done()
	log.Info("Received shutdown signal")

	return manager.Stop()
}

func closeWith(log *zap.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.Error("Failed to close connection", zap.String("component", name), zap.Error(err))
	}
}
