// Package audit - воркер, переносящий события набора данных из Redis Stream в PostgreSQL
package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/metrics"
	"github.com/poi-service/internal/worker"
	"go.uber.org/zap"
)

const (
	emptyQueueSleep = 100 * time.Millisecond
	errorBackoff    = time.Second
	retryBackoff    = 100 * time.Millisecond
)

// Результаты обработки для метрики poi_worker_events_total
const (
	resultSaved   = "saved"
	resultInvalid = "invalid"
	resultFailed  = "failed"
)

// Worker читает события группой и сохраняет их в журнал
type Worker struct {
	*worker.BaseWorker
	consumer     repository.StreamConsumer
	events       repository.DatasetEventRepository
	metrics      *metrics.Metrics
	consumerName string
	batchSize    int
	maxRetries   int
}

// NewWorker создает воркер аудита; имя потребителя строится из hostname и pid
func NewWorker(
	consumer repository.StreamConsumer,
	events repository.DatasetEventRepository,
	m *metrics.Metrics,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *Worker {
	hostname, _ := os.Hostname()
	if m == nil {
		m = metrics.Nop()
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &Worker{
		BaseWorker:   worker.NewBaseWorker("dataset-audit", consumerGroup, logger),
		consumer:     consumer,
		events:       events,
		metrics:      m,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}
}

// Start создаёт consumer group и обрабатывает пачки до остановки
func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting dataset audit worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.consumer.CreateConsumerGroup(ctx, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		processed, err := w.processBatch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(errorBackoff)
			continue
		}
		if processed == 0 {
			w.Pause(emptyQueueSleep)
		}
	}
}

// processBatch возвращает количество прочитанных сообщений.
// Битые сообщения подтверждаются сразу, несохранённые остаются в pending.
func (w *Worker) processBatch(ctx context.Context) (int, error) {
	messages, err := w.consumer.ConsumeBatch(ctx, w.ConsumerGroup(), w.consumerName, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger := w.Logger()
	ack := make([]string, 0, len(messages))

	for _, msg := range messages {
		event, err := domain.ParseDatasetEvent(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.metrics.WorkerEvents.WithLabelValues(resultInvalid).Inc()
			ack = append(ack, msg.ID)
			continue
		}

		if err := w.save(ctx, *event); err != nil {
			logger.Error("Failed to save dataset event",
				zap.String("message_id", msg.ID),
				zap.String("event_id", event.EventID.String()),
				zap.Error(err))
			w.metrics.WorkerEvents.WithLabelValues(resultFailed).Inc()
			continue
		}

		w.metrics.WorkerEvents.WithLabelValues(resultSaved).Inc()
		ack = append(ack, msg.ID)
	}

	if err := w.consumer.AckMessages(ctx, w.ConsumerGroup(), ack...); err != nil {
		// Неподтверждённые сообщения будут прочитаны повторно, Save идемпотентен
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Debug("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("acked", len(ack)))

	return len(messages), nil
}

func (w *Worker) save(ctx context.Context, event domain.DatasetEvent) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.events.Save(ctx, event); err == nil {
			return nil
		}
		if attempt < w.maxRetries && !w.Pause(time.Duration(attempt)*retryBackoff) {
			break
		}
	}
	return err
}
