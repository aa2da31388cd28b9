package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// defaultMaxLen - приблизительная длина стрима, старые события вытесняются
	defaultMaxLen = 10000
	// consumeBlock - сколько XREADGROUP ждёт новых сообщений
	consumeBlock = time.Second
)

type streamRepository struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

func newStreamRepository(client *redis.Client, stream string, logger *zap.Logger) *streamRepository {
	return &streamRepository{
		client: client,
		stream: stream,
		maxLen: defaultMaxLen,
		logger: logger,
	}
}

// NewStreamRepository создает публикатор событий в указанный стрим
func NewStreamRepository(client *redis.Client, stream string, logger *zap.Logger) repository.EventPublisher {
	return newStreamRepository(client, stream, logger)
}

// NewStreamConsumer создает читателя того же стрима для воркеров
func NewStreamConsumer(client *redis.Client, stream string, logger *zap.Logger) repository.StreamConsumer {
	return newStreamRepository(client, stream, logger)
}

// Publish публикует событие в стрим. Тип события дублируется отдельным полем,
// чтобы потребители могли фильтровать без разбора JSON.
func (r *streamRepository) Publish(ctx context.Context, event domain.DatasetEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("Failed to marshal event",
			zap.String("stream", r.stream),
			zap.Error(err))
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type": event.Type,
			"data": string(jsonData),
		},
	}).Result()

	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", r.stream),
			zap.String("type", event.Type),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Event published to stream",
		zap.String("stream", r.stream),
		zap.String("type", event.Type),
		zap.String("message_id", result))
	return nil
}

// CreateConsumerGroup создаёт группу с позиции "$"; MKSTREAM создаёт стрим при необходимости
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, r.stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", r.stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", r.stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created",
		zap.String("stream", r.stream),
		zap.String("group", group))
	return nil
}

// ConsumeBatch читает новые сообщения группы; пустой результат - не ошибка
func (r *streamRepository) ConsumeBatch(ctx context.Context, group, consumer string, count int) ([]domain.StreamMessage, error) {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{r.stream, ">"},
		Count:    int64(count),
		Block:    consumeBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []domain.StreamMessage
	for _, s := range streams {
		for _, msg := range s.Messages {
			messages = append(messages, domain.StreamMessage{
				ID:   msg.ID,
				Data: msg.Values,
			})
		}
	}
	return messages, nil
}

// AckMessages подтверждает обработку сообщений одной командой
func (r *streamRepository) AckMessages(ctx context.Context, group string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.client.XAck(ctx, r.stream, group, ids...).Err(); err != nil {
		r.logger.Error("Failed to acknowledge messages",
			zap.String("stream", r.stream),
			zap.String("group", group),
			zap.Int("count", len(ids)),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge messages: %w", err)
	}
	return nil
}
