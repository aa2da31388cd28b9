package repository

import (
	"context"

	"github.com/poi-service/internal/domain"
)

// EventPublisher публикует события жизненного цикла набора данных
type EventPublisher interface {
	// Publish публикует событие в стрим
	Publish(ctx context.Context, event domain.DatasetEvent) error
}

// StreamConsumer - чтение стрима событий через consumer group
type StreamConsumer interface {
	// CreateConsumerGroup создаёт consumer group, существующая группа не ошибка
	CreateConsumerGroup(ctx context.Context, group string) error

	// ConsumeBatch читает до count непрочитанных сообщений группы
	ConsumeBatch(ctx context.Context, group, consumer string, count int) ([]domain.StreamMessage, error)

	// AckMessages подтверждает обработку сообщений
	AckMessages(ctx context.Context, group string, ids ...string) error
}

// DatasetEventRepository - журнал событий набора данных
type DatasetEventRepository interface {
	// Save сохраняет событие; повторное событие с тем же EventID игнорируется
	Save(ctx context.Context, event domain.DatasetEvent) error

	// List возвращает последние события, новые первыми
	List(ctx context.Context, limit int) ([]domain.DatasetEvent, error)
}
