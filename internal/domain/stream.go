package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла набора данных
const (
	EventDatasetLoaded  = "dataset.loaded"
	EventDatasetCleared = "dataset.cleared"
)

// DatasetEvent - событие, публикуемое в Redis Stream при загрузке или очистке набора
type DatasetEvent struct {
	EventID      uuid.UUID  `json:"event_id"`
	Type         string     `json:"type"`
	DatasetID    *uuid.UUID `json:"dataset_id,omitempty"`
	TotalRecords int        `json:"total_records"`
	Categories   []string   `json:"categories,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// NewDatasetLoadedEvent создаёт событие об успешной загрузке набора
func NewDatasetLoadedEvent(datasetID uuid.UUID, total int, categories []string, at time.Time) DatasetEvent {
	return DatasetEvent{
		EventID:      uuid.New(),
		Type:         EventDatasetLoaded,
		DatasetID:    &datasetID,
		TotalRecords: total,
		Categories:   categories,
		OccurredAt:   at.UTC(),
	}
}

// NewDatasetClearedEvent создаёт событие об очистке набора
func NewDatasetClearedEvent(at time.Time) DatasetEvent {
	return DatasetEvent{
		EventID:    uuid.New(),
		Type:       EventDatasetCleared,
		OccurredAt: at.UTC(),
	}
}

// StreamMessage - сообщение, прочитанное из Redis Stream
type StreamMessage struct {
	ID   string
	Data map[string]interface{}
}

// ParseDatasetEvent разбирает поле data сообщения в DatasetEvent
func ParseDatasetEvent(msg StreamMessage) (*DatasetEvent, error) {
	data, ok := msg.Data["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event DatasetEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type != EventDatasetLoaded && event.Type != EventDatasetCleared {
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}

	return &event, nil
}
