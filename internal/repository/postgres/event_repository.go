package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"go.uber.org/zap"
)

const maxEventsLimit = 100

// eventRow - строка poi_dataset_events
type eventRow struct {
	EventID      uuid.UUID      `db:"event_id"`
	Type         string         `db:"type"`
	DatasetID    *uuid.UUID     `db:"dataset_id"`
	TotalRecords int            `db:"total_records"`
	Categories   pq.StringArray `db:"categories"`
	OccurredAt   time.Time      `db:"occurred_at"`
}

type eventRepository struct {
	db *DB
}

// NewEventRepository создает журнал событий набора данных
func NewEventRepository(db *DB) repository.DatasetEventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Save(ctx context.Context, event domain.DatasetEvent) error {
	query := `
		INSERT INTO poi_dataset_events (event_id, type, dataset_id, total_records, categories, occurred_at)
		VALUES (:event_id, :type, :dataset_id, :total_records, :categories, :occurred_at)
		ON CONFLICT (event_id) DO NOTHING
	`

	categories := event.Categories
	if categories == nil {
		categories = []string{}
	}

	row := eventRow{
		EventID:      event.EventID,
		Type:         event.Type,
		DatasetID:    event.DatasetID,
		TotalRecords: event.TotalRecords,
		Categories:   pq.StringArray(categories),
		OccurredAt:   event.OccurredAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		r.db.logger.Error("Failed to save dataset event",
			zap.String("event_id", event.EventID.String()),
			zap.String("type", event.Type),
			zap.Error(err))
		return fmt.Errorf("insert dataset event: %w", err)
	}

	return nil
}

func (r *eventRepository) List(ctx context.Context, limit int) ([]domain.DatasetEvent, error) {
	if limit <= 0 || limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	query := `
		SELECT event_id, type, dataset_id, total_records, categories, occurred_at
		FROM poi_dataset_events
		ORDER BY occurred_at DESC, recorded_at DESC
		LIMIT $1
	`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		r.db.logger.Error("Failed to list dataset events", zap.Error(err))
		return nil, fmt.Errorf("list dataset events: %w", err)
	}

	events := make([]domain.DatasetEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, domain.DatasetEvent{
			EventID:      row.EventID,
			Type:         row.Type,
			DatasetID:    row.DatasetID,
			TotalRecords: row.TotalRecords,
			Categories:   []string(row.Categories),
			OccurredAt:   row.OccurredAt.UTC(),
		})
	}
	return events, nil
}
