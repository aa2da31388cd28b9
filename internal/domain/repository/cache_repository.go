package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/poi-service/internal/domain"
)

// CacheRepository - кеш результатов поиска ближайших POI
type CacheRepository interface {
	// GetNearest возвращает закешированный результат; nil, nil при промахе
	GetNearest(ctx context.Context, q NearestKey) ([]domain.NearestPOI, error)

	// SetNearest сохраняет результат поиска с TTL
	SetNearest(ctx context.Context, q NearestKey, pois []domain.NearestPOI, ttl time.Duration) error

	// InvalidateDataset удаляет все записи набора и возвращает их количество
	InvalidateDataset(ctx context.Context, datasetID uuid.UUID) (int, error)
}

// NearestKey - параметры запроса, по которым кешируется результат.
// DatasetID входит в ключ: записи прежнего набора не читаются даже до инвалидации.
type NearestKey struct {
	DatasetID uuid.UUID
	Lat       float64
	Lng       float64
	Category  string
	K         int
}
