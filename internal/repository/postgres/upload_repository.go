package postgres

import (
	"context"
	"fmt"

	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"go.uber.org/zap"
)

const maxUploadsLimit = 100

type uploadRepository struct {
	db *DB
}

// NewUploadRepository создает репозиторий истории загрузок
func NewUploadRepository(db *DB) repository.UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, record *domain.UploadRecord) error {
	query := `
		INSERT INTO poi_uploads (dataset_id, filename, size_bytes, total_records, categories)
		VALUES (:dataset_id, :filename, :size_bytes, :total_records, :categories)
		RETURNING id, uploaded_at
	`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert upload: %w", err)
	}
	defer stmt.Close()

	if err := stmt.QueryRowxContext(ctx, record).Scan(&record.ID, &record.UploadedAt); err != nil {
		r.db.logger.Error("Failed to insert upload record",
			zap.String("dataset_id", record.DatasetID.String()),
			zap.Error(err))
		return fmt.Errorf("insert upload: %w", err)
	}

	return nil
}

func (r *uploadRepository) List(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if limit <= 0 || limit > maxUploadsLimit {
		limit = maxUploadsLimit
	}

	query := `
		SELECT id, dataset_id, filename, size_bytes, total_records, categories, uploaded_at
		FROM poi_uploads
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $1
	`

	records := []domain.UploadRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		r.db.logger.Error("Failed to list uploads", zap.Error(err))
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	return records, nil
}
