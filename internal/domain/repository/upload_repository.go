package repository

import (
	"context"

	"github.com/poi-service/internal/domain"
)

// UploadRepository хранит историю загрузок наборов
type UploadRepository interface {
	// Create сохраняет запись и заполняет ID и UploadedAt
	Create(ctx context.Context, record *domain.UploadRecord) error

	// List возвращает последние загрузки, новые первыми
	List(ctx context.Context, limit int) ([]domain.UploadRecord, error)
}
