package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UploadRecord - запись истории загрузок в PostgreSQL
type UploadRecord struct {
	ID           int64          `json:"id" db:"id"`
	DatasetID    uuid.UUID      `json:"dataset_id" db:"dataset_id"`
	Filename     string         `json:"filename" db:"filename"`
	SizeBytes    int64          `json:"size_bytes" db:"size_bytes"`
	TotalRecords int            `json:"total_records" db:"total_records"`
	Categories   pq.StringArray `json:"categories" db:"categories"`
	UploadedAt   time.Time      `json:"uploaded_at" db:"uploaded_at"`
}
