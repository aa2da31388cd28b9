package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadResponse - ответ на загрузку набора
type UploadResponse struct {
	Message      string    `json:"message"`
	DatasetID    uuid.UUID `json:"dataset_id"`
	TotalRecords int       `json:"total_records"`
	POITypes     []string  `json:"poi_types"`
	UploadTime   time.Time `json:"upload_time"`
}

// NearestPOIResponse - найденная точка; distance в метрах, округлено до 2 знаков
type NearestPOIResponse struct {
	Name      string  `json:"name"`
	POIType   string  `json:"poi_type"`
	Distance  float64 `json:"distance"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearestResponse - результат поиска ближайших POI
type NearestResponse struct {
	Results []NearestPOIResponse `json:"results"`
	K       int                  `json:"k"`
	Cached  bool                 `json:"-"`
}

// StatisticsResponse - состояние загруженного набора
type StatisticsResponse struct {
	Loaded       bool           `json:"loaded"`
	DatasetID    *uuid.UUID     `json:"dataset_id,omitempty"`
	TotalRecords int            `json:"total_records"`
	POITypes     []string       `json:"poi_types"`
	TypeCounts   map[string]int `json:"type_counts"`
	UploadTime   *time.Time     `json:"upload_time"`
}

// ClearResponse - подтверждение очистки
type ClearResponse struct {
	Message string `json:"message"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status      string            `json:"status"`
	DataLoaded  bool              `json:"data_loaded"`
	Environment string            `json:"environment"`
	Components  map[string]string `json:"components,omitempty"`
}

// UploadRecordResponse - запись истории загрузок
type UploadRecordResponse struct {
	ID           int64     `json:"id"`
	DatasetID    uuid.UUID `json:"dataset_id"`
	Filename     string    `json:"filename"`
	SizeBytes    int64     `json:"size_bytes"`
	TotalRecords int       `json:"total_records"`
	POITypes     []string  `json:"poi_types"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ServiceInfoResponse - ответ корневого маршрута
type ServiceInfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}
