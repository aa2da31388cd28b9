package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poi-service/internal/dataset"
	"github.com/poi-service/internal/domain"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/metrics"
	"github.com/poi-service/internal/pkg/csvrows"
	"github.com/poi-service/internal/pkg/errors"
	"github.com/poi-service/internal/pkg/utils"
	"github.com/poi-service/internal/pkg/validator"
	"github.com/poi-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	defaultUploadsLimit = 20
	distancePrecision   = 2
)

// POIConfig - ограничения и параметры сценариев работы с POI
type POIConfig struct {
	MaxUploadBytes    int64
	MaxRows           int
	AllowedExtensions []string
	MaxK              int
	CacheTTL          time.Duration
	Environment       string
}

// HealthChecker - внешняя зависимость, состояние которой попадает в /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

type POIUseCase struct {
	manager *dataset.Manager
	cache   repository.CacheRepository
	events  repository.EventPublisher
	uploads repository.UploadRepository
	metrics *metrics.Metrics
	cfg     POIConfig
	logger  *zap.Logger
	checks  map[string]HealthChecker
	now     func() time.Time
}

// NewPOIUseCase создаёт сценарии работы с набором POI.
// cache, events и uploads опциональны: nil отключает соответствующий побочный эффект.
func NewPOIUseCase(
	manager *dataset.Manager,
	cache repository.CacheRepository,
	events repository.EventPublisher,
	uploads repository.UploadRepository,
	m *metrics.Metrics,
	cfg POIConfig,
	logger *zap.Logger,
) *POIUseCase {
	if m == nil {
		m = metrics.Nop()
	}
	return &POIUseCase{
		manager: manager,
		cache:   cache,
		events:  events,
		uploads: uploads,
		metrics: m,
		cfg:     cfg,
		logger:  logger,
		checks:  make(map[string]HealthChecker),
		now:     time.Now,
	}
}

// AddHealthCheck регистрирует зависимость для /health
func (uc *POIUseCase) AddHealthCheck(name string, check HealthChecker) {
	uc.checks[name] = check
}

// Upload разбирает CSV, строит индексы и подменяет активный набор
func (uc *POIUseCase) Upload(ctx context.Context, req dto.UploadRequest) (*dto.UploadResponse, error) {
	if err := uc.checkFile(req); err != nil {
		return nil, err
	}

	start := time.Now()

	table, err := csvrows.Parse(req.Content, uc.cfg.MaxRows)
	if err != nil {
		uc.metrics.DatasetLoads.WithLabelValues("rejected").Inc()
		return nil, uc.mapParseError(err)
	}

	summary, err := uc.manager.Load(table.Columns, table.Rows)
	if err != nil {
		uc.metrics.DatasetLoads.WithLabelValues("rejected").Inc()
		return nil, uc.mapDatasetError(err)
	}

	uc.metrics.DatasetLoads.WithLabelValues("loaded").Inc()
	uc.metrics.DatasetLoadTime.Observe(time.Since(start).Seconds())
	uc.metrics.DatasetRecords.Set(float64(summary.TotalRecords))
	uc.metrics.DatasetCategories.Set(float64(len(summary.Categories)))

	uc.logger.Info("POI dataset loaded",
		zap.String("dataset_id", summary.DatasetID.String()),
		zap.String("filename", req.Filename),
		zap.Int("total_records", summary.TotalRecords),
		zap.Int("categories", len(summary.Categories)),
		zap.Duration("duration", time.Since(start)),
	)

	if summary.ReplacedID != uuid.Nil {
		uc.invalidateNearest(ctx, summary.ReplacedID)
	}
	uc.recordUpload(ctx, req, summary)
	uc.publish(ctx, domain.NewDatasetLoadedEvent(summary.DatasetID, summary.TotalRecords, summary.Categories, summary.LoadedAt))

	return &dto.UploadResponse{
		Message:      "POI data uploaded and indexed successfully",
		DatasetID:    summary.DatasetID,
		TotalRecords: summary.TotalRecords,
		POITypes:     summary.Categories,
		UploadTime:   summary.LoadedAt,
	}, nil
}

func (uc *POIUseCase) checkFile(req dto.UploadRequest) error {
	ext := strings.ToLower(filepath.Ext(req.Filename))
	allowed := false
	for _, a := range uc.cfg.AllowedExtensions {
		if strings.EqualFold(a, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.ErrInvalidFile.WithMessage(fmt.Sprintf(
			"unsupported file format; allowed formats: %s", strings.Join(uc.cfg.AllowedExtensions, ", "),
		))
	}

	if uc.cfg.MaxUploadBytes > 0 && int64(len(req.Content)) > uc.cfg.MaxUploadBytes {
		return errors.ErrFileTooLarge.WithMessage(fmt.Sprintf(
			"file is too large; maximum allowed size is %d MB", uc.cfg.MaxUploadBytes/(1024*1024),
		))
	}

	if len(req.Content) == 0 {
		return errors.ErrInvalidFile.WithMessage("file is empty")
	}

	return nil
}

// FindNearest ищет k ближайших POI заданного типа или среди всех типов
func (uc *POIUseCase) FindNearest(ctx context.Context, req dto.NearestRequest) (*dto.NearestResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage(strings.Join(validator.Describe(err), "; "))
	}
	if req.K != nil && uc.cfg.MaxK > 0 && *req.K > uc.cfg.MaxK {
		return nil, errors.ErrInvalidRequest.WithMessage(fmt.Sprintf("k must be <= %d", uc.cfg.MaxK))
	}

	scope := "category"
	if req.POIType == dataset.CategoryAll {
		scope = dataset.CategoryAll
	}

	start := time.Now()
	defer func() {
		uc.metrics.NearestDuration.Observe(time.Since(start).Seconds())
	}()

	// Снимок берётся один раз: ключ кеша и поиск относятся к одному и тому же набору
	snap := uc.manager.Snapshot()
	if snap == nil {
		uc.metrics.NearestQueries.WithLabelValues(scope, "no_data").Inc()
		return nil, errors.ErrNoDataLoaded
	}

	lat, lng := *req.Lat, *req.Lng
	k := uc.manager.ResolveK(req.K)
	key := repository.NearestKey{DatasetID: snap.ID, Lat: lat, Lng: lng, Category: req.POIType, K: k}

	if pois := uc.cachedNearest(ctx, key); pois != nil {
		uc.metrics.NearestQueries.WithLabelValues(scope, "ok").Inc()
		return &dto.NearestResponse{Results: toNearestResponse(pois), K: k, Cached: true}, nil
	}

	results, err := snap.Nearest(lat, lng, req.POIType, k)
	if err != nil {
		uc.metrics.NearestQueries.WithLabelValues(scope, "error").Inc()
		return nil, uc.mapDatasetError(err)
	}
	if len(results) == 0 {
		uc.metrics.NearestQueries.WithLabelValues(scope, "not_found").Inc()
		return nil, errors.ErrPOINotFound.WithMessage("no POIs matched the query")
	}

	pois := make([]domain.NearestPOI, 0, len(results))
	for _, r := range results {
		pois = append(pois, domain.NearestPOI{
			POI:            domain.POI{Name: r.Name, Category: r.Category, Lat: r.Lat, Lng: r.Lng},
			DistanceMeters: r.DistanceMeters,
		})
	}

	uc.storeNearest(ctx, key, pois)
	uc.metrics.NearestQueries.WithLabelValues(scope, "ok").Inc()

	uc.logger.Debug("Nearest POIs found",
		zap.Float64("lat", lat),
		zap.Float64("lng", lng),
		zap.String("poi_type", req.POIType),
		zap.Int("k", k),
		zap.Int("found", len(pois)),
	)

	return &dto.NearestResponse{Results: toNearestResponse(pois), K: k}, nil
}

func (uc *POIUseCase) cachedNearest(ctx context.Context, key repository.NearestKey) []domain.NearestPOI {
	if uc.cache == nil {
		return nil
	}

	pois, err := uc.cache.GetNearest(ctx, key)
	if err != nil {
		uc.metrics.SideEffectErrors.WithLabelValues("cache_get").Inc()
		uc.logger.Warn("Nearest cache lookup failed", zap.Error(err))
		return nil
	}
	if len(pois) == 0 {
		uc.metrics.CacheMisses.Inc()
		return nil
	}

	uc.metrics.CacheHits.Inc()
	return pois
}

func (uc *POIUseCase) storeNearest(ctx context.Context, key repository.NearestKey, pois []domain.NearestPOI) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return
	}
	if err := uc.cache.SetNearest(ctx, key, pois, uc.cfg.CacheTTL); err != nil {
		uc.metrics.SideEffectErrors.WithLabelValues("cache_set").Inc()
		uc.logger.Warn("Failed to cache nearest POIs", zap.Error(err))
	}
}

func toNearestResponse(pois []domain.NearestPOI) []dto.NearestPOIResponse {
	result := make([]dto.NearestPOIResponse, 0, len(pois))
	for _, p := range pois {
		result = append(result, dto.NearestPOIResponse{
			Name:      p.Name,
			POIType:   p.Category,
			Distance:  utils.Round(p.DistanceMeters, distancePrecision),
			Latitude:  p.Lat,
			Longitude: p.Lng,
		})
	}
	return result
}

// GetTypes возвращает отсортированный список типов POI
func (uc *POIUseCase) GetTypes(ctx context.Context) ([]string, error) {
	stats := uc.manager.Stats()
	if !stats.Loaded {
		return nil, errors.ErrNoDataLoaded
	}
	return stats.Categories, nil
}

// GetStatistics возвращает состояние набора; без данных loaded=false, это не ошибка
func (uc *POIUseCase) GetStatistics(ctx context.Context) *dto.StatisticsResponse {
	stats := uc.manager.Stats()

	resp := &dto.StatisticsResponse{
		Loaded:       stats.Loaded,
		TotalRecords: stats.TotalRecords,
		POITypes:     stats.Categories,
		TypeCounts:   stats.CategoryCounts,
		UploadTime:   stats.LoadedAt,
	}
	if stats.Loaded {
		id := stats.DatasetID
		resp.DatasetID = &id
	}
	return resp
}

// Clear удаляет активный набор; повторный вызов безопасен
func (uc *POIUseCase) Clear(ctx context.Context) *dto.ClearResponse {
	cleared := uc.manager.Clear()

	uc.metrics.DatasetRecords.Set(0)
	uc.metrics.DatasetCategories.Set(0)

	if cleared != nil {
		uc.logger.Info("POI dataset cleared", zap.String("dataset_id", cleared.ID.String()))
		uc.invalidateNearest(ctx, cleared.ID)
		uc.publish(ctx, domain.NewDatasetClearedEvent(uc.now()))
	}

	return &dto.ClearResponse{Message: "All POI data cleared"}
}

// Health возвращает состояние сервиса и его зависимостей
func (uc *POIUseCase) Health(ctx context.Context) *dto.HealthResponse {
	resp := &dto.HealthResponse{
		Status:      "healthy",
		DataLoaded:  uc.manager.IsLoaded(),
		Environment: uc.cfg.Environment,
	}
	if len(uc.checks) == 0 {
		return resp
	}

	names := make([]string, 0, len(uc.checks))
	for name := range uc.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp.Components = make(map[string]string, len(names))
	for _, name := range names {
		if err := uc.checks[name].Health(ctx); err != nil {
			uc.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
			resp.Components[name] = "unavailable"
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}
	return resp
}

// ListUploads возвращает историю загрузок; без PostgreSQL список пуст
func (uc *POIUseCase) ListUploads(ctx context.Context, req dto.ListUploadsRequest) ([]dto.UploadRecordResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, errors.ErrInvalidRequest.WithMessage(strings.Join(validator.Describe(err), "; "))
	}
	if uc.uploads == nil {
		return []dto.UploadRecordResponse{}, nil
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultUploadsLimit
	}

	records, err := uc.uploads.List(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to list uploads", zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	result := make([]dto.UploadRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, dto.UploadRecordResponse{
			ID:           r.ID,
			DatasetID:    r.DatasetID,
			Filename:     r.Filename,
			SizeBytes:    r.SizeBytes,
			TotalRecords: r.TotalRecords,
			POITypes:     []string(r.Categories),
			UploadedAt:   r.UploadedAt,
		})
	}
	return result, nil
}

func (uc *POIUseCase) recordUpload(ctx context.Context, req dto.UploadRequest, summary dataset.Summary) {
	if uc.uploads == nil {
		return
	}

	record := &domain.UploadRecord{
		DatasetID:    summary.DatasetID,
		Filename:     req.Filename,
		SizeBytes:    int64(len(req.Content)),
		TotalRecords: summary.TotalRecords,
		Categories:   summary.Categories,
	}
	if err := uc.uploads.Create(ctx, record); err != nil {
		uc.metrics.SideEffectErrors.WithLabelValues("upload_history").Inc()
		uc.logger.Warn("Failed to record upload history",
			zap.String("dataset_id", summary.DatasetID.String()),
			zap.Error(err))
	}
}

// invalidateNearest убирает из кеша результаты замененного набора
func (uc *POIUseCase) invalidateNearest(ctx context.Context, datasetID uuid.UUID) {
	if uc.cache == nil {
		return
	}
	removed, err := uc.cache.InvalidateDataset(ctx, datasetID)
	if err != nil {
		uc.metrics.SideEffectErrors.WithLabelValues("cache_invalidate").Inc()
		uc.logger.Warn("Failed to invalidate nearest cache",
			zap.String("dataset_id", datasetID.String()),
			zap.Error(err))
		return
	}
	if removed > 0 {
		uc.logger.Debug("Nearest cache invalidated",
			zap.String("dataset_id", datasetID.String()),
			zap.Int("removed", removed))
	}
}

func (uc *POIUseCase) publish(ctx context.Context, event domain.DatasetEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.metrics.SideEffectErrors.WithLabelValues("event_publish").Inc()
		uc.logger.Warn("Failed to publish dataset event",
			zap.String("type", event.Type),
			zap.Error(err))
	}
}

func (uc *POIUseCase) mapParseError(err error) error {
	switch {
	case stderrors.Is(err, csvrows.ErrEmptyFile):
		return errors.ErrInvalidFile.WithMessage("file is empty")
	case stderrors.Is(err, csvrows.ErrTooManyRows):
		return errors.ErrFileTooLarge.WithMessage(fmt.Sprintf(
			"file has too many rows; maximum allowed is %d", uc.cfg.MaxRows,
		))
	default:
		return errors.ErrInvalidFile.WithMessage(fmt.Sprintf("CSV parse error: %v", err))
	}
}

// mapDatasetError переводит ошибки ядра в ошибки API
func (uc *POIUseCase) mapDatasetError(err error) error {
	var validationErr *dataset.ValidationError
	var unknownErr *dataset.UnknownCategoryError

	switch {
	case stderrors.As(err, &validationErr):
		return errors.ErrValidation.
			WithMessage(validationErr.Error()).
			WithDetails(map[string]interface{}{"problems": validationErr.Problems})
	case stderrors.Is(err, dataset.ErrNoDataLoaded):
		return errors.ErrNoDataLoaded
	case stderrors.As(err, &unknownErr):
		return errors.ErrUnknownCategory.
			WithMessage(unknownErr.Error()).
			WithDetails(map[string]interface{}{"available": unknownErr.Available})
	default:
		uc.logger.Error("Dataset operation failed", zap.Error(err))
		return errors.ErrInternalServer
	}
}
