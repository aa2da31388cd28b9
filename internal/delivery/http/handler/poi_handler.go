package handler

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-service/internal/pkg/errors"
	"github.com/poi-service/internal/pkg/utils"
	"github.com/poi-service/internal/usecase"
	"github.com/poi-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const uploadField = "file"

// POIHandler - обработчик для POI (точки интереса) запросов
type POIHandler struct {
	poiUC          *usecase.POIUseCase
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewPOIHandler - создание нового POIHandler
func NewPOIHandler(poiUC *usecase.POIUseCase, maxUploadBytes int64, logger *zap.Logger) *POIHandler {
	return &POIHandler{
		poiUC:          poiUC,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload godoc
// @Summary Загрузка набора POI
// @Description Загружает CSV (name, category, lat, lng), валидирует строки и строит пространственные индексы по категориям. Заменяет текущий набор целиком.
// @Tags POI
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV файл с POI"
// @Success 200 {object} utils.SuccessResponse{data=dto.UploadResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 413 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/poi/upload [post]
func (h *POIHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(
			fmt.Sprintf("multipart field %q with a CSV file is required", uploadField),
		))
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidFile)
	}
	defer file.Close()

	// Читаем на байт больше лимита, чтобы usecase увидел превышение
	reader := io.Reader(file)
	if h.maxUploadBytes > 0 {
		reader = io.LimitReader(file, h.maxUploadBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidFile)
	}

	result, err := h.poiUC.Upload(c.UserContext(), dto.UploadRequest{
		Filename: header.Filename,
		Content:  content,
	})
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.TotalRecords,
	})
}

// FindNearest godoc
// @Summary Поиск ближайших POI
// @Description Возвращает k ближайших точек заданного типа или всех типов (poi_type=all), отсортированных по геодезическому расстоянию в метрах
// @Tags POI
// @Produce json
// @Param lat query number true "Широта (-90..90)"
// @Param lng query number true "Долгота (-180..180)"
// @Param poi_type query string true "Тип POI или all"
// @Param k query int false "Количество результатов" default(10)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.NearestPOIResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/poi/nearest [get]
func (h *POIHandler) FindNearest(c *fiber.Ctx) error {
	var req dto.NearestRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid query parameters: "+err.Error()))
	}

	result, err := h.poiUC.FindNearest(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result.Results, &utils.Meta{
		Total:  len(result.Results),
		Limit:  result.K,
		Cached: result.Cached,
	})
}

// GetTypes godoc
// @Summary Список типов POI
// @Description Отсортированный список типов в загруженном наборе
// @Tags POI
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]string}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/poi/types [get]
func (h *POIHandler) GetTypes(c *fiber.Ctx) error {
	types, err := h.poiUC.GetTypes(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, types, &utils.Meta{
		Total: len(types),
	})
}

// GetStatistics godoc
// @Summary Статистика набора
// @Description Состояние загруженного набора: количество записей, типы, время загрузки
// @Tags POI
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.StatisticsResponse}
// @Router /api/v1/poi/statistics [get]
func (h *POIHandler) GetStatistics(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.poiUC.GetStatistics(c.UserContext()), nil)
}

// Clear godoc
// @Summary Очистка набора
// @Description Удаляет все POI и индексы. Повторный вызов безопасен.
// @Tags POI
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ClearResponse}
// @Router /api/v1/poi/clear [delete]
func (h *POIHandler) Clear(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.poiUC.Clear(c.UserContext()), nil)
}

// ListUploads godoc
// @Summary История загрузок
// @Description Последние загрузки наборов, новые первыми. Пусто, если PostgreSQL отключён.
// @Tags POI
// @Produce json
// @Param limit query int false "Количество записей (1..100)" default(20)
// @Success 200 {object} utils.SuccessResponse{data=[]dto.UploadRecordResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/poi/uploads [get]
func (h *POIHandler) ListUploads(c *fiber.Ctx) error {
	var req dto.ListUploadsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("invalid query parameters: "+err.Error()))
	}

	records, err := h.poiUC.ListUploads(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, records, &utils.Meta{
		Total: len(records),
		Limit: req.Limit,
	})
}
