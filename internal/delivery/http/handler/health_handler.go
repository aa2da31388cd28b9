package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/poi-service/internal/pkg/utils"
	"github.com/poi-service/internal/usecase"
	"github.com/poi-service/internal/usecase/dto"
)

// Version - версия API, отдаётся корневым маршрутом
const Version = "2.0.0"

// HealthHandler обрабатывает служебные запросы
type HealthHandler struct {
	poiUC *usecase.POIUseCase
}

// NewHealthHandler создает новый экземпляр HealthHandler
func NewHealthHandler(poiUC *usecase.POIUseCase) *HealthHandler {
	return &HealthHandler{poiUC: poiUC}
}

// Health godoc
// @Summary Health check
// @Description Состояние сервиса, наличие данных и доступность Redis/PostgreSQL
// @Tags System
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.HealthResponse}
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.poiUC.Health(c.UserContext()), nil)
}

// Root godoc
// @Summary Service info
// @Tags System
// @Produce json
// @Success 200 {object} dto.ServiceInfoResponse
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.ServiceInfoResponse{
		Message: "POI nearest-neighbor API",
		Version: Version,
		Docs:    "/swagger/index.html",
		Health:  "/api/v1/health",
	})
}
