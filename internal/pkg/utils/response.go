package utils

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-service/internal/pkg/errors"
)

// RequestStartKey - ключ c.Locals с моментом начала обработки запроса
const RequestStartKey = "request_start"

// SuccessResponse - конверт успешного ответа
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// ErrorResponse - конверт ошибки
type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
	Cached   bool    `json:"cached,omitempty"`
}

// SendSuccess пишет 200 с данными; время обработки берется из c.Locals, если оно там есть
func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	if meta != nil && meta.TimeMSec == 0 {
		if start, ok := c.Locals(RequestStartKey).(time.Time); ok {
			meta.TimeMSec = Round(float64(time.Since(start).Microseconds())/1000, 3)
		}
	}
	return c.JSON(SuccessResponse{Data: data, Meta: meta})
}

// SendError пишет AppError с его статусом; прочие ошибки скрываются за 500
func SendError(c *fiber.Ctx, err error) error {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.ErrInternalServer
	}
	return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: appErr})
}

// Round округляет значение до заданного количества знаков после запятой
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
