package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// Logger - access-лог запросов через zap
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(utils.RequestStartKey, start)

		if err := c.Next(); err != nil {
			handleError(c, err)
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.Int("bytes", len(c.Response().Body())),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}

		return nil
	}
}

// handleError отдаёт ошибку обработчику приложения, чтобы статус ответа
// был известен до записи лога и метрик
func handleError(c *fiber.Ctx, err error) {
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
