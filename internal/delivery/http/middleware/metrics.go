package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-service/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics - счётчики и длительность HTTP запросов по шаблону маршрута
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			handleError(c, err)
		}

		status := c.Response().StatusCode()
		// Для несуществующих путей Route() указывает на middleware "/"
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = unmatchedRoute
		}

		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return nil
	}
}
