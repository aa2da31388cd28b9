package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/poi-service/internal/config"
)

var allMethods = []string{
	fiber.MethodGet,
	fiber.MethodPost,
	fiber.MethodHead,
	fiber.MethodPut,
	fiber.MethodDelete,
	fiber.MethodPatch,
	fiber.MethodOptions,
}

// CORS - middleware для настройки Cross-Origin Resource Sharing из конфигурации.
// "*" в методах раскрывается в явный список, "*" в заголовках отражает запрошенные заголовки.
func CORS(cfg config.CORSConfig) fiber.Handler {
	origins := strings.Join(cfg.Origins, ",")
	if origins == "" {
		origins = "*"
	}

	methods := cfg.AllowMethods
	if len(methods) == 0 || isWildcard(methods) {
		methods = allMethods
	}

	headers := ""
	if !isWildcard(cfg.AllowHeaders) {
		headers = strings.Join(cfg.AllowHeaders, ",")
	}

	// fiber запрещает credentials вместе с origin "*"
	credentials := cfg.AllowCredentials && origins != "*"

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     strings.Join(methods, ","),
		AllowHeaders:     headers,
		AllowCredentials: credentials,
	})
}

func isWildcard(values []string) bool {
	for _, v := range values {
		if v == "*" {
			return true
		}
	}
	return false
}
