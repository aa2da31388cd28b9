package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/poi-service/internal/config"
	"github.com/poi-service/internal/delivery/http/handler"
	"github.com/poi-service/internal/delivery/http/middleware"
	"github.com/poi-service/internal/metrics"
	"github.com/poi-service/internal/pkg/errors"
	"github.com/poi-service/internal/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// multipartOverhead - запас к лимиту файла на заголовки multipart
const multipartOverhead = 1 << 20

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	// Handlers
	poiHandler    *handler.POIHandler
	healthHandler *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	poiHandler *handler.POIHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "POI Service",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    int(cfg.MaxUploadBytes()) + multipartOverhead,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		metrics:       m,
		gatherer:      gatherer,
		poiHandler:    poiHandler,
		healthHandler: healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Metrics(s.metrics))
	s.app.Use(middleware.CORS(s.config.CORS))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/", s.healthHandler.Root)

	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	// POI routes
	poi := api.Group("/poi")
	poi.Post("/upload", s.poiHandler.Upload)
	poi.Get("/nearest", s.poiHandler.FindNearest)
	poi.Get("/types", s.poiHandler.GetTypes)
	poi.Get("/statistics", s.poiHandler.GetStatistics)
	poi.Delete("/clear", s.poiHandler.Clear)
	poi.Get("/uploads", s.poiHandler.ListUploads)
}

// App - доступ к fiber.App, используется в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber в том же конверте, что и ошибки API
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if _, ok := errors.As(err); ok {
			return utils.SendError(c, err)
		}

		appErr := errors.ErrInternalServer
		if e, ok := err.(*fiber.Error); ok {
			switch e.Code {
			case fiber.StatusNotFound:
				appErr = errors.ErrNotFound.WithMessage(e.Message)
			case fiber.StatusRequestEntityTooLarge:
				appErr = errors.ErrFileTooLarge.WithMessage(e.Message)
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
				appErr = errors.New(errors.CodeInvalidRequest, e.Message, e.Code)
			default:
				appErr = errors.New(errors.CodeInternal, e.Message, e.Code)
			}
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return utils.SendError(c, appErr)
	}
}
