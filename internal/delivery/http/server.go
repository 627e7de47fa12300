package http

import (
	"context"
	"time"

	"github.com/evmap-service/internal/config"
	"github.com/evmap-service/internal/delivery/http/handler"
	"github.com/evmap-service/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// HealthChecker - зависимость с проверкой живости
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	mapHandler *handler.MapHandler

	storeHealth HealthChecker
	cacheHealth HealthChecker
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	mapHandler *handler.MapHandler,
	storeHealth HealthChecker,
	cacheHealth HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "EV Map Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:         app,
		config:      cfg,
		logger:      logger,
		mapHandler:  mapHandler,
		storeHealth: storeHealth,
		cacheHealth: cacheHealth,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.handleHealth)

	// Map routes
	api.Get("/map", s.mapHandler.GetMap)
	api.Get("/map-detail/:kind/:id", s.mapHandler.GetMapDetail)
}

// handleHealth - проверка живости хранилища и кеша
func (s *Server) handleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	store := "healthy"
	cache := "healthy"

	if s.storeHealth != nil {
		if err := s.storeHealth.Health(ctx); err != nil {
			store = "unhealthy"
			status = fiber.StatusServiceUnavailable
		}
	}
	if s.cacheHealth != nil {
		if err := s.cacheHealth.Health(ctx); err != nil {
			// Кеш деградирует до промахов, сервис остаётся живым
			cache = "unhealthy"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status": store,
		"store":  store,
		"cache":  cache,
		"time":   time.Now(),
	})
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

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
