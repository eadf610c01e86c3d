// Package httpapi exposes the sync pipeline over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lms_sync/internal/config"
)

// NewServer builds the echo instance with every route registered.
func NewServer(cfg config.ServerConfig, h *Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		}))
	}

	RegisterRoutes(e, h, cfg)
	return e
}

// RegisterRoutes mounts the health check and the authenticated /v1 API.
// Sync runs carry their own deadline, so only connection routes get the
// request timeout.
func RegisterRoutes(e *echo.Echo, h *Handler, cfg config.ServerConfig) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	v1.Use(JWTAuth(cfg.JWTSecret))

	conns := v1.Group("/connections")
	if cfg.RequestTimeout > 0 {
		conns.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}
	conns.POST("", h.Connect)
	conns.POST("/verify", h.Verify)
	conns.DELETE("/:id", h.Disconnect)

	v1.POST("/sync/units", h.SyncUnits)
	v1.POST("/sync/units/stream", h.StreamUnits)
	v1.POST("/sync/assignments", h.SyncAssignments)
	v1.POST("/sync/assignments/stream", h.StreamAssignments)
	v1.GET("/sync/status", h.Status)
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("owner_id", ownerID(c)),
			)
			return nil
		},
	})
}
