package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/MishraAmit1/freightsynq-sub002/docs"
	"github.com/MishraAmit1/freightsynq-sub002/internal/api/handler"
	"github.com/MishraAmit1/freightsynq-sub002/internal/api/middleware"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
	"github.com/MishraAmit1/freightsynq-sub002/internal/core/ports"
	"github.com/MishraAmit1/freightsynq-sub002/internal/infrastructure/http/handlers"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Service   ports.TrackingService
	Queue     ports.RefreshQueue
	JWTSecret string
	Checks    []handlers.Check
	Log       zerolog.Logger
	// Registerer receives the request metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tracking_http",
		Registerer: deps.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealth(deps.Checks...)
	e.GET("/health", health.Live)
	e.GET("/health/ready", health.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Tracking API ---
	tracking := handler.NewTrackingHandler(deps.Service, deps.Queue, deps.Log)

	readers := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator, domain.RoleViewer)
	writers := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)
	admins := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	shipment := v1.Group("/shipments/:id/tracking")
	shipment.POST("/crossings/refresh", tracking.RefreshCrossings, writers)
	shipment.GET("/crossings", tracking.ListCrossings, readers)
	shipment.GET("/crossings/map", tracking.CrossingMap, readers)
	shipment.POST("/pings/refresh", tracking.RefreshPings, writers)
	shipment.GET("/pings", tracking.ListPings, readers)
	shipment.POST("/sim", tracking.EnableSim, writers)
	shipment.GET("/status", tracking.Status, readers)

	v1.GET("/tracking/usage", tracking.Usage, writers)
	v1.POST("/tracking/refresh/batch", tracking.BatchRefresh, admins)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
