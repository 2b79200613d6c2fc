package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medcourier/tracking/docs"
	"github.com/medcourier/tracking/internal/api/handler"
	"github.com/medcourier/tracking/internal/api/middleware"
	"github.com/medcourier/tracking/internal/core/domain"
	"github.com/medcourier/tracking/internal/core/ports"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Tracking     ports.TrackingService
	Ingestion    ports.IngestionService
	View         ports.ViewService
	JWTSecret    string
	MaxBatchSize int
	Readiness    map[string]handler.Check
	Log          zerolog.Logger
	// Registry receives the HTTP request metrics and backs /metrics. Nil
	// selects the default Prometheus registry.
	Registry     *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tracking_http",
		Registerer: registerer(deps.Registry),
	}))

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness) // mongodb and redis, when configured
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(deps.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Tracking routes ---
	trackingHandler := handler.NewTrackingHandler(deps.Tracking)
	locationHandler := handler.NewLocationHandler(deps.Ingestion, deps.MaxBatchSize)
	viewHandler := handler.NewViewHandler(deps.View)

	v1 := e.Group("/v1/shipments/:id", middleware.Auth(deps.JWTSecret))
	v1.PUT("/tracking", trackingHandler.Set, middleware.RBAC(domain.RoleAdmin, domain.RoleDriver))
	v1.GET("/tracking", viewHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleDriver, domain.RoleClient))
	v1.POST("/locations", locationHandler.Submit, middleware.RBAC(domain.RoleDriver))
	v1.POST("/locations/batch", locationHandler.SubmitBatch, middleware.RBAC(domain.RoleDriver))

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}

// requestLogger feeds echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
