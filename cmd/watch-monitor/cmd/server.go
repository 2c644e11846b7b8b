package cmd

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sfeuerstein/watch-monitor/internal/api/handlers"
	"github.com/sfeuerstein/watch-monitor/internal/api/middleware"
	"github.com/sfeuerstein/watch-monitor/internal/config"
	"github.com/sfeuerstein/watch-monitor/internal/engine"
	"github.com/sfeuerstein/watch-monitor/internal/store"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

// newAPIServer assembles the ops HTTP server: middleware, health probes,
// Prometheus metrics, and the versioned huma API with OpenAPI served at
// /openapi.json and interactive docs at /docs.
func newAPIServer(
	cfg *config.Config,
	st store.Store,
	eng *engine.Engine,
	sources []domain.Source,
	log *slog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(
		middleware.Recovery(log),
		middleware.RequestLog(log),
		middleware.Metrics(),
	)

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Watch Monitor API", Version))

	handlers.RegisterStateRoutes(api, handlers.NewStateHandler(st))
	handlers.RegisterSourceRoutes(api, handlers.NewSourcesHandler(sources, st))
	handlers.RegisterSeenRoutes(api, handlers.NewSeenHandler(st))
	handlers.RegisterCycleRoutes(api, handlers.NewCyclesHandler(st))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(eng))

	return e
}
