package router

import (
	"github.com/deppfellow/crop-recommendation/internal/handler"
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers the endpoints that are not part of the
// prediction flow: liveness, status and metrics.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/", h.Health.Root)
	r.GET("/status", h.Health.Status)

	if obs := s.Config.Observability; obs != nil && obs.Metrics.Enabled {
		r.GET(obs.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}
}
