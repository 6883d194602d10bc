// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the API paths to
// their handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/crop-recommendation/internal/handler"
	"github.com/deppfellow/crop-recommendation/internal/middleware"
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route registered.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id and New Relic transaction must exist
	// before the context logger is built.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middleware.Instrument(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	router.POST("/predict", handler.Handle(
		h.Prediction.Handler,
		h.Prediction.Predict,
		http.StatusOK,
		handler.NewPredictRequest,
	))

	return router
}
