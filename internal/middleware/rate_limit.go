package middleware

import (
	"time"

	"github.com/deppfellow/crop-recommendation/internal/errs"
	"github.com/deppfellow/crop-recommendation/internal/metrics"
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const rateLimitExpiry = 3 * time.Minute

// RateLimitMiddleware enforces the optional per-client request rate.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns a token bucket limiter keyed by client ip. A configured
// rate of zero disables limiting.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server
	if cfg.RateLimit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	metricsPath := ""
	if obs := r.server.Config.Observability; obs != nil && obs.Metrics.Enabled {
		metricsPath = obs.Metrics.Path
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return metricsPath != "" && c.Path() == metricsPath
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     cfg.RateLimitBurst,
			ExpiresIn: rateLimitExpiry,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c, identifier)
			return errs.NewTooManyRequestsError()
		},
	})
}

// RecordRateLimitHit counts a rejected request and reports it to New Relic
// when the agent is running.
func (r *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, identifier string) {
	metrics.RateLimitRejects.Inc()

	GetLogger(c).Warn().
		Str("client", identifier).
		Msg("rate limit exceeded")

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": c.Path(),
			"client":   identifier,
		})
	}
}
