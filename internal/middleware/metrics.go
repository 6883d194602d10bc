package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/deppfellow/crop-recommendation/internal/metrics"
	"github.com/labstack/echo/v4"
)

// unmatchedRoute labels requests that hit no registered route, keeping
// the path label bounded.
const unmatchedRoute = "unmatched"

// Instrument records request rate, errors and duration per route.
func Instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			err := next(c)

			path := c.Path()
			if path == "" || path == "/*" || errors.Is(err, echo.ErrNotFound) {
				path = unmatchedRoute
			}
			method := c.Request().Method
			status := strconv.Itoa(statusFromError(err, c.Response().Status))

			metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
