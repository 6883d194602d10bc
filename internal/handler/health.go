package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/crop-recommendation/internal/middleware"
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/deppfellow/crop-recommendation/internal/service"
	"github.com/labstack/echo/v4"
)

// RootStatus is the fixed payload of GET /.
const RootStatus = "Crop prediction API running ✅"

// HealthHandler serves the liveness and status endpoints.
type HealthHandler struct {
	Handler
	prediction *service.PredictionService
}

func NewHealthHandler(s *server.Server, prediction *service.PredictionService) *HealthHandler {
	return &HealthHandler{
		Handler:    NewHandler(s),
		prediction: prediction,
	}
}

// RootResponse is the body of GET /.
type RootResponse struct {
	Status string `json:"status"`
}

// Root is the liveness check. It never depends on model state.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{Status: RootStatus})
}

// ModelStatus describes the loaded artifact.
type ModelStatus struct {
	Type     string   `json:"type"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Classes  int      `json:"classes"`
	Trees    int      `json:"trees"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Environment string      `json:"environment"`
	Model       ModelStatus `json:"model"`
}

// Status reports model metadata along with the environment.
func (h *HealthHandler) Status(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "status").
		Logger()

	info := h.prediction.Info()
	response := StatusResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Model: ModelStatus{
			Type:     info.Type,
			Version:  info.Version,
			Features: info.Features,
			Classes:  len(info.Classes),
			Trees:    info.Trees,
		},
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"StatusError",
				map[string]interface{}{
					"operation":     "status",
					"error_type":    "json_response_error",
					"error_message": err.Error(),
				},
			)
		}

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
