package handler

import (
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/deppfellow/crop-recommendation/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Health     *HealthHandler
	Prediction *PredictionHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s, services.Prediction),
		Prediction: NewPredictionHandler(s, services.Prediction),
	}
}
