// Package service contains the business logic.
//
// It sits between the handler layer and the model. It receives
// decoded feature records from handlers, enforces the optional
// range rules, runs inference and records prediction metrics.
package service

import (
	"github.com/deppfellow/crop-recommendation/internal/server"
)

// Services groups the business services shared by the handlers.
type Services struct {
	Prediction *PredictionService
}

func NewServices(s *server.Server) *Services {
	return &Services{
		Prediction: NewPredictionService(s.Model, s.Config.Predict.StrictRanges),
	}
}
