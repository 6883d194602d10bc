package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/deppfellow/crop-recommendation/internal/errs"
	"github.com/deppfellow/crop-recommendation/internal/model"
	"github.com/deppfellow/crop-recommendation/internal/server"
	"github.com/deppfellow/crop-recommendation/internal/service"
	"github.com/labstack/echo/v4"
)

var errNotObject = errors.New("request body must be a JSON object")

// PredictRequest is the body of POST /predict.
//
// Fields are kept raw until Validate so that a missing key can be told
// apart from a zero value, and so that presence is checked in
// model.FeatureNames order.
type PredictRequest struct {
	fields   map[string]json.RawMessage
	features model.Features
}

func NewPredictRequest() *PredictRequest {
	return &PredictRequest{}
}

// UnmarshalJSON accepts only a JSON object.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errNotObject
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// Validate reports the first missing feature, then the first feature whose
// value is not a JSON number. No coercion is applied.
func (r *PredictRequest) Validate() error {
	for _, name := range model.FeatureNames {
		if _, ok := r.fields[name]; !ok {
			return errs.NewMissingFieldError(name)
		}
	}

	var features model.Features
	for _, name := range model.FeatureNames {
		value, ok := parseNumber(r.fields[name])
		if !ok {
			return errs.NewInvalidFieldError(name)
		}
		features.Set(name, value)
	}
	r.features = features
	return nil
}

// Features returns the record assembled by Validate.
func (r *PredictRequest) Features() model.Features {
	return r.features
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	trimmed := bytes.TrimSpace(raw)
	// json.Unmarshal treats null as a no-op, which would read as zero.
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}

	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return 0, false
	}
	return value, true
}

// PredictResponse is the body of a successful prediction.
type PredictResponse struct {
	Prediction string `json:"prediction"`
}

func (r *PredictResponse) Attributes() map[string]interface{} {
	return map[string]interface{}{"prediction.label": r.Prediction}
}

// PredictionHandler serves POST /predict.
type PredictionHandler struct {
	Handler
	prediction *service.PredictionService
}

func NewPredictionHandler(s *server.Server, prediction *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		Handler:    NewHandler(s),
		prediction: prediction,
	}
}

// Predict runs exactly one inference for a validated request.
func (h *PredictionHandler) Predict(c echo.Context, req *PredictRequest) (*PredictResponse, error) {
	label, err := h.prediction.Predict(c.Request().Context(), req.Features())
	if err != nil {
		return nil, err
	}

	return &PredictResponse{Prediction: label}, nil
}
