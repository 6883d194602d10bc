package service

import (
	"context"
	"time"

	"github.com/deppfellow/crop-recommendation/internal/errs"
	"github.com/deppfellow/crop-recommendation/internal/metrics"
	"github.com/deppfellow/crop-recommendation/internal/model"
	"github.com/deppfellow/crop-recommendation/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// PredictionService turns a feature record into a crop label.
//
// It holds no per-request state and is safe for concurrent use.
type PredictionService struct {
	classifier   model.Classifier
	strictRanges bool
	validate     *validator.Validate
}

// NewPredictionService builds the service around a loaded classifier.
// With strictRanges set, records outside the agronomic ranges are rejected
// before inference.
func NewPredictionService(classifier model.Classifier, strictRanges bool) *PredictionService {
	return &PredictionService{
		classifier:   classifier,
		strictRanges: strictRanges,
		validate:     validation.New(),
	}
}

// Predict runs one inference. Range violations come back as a 400
// *errs.HTTPError; anything that goes wrong inside the model comes back as
// a 500 carrying the model's error text.
func (s *PredictionService) Predict(ctx context.Context, features model.Features) (string, error) {
	if s.classifier == nil {
		return "", errs.NewPredictionError(ErrNoClassifier)
	}

	if s.strictRanges {
		if err := validation.ValidateStruct(s.validate, features); err != nil {
			metrics.PredictionErrors.WithLabelValues(metrics.ReasonInvalidRange).Inc()
			return "", err
		}
	}

	vector, err := features.Vector(s.classifier.Features())
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(metrics.ReasonInference).Inc()
		return "", errs.NewPredictionError(err)
	}

	segment := newrelic.FromContext(ctx).StartSegment("model.predict")
	start := time.Now()
	label, err := s.classifier.Predict(vector)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	segment.End()

	if err != nil {
		metrics.PredictionErrors.WithLabelValues(metrics.ReasonInference).Inc()
		return "", errs.NewPredictionError(err)
	}

	metrics.PredictionsTotal.WithLabelValues(label).Inc()
	return label, nil
}

// Info describes the classifier behind the service.
func (s *PredictionService) Info() model.Info {
	if s.classifier == nil {
		return model.Info{}
	}
	return s.classifier.Info()
}
