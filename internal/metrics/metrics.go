// Package metrics holds the Prometheus collectors exported on the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crop_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crop_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crop_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	// Prediction metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_predictions_total",
			Help: "Total number of successful predictions by crop label",
		},
		[]string{"label"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crop_prediction_errors_total",
			Help: "Total number of failed predictions by reason",
		},
		[]string{"reason"},
	)

	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crop_inference_duration_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)

	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crop_model_info",
			Help: "Loaded model artifact; always 1",
		},
		[]string{"type", "version"},
	)
)

const (
	ReasonInvalidRange = "invalid_range"
	ReasonInference    = "inference"
)

// PanicRecoveries counts handler panics turned into 500 responses.
var PanicRecoveries = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "crop_panic_recoveries_total",
		Help: "Total number of panics recovered in HTTP handlers",
	},
)
