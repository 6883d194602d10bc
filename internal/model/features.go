package model

import "fmt"

// FeatureNames lists the required request fields in their canonical order.
var FeatureNames = []string{"N", "P", "K", "temperature", "humidity", "ph", "rainfall"}

// Features is one soil/weather record.
//
// The validate tags hold the agronomic ranges; they are only enforced when
// strict range checking is switched on.
type Features struct {
	N           float64 `json:"N" validate:"gte=0,lte=150"`
	P           float64 `json:"P" validate:"gte=0,lte=150"`
	K           float64 `json:"K" validate:"gte=0,lte=150"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=50"`
	Humidity    float64 `json:"humidity" validate:"gte=0,lte=100"`
	Ph          float64 `json:"ph" validate:"gte=0,lte=14"`
	Rainfall    float64 `json:"rainfall" validate:"gte=0,lte=500"`
}

// IsFeatureName reports whether name is one of FeatureNames.
func IsFeatureName(name string) bool {
	for _, n := range FeatureNames {
		if n == name {
			return true
		}
	}
	return false
}

// Get returns the value of the named feature.
func (f Features) Get(name string) (float64, bool) {
	switch name {
	case "N":
		return f.N, true
	case "P":
		return f.P, true
	case "K":
		return f.K, true
	case "temperature":
		return f.Temperature, true
	case "humidity":
		return f.Humidity, true
	case "ph":
		return f.Ph, true
	case "rainfall":
		return f.Rainfall, true
	}
	return 0, false
}

// Set assigns the named feature. It reports false for unknown names.
func (f *Features) Set(name string, value float64) bool {
	switch name {
	case "N":
		f.N = value
	case "P":
		f.P = value
	case "K":
		f.K = value
	case "temperature":
		f.Temperature = value
	case "humidity":
		f.Humidity = value
	case "ph":
		f.Ph = value
	case "rainfall":
		f.Rainfall = value
	default:
		return false
	}
	return true
}

// Vector assembles the feature values in the given order.
func (f Features) Vector(order []string) ([]float64, error) {
	vector := make([]float64, len(order))
	for i, name := range order {
		v, ok := f.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", ErrFeatureMismatch, name)
		}
		vector[i] = v
	}
	return vector, nil
}
