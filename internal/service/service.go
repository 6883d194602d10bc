package service

import "errors"

// ErrNoClassifier is returned when a service is used without a loaded model.
var ErrNoClassifier = errors.New("no classifier loaded")
