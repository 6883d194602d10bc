package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/deppfellow/crop-recommendation/internal/errs"
	"github.com/deppfellow/crop-recommendation/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingClassifier struct{}

func (failingClassifier) Predict([]float64) (string, error) {
	return "", errors.New("tree 0 reached an invalid node")
}

func (failingClassifier) Features() []string { return model.FeatureNames }

func (failingClassifier) Info() model.Info { return model.Info{Type: "stub"} }

func loadForest(t *testing.T) model.Classifier {
	t.Helper()

	classifier, err := model.Load(filepath.Join("..", "model", "testdata", "forest.json"))
	require.NoError(t, err)
	return classifier
}

func riceRecord() model.Features {
	return model.Features{N: 90, P: 42, K: 43, Temperature: 20.8, Humidity: 82.0, Ph: 6.5, Rainfall: 202.9}
}

func TestPredict(t *testing.T) {
	svc := NewPredictionService(loadForest(t), false)

	label, err := svc.Predict(context.Background(), riceRecord())
	require.NoError(t, err)
	assert.Equal(t, "rice", label)

	for i := 0; i < 10; i++ {
		again, err := svc.Predict(context.Background(), riceRecord())
		require.NoError(t, err)
		assert.Equal(t, label, again)
	}
}

func TestPredictStrictRanges(t *testing.T) {
	record := riceRecord()
	record.Ph = 15

	lenient := NewPredictionService(loadForest(t), false)
	_, err := lenient.Predict(context.Background(), record)
	assert.NoError(t, err)

	strict := NewPredictionService(loadForest(t), true)
	_, err = strict.Predict(context.Background(), record)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "ph", httpErr.Field)
	assert.Equal(t, "Invalid field ph: must not exceed 14", httpErr.Message)
}

func TestPredictModelFailure(t *testing.T) {
	svc := NewPredictionService(failingClassifier{}, false)

	_, err := svc.Predict(context.Background(), riceRecord())

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, errs.CodePredictionFailed, httpErr.Code)
	assert.Equal(t, "tree 0 reached an invalid node", httpErr.Message)
}

func TestPredictWithoutClassifier(t *testing.T) {
	svc := NewPredictionService(nil, false)

	_, err := svc.Predict(context.Background(), riceRecord())
	assert.ErrorContains(t, err, "no classifier loaded")
	assert.Equal(t, model.Info{}, svc.Info())
}
