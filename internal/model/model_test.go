package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(class int) TreeNode {
	return TreeNode{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: class, IsLeaf: true}
}

func split(feature int, threshold float64, left, right int) TreeNode {
	return TreeNode{FeatureIdx: feature, Threshold: threshold, LeftChild: left, RightChild: right}
}

func riceFeatures() Features {
	return Features{N: 90, P: 42, K: 43, Temperature: 20.8, Humidity: 82.0, Ph: 6.5, Rainfall: 202.9}
}

func TestDecisionTreePredict(t *testing.T) {
	classifier, err := FromArtifact(&Artifact{
		Type:     TypeDecisionTree,
		Features: []string{"humidity", "rainfall"},
		Classes:  []string{"chickpea", "rice", "jute"},
		Trees: []Tree{{Nodes: []TreeNode{
			split(0, 60, 1, 2),
			leaf(0),
			split(1, 150, 3, 4),
			leaf(2),
			leaf(1),
		}}},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		vector []float64
		want   string
	}{
		{name: "dry", vector: []float64{20, 80}, want: "chickpea"},
		{name: "threshold goes left", vector: []float64{60, 80}, want: "chickpea"},
		{name: "humid low rain", vector: []float64{85, 120}, want: "jute"},
		{name: "humid high rain", vector: []float64{85, 220}, want: "rice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.Predict(tt.vector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictRejectsWrongVectorLength(t *testing.T) {
	classifier, err := Load(filepath.Join("testdata", "forest.json"))
	require.NoError(t, err)

	_, err = classifier.Predict([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestRandomForestMajorityVote(t *testing.T) {
	classifier, err := FromArtifact(&Artifact{
		Type:     TypeRandomForest,
		Features: []string{"N"},
		Classes:  []string{"rice", "maize"},
		Trees: []Tree{
			{Nodes: []TreeNode{leaf(1)}},
			{Nodes: []TreeNode{split(0, 50, 1, 2), leaf(0), leaf(1)}},
			{Nodes: []TreeNode{leaf(0)}},
		},
	})
	require.NoError(t, err)

	got, err := classifier.Predict([]float64{80})
	require.NoError(t, err)
	assert.Equal(t, "maize", got)

	got, err = classifier.Predict([]float64{10})
	require.NoError(t, err)
	assert.Equal(t, "rice", got)
}

func TestRandomForestTieGoesToLowestClass(t *testing.T) {
	classifier, err := FromArtifact(&Artifact{
		Type:     TypeRandomForest,
		Features: []string{"N"},
		Classes:  []string{"apple", "banana", "coffee"},
		Trees: []Tree{
			{Nodes: []TreeNode{leaf(2)}},
			{Nodes: []TreeNode{leaf(1)}},
		},
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := classifier.Predict([]float64{1})
		require.NoError(t, err)
		assert.Equal(t, "banana", got)
	}
}

func TestWalkDetectsCycle(t *testing.T) {
	nodes := []TreeNode{split(0, 10, 1, 1), split(0, 10, 0, 0)}

	_, err := walk(nodes, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidTreeState)
}

func TestLoadJSONForest(t *testing.T) {
	classifier, err := Load(filepath.Join("testdata", "forest.json"))
	require.NoError(t, err)

	info := classifier.Info()
	assert.Equal(t, TypeRandomForest, info.Type)
	assert.Equal(t, "2024.1", info.Version)
	assert.Equal(t, FeatureNames, info.Features)
	assert.Equal(t, 3, info.Trees)
	assert.Len(t, info.Classes, 22)

	vector, err := riceFeatures().Vector(classifier.Features())
	require.NoError(t, err)

	got, err := classifier.Predict(vector)
	require.NoError(t, err)
	assert.Equal(t, "rice", got)
}

func TestLoadYAMLTreeUsesArtifactFeatureOrder(t *testing.T) {
	classifier, err := Load(filepath.Join("testdata", "tree.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"rainfall", "humidity", "N"}, classifier.Features())

	f := riceFeatures()
	f.Rainfall = 100

	vector, err := f.Vector(classifier.Features())
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 82, 90}, vector)

	got, err := classifier.Predict(vector)
	require.NoError(t, err)
	assert.Equal(t, "cotton", got)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "model.pkl"))
	assert.ErrorContains(t, err, "unsupported artifact extension")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"type": "random_forest",`), 0o600))
	_, err = Load(broken)
	assert.Error(t, err)

	unknownKey := filepath.Join(dir, "unknown.json")
	require.NoError(t, os.WriteFile(unknownKey, []byte(`{"type": "random_forest", "learning_rate": 0.1}`), 0o600))
	_, err = Load(unknownKey)
	assert.Error(t, err)
}

func TestArtifactValidation(t *testing.T) {
	valid := func() *Artifact {
		return &Artifact{
			Type:     TypeRandomForest,
			Features: []string{"N", "P"},
			Classes:  []string{"rice", "maize"},
			Trees:    []Tree{{Nodes: []TreeNode{split(1, 5, 1, 2), leaf(0), leaf(1)}}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(a *Artifact)
		wantErr error
		contain string
	}{
		{name: "valid", mutate: func(a *Artifact) {}},
		{name: "unknown type", mutate: func(a *Artifact) { a.Type = "svm" }, wantErr: ErrUnsupportedType},
		{name: "no features", mutate: func(a *Artifact) { a.Features = nil }, wantErr: ErrInvalidArtifact, contain: "no features"},
		{name: "unknown feature", mutate: func(a *Artifact) { a.Features[1] = "soil_type" }, wantErr: ErrInvalidArtifact, contain: "soil_type"},
		{name: "duplicate feature", mutate: func(a *Artifact) { a.Features[1] = "N" }, wantErr: ErrInvalidArtifact, contain: "duplicate"},
		{name: "no classes", mutate: func(a *Artifact) { a.Classes = nil }, wantErr: ErrInvalidArtifact, contain: "no classes"},
		{name: "no trees", mutate: func(a *Artifact) { a.Trees = nil }, wantErr: ErrInvalidArtifact},
		{name: "empty tree", mutate: func(a *Artifact) { a.Trees[0].Nodes = nil }, wantErr: ErrInvalidArtifact, contain: "no nodes"},
		{name: "class out of range", mutate: func(a *Artifact) { a.Trees[0].Nodes[2] = leaf(7) }, wantErr: ErrInvalidArtifact, contain: "class label"},
		{name: "feature out of range", mutate: func(a *Artifact) { a.Trees[0].Nodes[0].FeatureIdx = 2 }, wantErr: ErrInvalidArtifact, contain: "feature index"},
		{name: "child out of range", mutate: func(a *Artifact) { a.Trees[0].Nodes[0].RightChild = 9 }, wantErr: ErrInvalidArtifact, contain: "right child"},
		{
			name:    "decision tree with two trees",
			mutate:  func(a *Artifact) { a.Type = TypeDecisionTree; a.Trees = append(a.Trees, a.Trees[0]) },
			wantErr: ErrInvalidArtifact,
			contain: "exactly one tree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mutate(a)

			_, err := FromArtifact(a)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.contain != "" {
				assert.True(t, strings.Contains(err.Error(), tt.contain), "got %v", err)
			}
		})
	}
}

func TestFromArtifactCopiesInput(t *testing.T) {
	a := &Artifact{
		Type:     TypeDecisionTree,
		Features: []string{"N"},
		Classes:  []string{"rice"},
		Trees:    []Tree{{Nodes: []TreeNode{leaf(0)}}},
	}
	classifier, err := FromArtifact(a)
	require.NoError(t, err)

	a.Classes[0] = "maize"
	a.Features[0] = "P"

	got, err := classifier.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, "rice", got)
	assert.Equal(t, []string{"N"}, classifier.Features())
}

func TestFeaturesVector(t *testing.T) {
	f := riceFeatures()

	vector, err := f.Vector(FeatureNames)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 42, 43, 20.8, 82.0, 6.5, 202.9}, vector)

	_, err = f.Vector([]string{"N", "soil"})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestFeaturesSetAndGet(t *testing.T) {
	var f Features
	for i, name := range FeatureNames {
		require.True(t, f.Set(name, float64(i+1)))
	}
	assert.False(t, f.Set("soil", 1))

	for i, name := range FeatureNames {
		v, ok := f.Get(name)
		require.True(t, ok)
		assert.Equal(t, float64(i+1), v)
	}

	_, ok := f.Get("soil")
	assert.False(t, ok)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"model.json":   FormatJSON,
		"MODEL.JSON":   FormatJSON,
		"model.yaml":   FormatYAML,
		"a/b/tree.yml": FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
