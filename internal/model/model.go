// Package model loads the crop classifier artifact and runs inference on it.
//
// The artifact is a serialized tree ensemble produced outside this service.
// It is loaded once at startup, validated, and never mutated afterwards, so a
// Classifier is safe for concurrent use without locking.
package model

import "errors"

const (
	TypeDecisionTree = "decision_tree"
	TypeRandomForest = "random_forest"
)

var (
	ErrUnsupportedType  = errors.New("unsupported model type")
	ErrInvalidArtifact  = errors.New("invalid model artifact")
	ErrFeatureMismatch  = errors.New("feature vector does not match model input")
	ErrInvalidTreeState = errors.New("invalid tree state")
)

// Classifier predicts a crop label from an ordered feature vector.
type Classifier interface {
	// Predict returns the label for one feature vector ordered like Features().
	Predict(vector []float64) (string, error)

	// Features returns the input schema: feature names in vector order.
	Features() []string

	Info() Info
}

// Info describes a loaded artifact.
type Info struct {
	Type     string   `json:"type" yaml:"type"`
	Version  string   `json:"version" yaml:"version"`
	Features []string `json:"features" yaml:"features"`
	Classes  []string `json:"classes" yaml:"classes"`
	Trees    int      `json:"trees" yaml:"trees"`
}

// Artifact is the on-disk representation of a classifier.
type Artifact struct {
	Type     string   `json:"type" yaml:"type"`
	Version  string   `json:"version" yaml:"version"`
	Features []string `json:"features" yaml:"features"`
	Classes  []string `json:"classes" yaml:"classes"`
	Trees    []Tree   `json:"trees" yaml:"trees"`
}

// Tree is a flat list of nodes; node 0 is the root.
type Tree struct {
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
}

// TreeNode routes left when x[FeatureIdx] <= Threshold, right otherwise.
// Leaves carry ClassLabel, an index into Artifact.Classes.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx" yaml:"feature_idx"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	LeftChild  int     `json:"left_child" yaml:"left_child"`
	RightChild int     `json:"right_child" yaml:"right_child"`
	ClassLabel int     `json:"class_label" yaml:"class_label"`
	IsLeaf     bool    `json:"is_leaf" yaml:"is_leaf"`
}
