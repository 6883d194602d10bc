package model

import "fmt"

// DecisionTree is a single classification tree.
type DecisionTree struct {
	version  string
	features []string
	classes  []string
	nodes    []TreeNode
}

func (dt *DecisionTree) Predict(vector []float64) (string, error) {
	if len(vector) != len(dt.features) {
		return "", fmt.Errorf("%w: got %d values, want %d", ErrFeatureMismatch, len(vector), len(dt.features))
	}

	classIdx, err := walk(dt.nodes, vector)
	if err != nil {
		return "", err
	}
	return dt.classes[classIdx], nil
}

func (dt *DecisionTree) Features() []string {
	return append([]string(nil), dt.features...)
}

func (dt *DecisionTree) Info() Info {
	return Info{
		Type:     TypeDecisionTree,
		Version:  dt.version,
		Features: dt.Features(),
		Classes:  append([]string(nil), dt.classes...),
		Trees:    1,
	}
}

// walk descends from the root to a leaf and returns its class index.
// A well-formed tree reaches a leaf in at most len(nodes) steps.
func walk(nodes []TreeNode, vector []float64) (int, error) {
	if len(nodes) == 0 {
		return 0, fmt.Errorf("%w: empty tree", ErrInvalidTreeState)
	}

	idx := 0
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(vector) {
			return 0, fmt.Errorf("%w: feature index %d out of range", ErrInvalidTreeState, node.FeatureIdx)
		}

		if vector[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return 0, fmt.Errorf("%w: child index %d out of range", ErrInvalidTreeState, idx)
		}
	}
	return 0, fmt.Errorf("%w: cycle detected", ErrInvalidTreeState)
}
