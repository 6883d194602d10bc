package model

import "fmt"

// RandomForest classifies by majority vote over its trees.
// Ties go to the lowest class index, so predictions are deterministic.
type RandomForest struct {
	version  string
	features []string
	classes  []string
	trees    [][]TreeNode
}

func (rf *RandomForest) Predict(vector []float64) (string, error) {
	if len(vector) != len(rf.features) {
		return "", fmt.Errorf("%w: got %d values, want %d", ErrFeatureMismatch, len(vector), len(rf.features))
	}

	votes := make([]int, len(rf.classes))
	for i, nodes := range rf.trees {
		classIdx, err := walk(nodes, vector)
		if err != nil {
			return "", fmt.Errorf("tree %d: %w", i, err)
		}
		votes[classIdx]++
	}

	best := 0
	for classIdx, count := range votes {
		if count > votes[best] {
			best = classIdx
		}
	}
	return rf.classes[best], nil
}

func (rf *RandomForest) Features() []string {
	return append([]string(nil), rf.features...)
}

func (rf *RandomForest) Info() Info {
	return Info{
		Type:     TypeRandomForest,
		Version:  rf.version,
		Features: rf.Features(),
		Classes:  append([]string(nil), rf.classes...),
		Trees:    len(rf.trees),
	}
}
