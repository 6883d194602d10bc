package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the serialization of an artifact file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the artifact format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension %q", filepath.Ext(path))
	}
}

// Load reads, decodes and validates the artifact at path.
func Load(path string) (Classifier, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	artifact, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", path, err)
	}

	return FromArtifact(artifact)
}

// Decode parses an artifact without validating it.
func Decode(r io.Reader, format Format) (*Artifact, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var artifact Artifact
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&artifact); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(payload))
		dec.KnownFields(true)
		if err := dec.Decode(&artifact); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported artifact format %q", format)
	}
	return &artifact, nil
}

// FromArtifact validates the artifact and builds the matching Classifier.
func FromArtifact(a *Artifact) (Classifier, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	features := append([]string(nil), a.Features...)
	classes := append([]string(nil), a.Classes...)

	switch a.Type {
	case TypeDecisionTree:
		return &DecisionTree{
			version:  a.Version,
			features: features,
			classes:  classes,
			nodes:    append([]TreeNode(nil), a.Trees[0].Nodes...),
		}, nil
	case TypeRandomForest:
		trees := make([][]TreeNode, len(a.Trees))
		for i, tree := range a.Trees {
			trees[i] = append([]TreeNode(nil), tree.Nodes...)
		}
		return &RandomForest{
			version:  a.Version,
			features: features,
			classes:  classes,
			trees:    trees,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, a.Type)
	}
}

// Validate checks the schema and every node index of the artifact.
func (a *Artifact) Validate() error {
	switch a.Type {
	case TypeDecisionTree:
		if len(a.Trees) != 1 {
			return fmt.Errorf("%w: decision tree must have exactly one tree, got %d", ErrInvalidArtifact, len(a.Trees))
		}
	case TypeRandomForest:
		if len(a.Trees) == 0 {
			return fmt.Errorf("%w: random forest has no trees", ErrInvalidArtifact)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedType, a.Type)
	}

	if len(a.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidArtifact)
	}
	seen := make(map[string]bool, len(a.Features))
	for _, name := range a.Features {
		if !IsFeatureName(name) {
			return fmt.Errorf("%w: unknown feature %q", ErrInvalidArtifact, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate feature %q", ErrInvalidArtifact, name)
		}
		seen[name] = true
	}

	if len(a.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidArtifact)
	}

	for t, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d has no nodes", ErrInvalidArtifact, t)
		}
		for n, node := range tree.Nodes {
			if err := a.validateNode(node, len(tree.Nodes)); err != nil {
				return fmt.Errorf("%w: tree %d node %d: %v", ErrInvalidArtifact, t, n, err)
			}
		}
	}
	return nil
}

func (a *Artifact) validateNode(node TreeNode, nodeCount int) error {
	if node.IsLeaf {
		if node.ClassLabel < 0 || node.ClassLabel >= len(a.Classes) {
			return fmt.Errorf("class label %d out of range", node.ClassLabel)
		}
		return nil
	}
	if node.FeatureIdx < 0 || node.FeatureIdx >= len(a.Features) {
		return fmt.Errorf("feature index %d out of range", node.FeatureIdx)
	}
	if node.LeftChild < 0 || node.LeftChild >= nodeCount {
		return fmt.Errorf("left child %d out of range", node.LeftChild)
	}
	if node.RightChild < 0 || node.RightChild >= nodeCount {
		return fmt.Errorf("right child %d out of range", node.RightChild)
	}
	return nil
}
