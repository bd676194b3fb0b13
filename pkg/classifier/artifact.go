package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type kindHeader struct {
	Kind string `json:"kind" yaml:"kind"`
}

// LoadTransformer reads a vectorizer artifact (.json, .yaml or .yml).
func LoadTransformer(path string) (Transformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transformer artifact: %w", err)
	}
	return ParseTransformer(data, formatOf(path))
}

// LoadModel reads a classifier artifact (.json, .yaml or .yml).
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseModel(data, formatOf(path))
}

// ParseTransformer decodes a vectorizer artifact in the given format ("json" or "yaml").
func ParseTransformer(data []byte, format string) (Transformer, error) {
	var spec VectorizerSpec
	if err := decode(data, format, &spec); err != nil {
		return nil, fmt.Errorf("decode transformer artifact: %w", err)
	}
	nullNorm, err := hasNullNorm(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode transformer artifact: %w", err)
	}
	if nullNorm {
		spec.Norm = NormNone
	}
	v, err := NewVectorizer(spec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ParseModel decodes a classifier artifact, dispatching on its kind.
func ParseModel(data []byte, format string) (Model, error) {
	var header kindHeader
	if err := decode(data, format, &header); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	switch header.Kind {
	case KindLogisticRegression:
		var spec LogisticRegressionSpec
		if err := decode(data, format, &spec); err != nil {
			return nil, fmt.Errorf("decode logistic regression: %w", err)
		}
		m, err := NewLogisticRegression(spec)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindMultinomialNB:
		var spec MultinomialNBSpec
		if err := decode(data, format, &spec); err != nil {
			return nil, fmt.Errorf("decode naive bayes: %w", err)
		}
		m, err := NewMultinomialNB(spec)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "":
		return nil, fmt.Errorf("model artifact has no kind")
	default:
		return nil, fmt.Errorf("unsupported model kind %q", header.Kind)
	}
}

// CheckCompatible verifies that the transformer output fits the model input.
func CheckCompatible(t Transformer, m Model) error {
	if t.NumFeatures() != m.NumFeatures() {
		return fmt.Errorf("transformer produces %d features but model expects %d", t.NumFeatures(), m.NumFeatures())
	}
	return nil
}

// hasNullNorm reports whether the artifact sets norm to null, which differs
// from leaving it out (tfidf defaults to l2).
func hasNullNorm(data []byte, format string) (bool, error) {
	if format == "yaml" {
		var h struct {
			Norm yaml.Node `yaml:"norm"`
		}
		if err := yaml.Unmarshal(data, &h); err != nil {
			return false, err
		}
		return h.Norm.Kind == yaml.ScalarNode && h.Norm.ShortTag() == "!!null", nil
	}
	var h struct {
		Norm json.RawMessage `json:"norm"`
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return false, err
	}
	return bytes.Equal(bytes.TrimSpace(h.Norm), []byte("null")), nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func decode(data []byte, format string, out any) error {
	if format == "yaml" {
		return yaml.Unmarshal(data, out)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(out)
}
