package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Label is a class of a trained model. Numeric classes decode to their
// textual form so that [0, 1] and ["bad", "good"] are handled the same way.
// Integral floats lose their fraction: 1.0 decodes to "1".
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	if raw == "null" || raw == "" {
		return fmt.Errorf("invalid label %q", raw)
	}
	*l = Label(numericLabel(raw))
	return nil
}

func (l *Label) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("label must be a scalar, line %d", value.Line)
	}
	switch value.ShortTag() {
	case "!!int", "!!float":
		*l = Label(numericLabel(value.Value))
	default:
		*l = Label(value.Value)
	}
	return nil
}

// numericLabel prints integral numbers without a fraction or exponent.
func numericLabel(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}

// SparseVector is a feature row with index-sorted, unique column indices.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NewSparseVector builds a sorted vector from a column→value map. Zero
// values are dropped.
func NewSparseVector(cols map[int]float64) SparseVector {
	idx := make([]int, 0, len(cols))
	for i, v := range cols {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = cols[i]
	}
	return SparseVector{Indices: idx, Values: vals}
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Dot computes the dot product with a dense weight row.
func (v SparseVector) Dot(weights []float64) (float64, error) {
	var sum float64
	for k, i := range v.Indices {
		if i < 0 || i >= len(weights) {
			return 0, fmt.Errorf("feature index %d out of range [0,%d)", i, len(weights))
		}
		sum += weights[i] * v.Values[k]
	}
	return sum, nil
}

// Result holds a prediction of a Model.
type Result struct {
	Label         Label
	Index         int
	Probabilities []float64 // aligned with Model.Classes()
}

// Probability returns the probability assigned to the predicted label.
func (r Result) Probability() float64 {
	if r.Index < 0 || r.Index >= len(r.Probabilities) {
		return 0
	}
	return r.Probabilities[r.Index]
}

// Transformer maps raw text to a fixed-width feature vector.
type Transformer interface {
	Transform(text string) (SparseVector, error)
	NumFeatures() int
	Kind() string
}

// Model maps a feature vector to a label.
type Model interface {
	Predict(features SparseVector) (Result, error)
	Classes() []Label
	NumFeatures() int
	Kind() string
}

// argmax returns the first index of the largest value.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
