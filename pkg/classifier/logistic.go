package classifier

import (
	"errors"
	"fmt"
	"math"
)

const (
	KindLogisticRegression = "logistic_regression"

	MultiClassMultinomial = "multinomial"
	MultiClassOVR         = "ovr"
)

// LogisticRegressionSpec is the serialized form of a linear logistic model.
// Binary models carry a single coefficient row scoring Classes[1].
type LogisticRegressionSpec struct {
	Kind       string      `json:"kind" yaml:"kind"`
	Classes    []Label     `json:"classes" yaml:"classes"`
	Coef       [][]float64 `json:"coef" yaml:"coef"`
	Intercept  []float64   `json:"intercept" yaml:"intercept"`
	MultiClass string      `json:"multi_class,omitempty" yaml:"multi_class,omitempty"`
	// Solver only matters for multi_class "auto": liblinear fits one-vs-rest.
	Solver     string      `json:"solver,omitempty" yaml:"solver,omitempty"`
}

type LogisticRegression struct {
	classes     []Label
	coef        [][]float64
	intercept   []float64
	multiClass  string
	numFeatures int
}

func NewLogisticRegression(spec LogisticRegressionSpec) (*LogisticRegression, error) {
	if len(spec.Classes) < 2 {
		return nil, fmt.Errorf("logistic regression needs at least 2 classes, got %d", len(spec.Classes))
	}
	if len(spec.Coef) == 0 {
		return nil, errors.New("logistic regression has no coefficients")
	}

	rows := len(spec.Classes)
	if rows == 2 {
		rows = 1
	}
	if len(spec.Coef) != rows {
		return nil, fmt.Errorf("expected %d coefficient rows for %d classes, got %d", rows, len(spec.Classes), len(spec.Coef))
	}
	width := len(spec.Coef[0])
	if width == 0 {
		return nil, errors.New("logistic regression has empty coefficient rows")
	}
	for i, row := range spec.Coef {
		if len(row) != width {
			return nil, fmt.Errorf("coefficient row %d has %d columns, expected %d", i, len(row), width)
		}
	}

	intercept := spec.Intercept
	if intercept == nil {
		intercept = make([]float64, rows)
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("expected %d intercepts, got %d", rows, len(intercept))
	}

	multiClass := spec.MultiClass
	if multiClass == "" || multiClass == "auto" {
		multiClass = MultiClassMultinomial
		if spec.Solver == "liblinear" {
			multiClass = MultiClassOVR
		}
	}
	if multiClass != MultiClassMultinomial && multiClass != MultiClassOVR {
		return nil, fmt.Errorf("unsupported multi_class %q", spec.MultiClass)
	}

	return &LogisticRegression{
		classes:     spec.Classes,
		coef:        spec.Coef,
		intercept:   intercept,
		multiClass:  multiClass,
		numFeatures: width,
	}, nil
}

// MultiClass returns the resolved multiclass strategy.
func (m *LogisticRegression) MultiClass() string { return m.multiClass }

func (m *LogisticRegression) Kind() string     { return KindLogisticRegression }
func (m *LogisticRegression) Classes() []Label { return m.classes }
func (m *LogisticRegression) NumFeatures() int { return m.numFeatures }

// DecisionFunction returns the raw linear scores, one per coefficient row.
func (m *LogisticRegression) DecisionFunction(features SparseVector) ([]float64, error) {
	scores := make([]float64, len(m.coef))
	for i, row := range m.coef {
		dot, err := features.Dot(row)
		if err != nil {
			return nil, err
		}
		scores[i] = dot + m.intercept[i]
	}
	return scores, nil
}

func (m *LogisticRegression) Predict(features SparseVector) (Result, error) {
	scores, err := m.DecisionFunction(features)
	if err != nil {
		return Result{}, err
	}

	if len(m.classes) == 2 {
		p := sigmoid(scores[0])
		idx := 0
		if scores[0] > 0 {
			idx = 1
		}
		return Result{Label: m.classes[idx], Index: idx, Probabilities: []float64{1 - p, p}}, nil
	}

	idx := argmax(scores)
	var probs []float64
	if m.multiClass == MultiClassOVR {
		probs = make([]float64, len(scores))
		var sum float64
		for i, s := range scores {
			probs[i] = sigmoid(s)
			sum += probs[i]
		}
		for i := range probs {
			probs[i] /= sum
		}
	} else {
		probs = softmax(scores)
	}
	return Result{Label: m.classes[idx], Index: idx, Probabilities: probs}, nil
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func softmax(scores []float64) []float64 {
	top := scores[argmax(scores)]
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
