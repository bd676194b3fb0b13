package classifier

import (
	"fmt"
	"math"
)

const KindMultinomialNB = "multinomial_nb"

// MultinomialNBSpec is the serialized form of a multinomial naive Bayes model.
type MultinomialNBSpec struct {
	Kind           string      `json:"kind" yaml:"kind"`
	Classes        []Label     `json:"classes" yaml:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior" yaml:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob" yaml:"feature_log_prob"`
}

type MultinomialNB struct {
	classes        []Label
	classLogPrior  []float64
	featureLogProb [][]float64
	numFeatures    int
}

func NewMultinomialNB(spec MultinomialNBSpec) (*MultinomialNB, error) {
	k := len(spec.Classes)
	if k < 2 {
		return nil, fmt.Errorf("naive bayes needs at least 2 classes, got %d", k)
	}
	if len(spec.ClassLogPrior) != k {
		return nil, fmt.Errorf("expected %d class log priors, got %d", k, len(spec.ClassLogPrior))
	}
	if len(spec.FeatureLogProb) != k {
		return nil, fmt.Errorf("expected %d feature log prob rows, got %d", k, len(spec.FeatureLogProb))
	}
	width := len(spec.FeatureLogProb[0])
	if width == 0 {
		return nil, fmt.Errorf("naive bayes has empty feature log prob rows")
	}
	for i, row := range spec.FeatureLogProb {
		if len(row) != width {
			return nil, fmt.Errorf("feature log prob row %d has %d columns, expected %d", i, len(row), width)
		}
	}
	return &MultinomialNB{
		classes:        spec.Classes,
		classLogPrior:  spec.ClassLogPrior,
		featureLogProb: spec.FeatureLogProb,
		numFeatures:    width,
	}, nil
}

func (m *MultinomialNB) Kind() string     { return KindMultinomialNB }
func (m *MultinomialNB) Classes() []Label { return m.classes }
func (m *MultinomialNB) NumFeatures() int { return m.numFeatures }

// JointLogLikelihood returns log P(c) + log P(x|c) for every class.
func (m *MultinomialNB) JointLogLikelihood(features SparseVector) ([]float64, error) {
	jll := make([]float64, len(m.classes))
	for i, row := range m.featureLogProb {
		dot, err := features.Dot(row)
		if err != nil {
			return nil, err
		}
		jll[i] = m.classLogPrior[i] + dot
	}
	return jll, nil
}

func (m *MultinomialNB) Predict(features SparseVector) (Result, error) {
	jll, err := m.JointLogLikelihood(features)
	if err != nil {
		return Result{}, err
	}
	idx := argmax(jll)

	// log-sum-exp normalization
	top := jll[idx]
	var sum float64
	for _, x := range jll {
		sum += math.Exp(x - top)
	}
	logNorm := top + math.Log(sum)
	probs := make([]float64, len(jll))
	for i, x := range jll {
		probs[i] = math.Exp(x - logNorm)
	}
	return Result{Label: m.classes[idx], Index: idx, Probabilities: probs}, nil
}
