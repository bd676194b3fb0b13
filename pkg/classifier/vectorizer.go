package classifier

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	KindCount = "count"
	KindTFIDF = "tfidf"

	DefaultTokenPattern = `\b\w\w+\b`

	// NormNone disables row normalization. An explicit null norm in an
	// artifact decodes to it.
	NormNone = "none"
)

// VectorizerSpec is the serialized form of a text vectorizer.
type VectorizerSpec struct {
	Kind         string         `json:"kind" yaml:"kind"`
	Lowercase    *bool          `json:"lowercase,omitempty" yaml:"lowercase,omitempty"`
	TokenPattern string         `json:"token_pattern,omitempty" yaml:"token_pattern,omitempty"`
	NgramRange   [2]int         `json:"ngram_range,omitempty" yaml:"ngram_range,omitempty"`
	Binary       bool           `json:"binary,omitempty" yaml:"binary,omitempty"`
	Vocabulary   map[string]int `json:"vocabulary" yaml:"vocabulary"`
	NumFeatures  int            `json:"n_features,omitempty" yaml:"n_features,omitempty"`

	// tfidf only
	IDF         []float64 `json:"idf,omitempty" yaml:"idf,omitempty"`
	Norm        string    `json:"norm,omitempty" yaml:"norm,omitempty"`
	SublinearTF bool      `json:"sublinear_tf,omitempty" yaml:"sublinear_tf,omitempty"`
}

// Vectorizer is a bag-of-words transformer over a fixed vocabulary,
// optionally with tf-idf weighting and row normalization.
type Vectorizer struct {
	kind        string
	lowercase   bool
	pattern     *regexp.Regexp
	minN, maxN  int
	binary      bool
	vocabulary  map[string]int
	numFeatures int
	idf         []float64
	norm        string
	sublinearTF bool
}

// NewVectorizer validates spec and compiles it into a Vectorizer.
func NewVectorizer(spec VectorizerSpec) (*Vectorizer, error) {
	kind := spec.Kind
	if kind == "" {
		kind = KindCount
	}
	if kind != KindCount && kind != KindTFIDF {
		return nil, fmt.Errorf("unsupported vectorizer kind %q", spec.Kind)
	}
	if len(spec.Vocabulary) == 0 {
		return nil, errors.New("vectorizer vocabulary is empty")
	}

	numFeatures := spec.NumFeatures
	for term, col := range spec.Vocabulary {
		if col < 0 {
			return nil, fmt.Errorf("vocabulary term %q has negative column %d", term, col)
		}
		if spec.NumFeatures == 0 && col+1 > numFeatures {
			numFeatures = col + 1
		}
		if spec.NumFeatures > 0 && col >= spec.NumFeatures {
			return nil, fmt.Errorf("vocabulary term %q column %d exceeds n_features %d", term, col, spec.NumFeatures)
		}
	}

	pattern, err := unicodePattern(spec.TokenPattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	minN, maxN := spec.NgramRange[0], spec.NgramRange[1]
	if minN == 0 && maxN == 0 {
		minN, maxN = 1, 1
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram_range [%d, %d]", minN, maxN)
	}

	lowercase := true
	if spec.Lowercase != nil {
		lowercase = *spec.Lowercase
	}

	v := &Vectorizer{
		kind:        kind,
		lowercase:   lowercase,
		pattern:     re,
		minN:        minN,
		maxN:        maxN,
		binary:      spec.Binary,
		vocabulary:  spec.Vocabulary,
		numFeatures: numFeatures,
	}

	if kind == KindTFIDF {
		if spec.IDF != nil && len(spec.IDF) != numFeatures {
			return nil, fmt.Errorf("idf has %d weights, expected %d", len(spec.IDF), numFeatures)
		}
		switch spec.Norm {
		case "", "l1", "l2", NormNone:
		default:
			return nil, fmt.Errorf("unsupported norm %q", spec.Norm)
		}
		v.idf = spec.IDF
		v.norm = spec.Norm
		v.sublinearTF = spec.SublinearTF
	}
	return v, nil
}

func (v *Vectorizer) Kind() string     { return v.kind }
func (v *Vectorizer) NumFeatures() int { return v.numFeatures }

// Tokens splits text the same way Transform does, before n-gram expansion.
func (v *Vectorizer) Tokens(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	return v.pattern.FindAllString(text, -1)
}

// Transform maps text onto the vocabulary. Unknown terms are ignored, so the
// result may be the zero vector.
func (v *Vectorizer) Transform(text string) (SparseVector, error) {
	tokens := v.Tokens(text)
	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := tokens[i]
			if n > 1 {
				term = strings.Join(tokens[i:i+n], " ")
			}
			if col, ok := v.vocabulary[term]; ok {
				counts[col]++
			}
		}
	}

	for col, c := range counts {
		switch {
		case v.binary:
			c = 1
		case v.sublinearTF:
			c = 1 + math.Log(c)
		}
		if v.idf != nil {
			c *= v.idf[col]
		}
		counts[col] = c
	}

	vec := NewSparseVector(counts)
	if v.kind == KindTFIDF {
		normalize(vec, v.norm)
	}
	return vec, nil
}

func normalize(vec SparseVector, norm string) {
	var total float64
	switch norm {
	case "", "l2":
		for _, x := range vec.Values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range vec.Values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range vec.Values {
		vec.Values[i] /= total
	}
}
