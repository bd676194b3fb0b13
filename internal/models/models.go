package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is the raw user input of a single detection request. URL is
// nil when the field is absent, which is distinct from an empty value.
type Submission struct {
	URL *string `json:"url" form:"url"`
}

// Prediction is the outcome of classifying one submission. It is never persisted.
type Prediction struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Label       string    `json:"label"`
	Phishing    bool      `json:"phishing"`
	Probability float64   `json:"probability"`
	Host        string    `json:"host,omitempty"`      // punycode form, empty when the input has no parsable host
	DisplayHost string    `json:"display_host,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Verdict returns a human readable verdict for templates and CLI output.
func (p *Prediction) Verdict() string {
	if p.Phishing {
		return "phishing"
	}
	return "legitimate"
}

// IsInternationalized reports whether the host differs from its ASCII form.
func (p *Prediction) IsInternationalized() bool {
	return p.Host != "" && p.DisplayHost != "" && p.Host != p.DisplayHost
}

// ModelInfo describes the loaded artifacts.
type ModelInfo struct {
	TransformerKind string   `json:"transformer_kind"`
	TransformerPath string   `json:"transformer_path"`
	ClassifierKind  string   `json:"classifier_kind"`
	ClassifierPath  string   `json:"classifier_path"`
	NumFeatures     int      `json:"num_features"`
	Classes         []string `json:"classes"`
	PhishingLabels  []string `json:"phishing_labels"`
}
