package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"phishdetect/internal/models"
	"phishdetect/internal/util"
	"phishdetect/pkg/classifier"
)

const DefaultMaxURLLength = 2048

// DetectionServiceDeps holds the collaborators of a DetectionService.
type DetectionServiceDeps struct {
	Transformer    classifier.Transformer
	Model          classifier.Model
	PhishingLabels []string
	MaxURLLength   int
	Now            func() time.Time // optional, defaults to time.Now
}

// DetectionService classifies URLs with a pre-loaded transformer and model.
// It holds no mutable state and is safe for concurrent use.
type DetectionService struct {
	transformer  classifier.Transformer
	model        classifier.Model
	phishing     map[string]struct{}
	maxURLLength int
	validate     *validator.Validate
	now          func() time.Time
}

func NewDetectionService(deps DetectionServiceDeps) (*DetectionService, error) {
	if deps.Transformer == nil || deps.Model == nil {
		return nil, errors.New("detection service requires a transformer and a model")
	}
	if err := classifier.CheckCompatible(deps.Transformer, deps.Model); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrArtifact, err)
	}

	maxLen := deps.MaxURLLength
	if maxLen <= 0 {
		maxLen = DefaultMaxURLLength
	}
	phishing := make(map[string]struct{}, len(deps.PhishingLabels))
	for _, l := range deps.PhishingLabels {
		phishing[l] = struct{}{}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &DetectionService{
		transformer:  deps.Transformer,
		model:        deps.Model,
		phishing:     phishing,
		maxURLLength: maxLen,
		validate:     validator.New(),
		now:          now,
	}, nil
}

// ValidateURL cleans raw and checks it against the input boundary. The
// returned error wraps models.ErrValidation.
func (s *DetectionService) ValidateURL(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", models.ErrInvalidEncoding
	}
	cleaned := util.CleanInput(raw)

	err := s.validate.Var(cleaned, fmt.Sprintf("required,max=%d", s.maxURLLength))
	if err == nil {
		return cleaned, nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "required":
			return "", models.ErrEmptyURL
		case "max":
			return "", fmt.Errorf("%w (%d characters)", models.ErrURLTooLong, s.maxURLLength)
		}
	}
	return "", fmt.Errorf("%w: %v", models.ErrValidation, err)
}

// Classify validates rawURL, transforms it and predicts its label.
func (s *DetectionService) Classify(ctx context.Context, rawURL string) (*models.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, err := s.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	features, err := s.transformer.Transform(url)
	if err != nil {
		return nil, fmt.Errorf("%w: transform: %v", models.ErrClassification, err)
	}
	res, err := s.model.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %v", models.ErrClassification, err)
	}

	label := string(res.Label)
	_, phishing := s.phishing[label]
	host, displayHost := util.Hosts(url)

	prediction := &models.Prediction{
		ID:          uuid.New(),
		URL:         url,
		Label:       label,
		Phishing:    phishing,
		Probability: res.Probability(),
		Host:        host,
		DisplayHost: displayHost,
		CreatedAt:   s.now().UTC(),
	}

	log.WithFields(log.Fields{
		"prediction_id": prediction.ID,
		"url":           url,
		"label":         label,
		"phishing":      phishing,
		"features":      features.Len(),
	}).Info("Classified URL")

	return prediction, nil
}

// ModelInfo describes the loaded artifacts.
func (s *DetectionService) ModelInfo() models.ModelInfo {
	classes := make([]string, 0, len(s.model.Classes()))
	for _, c := range s.model.Classes() {
		classes = append(classes, string(c))
	}
	labels := make([]string, 0, len(s.phishing))
	for _, c := range classes {
		if _, ok := s.phishing[c]; ok {
			labels = append(labels, c)
		}
	}
	return models.ModelInfo{
		TransformerKind: s.transformer.Kind(),
		ClassifierKind:  s.model.Kind(),
		NumFeatures:     s.transformer.NumFeatures(),
		Classes:         classes,
		PhishingLabels:  labels,
	}
}
