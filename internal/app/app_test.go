package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishdetect/internal/config"
	"phishdetect/internal/models"
)

const testdata = "../../pkg/classifier/testdata"

func testConfig(vectorizer, classifier string) *config.Config {
	cfg := &config.Config{}
	cfg.Model.VectorizerPath = filepath.Join(testdata, vectorizer)
	cfg.Model.ClassifierPath = filepath.Join(testdata, classifier)
	cfg.Model.PhishingLabels = []string{"bad", "1"}
	cfg.Detection.MaxURLLength = 2048
	return cfg
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig("vectorizer.json", "phishing.json"))
	require.NoError(t, err)

	require.NotNil(t, a.DetectionService)

	info := a.ModelInfo()
	assert.Equal(t, 8, info.NumFeatures)
	assert.Equal(t, "count", info.TransformerKind)
	assert.Equal(t, "logistic_regression", info.ClassifierKind)
	assert.Equal(t, filepath.Join(testdata, "vectorizer.json"), info.TransformerPath)
	assert.Equal(t, filepath.Join(testdata, "phishing.json"), info.ClassifierPath)
	assert.Equal(t, []string{"bad", "good"}, info.Classes)

	prediction, err := a.DetectionService.Classify(context.Background(), "http://paypal-login.verify.ru")
	require.NoError(t, err)
	assert.Equal(t, "bad", prediction.Label)
	assert.True(t, prediction.Phishing)
}

func TestNewApp_NaiveBayesYAML(t *testing.T) {
	a, err := NewApp(context.Background(), testConfig("vectorizer.json", "naive_bayes.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "multinomial_nb", a.ModelInfo().ClassifierKind)
	assert.Equal(t, []string{"0", "1"}, a.ModelInfo().Classes)

	prediction, err := a.DetectionService.Classify(context.Background(), "http://secure-login.paypal.verify")
	require.NoError(t, err)
	assert.Equal(t, "0", prediction.Label)
	assert.False(t, prediction.Phishing)
}

func TestNewApp_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		vectorizer string
		classifier string
		contains   string
	}{
		{name: "missing vectorizer", vectorizer: "nope.json", classifier: "phishing.json", contains: "nope.json"},
		{name: "missing classifier", vectorizer: "vectorizer.json", classifier: "nope.json", contains: "nope.json"},
		{name: "dimension mismatch", vectorizer: "vectorizer.json", classifier: "mismatched.json", contains: "features but model expects"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewApp(context.Background(), testConfig(tc.vectorizer, tc.classifier))
			require.Error(t, err)
			assert.Nil(t, a)
			assert.True(t, errors.Is(err, models.ErrArtifact), "expected ErrArtifact, got %v", err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}
