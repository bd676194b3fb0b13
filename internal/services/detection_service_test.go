package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"phishdetect/internal/models"
	"phishdetect/pkg/classifier"
)

type mockTransformer struct {
	mock.Mock
	width int
}

func (m *mockTransformer) Transform(text string) (classifier.SparseVector, error) {
	args := m.Called(text)
	return args.Get(0).(classifier.SparseVector), args.Error(1)
}

func (m *mockTransformer) NumFeatures() int { return m.width }
func (m *mockTransformer) Kind() string     { return "mock" }

type mockModel struct {
	mock.Mock
	width   int
	classes []classifier.Label
}

func (m *mockModel) Predict(features classifier.SparseVector) (classifier.Result, error) {
	args := m.Called(features)
	return args.Get(0).(classifier.Result), args.Error(1)
}

func (m *mockModel) Classes() []classifier.Label { return m.classes }
func (m *mockModel) NumFeatures() int            { return m.width }
func (m *mockModel) Kind() string                { return "mock" }

type DetectionServiceSuite struct {
	suite.Suite
	transformer *mockTransformer
	model       *mockModel
	service     *DetectionService
	now         time.Time
}

func TestDetectionService(t *testing.T) {
	suite.Run(t, new(DetectionServiceSuite))
}

func (suite *DetectionServiceSuite) SetupTest() {
	suite.transformer = &mockTransformer{width: 4}
	suite.model = &mockModel{width: 4, classes: []classifier.Label{"bad", "good"}}
	suite.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	svc, err := NewDetectionService(DetectionServiceDeps{
		Transformer:    suite.transformer,
		Model:          suite.model,
		PhishingLabels: []string{"bad"},
		MaxURLLength:   32,
		Now:            func() time.Time { return suite.now },
	})
	suite.Require().NoError(err)
	suite.service = svc
}

func (suite *DetectionServiceSuite) TearDownTest() {
	suite.transformer.AssertExpectations(suite.T())
	suite.model.AssertExpectations(suite.T())
}

func (suite *DetectionServiceSuite) TestClassify_Phishing() {
	vec := classifier.NewSparseVector(map[int]float64{1: 2})
	suite.transformer.On("Transform", "http://paypal.example").Return(vec, nil).Once()
	suite.model.On("Predict", vec).Return(classifier.Result{
		Label: "bad", Index: 0, Probabilities: []float64{0.9, 0.1},
	}, nil).Once()

	p, err := suite.service.Classify(context.Background(), "  http://paypal.example ")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "http://paypal.example", p.URL)
	assert.Equal(suite.T(), "bad", p.Label)
	assert.True(suite.T(), p.Phishing)
	assert.Equal(suite.T(), "phishing", p.Verdict())
	assert.InDelta(suite.T(), 0.9, p.Probability, 1e-9)
	assert.Equal(suite.T(), "paypal.example", p.Host)
	assert.Equal(suite.T(), suite.now, p.CreatedAt)
	assert.NotEmpty(suite.T(), p.ID.String())
}

func (suite *DetectionServiceSuite) TestClassify_Legitimate() {
	vec := classifier.SparseVector{}
	suite.transformer.On("Transform", "http://example.com").Return(vec, nil).Once()
	suite.model.On("Predict", vec).Return(classifier.Result{
		Label: "good", Index: 1, Probabilities: []float64{0.2, 0.8},
	}, nil).Once()

	p, err := suite.service.Classify(context.Background(), "http://example.com")

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "good", p.Label)
	assert.False(suite.T(), p.Phishing)
	assert.Equal(suite.T(), "legitimate", p.Verdict())
	assert.InDelta(suite.T(), 0.8, p.Probability, 1e-9)
}

func (suite *DetectionServiceSuite) TestClassify_ValidationErrors() {
	testCases := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "empty", input: "", expected: models.ErrEmptyURL},
		{name: "whitespace", input: " \t\n", expected: models.ErrEmptyURL},
		{name: "too long", input: "http://" + strings.Repeat("a", 40) + ".com", expected: models.ErrURLTooLong},
		{name: "invalid utf8", input: "http://exa\xffmple.com", expected: models.ErrInvalidEncoding},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			p, err := suite.service.Classify(context.Background(), tc.input)

			suite.Require().Error(err)
			assert.Nil(suite.T(), p)
			assert.ErrorIs(suite.T(), err, tc.expected)
			assert.ErrorIs(suite.T(), err, models.ErrValidation)
		})
	}
	suite.transformer.AssertNotCalled(suite.T(), "Transform", mock.Anything)
}

func (suite *DetectionServiceSuite) TestClassify_MaxLengthCountsRunes() {
	input := strings.Repeat("ü", 32)
	vec := classifier.SparseVector{}
	suite.transformer.On("Transform", input).Return(vec, nil).Once()
	suite.model.On("Predict", vec).Return(classifier.Result{Label: "good", Index: 1, Probabilities: []float64{0, 1}}, nil).Once()

	_, err := suite.service.Classify(context.Background(), input)
	assert.NoError(suite.T(), err)
}

func (suite *DetectionServiceSuite) TestClassify_TransformError() {
	suite.transformer.On("Transform", "http://x.io").Return(classifier.SparseVector{}, errors.New("boom")).Once()

	_, err := suite.service.Classify(context.Background(), "http://x.io")

	suite.Require().Error(err)
	assert.ErrorIs(suite.T(), err, models.ErrClassification)
	assert.NotErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *DetectionServiceSuite) TestClassify_PredictError() {
	vec := classifier.SparseVector{}
	suite.transformer.On("Transform", "http://x.io").Return(vec, nil).Once()
	suite.model.On("Predict", vec).Return(classifier.Result{}, errors.New("index out of range")).Once()

	_, err := suite.service.Classify(context.Background(), "http://x.io")

	suite.Require().Error(err)
	assert.ErrorIs(suite.T(), err, models.ErrClassification)
	assert.Contains(suite.T(), err.Error(), "index out of range")
}

func (suite *DetectionServiceSuite) TestClassify_CanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.service.Classify(ctx, "http://example.com")
	assert.ErrorIs(suite.T(), err, context.Canceled)
}

func (suite *DetectionServiceSuite) TestModelInfo() {
	info := suite.service.ModelInfo()

	assert.Equal(suite.T(), "mock", info.TransformerKind)
	assert.Equal(suite.T(), "mock", info.ClassifierKind)
	assert.Equal(suite.T(), 4, info.NumFeatures)
	assert.Equal(suite.T(), []string{"bad", "good"}, info.Classes)
	assert.Equal(suite.T(), []string{"bad"}, info.PhishingLabels)
}

func TestNewDetectionService_DimensionMismatch(t *testing.T) {
	_, err := NewDetectionService(DetectionServiceDeps{
		Transformer: &mockTransformer{width: 3},
		Model:       &mockModel{width: 5, classes: []classifier.Label{"0", "1"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrArtifact)
}

func TestNewDetectionService_MissingArtifacts(t *testing.T) {
	_, err := NewDetectionService(DetectionServiceDeps{})
	assert.Error(t, err)
}

func TestDetectionService_LabelsFromFixedSet(t *testing.T) {
	tr, err := classifier.LoadTransformer("../../pkg/classifier/testdata/vectorizer.json")
	require.NoError(t, err)
	m, err := classifier.LoadModel("../../pkg/classifier/testdata/phishing.json")
	require.NoError(t, err)

	svc, err := NewDetectionService(DetectionServiceDeps{
		Transformer:    tr,
		Model:          m,
		PhishingLabels: []string{"bad"},
	})
	require.NoError(t, err)

	inputs := []string{
		"http://example.com",
		"https://paypal.com.secure-login.verify.ru/account",
		"not a url at all",
		"ftp://files.example.org/pub",
		"https://xn--pypal-4ve.com/login",
		"12345",
	}
	for _, in := range inputs {
		p, err := svc.Classify(context.Background(), in)
		require.NoError(t, err, in)
		assert.Contains(t, []string{"bad", "good"}, p.Label, in)
		assert.Equal(t, p.Label == "bad", p.Phishing, in)
		assert.GreaterOrEqual(t, p.Probability, 0.5, in)
	}
}
