package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArtifacts_JSON(t *testing.T) {
	tr, err := LoadTransformer("testdata/vectorizer.json")
	require.NoError(t, err)
	m, err := LoadModel("testdata/phishing.json")
	require.NoError(t, err)

	require.NoError(t, CheckCompatible(tr, m))
	assert.Equal(t, KindLogisticRegression, m.Kind())
	assert.Equal(t, []Label{"bad", "good"}, m.Classes())

	testCases := []struct {
		url      string
		expected Label
	}{
		{url: "http://example.com", expected: "good"},
		{url: "https://www.google.com/search", expected: "good"},
		{url: "https://paypal-secure-login.verify-account.ru", expected: "bad"},
		{url: "PAYPAL.com/LOGIN", expected: "bad"},
	}
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			vec, err := tr.Transform(tc.url)
			require.NoError(t, err)
			res, err := m.Predict(vec)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, res.Label)
		})
	}
}

func TestLoadArtifacts_Deterministic(t *testing.T) {
	tr, err := LoadTransformer("testdata/vectorizer.json")
	require.NoError(t, err)
	m, err := LoadModel("testdata/phishing.json")
	require.NoError(t, err)

	const url = "https://secure.login.paypal.com.account-verify.example/www"
	vec, err := tr.Transform(url)
	require.NoError(t, err)
	first, err := m.Predict(vec)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		vec, err := tr.Transform(url)
		require.NoError(t, err)
		res, err := m.Predict(vec)
		require.NoError(t, err)
		assert.Equal(t, first, res)
	}
}

func TestLoadModel_NaiveBayesYAML(t *testing.T) {
	tr, err := LoadTransformer("testdata/vectorizer.json")
	require.NoError(t, err)
	m, err := LoadModel("testdata/naive_bayes.yaml")
	require.NoError(t, err)

	assert.Equal(t, KindMultinomialNB, m.Kind())
	assert.Equal(t, []Label{"0", "1"}, m.Classes())
	require.NoError(t, CheckCompatible(tr, m))

	vec, err := tr.Transform("http://www.google.com")
	require.NoError(t, err)
	res, err := m.Predict(vec)
	require.NoError(t, err)
	assert.Equal(t, Label("1"), res.Label)

	vec, err = tr.Transform("paypal login")
	require.NoError(t, err)
	res, err = m.Predict(vec)
	require.NoError(t, err)
	assert.Equal(t, Label("0"), res.Label)
}

func TestCheckCompatible_Mismatch(t *testing.T) {
	tr, err := LoadTransformer("testdata/vectorizer.json")
	require.NoError(t, err)
	m, err := LoadModel("testdata/mismatched.json")
	require.NoError(t, err)

	err = CheckCompatible(tr, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "8 features")
}

func TestLoadArtifacts_Errors(t *testing.T) {
	_, err := LoadTransformer("testdata/does-not-exist.json")
	assert.Error(t, err)

	_, err = LoadModel("testdata/does-not-exist.json")
	assert.Error(t, err)

	_, err = ParseModel([]byte(`{"classes": ["a", "b"]}`), "json")
	assert.ErrorContains(t, err, "no kind")

	_, err = ParseModel([]byte(`{"kind": "random_forest"}`), "json")
	assert.ErrorContains(t, err, "unsupported model kind")

	_, err = ParseTransformer([]byte(`{not json`), "json")
	assert.Error(t, err)

	_, err = ParseModel([]byte("kind: [unclosed"), "yaml")
	assert.Error(t, err)
}
