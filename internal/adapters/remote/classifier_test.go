package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassifier(t *testing.T, endpoint, credential string) *Classifier {
	t.Helper()
	settings, err := config.NewSettingsStore(
		filepath.Join(t.TempDir(), "settings.yaml"),
		config.ClassifierConfig{Endpoint: endpoint, Credential: credential},
	)
	require.NoError(t, err)

	logger := zap.NewNop()
	return NewClassifier(settings, 5*time.Second, 4096, logger, utils.NewTextProcessor(logger))
}

func TestClassifier_Classify(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"isSuspicious": true,
			"reason":       "known scam template",
			"confidence":   0.92,
		})
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, "secret-token")

	verdict, err := classifier.Classify(context.Background(), "wire the funds now")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "wire the funds now", gotBody["text"])

	assert.True(t, verdict.IsSuspicious)
	assert.Equal(t, "known scam template", verdict.Reason)
	assert.Equal(t, 0.92, verdict.Confidence)
	assert.Equal(t, core.SourceRemote, verdict.Source)
	assert.Equal(t, server.URL, verdict.Model)
}

func TestClassifier_ClassifyAppliesDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, "")

	verdict, err := classifier.Classify(context.Background(), "hello")
	require.NoError(t, err)

	assert.False(t, verdict.IsSuspicious)
	assert.Equal(t, "No explanation provided", verdict.Reason)
	assert.Equal(t, 0.5, verdict.Confidence)
}

func TestClassifier_ClassifyPartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"isSuspicious": true}`))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL, "")

	verdict, err := classifier.Classify(context.Background(), "hello")
	require.NoError(t, err)

	assert.True(t, verdict.IsSuspicious)
	assert.Equal(t, "No explanation provided", verdict.Reason)
	assert.Equal(t, 0.5, verdict.Confidence)
}

func TestClassifier_ClassifyErrorPaths(t *testing.T) {
	t.Run("No endpoint configured", func(t *testing.T) {
		classifier := newTestClassifier(t, "", "")

		_, err := classifier.Classify(context.Background(), "hello")
		assert.ErrorContains(t, err, "no scoring endpoint configured")
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer server.Close()

		classifier := newTestClassifier(t, server.URL, "")

		_, err := classifier.Classify(context.Background(), "hello")
		assert.ErrorContains(t, err, "status 500")
	})

	t.Run("Malformed response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		classifier := newTestClassifier(t, server.URL, "")

		_, err := classifier.Classify(context.Background(), "hello")
		assert.ErrorContains(t, err, "failed to decode scoring response")
	})

	t.Run("Unreachable endpoint", func(t *testing.T) {
		classifier := newTestClassifier(t, "http://127.0.0.1:1", "")

		_, err := classifier.Classify(context.Background(), "hello")
		assert.ErrorContains(t, err, "scoring service request failed")
	})
}

func TestClassifier_ClassifyTruncatesLongText(t *testing.T) {
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotText = body["text"]
		w.Write([]byte(`{"confidence": 0.1}`))
	}))
	defer server.Close()

	settings, err := config.NewSettingsStore(
		filepath.Join(t.TempDir(), "settings.yaml"),
		config.ClassifierConfig{Endpoint: server.URL},
	)
	require.NoError(t, err)
	logger := zap.NewNop()
	classifier := NewClassifier(settings, 5*time.Second, 100, logger, utils.NewTextProcessor(logger))

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	_, err = classifier.Classify(context.Background(), string(long))
	require.NoError(t, err)

	assert.Contains(t, gotText, "Content truncated")
	assert.Less(t, len(gotText), 500)
}
