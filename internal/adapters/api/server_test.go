package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mikey/scamguard/internal/adapters/history"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()

	settings, err := config.NewSettingsStore(
		filepath.Join(t.TempDir(), "settings.yaml"),
		config.ClassifierConfig{MockMode: true},
	)
	require.NoError(t, err)

	service := core.NewAnalysisService(
		core.NewScanner(logger),
		core.NewFallbackClassifier(nil, core.NewHeuristicClassifier(logger), logger),
		core.NewCombiner(0.5),
		history.NewMemoryHistory(10, logger),
		nil,
		logger,
	)

	return NewServer(service, settings, utils.NewTextProcessor(logger), logger, "127.0.0.1:0", 16384)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	router := newTestServer(t).Routes()

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Analyze(t *testing.T) {
	router := newTestServer(t).Routes()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/analyze", map[string]string{
		"text":   "Your account has been suspended. Send a wire transfer immediately.",
		"source": "selection",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.StoredAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.ID)
	assert.True(t, result.IsSuspicious)
	assert.Equal(t, core.SeverityCritical, result.Severity)
	assert.Equal(t, "selection", result.Source)
	assert.NotEmpty(t, result.Recommendation)
}

func TestServer_AnalyzeValidation(t *testing.T) {
	router := newTestServer(t).Routes()

	t.Run("Empty text", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/analyze", map[string]string{"text": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown source falls back to input", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/analyze", map[string]string{
			"text":   "hello",
			"source": "clipboard",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result core.StoredAnalysis
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "input", result.Source)
	})
}

func TestServer_HistoryAndStats(t *testing.T) {
	router := newTestServer(t).Routes()

	for _, text := range []string{"hello there", "urgent wire transfer now", "lunch tomorrow"} {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/analyze", map[string]string{"text": text})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []*core.StoredAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "lunch tomorrow", entries[0].MessageText)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/history?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/history?limit=-2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats core.HistoryStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(3), stats.TotalScans)
	assert.Equal(t, int64(1), stats.FlaggedScans)
}

func TestServer_KeywordAdministration(t *testing.T) {
	router := newTestServer(t).Routes()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/keywords", map[string]any{
		"phrase":   "remote desktop code",
		"severity": "high",
		"weight":   3,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/keywords", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var keywords map[core.Severity][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keywords))
	assert.Contains(t, keywords[core.SeverityHigh], "remote desktop code")

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/keywords/remote%20desktop%20code", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/keywords/remote%20desktop%20code", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/keywords", map[string]any{"phrase": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ClassifierSettings(t *testing.T) {
	router := newTestServer(t).Routes()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/classifier", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var settings classifierSettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.True(t, settings.MockMode)
	assert.False(t, settings.HasCredential)

	// Cannot disable mock mode before an endpoint exists
	rec = doJSON(t, router, http.MethodPost, "/api/v1/classifier/mock/disable", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/classifier", map[string]string{
		"endpoint":   "https://scores.example.com/v1",
		"credential": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "https://scores.example.com/v1", settings.Endpoint)
	assert.True(t, settings.HasCredential)
	assert.False(t, settings.MockMode)

	// The credential itself is never echoed back
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/classifier/mock/enable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.True(t, settings.MockMode)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/classifier/mock/disable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.False(t, settings.MockMode)
}
