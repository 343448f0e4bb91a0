package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunsizer/sunsizer/internal/analysis"
	"github.com/sunsizer/sunsizer/internal/config"
	"github.com/sunsizer/sunsizer/internal/observability"
	"github.com/sunsizer/sunsizer/internal/refdata"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snapshot, err := refdata.Load()
	require.NoError(t, err)

	cfg := config.Config{AppName: "sunsizer", AppVersion: "test", HTTPAddr: ":0"}
	svc := analysis.NewService(zap.NewNop(), snapshot, config.DefaultAssumptions(), nil)

	engine := NewEngine(observability.Config{ServiceName: "sunsizer", Environment: "test"}, nil)
	srv := NewServer(ServerParams{Gin: engine, Cfg: cfg, AnalysisSvc: svc})
	srv.RegisterRoutes()
	return engine
}

func analyzeBody(t *testing.T, mutate func(map[string]any)) *bytes.Buffer {
	t.Helper()
	body := map[string]any{
		"system_family":      "powerocean",
		"city":               "Ankara",
		"pv_kwp":             5,
		"tariff_try_per_kwh": 4.5,
		"daily_kwh":          8,
		"powerocean_phase":   "1P",
	}
	if mutate != nil {
		mutate(body)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "sunsizer", payload["service"])
	assert.Contains(t, payload["endpoints"], "POST /analyze")
}

func TestMetadata(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metadata", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var meta analysis.Metadata
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Contains(t, meta.Cities, "Ankara")
	assert.Equal(t, []string{"powerocean", "stream"}, meta.SystemFamilies)
	assert.NotEmpty(t, meta.ExpertLoadTemplates)
}

func TestAnalyzeOK(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t, nil))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp analysis.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ankara", resp.Profiles.Solar.CanonicalLocation)
	assert.Greater(t, resp.BOM.Selected.Capex, 0.0)
	assert.Len(t, resp.Sizing.Scenarios, 3)
}

func TestAnalyzeValidationFailure(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t, func(body map[string]any) {
		delete(body, "powerocean_phase")
	}))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error.Type)
	assert.Contains(t, resp.Error.Message, "powerocean_phase")
}

func TestAnalyzeUnknownCity(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t, func(body map[string]any) {
		body["city"] = "Atlantis"
	}))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Error.Type)
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportXLSX(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/xlsx", analyzeBody(t, nil))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sunsizer_analysis.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx payload is a zip archive")
}
