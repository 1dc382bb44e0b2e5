package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/service"
	"docmagic/internal/store"
	"docmagic/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

type memStore struct {
	saved map[string]store.StoredTemplate
}

func (m *memStore) Save(_ context.Context, st store.StoredTemplate) error {
	m.saved[st.Template.ID] = st
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*store.StoredTemplate, error) {
	st, ok := m.saved[id]
	if !ok {
		return nil, apperrors.NewTemplateNotFoundError(id)
	}
	return &st, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.saved[id]; !ok {
		return apperrors.NewTemplateNotFoundError(id)
	}
	delete(m.saved, id)
	return nil
}

func (m *memStore) ListByType(_ context.Context, t templates.Type, _ int) ([]store.StoredTemplate, error) {
	out := []store.StoredTemplate{}
	for _, st := range m.saved {
		if st.Template.Type == t {
			out = append(out, st)
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T, opts ...service.Option) http.Handler {
	svc := service.New(nil, nil, logger.NewNoOpLogger(), opts...)
	return NewServer(svc, nil, logger.NewTestLogger(t)).Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const resumeEnvelope = `{"template": {
  "id": "resume-1",
  "title": "Modern Software Engineer Resume",
  "description": "A clean single-page resume for engineers with five or more years of experience.",
  "type": "resume",
  "content": {"personalInfo": {"name": "Alex"}, "sections": ["a", "b", "c"]},
  "metadata": {"industry": "Technology", "difficulty": "intermediate", "tags": ["a", "b"], "lastUpdated": "2024-01-15"}
}}`

// ==========================
// Template Endpoints
// ==========================

func TestValidateEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/templates/validate", resumeEnvelope)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var result templates.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.IsValid)
	assert.Equal(t, 95, result.Score)
}

func TestValidateEndpoint_BadPayload(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"template":`},
		{name: "missing template", body: `{"title": "x"}`},
		{name: "wrong field type", body: `{"template": {"tags": "x", "title": 3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/templates/validate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "TEMPLATE_INVALID_PAYLOAD", body.Code)
			assert.NotEmpty(t, body.Details)
		})
	}
}

func TestReportEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/templates/report?format=text", resumeEnvelope)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Template Quality Report: Modern Software Engineer Resume"))
	assert.NotEmpty(t, rec.Header().Get("X-Report-Id"))

	rec = do(t, h, http.MethodPost, "/api/templates/report", resumeEnvelope)
	require.Equal(t, http.StatusOK, rec.Code)
	var report service.QualityReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "resume-1", report.TemplateID)
	assert.Equal(t, 95, report.Result.Score)
}

func TestValidateBatchEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodPost, "/api/templates/validate-batch", `{"templates": [{"id": "a", "type": "memo"}, {"id": "b"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var results map[string]templates.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 2)
	assert.Contains(t, results["a"].Errors, "Invalid template type")
}

func TestSubmitAndFetch(t *testing.T) {
	h := newTestHandler(t, service.WithStore(&memStore{saved: map[string]store.StoredTemplate{}}))

	rec := do(t, h, http.MethodPost, "/api/templates", resumeEnvelope)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/templates/resume-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored store.StoredTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "Modern Software Engineer Resume", stored.Template.Title)

	rec = do(t, h, http.MethodGet, "/api/templates?type=resume", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume-1")

	rec = do(t, h, http.MethodGet, "/api/templates?type=memo", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/templates/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "TEMPLATE_NOT_FOUND")

	rec = do(t, h, http.MethodDelete, "/api/templates/resume-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/templates/resume-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/templates/resume-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit_NoStore(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodPost, "/api/templates", resumeEnvelope)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_CONNECTION_FAILED")
}

func TestGenerateEndpoint_Disabled(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodPost, "/api/templates/generate", `{"documentType": "cv", "prompt": "biologist"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GENERATION_DISABLED")

	rec = do(t, newTestHandler(t), http.MethodPost, "/api/templates/generate", `{"documentType": "memo", "prompt": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ==========================
// Catalog Endpoints
// ==========================

func TestCatalogEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/api/catalog/templates?q=market", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketing-manager-resume")

	rec = do(t, h, http.MethodGet, "/api/catalog/templates?category=cv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	rec = do(t, h, http.MethodGet, "/api/catalog/templates?difficulty=expert", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/catalog/templates/academic-cv", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/catalog/templates/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "CATALOG_ENTRY_NOT_FOUND")
}

// ==========================
// Probes
// ==========================

func TestHealthAndReady(t *testing.T) {
	healthy := NewHealthHandler("1.0.0", map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return nil }),
	})
	svc := service.New(nil, nil, logger.NewNoOpLogger())
	h := NewServer(svc, healthy, logger.NewNoOpLogger()).Routes()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)

	failing := NewHealthHandler("1.0.0", map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	h = NewServer(svc, failing, logger.NewNoOpLogger()).Routes()

	rec := do(t, h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Components["postgres"].Status)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.NewNoOpLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
