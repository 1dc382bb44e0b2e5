// Package api exposes the template service over HTTP.
package api

import (
	"net/http"
	"strconv"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/common/validation"
	"docmagic/internal/generation"
	"docmagic/internal/service"
	"docmagic/internal/templates"
	"docmagic/pkg/catalog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	svc    *service.TemplateService
	health *HealthHandler
	logger logger.Logger
}

func NewServer(svc *service.TemplateService, health *HealthHandler, log logger.Logger) *Server {
	if health == nil {
		health = NewHealthHandler("", nil)
	}
	return &Server{
		svc:    svc,
		health: health,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

type templateEnvelope struct {
	Template    templates.TemplateContent `json:"template"`
	NotifyEmail string                    `json:"notifyEmail,omitempty"`
}

type templateBatch struct {
	Templates []templates.TemplateContent `json:"templates"`
}

// Routes returns the full handler, middleware included.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/templates/validate", s.validate)
	mux.HandleFunc("POST /api/templates/report", s.report)
	mux.HandleFunc("POST /api/templates/validate-batch", s.validateBatch)
	mux.HandleFunc("POST /api/templates/generate", s.generate)
	mux.HandleFunc("POST /api/templates", s.submit)
	mux.HandleFunc("GET /api/templates", s.listStored)
	mux.HandleFunc("GET /api/templates/{id}", s.getStored)
	mux.HandleFunc("DELETE /api/templates/{id}", s.deleteStored)

	mux.HandleFunc("GET /api/catalog/templates", s.listCatalog)
	mux.HandleFunc("GET /api/catalog/templates/{id}", s.getCatalogEntry)

	mux.HandleFunc("GET /health", s.health.Health)
	mux.HandleFunc("GET /ready", s.health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return Chain(RequestID, Recovery(s.logger), Observe(s.logger))(mux)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req templateEnvelope
	if err := decodeBody(w, r, validation.TemplateEnvelope, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Validate(r.Context(), req.Template))
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	var req templateEnvelope
	if err := decodeBody(w, r, validation.TemplateEnvelope, &req); err != nil {
		writeError(w, err)
		return
	}

	report := s.svc.Report(r.Context(), req.Template)
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Report-Id", report.ReportID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Text))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) validateBatch(w http.ResponseWriter, r *http.Request) {
	var req templateBatch
	if err := decodeBody(w, r, validation.TemplateBatch, &req); err != nil {
		writeError(w, err)
		return
	}

	results, err := s.svc.ValidateBatch(r.Context(), req.Templates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req templateEnvelope
	if err := decodeBody(w, r, validation.TemplateEnvelope, &req); err != nil {
		writeError(w, err)
		return
	}

	stored, err := s.svc.Submit(r.Context(), req.Template, req.NotifyEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) getStored(w http.ResponseWriter, r *http.Request) {
	stored, err := s.svc.GetStored(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) deleteStored(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteStored(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listStored(w http.ResponseWriter, r *http.Request) {
	t := templates.Type(r.URL.Query().Get("type"))
	if !t.Valid() {
		writeError(w, apperrors.NewTemplateInvalidPayloadError("type must be one of resume, presentation, letter, cv"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	stored, err := s.svc.ListStored(r.Context(), t, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	if err := decodeBody(w, r, validation.GenerateRequest, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.svc.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fuzzy, _ := strconv.ParseBool(q.Get("fuzzy"))
	ranked, _ := strconv.ParseBool(q.Get("ranked"))
	params := map[string]interface{}{
		"category":   q.Get("category"),
		"industry":   q.Get("industry"),
		"difficulty": q.Get("difficulty"),
		"query":      q.Get("q"),
		"fuzzy":      fuzzy,
		"ranked":     ranked,
	}
	if result := validation.CatalogQuery.Validate(params); !result.Valid {
		writeError(w, result.Err())
		return
	}

	entries := s.svc.QueryCatalog(r.Context(), service.CatalogQuery{
		Category:   catalog.Category(q.Get("category")),
		Industry:   q.Get("industry"),
		Difficulty: catalog.Difficulty(q.Get("difficulty")),
		Query:      q.Get("q"),
		Fuzzy:      fuzzy,
		Ranked:     ranked,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"templates": entries,
		"count":     len(entries),
	})
}

func (s *Server) getCatalogEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.svc.GetCatalogEntry(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
