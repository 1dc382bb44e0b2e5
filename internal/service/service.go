// Package service composes the validator with the cache, store, search
// index, generator and notifier behind one API shared by the HTTP handlers
// and the Zeebe workers.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docmagic/internal/cache"
	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/common/metrics"
	"docmagic/internal/common/observability"
	"docmagic/internal/generation"
	"docmagic/internal/search"
	"docmagic/internal/store"
	"docmagic/internal/templates"
	"docmagic/pkg/catalog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultBatchConcurrency = 8
	defaultMaxBatchSize     = 500
)

type ResultCache interface {
	Get(ctx context.Context, key string) (*templates.ValidationResult, bool, error)
	Set(ctx context.Context, key string, result templates.ValidationResult) error
}

type TemplateStore interface {
	Save(ctx context.Context, st store.StoredTemplate) error
	Get(ctx context.Context, id string) (*store.StoredTemplate, error)
	ListByType(ctx context.Context, t templates.Type, limit int) ([]store.StoredTemplate, error)
	Delete(ctx context.Context, id string) error
}

type Notifier interface {
	EmailReport(ctx context.Context, to string, t templates.TemplateContent, report string) (string, error)
	PublishValidated(ctx context.Context, t templates.TemplateContent, r templates.ValidationResult, at time.Time) (string, error)
}

type SearchIndex interface {
	Search(ctx context.Context, query string, filter search.Filter, size int) ([]search.Hit, error)
}

// QualityReport is a rendered report with the result it was rendered from.
type QualityReport struct {
	ReportID    string                     `json:"reportId"`
	TemplateID  string                     `json:"templateId"`
	Text        string                     `json:"report"`
	Result      templates.ValidationResult `json:"validationResult"`
	GeneratedAt time.Time                  `json:"generatedAt"`
}

type TemplateService struct {
	validator *templates.Validator
	catalog   *catalog.Catalog
	logger    logger.Logger

	cache     ResultCache
	store     TemplateStore
	notifier  Notifier
	index     SearchIndex
	generator *generation.Generator
	obs       *observability.Observability

	batchConcurrency int
	maxBatchSize     int
	now              func() time.Time
}

type Option func(*TemplateService)

func WithCache(c ResultCache) Option { return func(s *TemplateService) { s.cache = c } }
func WithStore(st TemplateStore) Option { return func(s *TemplateService) { s.store = st } }
func WithNotifier(n Notifier) Option { return func(s *TemplateService) { s.notifier = n } }
func WithSearchIndex(i SearchIndex) Option { return func(s *TemplateService) { s.index = i } }
func WithGenerator(g *generation.Generator) Option {
	return func(s *TemplateService) { s.generator = g }
}
func WithObservability(o *observability.Observability) Option {
	return func(s *TemplateService) { s.obs = o }
}

// WithBatchLimits sets the worker count and the largest accepted batch.
// Non-positive values keep the defaults.
func WithBatchLimits(concurrency, maxSize int) Option {
	return func(s *TemplateService) {
		if concurrency > 0 {
			s.batchConcurrency = concurrency
		}
		if maxSize > 0 {
			s.maxBatchSize = maxSize
		}
	}
}

func New(validator *templates.Validator, cat *catalog.Catalog, log logger.Logger, opts ...Option) *TemplateService {
	if validator == nil {
		validator = templates.NewValidator()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	s := &TemplateService{
		validator:        validator,
		catalog:          cat,
		logger:           log.WithFields(map[string]interface{}{"component": "template-service"}),
		batchConcurrency: defaultBatchConcurrency,
		maxBatchSize:     defaultMaxBatchSize,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TemplateService) Catalog() *catalog.Catalog { return s.catalog }

// Validate scores t, consulting the result cache first. Cache failures are
// logged and never change the result.
func (s *TemplateService) Validate(ctx context.Context, t templates.TemplateContent) templates.ValidationResult {
	ctx, span := s.obs.StartSpan(ctx, "templates.validate",
		attribute.String("template.id", t.ID),
		attribute.String("template.type", t.Type.Label()),
	)
	defer span.End()

	key := s.cacheKey(t)
	if key != "" {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.ValidationCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("validation cache lookup failed", map[string]interface{}{"templateId": t.ID, "error": err})
		case ok:
			metrics.ValidationCacheLookups.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return *cached
		default:
			metrics.ValidationCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	result := s.validator.Validate(t)
	s.record(ctx, t, result)

	if key != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warn("validation cache store failed", map[string]interface{}{"templateId": t.ID, "error": err})
		}
	}
	return result
}

func (s *TemplateService) Report(ctx context.Context, t templates.TemplateContent) QualityReport {
	result := s.Validate(ctx, t)
	return QualityReport{
		ReportID:    uuid.NewString(),
		TemplateID:  t.ID,
		Text:        templates.RenderReport(t, result),
		Result:      result,
		GeneratedAt: s.now().UTC(),
	}
}

// ValidateBatch validates ts concurrently. Batches above the configured
// maximum are rejected as invalid payloads.
func (s *TemplateService) ValidateBatch(ctx context.Context, ts []templates.TemplateContent) (map[string]templates.ValidationResult, error) {
	if len(ts) > s.maxBatchSize {
		return nil, apperrors.NewTemplateInvalidPayloadError(
			fmt.Sprintf("batch of %d templates exceeds the limit of %d", len(ts), s.maxBatchSize))
	}

	ctx, span := s.obs.StartSpan(ctx, "templates.validate_batch", attribute.Int("batch.size", len(ts)))
	defer span.End()

	results, err := s.validator.ValidateBatch(ctx, ts, s.batchConcurrency)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		s.record(ctx, t, results[t.ID])
	}
	return results, nil
}

// Submit validates t, stores it with its result and then announces it.
// Only the store write can fail the call; notification errors are logged.
func (s *TemplateService) Submit(ctx context.Context, t templates.TemplateContent, notifyEmail string) (*store.StoredTemplate, error) {
	if s.store == nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(errors.New("template store is not configured"))
	}
	if t.ID == "" {
		return nil, apperrors.NewTemplateInvalidPayloadError("template id is required")
	}

	result := s.Validate(ctx, t)
	st := store.StoredTemplate{Template: t, Result: result, ValidatedAt: s.now().UTC()}
	if err := s.store.Save(ctx, st); err != nil {
		var se *apperrors.StandardError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("template stored", map[string]interface{}{
		"templateId": t.ID,
		"score":      result.Score,
		"isValid":    result.IsValid,
	})

	if s.notifier != nil {
		if _, err := s.notifier.PublishValidated(ctx, t, result, st.ValidatedAt); err != nil {
			s.logger.Warn("validation event not published", map[string]interface{}{"templateId": t.ID, "error": err})
		}
		if notifyEmail != "" {
			if _, err := s.notifier.EmailReport(ctx, notifyEmail, t, templates.RenderReport(t, result)); err != nil {
				s.logger.Warn("quality report not emailed", map[string]interface{}{"templateId": t.ID, "error": err})
			}
		}
	}
	return &st, nil
}

func (s *TemplateService) GetStored(ctx context.Context, id string) (*store.StoredTemplate, error) {
	if s.store == nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(errors.New("template store is not configured"))
	}
	return s.store.Get(ctx, id)
}

func (s *TemplateService) ListStored(ctx context.Context, t templates.Type, limit int) ([]store.StoredTemplate, error) {
	if s.store == nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(errors.New("template store is not configured"))
	}
	return s.store.ListByType(ctx, t, limit)
}

// DeleteStored removes a stored template. A missing id is TEMPLATE_NOT_FOUND.
func (s *TemplateService) DeleteStored(ctx context.Context, id string) error {
	if s.store == nil {
		return apperrors.NewDatabaseConnectionFailedError(errors.New("template store is not configured"))
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("stored template deleted", map[string]interface{}{"templateId": id})
	return nil
}

// Generate drafts a template with the configured model.
func (s *TemplateService) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	if !s.generator.Enabled() {
		return nil, apperrors.NewGenerationDisabledError()
	}

	ctx, span := s.obs.StartSpan(ctx, "templates.generate", attribute.String("template.type", req.DocumentType.Label()))
	defer span.End()

	res, err := s.generator.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.record(ctx, res.Template, res.ValidationResult)
	return res, nil
}

func (s *TemplateService) cacheKey(t templates.TemplateContent) string {
	if s.cache == nil {
		return ""
	}
	key, err := cache.Key(t)
	if err != nil {
		s.logger.Debug("template not cacheable", map[string]interface{}{"templateId": t.ID, "error": err})
		return ""
	}
	return key
}

func (s *TemplateService) record(ctx context.Context, t templates.TemplateContent, r templates.ValidationResult) {
	metrics.RecordValidation(t.Type.Label(), r.IsValid, r.Score)
	s.obs.RecordValidation(ctx, t.Type.Label(), r.IsValid, r.Score)
}
