// Package generation drafts template content from a prompt with a language
// model and scores the draft with the template validator.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/templates"

	"github.com/google/uuid"
)

// Model returns the raw JSON text produced for prompt.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

type Request struct {
	DocumentType templates.Type `json:"documentType"`
	Prompt       string         `json:"prompt"`
	TemplateID   string         `json:"templateId,omitempty"`
}

type Result struct {
	Template         templates.TemplateContent  `json:"template"`
	ValidationResult templates.ValidationResult `json:"validationResult"`
}

// Generator is disabled when built without a model; Generate then returns
// GENERATION_DISABLED.
type Generator struct {
	model     Model
	validator *templates.Validator
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

func NewGenerator(model Model, validator *templates.Validator, timeout time.Duration, log logger.Logger) *Generator {
	if validator == nil {
		validator = templates.NewValidator()
	}
	return &Generator{
		model:     model,
		validator: validator,
		timeout:   timeout,
		logger:    log.WithFields(map[string]interface{}{"component": "generator"}),
		now:       time.Now,
	}
}

func (g *Generator) Enabled() bool { return g != nil && g.model != nil }

func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if !g.Enabled() {
		return nil, apperrors.NewGenerationDisabledError()
	}
	if !req.DocumentType.Valid() {
		return nil, apperrors.NewTemplateInvalidPayloadError(fmt.Sprintf("unknown document type %q", req.DocumentType))
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, apperrors.NewTemplateInvalidPayloadError("prompt is required")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := g.now()
	raw, err := g.model.GenerateJSON(ctx, BuildPrompt(req.DocumentType, req.Prompt))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewGenerationTimeoutError(g.timeout)
		}
		return nil, apperrors.NewGenerationFailedError(err)
	}

	t, err := decodeTemplate(raw)
	if err != nil {
		return nil, apperrors.NewGenerationFailedError(err)
	}
	g.fillDefaults(&t, req)

	result := g.validator.Validate(t)
	g.logger.Info("template generated", map[string]interface{}{
		"templateId": t.ID,
		"type":       t.Type,
		"score":      result.Score,
		"durationMs": g.now().Sub(start).Milliseconds(),
	})

	return &Result{Template: t, ValidationResult: result}, nil
}

// fillDefaults pins id and type to the request; the model does not get to
// change what kind of document was asked for.
func (g *Generator) fillDefaults(t *templates.TemplateContent, req Request) {
	switch {
	case req.TemplateID != "":
		t.ID = req.TemplateID
	case t.ID == "":
		t.ID = fmt.Sprintf("generated-%s-%s", req.DocumentType, uuid.NewString()[:8])
	}
	t.Type = req.DocumentType
	if t.Metadata != nil && t.Metadata.LastUpdated == "" {
		t.Metadata.LastUpdated = g.now().UTC().Format("2006-01-02")
	}
}

func decodeTemplate(raw string) (templates.TemplateContent, error) {
	var t templates.TemplateContent
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(body)), &t); err != nil {
		return t, fmt.Errorf("decode generated template: %w", err)
	}
	return t, nil
}
