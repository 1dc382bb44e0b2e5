// internal/workers/catalog/search-catalog/handler.go
package searchcatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/common/metrics"
	"docmagic/internal/common/validation"
	"docmagic/internal/service"
	"docmagic/pkg/catalog"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-catalog"
)

type CatalogQuerier interface {
	GetCatalogEntry(id string) (catalog.TemplateMetadata, error)
	QueryCatalog(ctx context.Context, q service.CatalogQuery) []catalog.TemplateMetadata
}

type Handler struct {
	config     *Config
	catalog    CatalogQuerier
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, catalog CatalogQuerier, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// Execute looks up a single entry when templateId is set and runs a
// filtered query otherwise.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.TemplateID != "" {
		entry, err := h.catalog.GetCatalogEntry(input.TemplateID)
		if err != nil {
			return nil, err
		}
		return &Output{Templates: []catalog.TemplateMetadata{entry}, Count: 1}, nil
	}

	entries := h.catalog.QueryCatalog(ctx, service.CatalogQuery{
		Category:   catalog.Category(input.Category),
		Industry:   input.Industry,
		Difficulty: catalog.Difficulty(input.Difficulty),
		Query:      input.Query,
		Fuzzy:      input.Fuzzy,
		Ranked:     input.Ranked,
	})

	output := &Output{Templates: entries, Count: len(entries)}
	if h.config.MaxResults > 0 && len(entries) > h.config.MaxResults {
		output.Templates = entries[:h.config.MaxResults]
		output.Truncated = true
	}

	h.logger.Debug("catalog searched", map[string]interface{}{
		"query":    input.Query,
		"category": input.Category,
		"count":    output.Count,
	})
	return output, nil
}

func parseInput(variables string) (*Input, error) {
	if result := validation.CatalogQuery.ValidateJSON([]byte(variables)); !result.Valid {
		return nil, result.Err()
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewTemplateInvalidPayloadError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := apperrors.Normalize(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}
