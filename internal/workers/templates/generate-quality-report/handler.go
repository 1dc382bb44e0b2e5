// internal/workers/templates/generate-quality-report/handler.go
package generatequalityreport

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
	"docmagic/internal/templates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-quality-report"
)

type Reporter interface {
	Report(ctx context.Context, t templates.TemplateContent) service.QualityReport
}

type Mailer interface {
	EmailReport(ctx context.Context, to string, t templates.TemplateContent, report string) (string, error)
}

type Handler struct {
	config     *Config
	reporter   Reporter
	mailer     Mailer
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. mailer may be nil when email is disabled.
func NewHandler(config *Config, reporter Reporter, mailer Mailer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		reporter:   reporter,
		mailer:     mailer,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	report := h.reporter.Report(ctx, input.Template)
	output := &Output{
		Report:      report.Text,
		ReportID:    report.ReportID,
		Score:       report.Result.Score,
		IsValid:     report.Result.IsValid,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
	}

	// A failed send fails the job so the retry policy applies to delivery.
	if h.config.EmailEnabled && h.mailer != nil && input.NotifyEmail != "" {
		if _, err := h.mailer.EmailReport(ctx, input.NotifyEmail, input.Template, report.Text); err != nil {
			return nil, err
		}
		output.Emailed = true
	}

	h.logger.Info("quality report generated", map[string]interface{}{
		"templateId": input.Template.ID,
		"reportId":   report.ReportID,
		"score":      report.Result.Score,
		"emailed":    output.Emailed,
	})
	return output, nil
}

func parseInput(variables string) (*Input, error) {
	if result := validation.TemplateEnvelope.ValidateJSON([]byte(variables)); !result.Valid {
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
