// Package notify delivers quality reports by email and announces validation
// outcomes on an event topic.
package notify

import (
	"context"
	"fmt"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/templates"
)

const EventTemplateValidated = "template.validated"

type Mailer interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) (string, error)
}

// ValidatedEvent is the body published after a template is validated and stored.
type ValidatedEvent struct {
	EventType    string    `json:"eventType"`
	TemplateID   string    `json:"templateId"`
	TemplateType string    `json:"templateType"`
	IsValid      bool      `json:"isValid"`
	Score        int       `json:"score"`
	ErrorCount   int       `json:"errorCount"`
	WarningCount int       `json:"warningCount"`
	ValidatedAt  time.Time `json:"validatedAt"`
}

// ReportNotifier sends nothing for a channel whose client is nil.
type ReportNotifier struct {
	mailer    Mailer
	publisher Publisher
	logger    logger.Logger
}

func NewReportNotifier(mailer Mailer, publisher Publisher, log logger.Logger) *ReportNotifier {
	return &ReportNotifier{
		mailer:    mailer,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

func (n *ReportNotifier) EmailEnabled() bool  { return n != nil && n.mailer != nil }
func (n *ReportNotifier) EventsEnabled() bool { return n != nil && n.publisher != nil }

// EmailReport mails the rendered report. It returns an empty message id when
// email is disabled or no recipient is given.
func (n *ReportNotifier) EmailReport(ctx context.Context, to string, t templates.TemplateContent, report string) (string, error) {
	if !n.EmailEnabled() || to == "" {
		return "", nil
	}

	subject := fmt.Sprintf("Template quality report: %s", t.Title)
	id, err := n.mailer.SendText(ctx, to, subject, report)
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError("email", err)
	}

	n.logger.Info("quality report emailed", map[string]interface{}{
		"templateId": t.ID,
		"messageId":  id,
	})
	return id, nil
}

func (n *ReportNotifier) PublishValidated(ctx context.Context, t templates.TemplateContent, r templates.ValidationResult, at time.Time) (string, error) {
	if !n.EventsEnabled() {
		return "", nil
	}

	event := ValidatedEvent{
		EventType:    EventTemplateValidated,
		TemplateID:   t.ID,
		TemplateType: string(t.Type),
		IsValid:      r.IsValid,
		Score:        r.Score,
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
		ValidatedAt:  at.UTC(),
	}

	id, err := n.publisher.PublishEvent(ctx, EventTemplateValidated, event)
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError("event", err)
	}

	n.logger.Debug("validation event published", map[string]interface{}{
		"templateId": t.ID,
		"messageId":  id,
	})
	return id, nil
}
