// cmd/template-service/wiring.go
package main

import (
	"context"

	"docmagic/internal/common/aws"
	"docmagic/internal/common/camunda"
	"docmagic/internal/common/config"
	"docmagic/internal/common/logger"
	"docmagic/internal/notify"
	"docmagic/internal/service"

	gt "docmagic/internal/workers/ai/generate-template"
	sc "docmagic/internal/workers/catalog/search-catalog"
	gqr "docmagic/internal/workers/templates/generate-quality-report"
	vt "docmagic/internal/workers/templates/validate-template"
	vts "docmagic/internal/workers/templates/validate-templates"
)

// newNotifier returns nil when neither email nor events are enabled.
func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.ReportNotifier, error) {
	n := cfg.Notifications
	if !n.Email.Enabled && !n.Events.Enabled {
		return nil, nil
	}

	awsCfg, err := aws.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return nil, err
	}

	var mailer notify.Mailer
	if n.Email.Enabled {
		mailer = aws.NewSESClient(awsCfg, n.Email.FromEmail)
	}
	var publisher notify.Publisher
	if n.Events.Enabled {
		publisher = aws.NewSNSClient(awsCfg, n.Events.TopicARN)
	}
	return notify.NewReportNotifier(mailer, publisher, log), nil
}

func registerWorkers(
	m *camunda.Manager,
	cfg *config.Config,
	svc *service.TemplateService,
	notifier *notify.ReportNotifier,
	log logger.Logger,
) {
	if wcfg := config.GetWorkerConfig(cfg, vt.TaskType); wcfg.Enabled {
		handler := vt.NewHandler(&vt.Config{Timeout: config.GetDuration(wcfg.Timeout)}, svc, log)
		m.Register(vt.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, gqr.TaskType); wcfg.Enabled {
		var mailer gqr.Mailer
		if notifier.EmailEnabled() {
			mailer = notifier
		}
		handler := gqr.NewHandler(&gqr.Config{
			Timeout:      config.GetDuration(wcfg.Timeout),
			EmailEnabled: mailer != nil,
		}, svc, mailer, log)
		m.Register(gqr.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, vts.TaskType); wcfg.Enabled {
		handler := vts.NewHandler(&vts.Config{Timeout: config.GetDuration(wcfg.Timeout)}, svc, log)
		m.Register(vts.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, sc.TaskType); wcfg.Enabled {
		handler := sc.NewHandler(&sc.Config{
			Timeout:    config.GetDuration(wcfg.Timeout),
			MaxResults: sc.LoadConfig().MaxResults,
		}, svc, log)
		m.Register(sc.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, gt.TaskType); wcfg.Enabled {
		timeout := config.GetDuration(wcfg.Timeout)
		if genTimeout := config.GetDuration(cfg.GenAI.Timeout); genTimeout > timeout {
			timeout = genTimeout
		}
		handler := gt.NewHandler(&gt.Config{Timeout: timeout}, svc, log)
		m.Register(gt.TaskType, wcfg, handler)
	}
}
