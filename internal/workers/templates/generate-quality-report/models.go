// internal/workers/templates/generate-quality-report/models.go
package generatequalityreport

import "docmagic/internal/templates"

type Input struct {
	Template    templates.TemplateContent `json:"template"`
	NotifyEmail string                    `json:"notifyEmail,omitempty"`
}

type Output struct {
	Report      string `json:"report"`
	ReportID    string `json:"reportId"`
	Score       int    `json:"score"`
	IsValid     bool   `json:"isValid"`
	GeneratedAt string `json:"generatedAt"`
	Emailed     bool   `json:"emailed"`
}
