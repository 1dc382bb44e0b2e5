// internal/workers/ai/generate-template/models.go
package generatetemplate

import "docmagic/internal/templates"

type Input struct {
	DocumentType string `json:"documentType"`
	Prompt       string `json:"prompt"`
	TemplateID   string `json:"templateId,omitempty"`
}

type Output struct {
	Template         templates.TemplateContent  `json:"template"`
	ValidationResult templates.ValidationResult `json:"validationResult"`
	IsValid          bool                       `json:"isValid"`
	Score            int                        `json:"score"`
}
