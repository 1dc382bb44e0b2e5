// internal/workers/templates/validate-template/models.go
package validatetemplate

import "docmagic/internal/templates"

type Input struct {
	Template templates.TemplateContent `json:"template"`
}

type Output struct {
	ValidationResult templates.ValidationResult `json:"validationResult"`
	IsValid          bool                       `json:"isValid"`
	Score            int                        `json:"score"`
}
