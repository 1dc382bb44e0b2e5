// internal/workers/templates/validate-templates/models.go
package validatetemplates

import "docmagic/internal/templates"

type Input struct {
	Templates []templates.TemplateContent `json:"templates"`
}

type Output struct {
	Results      map[string]templates.ValidationResult `json:"results"`
	ValidCount   int                                   `json:"validCount"`
	InvalidCount int                                   `json:"invalidCount"`
	AverageScore float64                               `json:"averageScore"`
}
