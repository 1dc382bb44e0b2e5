// internal/workers/catalog/search-catalog/models.go
package searchcatalog

import "docmagic/pkg/catalog"

type Input struct {
	TemplateID string `json:"templateId,omitempty"`
	Category   string `json:"category,omitempty"`
	Industry   string `json:"industry,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Query      string `json:"query,omitempty"`
	Fuzzy      bool   `json:"fuzzy,omitempty"`
	Ranked     bool   `json:"ranked,omitempty"`
}

type Output struct {
	Templates []catalog.TemplateMetadata `json:"templates"`
	Count     int                        `json:"count"`
	Truncated bool                       `json:"truncated"`
}
