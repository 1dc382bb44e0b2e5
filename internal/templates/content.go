// Package templates implements the template content model, the validator that
// scores it and the quality report built on top of the validator.
package templates

// Type is the closed set of document kinds a template can describe.
type Type string

const (
	TypeResume       Type = "resume"
	TypePresentation Type = "presentation"
	TypeLetter       Type = "letter"
	TypeCV           Type = "cv"
)

// Types lists every known Type.
func Types() []Type {
	return []Type{TypeResume, TypePresentation, TypeLetter, TypeCV}
}

func (t Type) Valid() bool {
	switch t {
	case TypeResume, TypePresentation, TypeLetter, TypeCV:
		return true
	}
	return false
}

// Label is t when it is a known type and "invalid" otherwise. Use it for
// metric labels and span attributes, which must stay a closed set.
func (t Type) Label() string {
	if t.Valid() {
		return string(t)
	}
	return "invalid"
}

// TemplateContent is a candidate template submitted for validation. Content
// is free-form; its expected shape depends on Type.
type TemplateContent struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Type        Type        `json:"type" yaml:"type"`
	Content     interface{} `json:"content" yaml:"content"`
	Metadata    *Metadata   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type Metadata struct {
	Industry    string   `json:"industry,omitempty" yaml:"industry,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty" yaml:"lastUpdated,omitempty"`
}

// ValidationResult is the outcome of a single validation. Errors and
// Warnings are never nil and keep the order the checks ran in.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}
