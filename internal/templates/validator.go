package templates

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxScore = 100

	minTitleLength       = 10
	minDescriptionLength = 50

	penaltyTitle       = 15
	penaltyDescription = 15
	penaltyNoContent   = 25

	penaltyMetadataIndustry    = 3
	penaltyMetadataDifficulty  = 3
	penaltyMetadataTags        = 3
	penaltyMetadataLastUpdated = 2
	minMetadataTags            = 2
)

type resultBuilder struct {
	errors   []string
	warnings []string
	score    int
}

func (b *resultBuilder) fail(msg string, penalty int) {
	b.errors = append(b.errors, msg)
	b.score -= penalty
}

func (b *resultBuilder) warn(msg string, penalty int) {
	b.warnings = append(b.warnings, msg)
	b.score -= penalty
}

func (b *resultBuilder) warnf(penalty int, format string, args ...interface{}) {
	b.warn(fmt.Sprintf(format, args...), penalty)
}

func (b *resultBuilder) result() ValidationResult {
	score := b.score
	if score < 0 {
		score = 0
	}
	return ValidationResult{
		IsValid:  len(b.errors) == 0,
		Errors:   append(make([]string, 0, len(b.errors)), b.errors...),
		Warnings: append(make([]string, 0, len(b.warnings)), b.warnings...),
		Score:    score,
	}
}

// Validator scores templates. The zero value is not usable; build one with
// NewValidator.
type Validator struct {
	quality QualityChecker
}

type Option func(*Validator)

// WithQualityChecker replaces the content heuristics.
func WithQualityChecker(q QualityChecker) Option {
	return func(v *Validator) {
		v.quality = q
	}
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{quality: DefaultQualityChecker()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// ValidateTemplate validates t with the default heuristics.
func ValidateTemplate(t TemplateContent) ValidationResult {
	return defaultValidator.Validate(t)
}

// Validate runs every check in a fixed order: title, description, content
// presence, type structure, content quality, metadata. It never panics on
// malformed content.
func (v *Validator) Validate(t TemplateContent) ValidationResult {
	b := &resultBuilder{score: maxScore}

	if utf8.RuneCountInString(t.Title) < minTitleLength {
		b.fail(fmt.Sprintf("Title must be at least %d characters long", minTitleLength), penaltyTitle)
	}
	if utf8.RuneCountInString(t.Description) < minDescriptionLength {
		b.fail(fmt.Sprintf("Description must be at least %d characters long", minDescriptionLength), penaltyDescription)
	}

	hasContent := t.Content != nil
	if !hasContent {
		b.fail("Template content is required", penaltyNoContent)
	}

	check, known := structuralCheckFor(t.Type)
	switch {
	case !known:
		b.fail(msgInvalidType, penaltyInvalidType)
	case hasContent:
		check(asObject(t.Content), b)
	}

	if hasContent && v.quality != nil {
		serialized := strings.ToLower(serialize(t.Content))
		for _, f := range v.quality.Check(serialized) {
			b.warn(f.Message, f.Penalty)
		}
	}

	if t.Metadata != nil {
		checkMetadata(t.Metadata, b)
	}

	return b.result()
}

func checkMetadata(m *Metadata, b *resultBuilder) {
	if m.Industry == "" {
		b.warn("Template metadata missing industry", penaltyMetadataIndustry)
	}
	if m.Difficulty == "" {
		b.warn("Template metadata missing difficulty level", penaltyMetadataDifficulty)
	}
	if len(m.Tags) < minMetadataTags {
		b.warnf(penaltyMetadataTags, "Template should have at least %d tags", minMetadataTags)
	}
	if m.LastUpdated == "" {
		b.warn("Template metadata missing lastUpdated date", penaltyMetadataLastUpdated)
	}
}
