package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	testTitle       = "Senior Product Manager"
	testDescription = "A focused resume layout for product leaders with measurable outcomes."
)

// filler returns neutral prose long enough to avoid the brevity warning.
func filler() string {
	return strings.Repeat("delivered measurable results across teams. ", 30)
}

func resumeTemplate(sections int) TemplateContent {
	list := make([]interface{}, 0, sections)
	for i := 0; i < sections; i++ {
		list = append(list, map[string]interface{}{"heading": "Experience", "body": filler()})
	}
	return TemplateContent{
		ID:          "resume-1",
		Title:       testTitle,
		Description: testDescription,
		Type:        TypeResume,
		Content: map[string]interface{}{
			"personalInfo": map[string]interface{}{"name": "Jordan Lee", "summary": filler()},
			"sections":     list,
		},
	}
}

func presentationTemplate(content map[string]interface{}) TemplateContent {
	return TemplateContent{
		ID:          "deck-1",
		Title:       "Quarterly Business Review",
		Description: "Slides summarising quarterly results, pipeline health and next steps.",
		Type:        TypePresentation,
		Content:     content,
	}
}

func letterTemplate(content map[string]interface{}) TemplateContent {
	return TemplateContent{
		ID:          "letter-1",
		Title:       "Formal Cover Letter",
		Description: "A formal cover letter with a clear opening, body and call to action.",
		Type:        TypeLetter,
		Content:     content,
	}
}

// ==========================
// Scenario Tests
// ==========================

func TestValidate_ResumeWithTwoSections(t *testing.T) {
	tpl := resumeTemplate(2)
	require.Len(t, []rune(tpl.Title), 22)

	result := ValidateTemplate(tpl)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"Resume should have at least 3 sections"}, result.Warnings)
	assert.Equal(t, 95, result.Score)
}

func TestValidate_PresentationMissingSlides(t *testing.T) {
	result := ValidateTemplate(presentationTemplate(map[string]interface{}{"title": "Q3 Review"}))

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"Presentation template missing slides array"}, result.Errors)
	// No slide-count warning when the array is absent; the short content is flagged.
	assert.Equal(t, []string{"Template content seems too brief - consider adding more detail"}, result.Warnings)
	assert.Equal(t, 85, result.Score)
}

func TestValidate_PlaceholderCostsFive(t *testing.T) {
	clean := resumeTemplate(3)
	dirty := resumeTemplate(3)
	dirty.Content.(map[string]interface{})["personalInfo"] = map[string]interface{}{
		"name":    "Jordan Lee",
		"summary": filler() + " Lorem Ipsum dolor sit amet",
	}

	cleanResult := ValidateTemplate(clean)
	dirtyResult := ValidateTemplate(dirty)

	assert.Empty(t, cleanResult.Warnings)
	assert.Equal(t, 100, cleanResult.Score)
	assert.Equal(t, []string{"Template contains placeholder text that should be replaced"}, dirtyResult.Warnings)
	assert.Equal(t, cleanResult.Score-5, dirtyResult.Score)
}

// ==========================
// Rule Tests
// ==========================

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name         string
		template     TemplateContent
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
		wantScore    int
	}{
		{
			name: "short title and description",
			template: func() TemplateContent {
				tpl := resumeTemplate(3)
				tpl.Title = "CV"
				tpl.Description = "Too short."
				return tpl
			}(),
			wantErrors: []string{
				"Title must be at least 10 characters long",
				"Description must be at least 50 characters long",
			},
			wantWarnings: []string{},
			wantScore:    70,
		},
		{
			name: "missing content with unknown type",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: "memo",
			},
			wantErrors:   []string{"Template content is required", "Invalid template type"},
			wantWarnings: []string{},
			wantScore:    65,
		},
		{
			name: "missing content skips structure and quality",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: TypeCV,
			},
			wantErrors:   []string{"Template content is required"},
			wantWarnings: []string{},
			wantScore:    75,
		},
		{
			name: "non-object content reports every required key",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: TypeResume,
				Content: "just a string",
			},
			wantErrors: []string{
				"Resume template missing personalInfo section",
				"Resume template missing sections array",
			},
			wantWarnings: []string{"Template content seems too brief - consider adding more detail"},
			wantScore:    75,
		},
		{
			name: "sections that are not an array",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: TypeResume,
				Content: map[string]interface{}{"personalInfo": map[string]interface{}{"name": "A"}, "sections": "none", "notes": filler()},
			},
			wantErrors:   []string{"Resume template missing sections array"},
			wantWarnings: []string{},
			wantScore:    90,
		},
		{
			name: "cv needs five sections",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: TypeCV,
				Content: map[string]interface{}{
					"personalInfo": map[string]interface{}{"name": "A"},
					"sections":     []interface{}{filler(), "b", "c", "d"},
				},
			},
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{"CV should have at least 5 sections"},
			wantScore:    95,
		},
		{
			name: "cv empty personal info string",
			template: TemplateContent{
				ID: "x", Title: testTitle, Description: testDescription, Type: TypeCV,
				Content: map[string]interface{}{
					"personalInfo": "",
					"sections":     []interface{}{filler(), "b", "c", "d", "e"},
				},
			},
			wantErrors:   []string{"CV template missing personalInfo section"},
			wantWarnings: []string{},
			wantScore:    90,
		},
		{
			name: "presentation with too few slides and no title",
			template: presentationTemplate(map[string]interface{}{
				"slides": []interface{}{filler(), "two"},
			}),
			wantErrors:   []string{"Presentation template missing title"},
			wantWarnings: []string{"Presentation should have at least 5 slides"},
			wantScore:    85,
		},
		{
			name: "letter with nested greeting",
			template: letterTemplate(map[string]interface{}{
				"recipient": map[string]interface{}{"name": "Hiring Team"},
				"content":   map[string]interface{}{"greeting": "Dear Hiring Team,", "body": filler()},
			}),
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{},
			wantScore:    100,
		},
		{
			name: "letter greeting outside content does not count",
			template: letterTemplate(map[string]interface{}{
				"recipient": "Hiring Team",
				"greeting":  "Dear Hiring Team,",
				"content":   map[string]interface{}{"body": filler()},
			}),
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{"Letter should include a greeting"},
			wantScore:    97,
		},
		{
			name: "letter without greeting",
			template: letterTemplate(map[string]interface{}{
				"recipient": "Hiring Team",
				"content":   map[string]interface{}{"body": filler()},
			}),
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{"Letter should include a greeting"},
			wantScore:    97,
		},
		{
			name: "letter missing recipient and body",
			template: letterTemplate(map[string]interface{}{
				"signature": filler(),
			}),
			wantErrors: []string{
				"Letter template missing recipient information",
				"Letter template missing content section",
			},
			wantWarnings: []string{},
			wantScore:    80,
		},
		{
			name: "banned words counted once per word",
			template: func() TemplateContent {
				tpl := resumeTemplate(3)
				tpl.Content.(map[string]interface{})["headline"] = "Awesome, AWESOME and amazing work"
				return tpl
			}(),
			wantValid:  true,
			wantErrors: []string{},
			wantWarnings: []string{
				`Avoid using the word "awesome" - consider more professional alternatives`,
				`Avoid using the word "amazing" - consider more professional alternatives`,
			},
			wantScore: 96,
		},
		{
			name: "empty metadata",
			template: func() TemplateContent {
				tpl := resumeTemplate(3)
				tpl.Metadata = &Metadata{Tags: []string{"one"}}
				return tpl
			}(),
			wantValid:  true,
			wantErrors: []string{},
			wantWarnings: []string{
				"Template metadata missing industry",
				"Template metadata missing difficulty level",
				"Template should have at least 2 tags",
				"Template metadata missing lastUpdated date",
			},
			wantScore: 89,
		},
		{
			name: "complete metadata",
			template: func() TemplateContent {
				tpl := resumeTemplate(3)
				tpl.Metadata = &Metadata{
					Industry:    "Technology",
					Difficulty:  "intermediate",
					Tags:        []string{"product", "leadership"},
					LastUpdated: "2024-02-01",
				}
				return tpl
			}(),
			wantValid:    true,
			wantErrors:   []string{},
			wantWarnings: []string{},
			wantScore:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateTemplate(tt.template)

			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Equal(t, tt.wantErrors, result.Errors)
			assert.Equal(t, tt.wantWarnings, result.Warnings)
			assert.Equal(t, tt.wantScore, result.Score)
		})
	}
}

func TestValidate_StructContentIsInspected(t *testing.T) {
	type section struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	}
	type resume struct {
		PersonalInfo map[string]string `json:"personalInfo"`
		Sections     []section         `json:"sections"`
	}

	tpl := resumeTemplate(0)
	tpl.Content = resume{
		PersonalInfo: map[string]string{"name": "Jordan Lee", "summary": filler()},
		Sections:     []section{{"Experience", "x"}, {"Education", "y"}, {"Skills", "z"}},
	}

	result := ValidateTemplate(tpl)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 100, result.Score)
}

func TestValidate_EveryTypeHasStructuralCheck(t *testing.T) {
	for _, typ := range Types() {
		assert.True(t, typ.Valid(), typ)
		_, ok := structuralCheckFor(typ)
		assert.True(t, ok, "no structural check for %q", typ)
	}
	_, ok := structuralCheckFor("memo")
	assert.False(t, ok)
}

// ==========================
// Quality Checker Tests
// ==========================

type fixedChecker struct {
	findings []Finding
	seen     []string
}

func (f *fixedChecker) Check(serialized string) []Finding {
	f.seen = append(f.seen, serialized)
	return f.findings
}

func TestValidate_CustomQualityChecker(t *testing.T) {
	checker := &fixedChecker{findings: []Finding{{Message: "too corporate", Penalty: 500}}}
	v := NewValidator(WithQualityChecker(checker))

	tpl := resumeTemplate(3)
	tpl.Content.(map[string]interface{})["headline"] = "MIXED Case"
	result := v.Validate(tpl)

	assert.True(t, result.IsValid)
	assert.Equal(t, []string{"too corporate"}, result.Warnings)
	assert.Equal(t, 0, result.Score)
	require.Len(t, checker.seen, 1)
	assert.Contains(t, checker.seen[0], `"headline":"mixed case"`)
}

func TestHeuristicChecker_SerializationIsNotHTMLEscaped(t *testing.T) {
	assert.Equal(t, `{"a":"<b>&"}`, serialize(map[string]interface{}{"a": "<b>&"}))
	assert.Equal(t, `"plain"`, serialize("plain"))
}

func TestHeuristicChecker_PlaceholderReportedOnce(t *testing.T) {
	findings := DefaultQualityChecker().Check("[placeholder] and lorem ipsum " + strings.Repeat("x", 1000))
	require.Len(t, findings, 1)
	assert.Equal(t, 5, findings[0].Penalty)
}

func TestType_Label(t *testing.T) {
	for _, typ := range Types() {
		assert.Equal(t, string(typ), typ.Label())
	}
	assert.Equal(t, "invalid", Type("memo").Label())
	assert.Equal(t, "invalid", Type("").Label())
}
