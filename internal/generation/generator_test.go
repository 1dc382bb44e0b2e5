package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type fakeModel struct {
	response string
	err      error
	block    bool
	prompt   string
}

func (f *fakeModel) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

const generatedLetter = `{
  "id": "model-picked-id",
  "title": "Formal Application Letter",
  "description": "A formal cover letter for a senior analyst role at a regional bank branch.",
  "type": "resume",
  "content": {
    "recipient": {"name": "Hiring Manager", "organization": "First Regional Bank"},
    "content": {"greeting": "Dear Hiring Manager,", "body": ["I am writing to apply."], "closing": "Sincerely"}
  },
  "metadata": {"industry": "Finance", "difficulty": "beginner", "tags": ["finance", "formal"]}
}`

func newTestGenerator(t *testing.T, m Model, timeout time.Duration) *Generator {
	g := NewGenerator(m, nil, timeout, logger.NewTestLogger(t))
	g.now = func() time.Time { return time.Date(2024, 5, 6, 7, 0, 0, 0, time.UTC) }
	return g
}

// ==========================
// Tests
// ==========================

func TestGenerate_Success(t *testing.T) {
	model := &fakeModel{response: generatedLetter}
	g := newTestGenerator(t, model, time.Second)

	res, err := g.Generate(context.Background(), Request{
		DocumentType: templates.TypeLetter,
		Prompt:       "cover letter for a bank analyst",
		TemplateID:   "letter-42",
	})
	require.NoError(t, err)

	assert.Equal(t, "letter-42", res.Template.ID)
	assert.Equal(t, templates.TypeLetter, res.Template.Type, "requested type overrides the model's")
	assert.Equal(t, "2024-05-06", res.Template.Metadata.LastUpdated)
	assert.Equal(t, templates.ValidateTemplate(res.Template), res.ValidationResult)
	assert.True(t, res.ValidationResult.IsValid)

	assert.Contains(t, model.prompt, "professional letter templates")
	assert.Contains(t, model.prompt, "Request: cover letter for a bank analyst")
}

func TestGenerate_AssignsIDWhenMissing(t *testing.T) {
	model := &fakeModel{response: "```json\n{\"title\": \"Conference Talk Deck\", \"content\": {}}\n```"}
	g := newTestGenerator(t, model, 0)

	res, err := g.Generate(context.Background(), Request{DocumentType: templates.TypePresentation, Prompt: "talk"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Template.ID, "generated-presentation-"))
	assert.Nil(t, res.Template.Metadata)
	assert.False(t, res.ValidationResult.IsValid)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		gen      func(t *testing.T) *Generator
		req      Request
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "disabled",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, nil, 0) },
			req:      Request{DocumentType: templates.TypeCV, Prompt: "x"},
			wantCode: apperrors.ErrCodeGenerationDisabled,
		},
		{
			name:     "unknown type",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, &fakeModel{}, 0) },
			req:      Request{DocumentType: "memo", Prompt: "x"},
			wantCode: apperrors.ErrCodeTemplateInvalidPayload,
		},
		{
			name:     "blank prompt",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, &fakeModel{}, 0) },
			req:      Request{DocumentType: templates.TypeCV, Prompt: "  "},
			wantCode: apperrors.ErrCodeTemplateInvalidPayload,
		},
		{
			name:     "model error",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, &fakeModel{err: errors.New("quota")}, 0) },
			req:      Request{DocumentType: templates.TypeCV, Prompt: "x"},
			wantCode: apperrors.ErrCodeGenerationFailed,
		},
		{
			name:     "malformed json",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, &fakeModel{response: "not json"}, 0) },
			req:      Request{DocumentType: templates.TypeCV, Prompt: "x"},
			wantCode: apperrors.ErrCodeGenerationFailed,
		},
		{
			name:     "timeout",
			gen:      func(t *testing.T) *Generator { return newTestGenerator(t, &fakeModel{block: true}, 10*time.Millisecond) },
			req:      Request{DocumentType: templates.TypeCV, Prompt: "x"},
			wantCode: apperrors.ErrCodeGenerationTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen(t).Generate(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestBuildPrompt_CoversEveryType(t *testing.T) {
	for _, typ := range templates.Types() {
		p := BuildPrompt(typ, "anything")
		assert.Contains(t, p, `"type": "`+string(typ)+`"`)
		assert.Contains(t, p, `"content"`)
	}
}
