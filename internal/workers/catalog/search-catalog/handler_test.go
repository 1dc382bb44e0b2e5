package searchcatalog

import (
	"context"
	"testing"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/logger"
	"docmagic/internal/service"
	"docmagic/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, maxResults int) *Handler {
	svc := service.New(nil, catalog.Default(), logger.NewNoOpLogger())
	return NewHandler(&Config{Timeout: time.Second, MaxResults: maxResults}, svc, logger.NewTestLogger(t))
}

func ids(entries []catalog.TemplateMetadata) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:  "lookup by id",
			input: &Input{TemplateID: "formal-cover-letter"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, 1, output.Count)
				assert.Equal(t, catalog.CategoryLetter, output.Templates[0].Category)
			},
		},
		{
			name:  "text search",
			input: &Input{Query: "market"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Contains(t, ids(output.Templates), "marketing-manager-resume")
			},
		},
		{
			name:  "category filter",
			input: &Input{Category: "cv"},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, []string{"academic-cv", "medical-cv"}, ids(output.Templates))
				assert.Equal(t, 2, output.Count)
			},
		},
		{
			name:  "no filters returns the whole catalog",
			input: &Input{},
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, catalog.Default().Len(), output.Count)
				assert.False(t, output.Truncated)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := createTestHandler(t, 50).Execute(context.Background(), tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, output)
		})
	}
}

func TestHandler_Execute_Truncates(t *testing.T) {
	output, err := createTestHandler(t, 3).Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Len(t, output.Templates, 3)
	assert.Equal(t, catalog.Default().Len(), output.Count)
	assert.True(t, output.Truncated)
}

func TestHandler_Execute_UnknownID(t *testing.T) {
	_, err := createTestHandler(t, 50).Execute(context.Background(), &Input{TemplateID: "missing"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCatalogEntryNotFound))
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"category": "resume", "fuzzy": true, "ranked": true, "query": "eng"}`)
	require.NoError(t, err)
	assert.True(t, input.Fuzzy)
	assert.True(t, input.Ranked)

	_, err = parseInput(`{"difficulty": "expert"}`)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTemplateInvalidPayload))
}
