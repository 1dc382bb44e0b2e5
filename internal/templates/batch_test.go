package templates

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestValidateTemplates_ResultsAreIndependent(t *testing.T) {
	valid := resumeTemplate(3)
	valid.ID = "t1"
	broken := resumeTemplate(3)
	broken.ID = "t2"
	delete(broken.Content.(map[string]interface{}), "personalInfo")

	results := ValidateTemplates([]TemplateContent{valid, broken})

	require.Len(t, results, 2)
	assert.True(t, results["t1"].IsValid)
	assert.False(t, results["t2"].IsValid)
	assert.Equal(t, ValidateTemplate(valid), results["t1"])
	assert.Equal(t, 100, results["t1"].Score)
	assert.Equal(t, []string{"Resume template missing personalInfo section"}, results["t2"].Errors)
}

func TestValidateTemplates_LaterDuplicateWins(t *testing.T) {
	first := resumeTemplate(3)
	second := resumeTemplate(1)

	results := ValidateTemplates([]TemplateContent{first, second})

	require.Len(t, results, 1)
	assert.Equal(t, 95, results[first.ID].Score)
}

func TestValidateBatch_MatchesSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	var batch []TemplateContent
	for i := 0; i < 40; i++ {
		tpl := resumeTemplate(i % 5)
		tpl.ID = fmt.Sprintf("tpl-%02d", i)
		if i%7 == 0 {
			tpl.Type = "memo"
		}
		batch = append(batch, tpl)
	}
	batch = append(batch, resumeTemplate(0))
	batch[len(batch)-1].ID = "tpl-03"

	v := NewValidator()
	got, err := v.ValidateBatch(context.Background(), batch, 4)
	require.NoError(t, err)

	if diff := cmp.Diff(v.ValidateAll(batch), got); diff != "" {
		t.Errorf("batch mismatch (-sequential +concurrent):\n%s", diff)
	}
}

func TestValidateBatch_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := NewValidator().ValidateBatch(ctx, []TemplateContent{resumeTemplate(3)}, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
