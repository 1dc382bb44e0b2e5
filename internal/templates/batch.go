package templates

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ValidateTemplates validates each template independently and keys the
// results by id. When ids repeat, the later template wins.
func ValidateTemplates(ts []TemplateContent) map[string]ValidationResult {
	return defaultValidator.ValidateAll(ts)
}

func (v *Validator) ValidateAll(ts []TemplateContent) map[string]ValidationResult {
	out := make(map[string]ValidationResult, len(ts))
	for _, t := range ts {
		out[t.ID] = v.Validate(t)
	}
	return out
}

// ValidateBatch is ValidateAll spread over at most concurrency goroutines.
// It stops early and returns ctx.Err() if ctx is cancelled.
func (v *Validator) ValidateBatch(ctx context.Context, ts []TemplateContent, concurrency int) (map[string]ValidationResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ValidationResult, len(ts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range ts {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(ts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]ValidationResult, len(ts))
	for i, t := range ts {
		out[t.ID] = results[i]
	}
	return out, nil
}
