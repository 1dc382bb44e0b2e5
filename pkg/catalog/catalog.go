// Package catalog holds the read-only template catalog and its lookup helpers.
package catalog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Catalog is an immutable, ordered set of template entries. Build it once
// with New and share it by pointer.
type Catalog struct {
	entries []TemplateMetadata
	byID    map[string]int
}

// New copies entries into a Catalog. A later entry with a duplicate id
// replaces the earlier one in place.
func New(entries []TemplateMetadata) *Catalog {
	c := &Catalog{
		entries: make([]TemplateMetadata, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e = e.clone()
		if idx, ok := c.byID[e.ID]; ok {
			c.entries[idx] = e
			continue
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Default returns a catalog over DefaultEntries.
func Default() *Catalog {
	return New(DefaultEntries())
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// All returns every entry in catalog order.
func (c *Catalog) All() []TemplateMetadata {
	return c.filter(func(TemplateMetadata) bool { return true })
}

// GetTemplateByID returns the entry with the given id. Absence is reported
// through the bool, never as an error.
func (c *Catalog) GetTemplateByID(id string) (TemplateMetadata, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return TemplateMetadata{}, false
	}
	return c.entries[idx].clone(), true
}

func (c *Catalog) GetTemplatesByCategory(category Category) []TemplateMetadata {
	return c.filter(func(e TemplateMetadata) bool { return e.Category == category })
}

func (c *Catalog) GetTemplatesByIndustry(industry string) []TemplateMetadata {
	return c.filter(func(e TemplateMetadata) bool { return e.Industry == industry })
}

func (c *Catalog) GetTemplatesByDifficulty(difficulty Difficulty) []TemplateMetadata {
	return c.filter(func(e TemplateMetadata) bool { return e.Difficulty == difficulty })
}

// SearchTemplates matches query case-insensitively as a substring of the
// title, description, industry or any tag. Results keep catalog order and
// each entry appears at most once.
func (c *Catalog) SearchTemplates(query string) []TemplateMetadata {
	q := strings.ToLower(query)
	return c.filter(func(e TemplateMetadata) bool {
		if strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Industry), q) {
			return true
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

// FuzzySearch ranks entries by fuzzy match against title, industry and
// tags, best match first. An empty query returns the whole catalog.
func (c *Catalog) FuzzySearch(query string) []TemplateMetadata {
	if query == "" {
		return c.All()
	}
	matches := fuzzy.FindFrom(query, searchSource(c.entries))
	out := make([]TemplateMetadata, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.entries[m.Index].clone())
	}
	return out
}

type searchSource []TemplateMetadata

func (s searchSource) String(i int) string {
	e := s[i]
	return fmt.Sprintf("%s %s %s", e.Title, e.Industry, strings.Join(e.Tags, " "))
}

func (s searchSource) Len() int { return len(s) }

func (c *Catalog) filter(keep func(TemplateMetadata) bool) []TemplateMetadata {
	out := make([]TemplateMetadata, 0)
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e.clone())
		}
	}
	return out
}

// Validate checks every entry and returns one message per problem.
func Validate(entries []TemplateMetadata) []string {
	var problems []string
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		label := e.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if e.ID == "" {
			problems = append(problems, fmt.Sprintf("%s: id is required", label))
		} else if seen[e.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id", label))
		}
		seen[e.ID] = true

		if strings.TrimSpace(e.Title) == "" {
			problems = append(problems, fmt.Sprintf("%s: title is required", label))
		}
		if !e.Category.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown category %q", label, e.Category))
		}
		if !e.Difficulty.Valid() {
			problems = append(problems, fmt.Sprintf("%s: unknown difficulty %q", label, e.Difficulty))
		}
		if e.UsageCount != nil && *e.UsageCount < 0 {
			problems = append(problems, fmt.Sprintf("%s: usageCount must be >= 0", label))
		}
		if e.Rating != nil && (*e.Rating < 0 || *e.Rating > 5) {
			problems = append(problems, fmt.Sprintf("%s: rating must be between 0 and 5", label))
		}
	}
	return problems
}

// clone returns e with its own Tags and pointer fields so callers cannot
// reach the catalog's copy.
func (e TemplateMetadata) clone() TemplateMetadata {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	if e.UsageCount != nil {
		n := *e.UsageCount
		e.UsageCount = &n
	}
	if e.Rating != nil {
		r := *e.Rating
		e.Rating = &r
	}
	return e
}
