package service

import (
	"context"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/common/metrics"
	"docmagic/internal/search"
	"docmagic/pkg/catalog"
)

const indexSearchSize = 50

// CatalogQuery combines optional filters. Empty fields do not filter.
type CatalogQuery struct {
	Category   catalog.Category   `json:"category,omitempty"`
	Industry   string             `json:"industry,omitempty"`
	Difficulty catalog.Difficulty `json:"difficulty,omitempty"`
	Query      string             `json:"query,omitempty"`
	Fuzzy      bool               `json:"fuzzy,omitempty"`
	Ranked     bool               `json:"ranked,omitempty"`
}

func (s *TemplateService) GetCatalogEntry(id string) (catalog.TemplateMetadata, error) {
	metrics.CatalogQueries.WithLabelValues("get").Inc()
	entry, ok := s.catalog.GetTemplateByID(id)
	if !ok {
		return catalog.TemplateMetadata{}, apperrors.NewCatalogEntryNotFoundError(id)
	}
	return entry, nil
}

// QueryCatalog returns the entries matching every non-empty field of q.
// A plain text query is a case-insensitive substring match in catalog order.
// Fuzzy and Ranked return best matches first instead; Ranked uses the search
// index and falls back to the substring match when there is no index or it
// fails.
func (s *TemplateService) QueryCatalog(ctx context.Context, q CatalogQuery) []catalog.TemplateMetadata {
	var entries []catalog.TemplateMetadata
	switch {
	case q.Query == "":
		metrics.CatalogQueries.WithLabelValues("filter").Inc()
		entries = s.catalog.All()
	case q.Fuzzy:
		metrics.CatalogQueries.WithLabelValues("fuzzy").Inc()
		entries = s.catalog.FuzzySearch(q.Query)
	case q.Ranked:
		entries = s.rankedSearch(ctx, q)
	default:
		metrics.CatalogQueries.WithLabelValues("search").Inc()
		entries = s.catalog.SearchTemplates(q.Query)
	}

	out := make([]catalog.TemplateMetadata, 0, len(entries))
	for _, e := range entries {
		if q.Category != "" && e.Category != q.Category {
			continue
		}
		if q.Industry != "" && e.Industry != q.Industry {
			continue
		}
		if q.Difficulty != "" && e.Difficulty != q.Difficulty {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *TemplateService) rankedSearch(ctx context.Context, q CatalogQuery) []catalog.TemplateMetadata {
	if s.index != nil {
		hits, err := s.index.Search(ctx, q.Query, search.Filter{Category: q.Category, Difficulty: q.Difficulty}, indexSearchSize)
		if err == nil {
			metrics.CatalogQueries.WithLabelValues("index").Inc()
			entries := make([]catalog.TemplateMetadata, 0, len(hits))
			for _, h := range hits {
				// The index can lag the catalog; ids it no longer knows are dropped.
				if e, ok := s.catalog.GetTemplateByID(h.ID); ok {
					entries = append(entries, e)
				}
			}
			return entries
		}
		s.logger.Warn("catalog index search failed, using in-memory search", map[string]interface{}{
			"query": q.Query,
			"error": err,
		})
	}
	metrics.CatalogQueries.WithLabelValues("search").Inc()
	return s.catalog.SearchTemplates(q.Query)
}
