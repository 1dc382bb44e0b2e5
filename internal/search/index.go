// Package search mirrors the template catalog into Elasticsearch for ranked
// full-text lookup. The in-memory catalog stays authoritative.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "docmagic/internal/common/errors"
	"docmagic/pkg/catalog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "title":       {"type": "text"},
      "description": {"type": "text"},
      "category":    {"type": "keyword"},
      "industry":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "difficulty":  {"type": "keyword"},
      "tags":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "lastUpdated": {"type": "date"}
    }
  }
}`

const maxSize = 100

type Index struct {
	client *elasticsearch.Client
	name   string
}

func NewIndex(client *elasticsearch.Client, name string) *Index {
	return &Index{client: client, name: name}
}

// Hit is one ranked catalog id.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Filter narrows a search to exact category and difficulty values.
type Filter struct {
	Category   catalog.Category
	Difficulty catalog.Difficulty
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.name}}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("exists", err)
	}
	res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return apperrors.NewSearchIndexFailedError("exists", fmt.Errorf("unexpected status %s", res.Status()))
	}

	res, err = esapi.IndicesCreateRequest{
		Index: i.name,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("create", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("create", fmt.Errorf("%s", res.String()))
	}
	return nil
}

// IndexCatalog bulk-indexes every entry using its id as document id.
func (i *Index) IndexCatalog(ctx context.Context, entries []catalog.TemplateMetadata) error {
	if len(entries) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, e := range entries {
		meta := map[string]interface{}{"index": map[string]interface{}{"_index": i.name, "_id": e.ID}}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return apperrors.NewSearchIndexFailedError("bulk", err)
		}
		if err := json.NewEncoder(&buf).Encode(e); err != nil {
			return apperrors.NewSearchIndexFailedError("bulk", err)
		}
	}

	res, err := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewSearchIndexFailedError("bulk", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return apperrors.NewSearchIndexFailedError("bulk", fmt.Errorf("%s", res.String()))
	}

	var body struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID    string          `json:"_id"`
			Error json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return apperrors.NewSearchIndexFailedError("bulk", err)
	}
	if body.Errors {
		var failed []string
		for _, item := range body.Items {
			for _, r := range item {
				if len(r.Error) > 0 && string(r.Error) != "null" {
					failed = append(failed, r.ID)
				}
			}
		}
		return apperrors.NewSearchIndexFailedError("bulk", fmt.Errorf("failed documents: %s", strings.Join(failed, ", ")))
	}
	return nil
}

// Search runs a multi_match over title, description, tags and industry.
func (i *Index) Search(ctx context.Context, query string, filter Filter, size int) ([]Hit, error) {
	if size <= 0 || size > maxSize {
		size = 20
	}

	body, err := json.Marshal(buildQuery(query, filter))
	if err != nil {
		return nil, apperrors.NewSearchIndexFailedError("search", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}.Do(ctx, i.client)
	if err != nil {
		return nil, apperrors.NewSearchIndexFailedError("search", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewSearchIndexFailedError("search", fmt.Errorf("%s", res.String()))
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewSearchIndexFailedError("search", err)
	}

	hits := make([]Hit, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

func buildQuery(query string, filter Filter) map[string]interface{} {
	var must interface{} = map[string]interface{}{"match_all": map[string]interface{}{}}
	if strings.TrimSpace(query) != "" {
		must = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^3", "tags^2", "industry", "description"},
				"fuzziness": "AUTO",
			},
		}
	}

	var filters []interface{}
	if filter.Category != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"category": filter.Category}})
	}
	if filter.Difficulty != "" {
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"difficulty": filter.Difficulty}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	return map[string]interface{}{"query": map[string]interface{}{"bool": boolQuery}}
}
