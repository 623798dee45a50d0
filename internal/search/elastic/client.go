// Package elastic implements the search index on Elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/storyhive/storyhive/internal/config"
	"github.com/storyhive/storyhive/internal/search"
	"github.com/storyhive/storyhive/pkg/model"
)

// Client is an Elasticsearch-backed search.Index.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// NewClient builds a client from configuration.
func NewClient(cfg config.SearchConfig) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	index := cfg.Index
	if index == "" {
		index = "novels"
	}
	return &Client{es: es, index: index}, nil
}

// EnsureIndex creates the novel index and its mapping if missing.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return unavailable(fmt.Errorf("exists check returned %s", res.Status()))
	}

	createRes, err := c.es.Indices.Create(c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(novelMapping))),
	)
	if err != nil {
		return unavailable(err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return unavailable(fmt.Errorf("index create returned %s", createRes.Status()))
	}
	return nil
}

// Upsert writes the document under its novel id. Last write wins.
func (c *Client) Upsert(ctx context.Context, doc model.SearchDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal search document: %w", err)
	}

	res, err := c.es.Index(c.index, bytes.NewReader(body),
		c.es.Index.WithDocumentID(doc.ID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return unavailable(fmt.Errorf("index returned %s", res.Status()))
	}
	return nil
}

// Delete removes the document. A missing document is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return unavailable(fmt.Errorf("delete returned %s", res.Status()))
	}
	return nil
}

// Query runs a ranked bool query: free text scores, structured predicates
// filter.
func (c *Client) Query(ctx context.Context, q search.Query) (*search.Result, error) {
	body, err := json.Marshal(buildQueryBody(q))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, unavailable(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, unavailable(fmt.Errorf("search returned %s", res.Status()))
	}

	return decodeResult(res)
}

func buildQueryBody(q search.Query) map[string]interface{} {
	var must []interface{}
	if q.FreeText != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q.FreeText,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		})
	}

	var filter []interface{}
	if len(q.Genres) > 0 {
		filter = append(filter, map[string]interface{}{"terms": map[string]interface{}{"genres": q.Genres}})
	}
	if len(q.Tags) > 0 {
		filter = append(filter, map[string]interface{}{"terms": map[string]interface{}{"tags": q.Tags}})
	}
	if q.Status != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"status": q.Status}})
	}
	if q.MinRating > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"calculatedStats.averageRating": map[string]interface{}{"gte": q.MinRating}},
		})
	}
	if q.AuthorID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"author.id": q.AuthorID}})
	}

	boolQuery := map[string]interface{}{}
	if len(must) > 0 {
		boolQuery["must"] = must
	} else {
		boolQuery["must"] = map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  (page - 1) * limit,
		"size":  limit,
	}
}

func decodeResult(res *esapi.Response) (*search.Result, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, unavailable(fmt.Errorf("failed to decode search response: %w", err))
	}

	result := &search.Result{Total: parsed.Hits.Total.Value}
	for _, h := range parsed.Hits.Hits {
		result.Hits = append(result.Hits, search.Hit{ID: h.ID, Score: h.Score})
	}
	return result, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrIndexUnavailable, err)
}
