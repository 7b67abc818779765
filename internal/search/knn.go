// internal/search/knn.go
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/models"
)

// Result is one search hit with its similarity score. Similarity is always
// present: semantic hits carry the cosine score, keyword fallback hits a
// fixed marker value.
type Result struct {
	RFP        *models.RFPListing `json:"rfp"`
	Similarity float64            `json:"similarityScore"`
}

// NearestNeighborSearch finds stored RFPs whose embedding is close to a
// query vector.
type NearestNeighborSearch interface {
	Search(ctx context.Context, queryVector []float64, threshold float64, limit int) ([]Result, error)
}

// ElasticsearchKNN runs cosine-similarity script_score queries against the
// RFP index.
type ElasticsearchKNN struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchKNN creates a nearest-neighbor search over the given
// index.
func NewElasticsearchKNN(client *elasticsearch.Client, index string) *ElasticsearchKNN {
	return &ElasticsearchKNN{client: client, index: index}
}

type rfpDocument struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      *int64  `json:"budget,omitempty"`
	Region      string  `json:"region"`
	Deadline    string  `json:"deadline,omitempty"`
}

type knnResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64     `json:"_score"`
			Source rfpDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search executes the script_score query. Scores are shifted by +1.0 in
// the script because Elasticsearch rejects negative scores; the shift is
// removed before returning.
func (e *ElasticsearchKNN) Search(ctx context.Context, queryVector []float64, threshold float64, limit int) ([]Result, error) {
	queryBody := map[string]interface{}{
		"size":      limit,
		"min_score": threshold + 1.0,
		"query": map[string]interface{}{
			"script_score": map[string]interface{}{
				"query": map[string]interface{}{
					"bool": map[string]interface{}{
						"filter": []interface{}{
							map[string]interface{}{
								"exists": map[string]interface{}{"field": "embedding"},
							},
						},
					},
				},
				"script": map[string]interface{}{
					"source": "cosineSimilarity(params.query_vector, 'embedding') + 1.0",
					"params": map[string]interface{}{
						"query_vector": queryVector,
					},
				},
			},
		},
	}

	body, err := json.Marshal(queryBody)
	if err != nil {
		return nil, errors.NewVectorSearchFailedError(err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return nil, errors.NewVectorSearchFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		return nil, errors.NewVectorSearchFailedError(
			fmt.Errorf("search returned status %s: %s", res.Status(), string(respBody)))
	}

	var parsed knnResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewVectorSearchFailedError(err)
	}

	results := make([]Result, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		similarity := hit.Score - 1.0
		if similarity < 0 {
			similarity = 0
		}
		if similarity > 1 {
			similarity = 1
		}
		results = append(results, Result{
			RFP:        documentToRFP(hit.Source),
			Similarity: similarity,
		})
	}
	return results, nil
}

func documentToRFP(doc rfpDocument) *models.RFPListing {
	rfp := &models.RFPListing{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Budget:      doc.Budget,
		Region:      doc.Region,
	}
	if doc.Deadline != "" {
		if t, err := time.Parse(time.RFC3339, doc.Deadline); err == nil {
			rfp.Deadline = &t
		} else if t, err := time.Parse("2006-01-02", doc.Deadline); err == nil {
			rfp.Deadline = &t
		}
	}
	return rfp
}
