// internal/search/service.go
package search

import (
	"context"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/common/metrics"
	"rfp-matching/internal/models"
)

const (
	// fallbackSimilarity tags results that came from the keyword path.
	fallbackSimilarity = 0.5

	similarToThreshold = 0.5
	hybridThreshold    = 0.6
)

// Embedder is the slice of the embedding client the service needs.
type Embedder interface {
	Generate(ctx context.Context, text string) ([]float64, error)
}

// RFPReader is the slice of the repository the service needs.
type RFPReader interface {
	RFPByID(ctx context.Context, id string) (*models.RFPListing, error)
	KeywordSearchRFPs(ctx context.Context, query string, limit int) ([]*models.RFPListing, error)
}

// Service runs semantic queries over the RFP corpus with a transparent
// keyword fallback. Callers never see semantic-path failures.
type Service struct {
	embedder Embedder
	knn      NearestNeighborSearch
	rfps     RFPReader
	log      logger.Logger
}

// NewService assembles the search pipeline.
func NewService(embedder Embedder, knn NearestNeighborSearch, rfps RFPReader, log logger.Logger) *Service {
	return &Service{
		embedder: embedder,
		knn:      knn,
		rfps:     rfps,
		log:      log,
	}
}

// Search embeds the query and runs nearest-neighbor search. Any failure on
// the semantic path degrades to a case-insensitive substring search over
// title and description, with every fallback result tagged with a fixed
// similarity of 0.5.
func (s *Service) Search(ctx context.Context, queryText string, threshold float64, limit int) ([]Result, error) {
	results, err := s.semanticSearch(ctx, queryText, threshold, limit)
	if err != nil {
		s.log.Warn("semantic search failed, falling back to keyword search", map[string]interface{}{
			"query": queryText,
			"error": err.Error(),
		})
		metrics.SearchFallbacks.Inc()
		return s.keywordSearch(ctx, queryText, limit)
	}
	return results, nil
}

// FindSimilarTo returns RFPs close to the stored embedding of the given
// RFP, excluding the RFP itself. A missing record or embedding is a
// not-found error.
func (s *Service) FindSimilarTo(ctx context.Context, id string, limit int) ([]Result, error) {
	rfp, err := s.rfps.RFPByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rfp.HasEmbedding() {
		return nil, errors.NewRFPNotFoundError(id)
	}

	// Request one extra row since the source RFP matches itself perfectly.
	results, err := s.knn.Search(ctx, rfp.Embedding, similarToThreshold, limit+1)
	if err != nil {
		return nil, err
	}

	filtered := make([]Result, 0, limit)
	for _, r := range results {
		if r.RFP.ID == id {
			continue
		}
		filtered = append(filtered, r)
		if len(filtered) == limit {
			break
		}
	}
	return filtered, nil
}

// HybridSearch merges semantic and keyword results. Each sub-search
// failure is treated as an empty result set; semantic hits win on
// duplicate ids; the merged list is truncated to limit.
func (s *Service) HybridSearch(ctx context.Context, queryText string, limit int) ([]Result, error) {
	semantic, err := s.semanticSearch(ctx, queryText, hybridThreshold, 2*limit)
	if err != nil {
		s.log.Warn("hybrid search: semantic leg failed", map[string]interface{}{
			"query": queryText,
			"error": err.Error(),
		})
		semantic = nil
	}

	keyword, err := s.keywordSearch(ctx, queryText, 2*limit)
	if err != nil {
		s.log.Warn("hybrid search: keyword leg failed", map[string]interface{}{
			"query": queryText,
			"error": err.Error(),
		})
		keyword = nil
	}

	seen := make(map[string]bool, len(semantic))
	merged := make([]Result, 0, len(semantic)+len(keyword))
	for _, r := range semantic {
		seen[r.RFP.ID] = true
		merged = append(merged, r)
	}
	for _, r := range keyword {
		if seen[r.RFP.ID] {
			continue
		}
		merged = append(merged, r)
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (s *Service) semanticSearch(ctx context.Context, queryText string, threshold float64, limit int) ([]Result, error) {
	vector, err := s.embedder.Generate(ctx, queryText)
	if err != nil {
		return nil, err
	}
	return s.knn.Search(ctx, vector, threshold, limit)
}

func (s *Service) keywordSearch(ctx context.Context, queryText string, limit int) ([]Result, error) {
	rfps, err := s.rfps.KeywordSearchRFPs(ctx, queryText, limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(rfps))
	for _, rfp := range rfps {
		results = append(results, Result{RFP: rfp, Similarity: fallbackSimilarity})
	}
	return results, nil
}
