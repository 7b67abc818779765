// internal/embedding/client.go
package embedding

import (
	"context"
	"regexp"
	"strings"
	"time"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/common/metrics"
)

const batchDelay = 500 * time.Millisecond

var (
	horizontalWhitespace = regexp.MustCompile(`[ \t]+`)
	newlineRuns          = regexp.MustCompile(`\n+`)
)

// Client wraps a Provider with text preprocessing and the retry policy.
type Client struct {
	provider Provider
	retry    *retryPolicy
	model    string
	log      logger.Logger
}

// BatchResult summarizes a batch embedding run. Failed texts get an empty
// vector at their position instead of aborting the batch.
type BatchResult struct {
	Vectors   [][]float64
	Succeeded int
	Failed    int
}

// NewClient creates an embedding client around the given provider.
func NewClient(provider Provider, model string, log logger.Logger) *Client {
	return &Client{
		provider: provider,
		retry:    newRetryPolicy(log),
		model:    model,
		log:      log,
	}
}

// cleanText trims the input, collapses horizontal whitespace runs to one
// space and newline runs to one newline. Empty input before or after
// cleaning is an error.
func cleanText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewEmbeddingEmptyInputError()
	}

	cleaned := horizontalWhitespace.ReplaceAllString(text, " ")
	cleaned = newlineRuns.ReplaceAllString(cleaned, "\n")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", errors.NewEmbeddingEmptyInputError()
	}
	return cleaned, nil
}

// Generate returns the embedding vector for one text, retrying per the
// provider error class. After exhausting attempts the last provider error
// is returned.
func (c *Client) Generate(ctx context.Context, text string) ([]float64, error) {
	cleaned, err := cleanText(text)
	if err != nil {
		return nil, err
	}

	vector, err := c.retry.do(ctx, func(ctx context.Context) ([]float64, error) {
		return c.provider.Embed(ctx, cleaned)
	})
	if err != nil {
		metrics.EmbeddingsFailed.WithLabelValues(c.model, string(errors.CodeOf(err))).Inc()
		return nil, err
	}

	metrics.EmbeddingsGenerated.WithLabelValues(c.model).Inc()
	return vector, nil
}

// GenerateBatch embeds texts sequentially with a small delay between calls
// to respect provider rate limits. A text that exhausts retries gets an
// empty vector and is tallied as failed; the batch always completes.
func (c *Client) GenerateBatch(ctx context.Context, texts []string) (*BatchResult, error) {
	result := &BatchResult{
		Vectors: make([][]float64, len(texts)),
	}

	for i, text := range texts {
		vector, err := c.Generate(ctx, text)
		if err != nil {
			c.log.Warn("batch embedding failed for text, substituting empty vector", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			result.Vectors[i] = []float64{}
			result.Failed++
			continue
		}

		result.Vectors[i] = vector
		result.Succeeded++

		if i < len(texts)-1 {
			c.retry.sleep(batchDelay)
		}
	}

	c.log.Info("batch embedding complete", map[string]interface{}{
		"total":     len(texts),
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	})

	return result, nil
}
