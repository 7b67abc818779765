// internal/embedding/openai.go
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rfp-matching/internal/common/config"
	"rfp-matching/internal/common/errors"
)

// OpenAIProvider calls the OpenAI embeddings API. It maps HTTP 429 to a
// rate-limit error and every other non-2xx status to a generic provider
// error so the retry policy can treat the two classes differently.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	dimensions int
	httpClient *http.Client
}

type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIProvider creates an embeddings API client.
func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Embed requests one embedding vector for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	url := fmt.Sprintf("%s/embeddings", p.baseURL)

	jsonData, err := json.Marshal(embeddingRequest{
		Model:      p.model,
		Input:      text,
		Dimensions: p.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewEmbeddingProviderError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewEmbeddingProviderError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errors.NewEmbeddingRateLimitedError(
			fmt.Errorf("embeddings API rate limited (status %d): %s", resp.StatusCode, string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewEmbeddingProviderError(
			fmt.Errorf("embeddings API error (status %d): %s", resp.StatusCode, string(body)))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, errors.NewEmbeddingProviderError(fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if len(embResp.Data) == 0 {
		return nil, errors.NewEmbeddingProviderError(fmt.Errorf("no embedding data in response"))
	}

	return embResp.Data[0].Embedding, nil
}
