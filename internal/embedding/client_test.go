// internal/embedding/client_test.go
package embedding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeProvider returns scripted responses in order, then repeats the last.
type fakeProvider struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	vector []float64
	err    error
}

func (f *fakeProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	r := f.responses[idx]
	return r.vector, r.err
}

// fakeSleeper records requested waits instead of sleeping.
type fakeSleeper struct {
	waits []time.Duration
}

func (f *fakeSleeper) sleep(d time.Duration) {
	f.waits = append(f.waits, d)
}

func newFakeClient(t *testing.T, provider Provider) (*Client, *fakeSleeper) {
	c := NewClient(provider, "text-embedding-3-small", logger.NewTestLogger(t))
	s := &fakeSleeper{}
	c.retry.sleep = s.sleep
	return c, s
}

// ==========================
// Text Cleaning Tests
// ==========================

func TestCleanText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "hello world", "hello world", false},
		{"collapse spaces", "hello    world", "hello world", false},
		{"collapse tabs", "hello\t\tworld", "hello world", false},
		{"collapse newlines", "line1\n\n\nline2", "line1\nline2", false},
		{"trim", "  padded  ", "padded", false},
		{"empty", "", "", true},
		{"whitespace only", "   \n\t  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanText(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeEmbeddingEmptyInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ==========================
// Generate / Retry Tests
// ==========================

func TestGenerate_Success(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{vector: []float64{0.1, 0.2}},
	}}
	c, s := newFakeClient(t, provider)

	vector, err := c.Generate(context.Background(), "some text")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vector)
	assert.Empty(t, s.waits)
}

func TestGenerate_EmptyInputNotSentToProvider(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{{vector: []float64{1}}}}
	c, _ := newFakeClient(t, provider)

	_, err := c.Generate(context.Background(), "   ")

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmbeddingEmptyInput))
	assert.Zero(t, provider.calls)
}

func TestGenerate_RateLimitWaitsFixedCooldown(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: errors.NewEmbeddingRateLimitedError(fmt.Errorf("429"))},
		{vector: []float64{0.5}},
	}}
	c, s := newFakeClient(t, provider)

	vector, err := c.Generate(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, vector)
	assert.Equal(t, []time.Duration{60 * time.Second}, s.waits)
}

func TestGenerate_ProviderErrorBacksOffExponentially(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("boom"))},
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("boom"))},
		{vector: []float64{0.7}},
	}}
	c, s := newFakeClient(t, provider)

	vector, err := c.Generate(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []float64{0.7}, vector)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, s.waits)
}

func TestGenerate_ExhaustionReturnsLastError(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("persistent"))},
	}}
	c, s := newFakeClient(t, provider)

	_, err := c.Generate(context.Background(), "text")

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmbeddingProviderError))
	assert.Equal(t, 3, provider.calls)
	// No wait after the final attempt.
	assert.Len(t, s.waits, 2)
}

func TestGenerate_UnexpectedErrorPropagatesImmediately(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: fmt.Errorf("connection reset by kernel")},
	}}
	c, s := newFakeClient(t, provider)

	_, err := c.Generate(context.Background(), "text")

	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Empty(t, s.waits)
}

// ==========================
// Batch Tests
// ==========================

func TestGenerateBatch_PartialFailure(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{vector: []float64{0.1}},
		// Second text fails all 3 attempts.
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("boom"))},
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("boom"))},
		{err: errors.NewEmbeddingProviderError(fmt.Errorf("boom"))},
		// Third text succeeds.
		{vector: []float64{0.3}},
	}}
	c, _ := newFakeClient(t, provider)

	result, err := c.GenerateBatch(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []float64{0.1}, result.Vectors[0])
	assert.Equal(t, []float64{}, result.Vectors[1])
	assert.Equal(t, []float64{0.3}, result.Vectors[2])
}

func TestGenerateBatch_InsertsDelayBetweenTexts(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{vector: []float64{0.1}},
	}}
	c, s := newFakeClient(t, provider)

	_, err := c.GenerateBatch(context.Background(), []string{"a", "b", "c"})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{batchDelay, batchDelay}, s.waits)
}

func TestGenerateBatch_EmptyInput(t *testing.T) {
	c, _ := newFakeClient(t, &fakeProvider{responses: []fakeResponse{{vector: []float64{1}}}})

	result, err := c.GenerateBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Vectors)
}
