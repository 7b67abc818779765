// internal/embedding/provider.go
package embedding

import "context"

// Provider turns text into a fixed-dimension float vector. Implementations
// must surface rate-limit errors distinguishably from other provider
// errors so the retry policy can pick the right wait strategy.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
