// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchPairsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_pairs_scored_total",
			Help: "Total number of company/RFP pairs scored",
		},
		[]string{"strategy"},
	)

	MatchPairsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_pairs_failed_total",
			Help: "Total number of company/RFP pairs that failed scoring",
		},
		[]string{"strategy", "error_code"},
	)

	EmbeddingsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embeddings_generated_total",
			Help: "Total number of embeddings generated",
		},
		[]string{"model"},
	)

	EmbeddingsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embeddings_failed_total",
			Help: "Total number of embedding generations that failed after retries",
		},
		[]string{"model", "error_code"},
	)

	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total number of embedding cache hits",
		},
	)

	SearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_keyword_fallbacks_total",
			Help: "Total number of searches that fell back to keyword matching",
		},
	)

	SnapshotChunksSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_chunks_saved_total",
			Help: "Total number of snapshot chunks written",
		},
		[]string{"status"},
	)

	BatchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "batch_run_duration_seconds",
			Help:    "Duration of batch matching runs in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)
