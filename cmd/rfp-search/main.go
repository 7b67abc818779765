// cmd/rfp-search/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"rfp-matching/internal/common/config"
	"rfp-matching/internal/common/database"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/embedding"
	"rfp-matching/internal/search"
	"rfp-matching/internal/store"
)

func main() {
	mode := flag.String("mode", "search", "search mode: search, similar or hybrid")
	query := flag.String("query", "", "query text (search and hybrid modes)")
	rfpID := flag.String("rfp-id", "", "source listing id (similar mode)")
	limit := flag.Int("limit", 0, "maximum results (0 = configured default)")
	threshold := flag.Float64("threshold", 0, "similarity threshold (0 = configured default)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if *limit <= 0 {
		*limit = cfg.Search.ResultLimit
	}
	if *threshold <= 0 {
		*threshold = cfg.Search.SimilarityThreshold
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch init failed", zap.Error(err))
	}
	if err := es.Ping(); err != nil {
		zapLog.Warn("elasticsearch unreachable, keyword fallback will serve queries", zap.Error(err))
	}

	var provider embedding.Provider = embedding.NewOpenAIProvider(cfg.OpenAI)
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err == nil && rdb.Ping(ctx) == nil {
		defer rdb.Close()
		ttl := time.Duration(cfg.OpenAI.CacheTTLHours) * time.Hour
		provider = embedding.NewCachedProvider(provider, rdb.Client, cfg.OpenAI.Model, ttl, log)
	}

	client := embedding.NewClient(provider, cfg.OpenAI.Model, log)
	repo := store.NewRepository(store.NewPostgresStore(pg))
	knn := search.NewElasticsearchKNN(es.Client, cfg.Database.Elasticsearch.RFPIndex)
	svc := search.NewService(client, knn, repo, log)

	var results []search.Result
	switch *mode {
	case "search":
		if *query == "" {
			fmt.Fprintln(os.Stderr, "-query is required in search mode")
			os.Exit(1)
		}
		results, err = svc.Search(ctx, *query, *threshold, *limit)
	case "similar":
		if *rfpID == "" {
			fmt.Fprintln(os.Stderr, "-rfp-id is required in similar mode")
			os.Exit(1)
		}
		results, err = svc.FindSimilarTo(ctx, *rfpID, *limit)
	case "hybrid":
		if *query == "" {
			fmt.Fprintln(os.Stderr, "-query is required in hybrid mode")
			os.Exit(1)
		}
		results, err = svc.HybridSearch(ctx, *query, *limit)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (want search, similar or hybrid)\n", *mode)
		os.Exit(1)
	}
	if err != nil {
		zapLog.Fatal("search failed", zap.Error(err))
	}

	out, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(out))
}
