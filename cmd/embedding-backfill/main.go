// cmd/embedding-backfill/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"rfp-matching/internal/batch"
	"rfp-matching/internal/common/config"
	"rfp-matching/internal/common/database"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/embedding"
	"rfp-matching/internal/store"
)

func main() {
	target := flag.String("target", "rfps", "what to backfill: rfps or company-skills")
	limit := flag.Int("limit", 0, "cap the number of records (0 = all)")
	noCache := flag.Bool("no-cache", false, "skip the Redis embedding cache")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting embedding backfill...", zap.String("target", *target))

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	var provider embedding.Provider = embedding.NewOpenAIProvider(cfg.OpenAI)

	if !*noCache {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err == nil && rdb.Ping(ctx) == nil {
			defer rdb.Close()
			ttl := time.Duration(cfg.OpenAI.CacheTTLHours) * time.Hour
			provider = embedding.NewCachedProvider(provider, rdb.Client, cfg.OpenAI.Model, ttl, log)
			zapLog.Info("embedding cache enabled")
		} else {
			zapLog.Warn("redis unavailable, running without embedding cache")
		}
	}

	client := embedding.NewClient(provider, cfg.OpenAI.Model, log)
	repo := store.NewRepository(store.NewPostgresStore(pg))
	backfill := batch.NewBackfill(repo, client, log)

	var stats *batch.BackfillStats
	switch *target {
	case "rfps":
		stats, err = backfill.RunRFPs(ctx, *limit)
	case "company-skills":
		stats, err = backfill.RunCompanySkills(ctx, *limit)
	default:
		fmt.Fprintf(os.Stderr, "unknown target %q (want rfps or company-skills)\n", *target)
		os.Exit(1)
	}
	if err != nil {
		zapLog.Fatal("backfill failed", zap.Error(err))
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}
