// cmd/batch-matching/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rfp-matching/internal/batch"
	"rfp-matching/internal/common/config"
	"rfp-matching/internal/common/database"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/common/observability"
	"rfp-matching/internal/matching"
	"rfp-matching/internal/store"
	"rfp-matching/pkg/aliasdict"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	companyID := flag.String("company-id", "", "restrict the run to one company")
	rfpLimit := flag.Int("limit", 0, "cap the number of RFPs (0 = all)")
	strategyFlag := flag.String("strategy", "", "scoring strategy: keyword or enhanced (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting batch matching run...")

	obs := observability.New("batch-matching")
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Load alias dictionary ---
	dict, err := aliasdict.Load(cfg.Matching.AliasDictionaryPath)
	if err != nil {
		zapLog.Fatal("alias dictionary load failed", zap.Error(err))
	}
	zapLog.Info("alias dictionary loaded", zap.Int("entries", dict.Len()))

	strategyName := cfg.Matching.Strategy
	if *strategyFlag != "" {
		strategyName = *strategyFlag
	}

	engine := matching.NewEngine(dict, log)
	strategy := matching.StrategyFor(strategyName, engine)
	repo := store.NewRepository(store.NewPostgresStore(pg))
	runner := batch.NewRunner(repo, strategy, cfg.Batch.SnapshotChunkSize, log).WithObservability(obs)

	limit := *rfpLimit
	if limit == 0 {
		limit = cfg.Batch.RFPLimit
	}

	stats, err := runner.Run(ctx, *companyID, limit)
	if err != nil {
		zapLog.Fatal("batch run failed", zap.Error(err))
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))
}
