// internal/batch/runner.go
package batch

import (
	"context"
	"time"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/common/metrics"
	"rfp-matching/internal/common/observability"
	"rfp-matching/internal/matching"
	"rfp-matching/internal/models"
)

const defaultChunkSize = 100

// SnapshotStore is the persistence surface the runner needs.
type SnapshotStore interface {
	Companies(ctx context.Context, companyID string) ([]*models.CompanyProfile, error)
	RFPsWithEmbeddings(ctx context.Context, limit int) ([]*models.RFPListing, error)
	DeleteSnapshots(ctx context.Context, companyID string) (int64, error)
	InsertSnapshots(ctx context.Context, snapshots []models.MatchSnapshot) (int, error)
}

// Stats reports one batch run's aggregate counts.
type Stats struct {
	Companies  int           `json:"companies"`
	RFPs       int           `json:"rfps"`
	Processed  int           `json:"processed"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Saved      int           `json:"saved"`
	SaveFailed int           `json:"saveFailed"`
	Deleted    int64         `json:"deleted"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Runner recomputes the company x RFP cross product and persists match
// snapshots. Runs are idempotent: existing snapshots in scope are cleared
// before new ones are written.
type Runner struct {
	store     SnapshotStore
	strategy  matching.Strategy
	chunkSize int
	log       logger.Logger
	obs       *observability.Observability
	now       func() time.Time
}

// NewRunner creates a batch runner. A non-positive chunk size falls back
// to the default of 100 rows.
func NewRunner(store SnapshotStore, strategy matching.Strategy, chunkSize int, log logger.Logger) *Runner {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Runner{
		store:     store,
		strategy:  strategy,
		chunkSize: chunkSize,
		log:       log,
		now:       time.Now,
	}
}

// WithObservability attaches an OpenTelemetry recorder for per-pair
// counters. The runner works without one.
func (r *Runner) WithObservability(obs *observability.Observability) *Runner {
	r.obs = obs
	return r
}

// Run executes one batch: scope is one company when companyID is set,
// otherwise all companies; always all RFPs that have an embedding, ordered
// by deadline. A positive rfpLimit caps the RFP set. Per-pair failures are
// counted and never abort the run; chunk save failures are independent.
func (r *Runner) Run(ctx context.Context, companyID string, rfpLimit int) (*Stats, error) {
	started := r.now()
	stats := &Stats{}

	deleted, err := r.store.DeleteSnapshots(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stats.Deleted = deleted
	r.log.Info("cleared existing snapshots", map[string]interface{}{
		"company_id": companyID,
		"deleted":    deleted,
	})

	companies, err := r.store.Companies(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stats.Companies = len(companies)

	rfps, err := r.store.RFPsWithEmbeddings(ctx, rfpLimit)
	if err != nil {
		return nil, err
	}
	stats.RFPs = len(rfps)

	r.log.Info("starting batch matching", map[string]interface{}{
		"strategy":  r.strategy.Name(),
		"companies": stats.Companies,
		"rfps":      stats.RFPs,
	})

	var pending []models.MatchSnapshot
	for _, company := range companies {
		for _, rfp := range rfps {
			stats.Processed++
			pairStarted := r.now()

			result, err := r.strategy.Score(company, rfp)
			if err != nil {
				stats.Failed++
				metrics.MatchPairsFailed.WithLabelValues(r.strategy.Name(), errorLabel(err)).Inc()
				r.recordPair(ctx, pairStarted, "failed")
				r.log.Warn("pair scoring failed, continuing", map[string]interface{}{
					"company_id": company.ID,
					"rfp_id":     rfp.ID,
					"error":      err.Error(),
				})
				continue
			}

			stats.Succeeded++
			metrics.MatchPairsScored.WithLabelValues(r.strategy.Name()).Inc()
			r.recordPair(ctx, pairStarted, "success")
			pending = append(pending, models.NewMatchSnapshot(company.ID, rfp.ID, result, r.now()))
		}
	}

	r.saveChunks(ctx, pending, stats)

	stats.Elapsed = r.now().Sub(started)
	metrics.BatchRunDuration.Observe(stats.Elapsed.Seconds())

	r.log.Info("batch matching complete", map[string]interface{}{
		"companies":   stats.Companies,
		"rfps":        stats.RFPs,
		"processed":   stats.Processed,
		"succeeded":   stats.Succeeded,
		"failed":      stats.Failed,
		"saved":       stats.Saved,
		"save_failed": stats.SaveFailed,
		"elapsed":     stats.Elapsed.String(),
	})

	return stats, nil
}

// saveChunks persists pending snapshots in fixed-size chunks. A failed
// chunk is counted and does not stop subsequent chunks.
func (r *Runner) saveChunks(ctx context.Context, pending []models.MatchSnapshot, stats *Stats) {
	for start := 0; start < len(pending); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		inserted, err := r.store.InsertSnapshots(ctx, chunk)
		if err != nil {
			stats.SaveFailed += len(chunk)
			metrics.SnapshotChunksSaved.WithLabelValues("failed").Inc()
			r.log.Error("snapshot chunk save failed, continuing", map[string]interface{}{
				"offset": start,
				"size":   len(chunk),
				"error":  err.Error(),
			})
			continue
		}

		stats.Saved += inserted
		metrics.SnapshotChunksSaved.WithLabelValues("ok").Inc()
	}
}

func (r *Runner) recordPair(ctx context.Context, started time.Time, status string) {
	if r.obs == nil {
		return
	}
	r.obs.RecordPairProcessed(ctx, status)
	r.obs.RecordPairDuration(ctx, r.now().Sub(started), status)
}

func errorLabel(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return string(code)
	}
	return "UNKNOWN"
}
