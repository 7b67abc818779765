// internal/batch/backfill.go
package batch

import (
	"context"
	"strings"
	"time"

	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/embedding"
	"rfp-matching/internal/models"
)

// BackfillStore is the persistence surface the embedding backfill needs.
type BackfillStore interface {
	RFPsMissingEmbeddings(ctx context.Context, limit int) ([]*models.RFPListing, error)
	UpdateRFPEmbedding(ctx context.Context, id string, vector []float64) error
	CompaniesMissingSkillEmbeddings(ctx context.Context, limit int) ([]*models.CompanyProfile, error)
	UpdateCompanySkillEmbedding(ctx context.Context, id string, vector []float64) error
}

// BackfillStats reports one backfill run.
type BackfillStats struct {
	Candidates int           `json:"candidates"`
	Generated  int           `json:"generated"`
	Failed     int           `json:"failed"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Backfill generates missing embedding vectors for RFPs and company skill
// profiles so they become eligible for semantic scoring and search.
type Backfill struct {
	store    BackfillStore
	embedder *embedding.Client
	log      logger.Logger
	now      func() time.Time
}

// NewBackfill creates an embedding backfill job.
func NewBackfill(store BackfillStore, embedder *embedding.Client, log logger.Logger) *Backfill {
	return &Backfill{
		store:    store,
		embedder: embedder,
		log:      log,
		now:      time.Now,
	}
}

// RunRFPs embeds the match text of RFPs that have none, as one rate-limited
// batch. Texts that exhaust retries come back as empty vectors and are
// counted failed; save failures are counted per row.
func (b *Backfill) RunRFPs(ctx context.Context, limit int) (*BackfillStats, error) {
	started := b.now()
	stats := &BackfillStats{}

	rfps, err := b.store.RFPsMissingEmbeddings(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats.Candidates = len(rfps)

	texts := make([]string, len(rfps))
	for i, rfp := range rfps {
		texts[i] = rfp.MatchText()
	}

	res, err := b.embedder.GenerateBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	for i, rfp := range rfps {
		vector := res.Vectors[i]
		if len(vector) == 0 {
			stats.Failed++
			b.log.Warn("rfp embedding generation failed, skipping", map[string]interface{}{
				"rfp_id": rfp.ID,
			})
			continue
		}

		if err := b.store.UpdateRFPEmbedding(ctx, rfp.ID, vector); err != nil {
			stats.Failed++
			b.log.Warn("rfp embedding save failed, skipping", map[string]interface{}{
				"rfp_id": rfp.ID,
				"error":  err.Error(),
			})
			continue
		}
		stats.Generated++
	}

	stats.Elapsed = b.now().Sub(started)
	b.log.Info("rfp embedding backfill complete", map[string]interface{}{
		"candidates": stats.Candidates,
		"generated":  stats.Generated,
		"failed":     stats.Failed,
		"elapsed":    stats.Elapsed.String(),
	})
	return stats, nil
}

// RunCompanySkills embeds each company's skill list, joined into one text,
// for companies that have no skill embedding yet. Companies without skills
// are counted as failed candidates before the batch runs.
func (b *Backfill) RunCompanySkills(ctx context.Context, limit int) (*BackfillStats, error) {
	started := b.now()
	stats := &BackfillStats{}

	companies, err := b.store.CompaniesMissingSkillEmbeddings(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats.Candidates = len(companies)

	eligible := make([]*models.CompanyProfile, 0, len(companies))
	texts := make([]string, 0, len(companies))
	for _, company := range companies {
		if len(company.Skills) == 0 {
			stats.Failed++
			b.log.Warn("company has no skills, skipping", map[string]interface{}{
				"company_id": company.ID,
			})
			continue
		}
		eligible = append(eligible, company)
		texts = append(texts, strings.Join(company.Skills, ", "))
	}

	res, err := b.embedder.GenerateBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	for i, company := range eligible {
		vector := res.Vectors[i]
		if len(vector) == 0 {
			stats.Failed++
			b.log.Warn("skill embedding generation failed, skipping", map[string]interface{}{
				"company_id": company.ID,
			})
			continue
		}

		if err := b.store.UpdateCompanySkillEmbedding(ctx, company.ID, vector); err != nil {
			stats.Failed++
			b.log.Warn("skill embedding save failed, skipping", map[string]interface{}{
				"company_id": company.ID,
				"error":      err.Error(),
			})
			continue
		}
		stats.Generated++
	}

	stats.Elapsed = b.now().Sub(started)
	b.log.Info("company skill embedding backfill complete", map[string]interface{}{
		"candidates": stats.Candidates,
		"generated":  stats.Generated,
		"failed":     stats.Failed,
		"elapsed":    stats.Elapsed.String(),
	})
	return stats, nil
}
