// internal/store/repository.go
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"rfp-matching/internal/common/errors"
	"rfp-matching/internal/models"
)

const (
	TableCompanies = "companies"
	TableRFPs      = "rfps"
	TableSnapshots = "match_snapshots"
)

// Repository maps TableStore rows to domain models. It owns the column
// naming and the JSON encoding of vector and list columns.
type Repository struct {
	ts TableStore
}

// NewRepository wraps a TableStore with typed accessors.
func NewRepository(ts TableStore) *Repository {
	return &Repository{ts: ts}
}

// Companies fetches all company profiles, or a single one when companyID
// is set.
func (r *Repository) Companies(ctx context.Context, companyID string) ([]*models.CompanyProfile, error) {
	q := Query{}
	if companyID != "" {
		q.Filters = append(q.Filters, Eq("id", companyID))
	}

	rows, err := r.ts.Select(ctx, TableCompanies, q)
	if err != nil {
		return nil, err
	}

	companies := make([]*models.CompanyProfile, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, companyFromRow(row))
	}
	return companies, nil
}

// RFPsWithEmbeddings fetches RFPs that have an embedding vector, ordered
// by deadline ascending. A positive limit caps the result.
func (r *Repository) RFPsWithEmbeddings(ctx context.Context, limit int) ([]*models.RFPListing, error) {
	rows, err := r.ts.Select(ctx, TableRFPs, Query{
		Filters:   []Filter{NotNull("embedding")},
		OrderBy:   "deadline",
		Ascending: true,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	rfps := make([]*models.RFPListing, 0, len(rows))
	for _, row := range rows {
		rfps = append(rfps, rfpFromRow(row))
	}
	return rfps, nil
}

// RFPsMissingEmbeddings fetches RFPs that still need an embedding.
func (r *Repository) RFPsMissingEmbeddings(ctx context.Context, limit int) ([]*models.RFPListing, error) {
	rows, err := r.ts.Select(ctx, TableRFPs, Query{
		Filters:   []Filter{IsNull("embedding")},
		OrderBy:   "deadline",
		Ascending: true,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	rfps := make([]*models.RFPListing, 0, len(rows))
	for _, row := range rows {
		rfps = append(rfps, rfpFromRow(row))
	}
	return rfps, nil
}

// CompaniesMissingSkillEmbeddings fetches companies without a skill
// embedding vector.
func (r *Repository) CompaniesMissingSkillEmbeddings(ctx context.Context, limit int) ([]*models.CompanyProfile, error) {
	rows, err := r.ts.Select(ctx, TableCompanies, Query{
		Filters: []Filter{IsNull("skill_embedding")},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	companies := make([]*models.CompanyProfile, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, companyFromRow(row))
	}
	return companies, nil
}

// RFPByID fetches one RFP. A missing record is a not-found error.
func (r *Repository) RFPByID(ctx context.Context, id string) (*models.RFPListing, error) {
	rows, err := r.ts.Select(ctx, TableRFPs, Query{
		Filters: []Filter{Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.NewRFPNotFoundError(id)
	}
	return rfpFromRow(rows[0]), nil
}

// KeywordSearchRFPs finds RFPs whose title or description contains the
// query case-insensitively.
func (r *Repository) KeywordSearchRFPs(ctx context.Context, query string, limit int) ([]*models.RFPListing, error) {
	rows, err := r.ts.Select(ctx, TableRFPs, Query{
		Filters: []Filter{
			ILike("title", query),
			ILike("description", query),
		},
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	rfps := make([]*models.RFPListing, 0, len(rows))
	for _, row := range rows {
		rfps = append(rfps, rfpFromRow(row))
	}
	return rfps, nil
}

// UpdateRFPEmbedding stores a freshly generated embedding on an RFP.
func (r *Repository) UpdateRFPEmbedding(ctx context.Context, id string, vector []float64) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	_, err = r.ts.Update(ctx, TableRFPs, Row{"embedding": string(data)}, []Filter{Eq("id", id)})
	return err
}

// UpdateCompanySkillEmbedding stores a company's skill embedding.
func (r *Repository) UpdateCompanySkillEmbedding(ctx context.Context, id string, vector []float64) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	_, err = r.ts.Update(ctx, TableCompanies, Row{"skill_embedding": string(data)}, []Filter{Eq("id", id)})
	return err
}

// DeleteSnapshots clears snapshots for one company, or all snapshots when
// companyID is empty.
func (r *Repository) DeleteSnapshots(ctx context.Context, companyID string) (int64, error) {
	var filters []Filter
	if companyID != "" {
		filters = append(filters, Eq("company_id", companyID))
	}

	count, err := r.ts.DeleteWhere(ctx, TableSnapshots, filters)
	if err != nil {
		return 0, errors.NewSnapshotDeleteFailedError(err)
	}
	return count, nil
}

// InsertSnapshots writes one chunk of snapshot rows.
func (r *Repository) InsertSnapshots(ctx context.Context, snapshots []models.MatchSnapshot) (int, error) {
	rows := make([]Row, 0, len(snapshots))
	for _, snap := range snapshots {
		factors, err := json.Marshal(snap.Factors)
		if err != nil {
			return 0, errors.NewSnapshotInsertFailedError(err)
		}
		points, err := json.Marshal(snap.SummaryPoints)
		if err != nil {
			return 0, errors.NewSnapshotInsertFailedError(err)
		}
		rows = append(rows, Row{
			"id":             uuid.NewString(),
			"company_id":     snap.CompanyID,
			"rfp_id":         snap.RFPID,
			"score":          snap.Score,
			"must_ok":        snap.MustOK,
			"budget_ok":      snap.BudgetOK,
			"region_ok":      snap.RegionOK,
			"factors":        string(factors),
			"summary_points": string(points),
			"updated_at":     snap.UpdatedAt,
		})
	}

	inserted, err := r.ts.InsertBatch(ctx, TableSnapshots, rows)
	if err != nil {
		return 0, errors.NewSnapshotInsertFailedError(err)
	}
	return inserted, nil
}

// --- row mapping ---

func companyFromRow(row Row) *models.CompanyProfile {
	return &models.CompanyProfile{
		ID:             rowString(row, "id"),
		Name:           rowString(row, "name"),
		Skills:         rowStrings(row, "skills"),
		Regions:        rowStrings(row, "regions"),
		BudgetMin:      rowInt64Ptr(row, "budget_min"),
		BudgetMax:      rowInt64Ptr(row, "budget_max"),
		NGKeywords:     rowStrings(row, "ng_keywords"),
		SkillEmbedding: rowFloats(row, "skill_embedding"),
	}
}

func rfpFromRow(row Row) *models.RFPListing {
	return &models.RFPListing{
		ID:          rowString(row, "id"),
		Title:       rowString(row, "title"),
		Description: rowString(row, "description"),
		Budget:      rowInt64Ptr(row, "budget"),
		Region:      rowString(row, "region"),
		Deadline:    rowTimePtr(row, "deadline"),
		Embedding:   rowFloats(row, "embedding"),
	}
}

func rowString(row Row, col string) string {
	if v, ok := row[col].(string); ok {
		return v
	}
	return ""
}

func rowInt64Ptr(row Row, col string) *int64 {
	switch v := row[col].(type) {
	case int64:
		return &v
	case float64:
		n := int64(v)
		return &n
	default:
		return nil
	}
}

func rowTimePtr(row Row, col string) *time.Time {
	if v, ok := row[col].(time.Time); ok {
		return &v
	}
	if s, ok := row[col].(string); ok && s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
	}
	return nil
}

func rowStrings(row Row, col string) []string {
	s, ok := row[col].(string)
	if !ok || s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func rowFloats(row Row, col string) []float64 {
	s, ok := row[col].(string)
	if !ok || s == "" {
		return nil
	}
	var out []float64
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}
