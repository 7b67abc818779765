// internal/models/match.go
package models

import "time"

// MatchFactors records each factor's individual contribution. The keyword
// strategy fills Skill; the enhanced strategy fills SemanticSkillMatch and
// KeywordSkillMatch instead. Factors are kept for explainability and are
// never recomputed from the final score.
type MatchFactors struct {
	Skill              float64 `json:"skill,omitempty"`
	SemanticSkillMatch float64 `json:"semanticSkillMatch,omitempty"`
	KeywordSkillMatch  float64 `json:"keywordSkillMatch,omitempty"`
	Must               bool    `json:"must"`
	Budget             float64 `json:"budget"`
	Deadline           float64 `json:"deadline"`
	Region             float64 `json:"region"`
}

// MatchResult is the outcome of scoring one (company, RFP) pair. Immutable
// once returned.
type MatchResult struct {
	Score         int          `json:"score"`
	MustOK        bool         `json:"mustOk"`
	BudgetOK      bool         `json:"budgetOk"`
	RegionOK      bool         `json:"regionOk"`
	Factors       MatchFactors `json:"factors"`
	SummaryPoints []string     `json:"summaryPoints"`
}

// MatchSnapshot is the persisted form of a MatchResult, keyed by
// (companyId, rfpId). At most one live snapshot exists per key.
type MatchSnapshot struct {
	CompanyID     string       `json:"companyId"`
	RFPID         string       `json:"rfpId"`
	Score         int          `json:"score"`
	MustOK        bool         `json:"mustOk"`
	BudgetOK      bool         `json:"budgetOk"`
	RegionOK      bool         `json:"regionOk"`
	Factors       MatchFactors `json:"factors"`
	SummaryPoints []string     `json:"summaryPoints"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// NewMatchSnapshot builds a snapshot row from a scoring result.
func NewMatchSnapshot(companyID, rfpID string, result *MatchResult, now time.Time) MatchSnapshot {
	return MatchSnapshot{
		CompanyID:     companyID,
		RFPID:         rfpID,
		Score:         result.Score,
		MustOK:        result.MustOK,
		BudgetOK:      result.BudgetOK,
		RegionOK:      result.RegionOK,
		Factors:       result.Factors,
		SummaryPoints: result.SummaryPoints,
		UpdatedAt:     now,
	}
}
