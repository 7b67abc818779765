// internal/matching/factors.go
package matching

import (
	"strings"
	"time"

	"rfp-matching/internal/models"
	"rfp-matching/pkg/aliasdict"
)

// mustKeywords are the terms whose presence marks an RFP as carrying
// explicit mandatory requirements.
var mustKeywords = []string{
	"mandatory",
	"must",
	"condition",
	"requirement",
	"necessary",
	"indispensable",
	"obligation",
	"prerequisite",
}

// findNGKeyword returns the first banned term found as a case-insensitive
// substring of the RFP text, or "" when none hit. Empty terms are skipped.
func findNGKeyword(ngKeywords []string, rfpText string) string {
	textLower := strings.ToLower(rfpText)
	for _, term := range ngKeywords {
		if term == "" {
			continue
		}
		if strings.Contains(textLower, strings.ToLower(term)) {
			return term
		}
	}
	return ""
}

// keywordSkillMatch returns the ratio of company skills found in the RFP
// text. Each skill is expanded through the alias dictionary and counts as
// matched if any expanded alias appears as a case-insensitive substring.
// Empty skill entries never match but stay in the denominator. An empty
// skill set scores 0.0.
func keywordSkillMatch(skills []string, rfpText string, dict *aliasdict.Dictionary) float64 {
	if len(skills) == 0 {
		return 0.0
	}

	textLower := strings.ToLower(rfpText)
	matched := 0
	for _, skill := range skills {
		if skill == "" {
			continue
		}
		for _, alias := range dict.Expand(skill) {
			if strings.Contains(textLower, strings.ToLower(alias)) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(skills))
}

// checkMustRequirements scans the RFP text for mandatory-requirement
// keywords. It currently returns true whether or not a keyword is found;
// the scan is kept so the outcome can be logged and the policy tightened
// later without changing callers.
func checkMustRequirements(rfpText string) bool {
	textLower := strings.ToLower(rfpText)
	for _, keyword := range mustKeywords {
		if strings.Contains(textLower, keyword) {
			return true
		}
	}
	return true
}

// regionCoefficient returns 1.0 when the RFP region is serviceable by the
// company, else 0.8. No partial credit.
func regionCoefficient(companyRegions []string, rfpRegion string) float64 {
	for _, r := range companyRegions {
		if r == rfpRegion {
			return 1.0
		}
	}
	return 0.8
}

// budgetBoost returns 0.10 when the RFP budget falls inside the company's
// range, 0.05 when it falls inside the range widened to [0.8*min, 1.2*max],
// and 0.0 otherwise or when any value is absent.
func budgetBoost(budgetMin, budgetMax, rfpBudget *int64) float64 {
	if budgetMin == nil || budgetMax == nil || rfpBudget == nil {
		return 0.0
	}

	b := float64(*rfpBudget)
	lo := float64(*budgetMin)
	hi := float64(*budgetMax)

	if lo <= b && b <= hi {
		return 0.10
	}
	if lo*0.8 <= b && b <= hi*1.2 {
		return 0.05
	}
	return 0.0
}

// budgetWithinRange reports whether the RFP budget is inside the company's
// declared range. Absent data does not fail the check.
func budgetWithinRange(budgetMin, budgetMax, rfpBudget *int64) bool {
	if budgetMin == nil || budgetMax == nil || rfpBudget == nil {
		return true
	}
	return *budgetMin <= *rfpBudget && *rfpBudget <= *budgetMax
}

// deadlineBoost rewards near-term deadlines: 0.05 within a week, 0.03
// within a month, 0.0 for past deadlines or anything further out.
func deadlineBoost(deadline *time.Time, today time.Time) float64 {
	if deadline == nil {
		return 0.0
	}

	days := daysUntil(*deadline, today)
	switch {
	case days < 0:
		return 0.0
	case days <= 7:
		return 0.05
	case days <= 30:
		return 0.03
	default:
		return 0.0
	}
}

// daysUntil counts whole calendar days from today to the deadline.
func daysUntil(deadline, today time.Time) int {
	d := deadline.Truncate(24 * time.Hour)
	t := today.Truncate(24 * time.Hour)
	return int(d.Sub(t).Hours() / 24)
}

// ngShortCircuit builds the terminal all-zero result for an NG keyword hit.
func ngShortCircuit(term string) *models.MatchResult {
	return &models.MatchResult{
		Score:         0,
		MustOK:        false,
		BudgetOK:      false,
		RegionOK:      false,
		Factors:       models.MatchFactors{},
		SummaryPoints: []string{"NG keyword '" + term + "' present"},
	}
}
