// internal/matching/summary.go
package matching

import (
	"fmt"
	"time"

	"rfp-matching/internal/models"
)

const maxSummaryPoints = 3

// summaryPoints renders up to three human-readable highlights for the
// keyword strategy, in fixed order: skill tier, budget fit, region fit,
// deadline urgency.
func summaryPoints(company *models.CompanyProfile, rfp *models.RFPListing, factors models.MatchFactors, today time.Time) []string {
	points := []string{}

	percent := int(factors.Skill * 100)
	switch {
	case percent >= 80:
		points = append(points, fmt.Sprintf("skill match %d%% (high)", percent))
	case percent >= 50:
		points = append(points, fmt.Sprintf("skill match %d%% (mid)", percent))
	default:
		points = append(points, fmt.Sprintf("skill match %d%% (low)", percent))
	}

	points = appendCommonPoints(points, company, rfp, today)

	if len(points) > maxSummaryPoints {
		points = points[:maxSummaryPoints]
	}
	return points
}

// enhancedSummaryPoints is the semantic-aware variant: the skill line
// prefers the semantic percentage when it clears the mid tier, falling back
// to the keyword percentage, then to a bare "low" marker.
func enhancedSummaryPoints(company *models.CompanyProfile, rfp *models.RFPListing, factors models.MatchFactors, today time.Time) []string {
	points := []string{}

	semanticPercent := int(factors.SemanticSkillMatch * 100)
	keywordPercent := int(factors.KeywordSkillMatch * 100)
	switch {
	case semanticPercent >= 80:
		points = append(points, fmt.Sprintf("semantic skill match %d%% (high)", semanticPercent))
	case semanticPercent >= 50:
		points = append(points, fmt.Sprintf("semantic skill match %d%% (mid)", semanticPercent))
	case keywordPercent >= 50:
		points = append(points, fmt.Sprintf("keyword skill match %d%% (mid)", keywordPercent))
	default:
		points = append(points, "skill match low")
	}

	points = appendCommonPoints(points, company, rfp, today)

	if len(points) > maxSummaryPoints {
		points = points[:maxSummaryPoints]
	}
	return points
}

func appendCommonPoints(points []string, company *models.CompanyProfile, rfp *models.RFPListing, today time.Time) []string {
	if rfp.Budget != nil && company.BudgetMin != nil && company.BudgetMax != nil {
		if *company.BudgetMin <= *rfp.Budget && *rfp.Budget <= *company.BudgetMax {
			points = append(points, "within budget")
		} else {
			points = append(points, "out of budget")
		}
	}

	if company.ServesRegion(rfp.Region) {
		points = append(points, "serviceable region")
	} else {
		points = append(points, "not serviceable")
	}

	if rfp.Deadline != nil {
		days := daysUntil(*rfp.Deadline, today)
		switch {
		case days < 0:
			points = append(points, "past deadline")
		case days <= 7:
			points = append(points, fmt.Sprintf("due in %d days (urgent)", days))
		case days <= 30:
			points = append(points, fmt.Sprintf("due in %d days", days))
		}
	}

	return points
}
