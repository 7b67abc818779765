// internal/matching/engine.go
package matching

import (
	"time"

	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/models"
	"rfp-matching/pkg/aliasdict"
)

// Strategy scores one (company, RFP) pair and produces an explainable
// result. The keyword and enhanced strategies use different weighting
// schemes and are kept as separate code paths.
type Strategy interface {
	Name() string
	Score(company *models.CompanyProfile, rfp *models.RFPListing) (*models.MatchResult, error)
}

// Engine composes the individual scoring factors. The alias dictionary is
// injected at construction and treated as immutable for the engine's
// lifetime.
type Engine struct {
	dict *aliasdict.Dictionary
	log  logger.Logger
	now  func() time.Time
}

// NewEngine creates a scoring engine.
func NewEngine(dict *aliasdict.Dictionary, log logger.Logger) *Engine {
	return &Engine{
		dict: dict,
		log:  log,
		now:  time.Now,
	}
}

// Score runs the keyword-only strategy. The formula is multiplicative:
// the skill ratio scaled to 100 is halved when must requirements fail,
// multiplied by the region coefficient, then lifted by the budget and
// deadline boosts.
func (e *Engine) Score(company *models.CompanyProfile, rfp *models.RFPListing) (*models.MatchResult, error) {
	if err := company.Validate(); err != nil {
		return nil, err
	}
	if err := rfp.Validate(); err != nil {
		return nil, err
	}

	rfpText := rfp.MatchText()

	if term := findNGKeyword(company.NGKeywords, rfpText); term != "" {
		e.log.Debug("ng keyword hit, short-circuiting", map[string]interface{}{
			"company_id": company.ID,
			"rfp_id":     rfp.ID,
			"term":       term,
		})
		return ngShortCircuit(term), nil
	}

	today := e.now()
	skillMatch := keywordSkillMatch(company.Skills, rfpText, e.dict)
	mustOK := checkMustRequirements(rfpText)
	region := regionCoefficient(company.Regions, rfp.Region)
	budget := budgetBoost(company.BudgetMin, company.BudgetMax, rfp.Budget)
	deadline := deadlineBoost(rfp.Deadline, today)

	base := skillMatch * 100
	if !mustOK {
		base *= 0.5
	}
	base *= region
	base *= 1 + budget
	base *= 1 + deadline

	factors := models.MatchFactors{
		Skill:    skillMatch,
		Must:     mustOK,
		Budget:   budget,
		Deadline: deadline,
		Region:   region,
	}

	result := &models.MatchResult{
		Score:         clampScore(int(base)),
		MustOK:        mustOK,
		BudgetOK:      budgetWithinRange(company.BudgetMin, company.BudgetMax, rfp.Budget),
		RegionOK:      company.ServesRegion(rfp.Region),
		Factors:       factors,
		SummaryPoints: summaryPoints(company, rfp, factors, today),
	}

	e.log.Debug("keyword match scored", map[string]interface{}{
		"company_id": company.ID,
		"rfp_id":     rfp.ID,
		"score":      result.Score,
		"skill":      skillMatch,
		"must_ok":    mustOK,
	})

	return result, nil
}

// ScoreEnhanced runs the semantic+keyword strategy. The formula is
// additive: semantic similarity weighs 40 points, keyword skill match 30,
// with the region coefficient and boosts added on top. A missing or failed
// semantic comparison degrades to 0.0 rather than failing the pair.
func (e *Engine) ScoreEnhanced(company *models.CompanyProfile, rfp *models.RFPListing) (*models.MatchResult, error) {
	if err := company.Validate(); err != nil {
		return nil, err
	}
	if err := rfp.Validate(); err != nil {
		return nil, err
	}

	rfpText := rfp.MatchText()

	if term := findNGKeyword(company.NGKeywords, rfpText); term != "" {
		e.log.Debug("ng keyword hit, short-circuiting", map[string]interface{}{
			"company_id": company.ID,
			"rfp_id":     rfp.ID,
			"term":       term,
		})
		return ngShortCircuit(term), nil
	}

	today := e.now()

	semantic := 0.0
	if len(company.SkillEmbedding) > 0 && rfp.HasEmbedding() {
		sim, err := CosineSimilarity(company.SkillEmbedding, rfp.Embedding)
		if err != nil {
			e.log.Warn("semantic similarity failed, degrading to 0.0", map[string]interface{}{
				"company_id": company.ID,
				"rfp_id":     rfp.ID,
				"error":      err.Error(),
			})
		} else {
			semantic = sim
		}
	}

	keyword := keywordSkillMatch(company.Skills, rfpText, e.dict)
	mustOK := checkMustRequirements(rfpText)
	region := regionCoefficient(company.Regions, rfp.Region)
	budget := budgetBoost(company.BudgetMin, company.BudgetMax, rfp.Budget)
	deadline := deadlineBoost(rfp.Deadline, today)

	base := semantic*40 + keyword*30
	if !mustOK {
		base *= 0.5
	}
	base += region*10 + budget*100 + deadline*100

	factors := models.MatchFactors{
		SemanticSkillMatch: semantic,
		KeywordSkillMatch:  keyword,
		Must:               mustOK,
		Budget:             budget,
		Deadline:           deadline,
		Region:             region,
	}

	result := &models.MatchResult{
		Score:         clampScore(int(base)),
		MustOK:        mustOK,
		BudgetOK:      budgetWithinRange(company.BudgetMin, company.BudgetMax, rfp.Budget),
		RegionOK:      company.ServesRegion(rfp.Region),
		Factors:       factors,
		SummaryPoints: enhancedSummaryPoints(company, rfp, factors, today),
	}

	e.log.Debug("enhanced match scored", map[string]interface{}{
		"company_id": company.ID,
		"rfp_id":     rfp.ID,
		"score":      result.Score,
		"semantic":   semantic,
		"keyword":    keyword,
	})

	return result, nil
}

// clampScore bounds an already-truncated score to [0, 100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// KeywordStrategy exposes Engine.Score behind the Strategy interface.
type KeywordStrategy struct {
	Engine *Engine
}

func (s KeywordStrategy) Name() string { return "keyword" }

func (s KeywordStrategy) Score(company *models.CompanyProfile, rfp *models.RFPListing) (*models.MatchResult, error) {
	return s.Engine.Score(company, rfp)
}

// EnhancedStrategy exposes Engine.ScoreEnhanced behind the Strategy
// interface.
type EnhancedStrategy struct {
	Engine *Engine
}

func (s EnhancedStrategy) Name() string { return "enhanced" }

func (s EnhancedStrategy) Score(company *models.CompanyProfile, rfp *models.RFPListing) (*models.MatchResult, error) {
	return s.Engine.ScoreEnhanced(company, rfp)
}

// StrategyFor returns the strategy named in configuration, defaulting to
// keyword.
func StrategyFor(name string, engine *Engine) Strategy {
	if name == "enhanced" {
		return EnhancedStrategy{Engine: engine}
	}
	return KeywordStrategy{Engine: engine}
}
