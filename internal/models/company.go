// internal/models/company.go
package models

import "rfp-matching/internal/common/errors"

// CompanyProfile is a vendor's declared capabilities. The scoring engine
// reads it, never mutates it.
type CompanyProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Skills         []string  `json:"skills"`
	Regions        []string  `json:"regions"`
	BudgetMin      *int64    `json:"budgetMin,omitempty"`
	BudgetMax      *int64    `json:"budgetMax,omitempty"`
	NGKeywords     []string  `json:"ngKeywords"`
	SkillEmbedding []float64 `json:"skillEmbedding,omitempty"`
}

// Validate checks the fields scoring depends on.
func (c *CompanyProfile) Validate() error {
	if c.ID == "" {
		return errors.NewValidationError("company id is required")
	}
	if c.BudgetMin != nil && c.BudgetMax != nil && *c.BudgetMin > *c.BudgetMax {
		return errors.NewValidationError("company budgetMin exceeds budgetMax")
	}
	return nil
}

// ServesRegion reports whether the given region code is in the company's
// serviceable set.
func (c *CompanyProfile) ServesRegion(region string) bool {
	for _, r := range c.Regions {
		if r == region {
			return true
		}
	}
	return false
}
