// internal/models/rfp.go
package models

import (
	"time"

	"rfp-matching/internal/common/errors"
)

// RFPListing is one procurement opportunity.
type RFPListing struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Budget      *int64     `json:"budget,omitempty"`
	Region      string     `json:"region"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Embedding   []float64  `json:"embedding,omitempty"`
}

// MatchText is the text surface all keyword checks run against.
func (r *RFPListing) MatchText() string {
	return r.Title + "\n" + r.Description
}

// HasEmbedding reports whether semantic scoring is possible for this RFP.
func (r *RFPListing) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// Validate checks the fields scoring depends on.
func (r *RFPListing) Validate() error {
	if r.ID == "" {
		return errors.NewValidationError("rfp id is required")
	}
	if r.Title == "" && r.Description == "" {
		return errors.NewValidationError("rfp has no title or description text")
	}
	return nil
}
