// Package pipeline implements the listing query pipeline: filtering, quality
// tier classification, sorting, and pagination over an in-memory snapshot of
// vehicle listings. Every operation is a pure function of its inputs, so
// concurrent callers may share a snapshot without coordination.
package pipeline

import "github.com/lotview/lotview/pkg/models"

// TierThresholds holds the priority-score cutoffs separating quality tiers.
// Loaded once from configuration and injected into the classifier so every
// call site shares a single definition.
type TierThresholds struct {
	TopPickMin int // Minimum score for top_pick.
	GoodBuyMin int // Minimum score for good_buy.
}

// DefaultTierThresholds returns the standard tier cutoffs (80/65).
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{TopPickMin: 80, GoodBuyMin: 65}
}

// Classifier maps a priority score to a quality tier.
type Classifier struct {
	thresholds TierThresholds
}

// NewClassifier creates a Classifier using the given thresholds.
func NewClassifier(t TierThresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify returns the quality tier for a priority score. It is total over
// all integers: out-of-range scores still land in a tier, since range
// validation is an ingestion-time concern.
func (c *Classifier) Classify(score int) models.Tier {
	switch {
	case score >= c.thresholds.TopPickMin:
		return models.TierTopPick
	case score >= c.thresholds.GoodBuyMin:
		return models.TierGoodBuy
	default:
		return models.TierCaution
	}
}

// tierRank orders tiers for sort comparisons (1 = best). It is an internal
// detail of the sort engine, not part of the public data model.
func tierRank(t models.Tier) int {
	switch t {
	case models.TierTopPick:
		return 1
	case models.TierGoodBuy:
		return 2
	default:
		return 3
	}
}
