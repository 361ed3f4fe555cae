// Package linkage implements match classification thresholds, the review
// queue projection, and the append-only reviewer decision log.
package linkage

import (
	"github.com/Ramsey-B/fern/pkg/models"
)

// Thresholds partitions match probabilities into match/review/reject bands.
// Construct through NewThresholds so the ordering invariant holds.
type Thresholds struct {
	High   float64 `json:"high"`
	Review float64 `json:"review"`
	Reject float64 `json:"reject"`
}

// NewThresholds validates 0 <= reject <= review <= high <= 1.
func NewThresholds(high, review, reject float64) (Thresholds, error) {
	if reject < 0 || high > 1 {
		return Thresholds{}, models.NewConfigurationErrorf("linkage_thresholds", "thresholds must lie in [0,1]: high=%v review=%v reject=%v", high, review, reject)
	}
	if high < review || review < reject {
		return Thresholds{}, models.NewConfigurationErrorf("linkage_thresholds", "thresholds must be ordered reject <= review <= high: high=%v review=%v reject=%v", high, review, reject)
	}
	return Thresholds{High: high, Review: review, Reject: reject}, nil
}

// Classify maps a match probability onto a label.
func (t Thresholds) Classify(score float64) string {
	switch {
	case score >= t.High:
		return models.LabelMatch
	case score >= t.Review:
		return models.LabelReview
	default:
		return models.LabelReject
	}
}
