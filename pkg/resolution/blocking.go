// Package resolution implements entity resolution over canonical records:
// blocking, probabilistic matching with clustering, and a deterministic
// fallback resolver used when the probabilistic backend is unavailable.
package resolution

import (
	"github.com/Ramsey-B/fern/pkg/comparators"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Blocking cut-offs. A pair is compared only when at least one rule fires.
const (
	nameBlockThreshold  = 0.96
	phoneBlockThreshold = 0.92
)

// Pair indexes two records selected for comparison.
type Pair struct {
	Left  int
	Right int
}

// blockKey holds the precomputed normalized values the blocking rules test.
type blockKey struct {
	slug  string
	email string
	name  string
	phone string
}

// Blocker generates candidate pairs. Kept separate from comparison so the
// pair stream can be bounded independently of scoring.
type Blocker struct {
	scorer *comparators.Scorer
}

func NewBlocker(scorer *comparators.Scorer) *Blocker {
	return &Blocker{scorer: scorer}
}

// Pairs returns every record pair admitted by the blocking rules: equal
// slugs, same non-empty primary email, near-identical normalized names, or
// near-identical phones.
func (b *Blocker) Pairs(records []models.CanonicalRecord) []Pair {
	keys := make([]blockKey, len(records))
	for i, rec := range records {
		keys[i] = blockKey{
			slug:  rec.Slug,
			email: normalizers.NormalizeEmail(rec.PrimaryContact.Email),
			name:  normalizers.NormalizeName(rec.OrgName),
			phone: normalizers.NormalizePhone(rec.PrimaryContact.Phone),
		}
	}

	pairs := make([]Pair, 0)
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if b.admit(keys[i], keys[j]) {
				pairs = append(pairs, Pair{Left: i, Right: j})
			}
		}
	}
	return pairs
}

func (b *Blocker) admit(a, k blockKey) bool {
	if a.slug != "" && a.slug == k.slug {
		return true
	}
	if a.email != "" && a.email == k.email {
		return true
	}
	if b.scorer.TokenSortRatio(a.name, k.name) >= nameBlockThreshold {
		return true
	}
	if b.scorer.PartialRatio(a.phone, k.phone) >= phoneBlockThreshold {
		return true
	}
	return false
}
