package resolution

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/comparators"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// FieldComparison scores one field of a record pair through three levels:
// exact match, similarity at or above the cut-off, and everything else. Each
// level carries an m-probability; the field contributes its level's
// m-probability at the configured weight.
type FieldComparison struct {
	Field    string
	Weight   float64
	Cutoff   float64
	MExact   float64
	MSimilar float64
	MDefault float64

	value   func(models.CanonicalRecord) string
	compare func(*comparators.Scorer, string, string) float64
}

// DefaultComparisons returns the standard comparison set: organization name
// (token-sort), primary email (exact-leaning), primary phone (partial), and
// province (token-set).
func DefaultComparisons() []FieldComparison {
	return []FieldComparison{
		{
			Field: "org_name", Weight: 0.40, Cutoff: 0.90,
			MExact: 0.98, MSimilar: 0.85, MDefault: 0.05,
			value: func(r models.CanonicalRecord) string {
				return normalizers.NormalizeName(r.OrgName)
			},
			compare: (*comparators.Scorer).TokenSortRatio,
		},
		{
			Field: "primary_email", Weight: 0.30, Cutoff: 0.95,
			MExact: 0.99, MSimilar: 0.70, MDefault: 0.02,
			value: func(r models.CanonicalRecord) string {
				return normalizers.NormalizeEmail(r.PrimaryContact.Email)
			},
			compare: (*comparators.Scorer).Ratio,
		},
		{
			Field: "primary_phone", Weight: 0.20, Cutoff: 0.92,
			MExact: 0.97, MSimilar: 0.80, MDefault: 0.05,
			value: func(r models.CanonicalRecord) string {
				return normalizers.NormalizePhone(r.PrimaryContact.Phone)
			},
			compare: (*comparators.Scorer).PartialRatio,
		},
		{
			Field: "province", Weight: 0.10, Cutoff: 0.85,
			MExact: 0.90, MSimilar: 0.75, MDefault: 0.20,
			value: func(r models.CanonicalRecord) string {
				return normalizers.NormalizeProvince(r.Province)
			},
			compare: (*comparators.Scorer).TokenSetRatio,
		},
	}
}

// Score evaluates one field of a pair. The second return is false when
// either side is empty, in which case the field is excluded from the
// combined probability.
func (fc FieldComparison) Score(scorer *comparators.Scorer, left, right models.CanonicalRecord) (float64, bool) {
	a, b := fc.value(left), fc.value(right)
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return fc.MExact, true
	}
	if fc.compare(scorer, a, b) >= fc.Cutoff {
		return fc.MSimilar, true
	}
	return fc.MDefault, true
}

// matchProbability combines the active field levels into one probability:
// the weighted mean of the per-field m-probabilities. No active field
// yields 0.
func matchProbability(scorer *comparators.Scorer, comparisons []FieldComparison, left, right models.CanonicalRecord) float64 {
	var weighted, active float64
	for _, fc := range comparisons {
		m, ok := fc.Score(scorer, left, right)
		if !ok || fc.Weight == 0 {
			continue
		}
		weighted += m * fc.Weight
		active += fc.Weight
	}
	if active == 0 {
		return 0
	}
	return weighted / active
}

// unionFind clusters pair links transitively.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Attach the higher root to the lower so cluster roots are stable
	// regardless of union order.
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// clusterRecords collapses transitively-linked records into representatives.
// Links are pairs whose probability reached the high threshold. Each
// cluster's representative is its best-ranked member under the same ranking
// used during aggregation; the survivors keep input order and absorb their
// cluster's source counts.
func clusterRecords(records []models.CanonicalRecord, links []Pair) []models.CanonicalRecord {
	uf := newUnionFind(len(records))
	for _, link := range links {
		uf.union(link.Left, link.Right)
	}

	best := make(map[int]int)
	counts := make(map[int]int)
	for i := range records {
		root := uf.find(i)
		counts[root] += records[i].SourceCount
		if cur, ok := best[root]; !ok || outranks(records[i], records[cur]) {
			best[root] = i
		}
	}

	out := make([]models.CanonicalRecord, 0, len(best))
	emitted := make(map[int]bool, len(best))
	for i := range records {
		root := uf.find(i)
		if emitted[root] {
			continue
		}
		emitted[root] = true
		rep := records[best[root]]
		rep.SourceCount = counts[root]
		out = append(out, rep)
	}
	return out
}

// outranks reuses the aggregation ranking over the rank carriers each
// canonical record keeps from its winning row.
func outranks(a, b models.CanonicalRecord) bool {
	if a.SourcePriority != b.SourcePriority {
		return a.SourcePriority > b.SourcePriority
	}
	if a.QualityRank != b.QualityRank {
		return a.QualityRank > b.QualityRank
	}
	at, bt := interactionOrZero(a), interactionOrZero(b)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	if a.IngestionIndex != b.IngestionIndex {
		return a.IngestionIndex < b.IngestionIndex
	}
	return a.RecordID < b.RecordID
}

func interactionOrZero(r models.CanonicalRecord) time.Time {
	if r.LastInteraction == nil {
		return time.Time{}
	}
	return *r.LastInteraction
}
