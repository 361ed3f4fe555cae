package resolution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/comparators"
	"github.com/Ramsey-B/fern/pkg/models"
)

func TestFieldComparison_Score(t *testing.T) {
	scorer := comparators.NewScorer()
	nameComparison := DefaultComparisons()[0]

	t.Run("exact match yields the exact m-probability", func(t *testing.T) {
		m, ok := nameComparison.Score(scorer,
			models.CanonicalRecord{OrgName: "Aero Club"},
			models.CanonicalRecord{OrgName: "AERO CLUB"},
		)
		assert.True(t, ok)
		assert.Equal(t, 0.98, m)
	})

	t.Run("similar match yields the similar m-probability", func(t *testing.T) {
		m, ok := nameComparison.Score(scorer,
			models.CanonicalRecord{OrgName: "Aero Club Malaga"},
			models.CanonicalRecord{OrgName: "Malaga Aero Club"},
		)
		assert.True(t, ok)
		assert.Equal(t, 0.85, m)
	})

	t.Run("dissimilar values yield the default m-probability", func(t *testing.T) {
		m, ok := nameComparison.Score(scorer,
			models.CanonicalRecord{OrgName: "Panaderia Lola"},
			models.CanonicalRecord{OrgName: "Taller Ruiz"},
		)
		assert.True(t, ok)
		assert.Equal(t, 0.05, m)
	})

	t.Run("empty side deactivates the field", func(t *testing.T) {
		_, ok := nameComparison.Score(scorer,
			models.CanonicalRecord{OrgName: "Aero Club"},
			models.CanonicalRecord{},
		)
		assert.False(t, ok)
	})
}

func TestMatchProbability(t *testing.T) {
	scorer := comparators.NewScorer()
	comparisons := DefaultComparisons()

	t.Run("identical records score the weighted mean of exact levels", func(t *testing.T) {
		rec := models.CanonicalRecord{
			OrgName:  "Aero Club",
			Province: "Malaga",
			PrimaryContact: models.Contact{
				Email: "info@aeroclub.es",
				Phone: "+34912345678",
			},
		}
		p := matchProbability(scorer, comparisons, rec, rec)
		assert.InDelta(t, 0.98*0.4+0.99*0.3+0.97*0.2+0.90*0.1, p, 1e-9)
	})

	t.Run("empty fields are excluded from the mean", func(t *testing.T) {
		left := models.CanonicalRecord{OrgName: "Aero Club"}
		right := models.CanonicalRecord{OrgName: "Aero Club", Province: "Malaga"}
		p := matchProbability(scorer, comparisons, left, right)
		assert.InDelta(t, 0.98, p, 1e-9)
	})

	t.Run("no active field yields zero", func(t *testing.T) {
		p := matchProbability(scorer, comparisons, models.CanonicalRecord{}, models.CanonicalRecord{})
		assert.Equal(t, 0.0, p)
	})
}

func TestClusterRecords(t *testing.T) {
	t.Run("transitive links collapse into one representative", func(t *testing.T) {
		records := []models.CanonicalRecord{
			{Slug: "a", RecordID: "r1", SourcePriority: 1, SourceCount: 2},
			{Slug: "b", RecordID: "r2", SourcePriority: 3, SourceCount: 1},
			{Slug: "c", RecordID: "r3", SourcePriority: 2, SourceCount: 4},
		}
		out := clusterRecords(records, []Pair{{Left: 0, Right: 1}, {Left: 1, Right: 2}})

		require.Len(t, out, 1)
		assert.Equal(t, "b", out[0].Slug)
		assert.Equal(t, 7, out[0].SourceCount)
	})

	t.Run("unlinked records keep input order", func(t *testing.T) {
		records := []models.CanonicalRecord{
			{Slug: "c", RecordID: "r1"},
			{Slug: "a", RecordID: "r2"},
			{Slug: "b", RecordID: "r3"},
		}
		out := clusterRecords(records, nil)

		require.Len(t, out, 3)
		assert.Equal(t, "c", out[0].Slug)
		assert.Equal(t, "a", out[1].Slug)
		assert.Equal(t, "b", out[2].Slug)
	})

	t.Run("link order does not change the representative", func(t *testing.T) {
		records := []models.CanonicalRecord{
			{Slug: "a", RecordID: "r1", SourcePriority: 2},
			{Slug: "b", RecordID: "r2", SourcePriority: 2, QualityRank: 3},
			{Slug: "c", RecordID: "r3", SourcePriority: 2},
		}
		forward := clusterRecords(records, []Pair{{Left: 0, Right: 1}, {Left: 1, Right: 2}})
		backward := clusterRecords(records, []Pair{{Left: 1, Right: 2}, {Left: 0, Right: 1}})

		require.Len(t, forward, 1)
		assert.Equal(t, "b", forward[0].Slug)
		assert.Equal(t, forward, backward)
	})
}

func TestOutranks(t *testing.T) {
	date := func(s string) *time.Time {
		ts, _ := time.Parse("2006-01-02", s)
		return &ts
	}

	t.Run("priority dominates", func(t *testing.T) {
		assert.True(t, outranks(
			models.CanonicalRecord{SourcePriority: 3},
			models.CanonicalRecord{SourcePriority: 2, QualityRank: 5},
		))
	})

	t.Run("quality then recency break ties", func(t *testing.T) {
		assert.True(t, outranks(
			models.CanonicalRecord{SourcePriority: 2, QualityRank: 4},
			models.CanonicalRecord{SourcePriority: 2, QualityRank: 2},
		))
		assert.True(t, outranks(
			models.CanonicalRecord{SourcePriority: 2, LastInteraction: date("2025-01-01")},
			models.CanonicalRecord{SourcePriority: 2, LastInteraction: date("2024-01-01")},
		))
	})

	t.Run("ingestion index then record id settle full ties", func(t *testing.T) {
		assert.True(t, outranks(
			models.CanonicalRecord{IngestionIndex: 1, RecordID: "a"},
			models.CanonicalRecord{IngestionIndex: 2, RecordID: "a"},
		))
		assert.True(t, outranks(
			models.CanonicalRecord{IngestionIndex: 1, RecordID: "a"},
			models.CanonicalRecord{IngestionIndex: 1, RecordID: "b"},
		))
	})
}
