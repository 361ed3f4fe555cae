package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestNewReviewProjector(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		p := NewReviewProjector()
		assert.Equal(t, DefaultReviewFields, p.Fields())
	})

	t.Run("caller fields merge in order-preserving and deduped", func(t *testing.T) {
		p := NewReviewProjector("website", "slug", "category")
		assert.Equal(t, []string{
			"org_name", "slug", "province", "address", "primary_email", "primary_phone",
			"website", "category",
		}, p.Fields())
	})
}

func TestReviewProjector_Project(t *testing.T) {
	rec := models.CanonicalRecord{
		OrgName:  "Aero Club",
		Slug:     "aero-club",
		Province: "Malaga",
		Address:  "Calle Mayor 1",
		Website:  "aeroclub.es",
		PrimaryContact: models.Contact{
			Name:  "Ana",
			Email: "ana@aeroclub.es",
			Phone: "+34912345678",
		},
	}

	t.Run("default projection", func(t *testing.T) {
		fields := NewReviewProjector().Project(rec)
		assert.Equal(t, "Aero Club", fields["org_name"])
		assert.Equal(t, "aero-club", fields["slug"])
		assert.Equal(t, "ana@aeroclub.es", fields["primary_email"])
		assert.Equal(t, "+34912345678", fields["primary_phone"])
	})

	t.Run("unknown fields project empty", func(t *testing.T) {
		fields := NewReviewProjector("bogus").Project(rec)
		assert.Equal(t, "", fields["bogus"])
	})
}

func TestReviewProjector_Item(t *testing.T) {
	pred := models.MatchPrediction{
		MatchID: "m-1", LeftID: "aero-club", RightID: "aero-club-malaga",
		Probability: 0.8, Label: models.LabelReview,
	}
	left := models.CanonicalRecord{OrgName: "Aero Club", Slug: "aero-club"}
	right := models.CanonicalRecord{OrgName: "Aero Club Malaga", Slug: "aero-club-malaga"}

	item := NewReviewProjector().Item(pred, left, right)
	assert.Equal(t, "m-1", item.MatchID)
	assert.Equal(t, pred, item.Prediction)
	assert.Equal(t, "Aero Club", item.LeftFields["org_name"])
	assert.Equal(t, "Aero Club Malaga", item.RightFields["org_name"])
}

func TestDecisionLog(t *testing.T) {
	log := NewDecisionLog()

	decision := models.ReviewerDecision{MatchID: "m-1", Decision: "approve", Reviewer: "ana"}
	assert.True(t, log.Append(decision))

	t.Run("re-appending the same match id is a no-op", func(t *testing.T) {
		assert.False(t, log.Append(models.ReviewerDecision{MatchID: "m-1", Decision: "reject"}))
		assert.Len(t, log.Decisions(), 1)
		assert.Equal(t, "approve", log.Decisions()[0].Decision)
	})

	t.Run("distinct match ids append in order", func(t *testing.T) {
		assert.True(t, log.Append(models.ReviewerDecision{MatchID: "m-2", Decision: "reject"}))
		decisions := log.Decisions()
		assert.Len(t, decisions, 2)
		assert.Equal(t, "m-1", decisions[0].MatchID)
		assert.Equal(t, "m-2", decisions[1].MatchID)
	})

	t.Run("has", func(t *testing.T) {
		assert.True(t, log.Has("m-1"))
		assert.False(t, log.Has("m-9"))
	})
}
