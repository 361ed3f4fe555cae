package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestNewLeadScorer(t *testing.T) {
	t.Run("empty weight map is a configuration error", func(t *testing.T) {
		_, err := NewLeadScorer(map[string]float64{}, 3)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("default weights are accepted", func(t *testing.T) {
		scorer, err := NewLeadScorer(DefaultLeadWeights(), 3)
		require.NoError(t, err)
		assert.NotNil(t, scorer)
	})
}

func TestLeadScorer_Score(t *testing.T) {
	scorer, err := NewLeadScorer(DefaultLeadWeights(), 3)
	require.NoError(t, err)

	conf := func(v float64) *float64 { return &v }

	t.Run("score stays in unit range", func(t *testing.T) {
		full := scorer.Score(LeadInputs{
			HasName: true, HasEmail: true, HasPhone: true, HasRole: true,
			EmailConfidence: conf(1), PhoneConfidence: conf(1),
			SourcePriority: 3, IntentScore: 1,
		})
		empty := scorer.Score(LeadInputs{})
		assert.InDelta(t, 1.0, full, 1e-9)
		assert.InDelta(t, 0.0, empty, 1e-9)
	})

	t.Run("non-decreasing in completeness", func(t *testing.T) {
		base := LeadInputs{EmailConfidence: conf(0.5), SourcePriority: 2}
		prev := scorer.Score(base)

		base.HasName = true
		withName := scorer.Score(base)
		assert.GreaterOrEqual(t, withName, prev)

		base.HasEmail = true
		withEmail := scorer.Score(base)
		assert.GreaterOrEqual(t, withEmail, withName)

		base.HasPhone = true
		base.HasRole = true
		all := scorer.Score(base)
		assert.GreaterOrEqual(t, all, withEmail)
	})

	t.Run("missing confidences count as zero", func(t *testing.T) {
		without := scorer.Score(LeadInputs{HasName: true})
		with := scorer.Score(LeadInputs{HasName: true, EmailConfidence: conf(0.9)})
		assert.Greater(t, with, without)
	})

	t.Run("components are clamped", func(t *testing.T) {
		clamped := scorer.Score(LeadInputs{IntentScore: 5.0})
		reference := scorer.Score(LeadInputs{IntentScore: 1.0})
		assert.Equal(t, reference, clamped)
	})

	t.Run("zero active weight yields zero", func(t *testing.T) {
		zeroed, err := NewLeadScorer(map[string]float64{
			ComponentCompleteness: 0,
			ComponentIntent:       0,
		}, 3)
		require.NoError(t, err)
		assert.Equal(t, 0.0, zeroed.Score(LeadInputs{HasName: true, IntentScore: 1}))
	})

	t.Run("unknown component names are ignored", func(t *testing.T) {
		custom, err := NewLeadScorer(map[string]float64{
			ComponentCompleteness: 1.0,
			"mystery":             1.0,
		}, 3)
		require.NoError(t, err)
		full := custom.Score(LeadInputs{HasName: true, HasEmail: true, HasPhone: true, HasRole: true})
		assert.InDelta(t, 1.0, full, 1e-9)
	})
}
