package linkage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestNewThresholds(t *testing.T) {
	t.Run("valid ordering", func(t *testing.T) {
		th, err := NewThresholds(0.9, 0.7, 0.0)
		require.NoError(t, err)
		assert.Equal(t, 0.9, th.High)
		assert.Equal(t, 0.7, th.Review)
		assert.Equal(t, 0.0, th.Reject)
	})

	t.Run("high below review is rejected", func(t *testing.T) {
		_, err := NewThresholds(0.5, 0.7, 0.0)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("review below reject is rejected", func(t *testing.T) {
		_, err := NewThresholds(0.9, 0.2, 0.5)
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("values outside unit interval are rejected", func(t *testing.T) {
		_, err := NewThresholds(1.2, 0.7, 0.0)
		require.Error(t, err)

		_, err = NewThresholds(0.9, 0.7, -0.1)
		require.Error(t, err)
	})

	t.Run("equal thresholds are allowed", func(t *testing.T) {
		_, err := NewThresholds(0.7, 0.7, 0.7)
		assert.NoError(t, err)
	})
}

func TestThresholds_Classify(t *testing.T) {
	th, err := NewThresholds(0.9, 0.7, 0.0)
	require.NoError(t, err)

	assert.Equal(t, models.LabelMatch, th.Classify(0.95))
	assert.Equal(t, models.LabelMatch, th.Classify(0.9))
	assert.Equal(t, models.LabelReview, th.Classify(0.8))
	assert.Equal(t, models.LabelReview, th.Classify(0.7))
	assert.Equal(t, models.LabelReject, th.Classify(0.5))
	assert.Equal(t, models.LabelReject, th.Classify(0.0))
}
