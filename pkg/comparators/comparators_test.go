package comparators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	s := NewScorer()

	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Ratio("aero club", "aero club"))
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Ratio("", "aero club"))
		assert.Equal(t, 0.0, s.Ratio("aero club", ""))
	})

	t.Run("close strings score high", func(t *testing.T) {
		assert.Greater(t, s.Ratio("aero club", "aero clab"), 0.8)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		assert.Less(t, s.Ratio("aero club", "panaderia lopez"), 0.5)
	})
}

func TestTokenSortRatio(t *testing.T) {
	s := NewScorer()

	t.Run("word order is ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TokenSortRatio("club aero", "aero club"))
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.TokenSortRatio("", "aero club"))
	})
}

func TestTokenSetRatio(t *testing.T) {
	s := NewScorer()

	t.Run("extra tokens on one side", func(t *testing.T) {
		assert.Equal(t, 1.0, s.TokenSetRatio("aero club", "aero club de madrid"))
	})

	t.Run("disjoint token sets score low", func(t *testing.T) {
		assert.Less(t, s.TokenSetRatio("aero club", "panaderia lopez"), 0.5)
	})
}

func TestPartialRatio(t *testing.T) {
	s := NewScorer()

	t.Run("substring scores one", func(t *testing.T) {
		assert.Equal(t, 1.0, s.PartialRatio("912345678", "+34912345678"))
	})

	t.Run("empty side scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.PartialRatio("", "912345678"))
	})
}

func TestExactMatch(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.ExactMatch("a@b.com", "a@b.com"))
	assert.Equal(t, 0.0, s.ExactMatch("a@b.com", "c@d.com"))
	assert.Equal(t, 0.0, s.ExactMatch("", ""))
}

func TestLevenshteinDistance(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 0, s.LevenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, s.LevenshteinDistance("", "abc"))
	assert.Equal(t, 1, s.LevenshteinDistance("abc", "abd"))
	assert.Equal(t, 3, s.LevenshteinDistance("kitten", "sitting"))
}
