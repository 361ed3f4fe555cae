package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Run("deterministic across map iteration order", func(t *testing.T) {
		a := Generate(map[string]any{"name": "aero club", "province": "malaga"})
		b := Generate(map[string]any{"province": "malaga", "name": "aero club"})
		assert.Equal(t, a, b)
	})

	t.Run("different data yields different fingerprint", func(t *testing.T) {
		a := Generate(map[string]any{"name": "aero club"})
		b := Generate(map[string]any{"name": "aero school"})
		assert.NotEqual(t, a, b)
	})

	t.Run("nested structures", func(t *testing.T) {
		a := Generate(map[string]any{"contacts": []any{map[string]any{"email": "a@b.com"}}})
		b := Generate(map[string]any{"contacts": []any{map[string]any{"email": "a@b.com"}}})
		assert.Equal(t, a, b)
	})
}

func TestMatchID(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, MatchID("aero-club", "aero-school"), MatchID("aero-school", "aero-club"))
	})

	t.Run("distinct pairs get distinct ids", func(t *testing.T) {
		assert.NotEqual(t, MatchID("a", "b"), MatchID("a", "c"))
	})
}
