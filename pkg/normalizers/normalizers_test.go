package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Run("folds case and diacritics", func(t *testing.T) {
		assert.Equal(t, "aero club malaga", NormalizeName("Aéro Club MÁLAGA"))
	})

	t.Run("collapses punctuation and whitespace", func(t *testing.T) {
		assert.Equal(t, "aero club s l", NormalizeName("Aero  Club, S.L."))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeName("   "))
	})
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "aero-club-s-l", Slug("Aero Club, S.L."))
	assert.Equal(t, "", Slug("!!!"))
}

func TestNormalizeWebsite(t *testing.T) {
	t.Run("strips scheme www and trailing slash", func(t *testing.T) {
		assert.Equal(t, "example.com", NormalizeWebsite("https://www.Example.com/"))
	})

	t.Run("same host compares equal across forms", func(t *testing.T) {
		assert.Equal(t, NormalizeWebsite("http://example.com/path"), NormalizeWebsite("https://www.example.com/path"))
	})
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+34912345678", NormalizePhone("+34 912 345 678"))
	assert.Equal(t, "912345678", NormalizePhone("912-345-678"))
}

func TestCanonicalPhone(t *testing.T) {
	t.Run("prefixes national numbers with the calling code", func(t *testing.T) {
		assert.Equal(t, "+34912345678", CanonicalPhone("912 345 678", "ES"))
	})

	t.Run("leaves international numbers alone", func(t *testing.T) {
		assert.Equal(t, "+34912345678", CanonicalPhone("+34 912 345 678", "ES"))
	})

	t.Run("already prefixed without plus", func(t *testing.T) {
		assert.Equal(t, "+34912345678", CanonicalPhone("34912345678", "ES"))
	})

	t.Run("unknown country keeps digits", func(t *testing.T) {
		assert.Equal(t, "912345678", CanonicalPhone("912 345 678", "XX"))
	})

	t.Run("same line compares equal across formats", func(t *testing.T) {
		assert.Equal(t, CanonicalPhone("912345678", "ES"), CanonicalPhone("+34 912-345-678", "ES"))
	})
}

func TestNormalizeProvince(t *testing.T) {
	assert.Equal(t, "malaga", NormalizeProvince("  Málaga "))
}

func TestRegistry(t *testing.T) {
	t.Run("built-ins are registered", func(t *testing.T) {
		for _, name := range []string{"lowercase", "trim", "nphone", "nemail", "nwebsite", "nprovince", "nname", "slug"} {
			_, ok := Get(name)
			assert.True(t, ok, name)
		}
	})

	t.Run("apply unknown normalizer is a passthrough", func(t *testing.T) {
		assert.Equal(t, "Value", Apply("Value", "nope"))
	})

	t.Run("apply chain", func(t *testing.T) {
		assert.Equal(t, "málaga", ApplyChain("  MÁLAGA ", "lowercase", "trim"))
	})
}
