package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourcePriorities(t *testing.T) {
	t.Run("parses dataset rank pairs", func(t *testing.T) {
		cfg := Config{SourcePriorities: "crm:3, erp:2,web:1"}
		table, err := cfg.ParseSourcePriorities()
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"crm": 3, "erp": 2, "web": 1}, table)
	})

	t.Run("empty value yields an empty table", func(t *testing.T) {
		table, err := Config{}.ParseSourcePriorities()
		require.NoError(t, err)
		assert.Empty(t, table)
	})

	t.Run("missing rank is an error", func(t *testing.T) {
		_, err := Config{SourcePriorities: "crm"}.ParseSourcePriorities()
		assert.Error(t, err)
	})

	t.Run("non-numeric rank is an error", func(t *testing.T) {
		_, err := Config{SourcePriorities: "crm:high"}.ParseSourcePriorities()
		assert.Error(t, err)
	})
}

func TestLeadWeights(t *testing.T) {
	cfg := Config{
		LeadWeightCompleteness: 0.3,
		LeadWeightEmail:        0.25,
		LeadWeightPhone:        0.15,
		LeadWeightPriority:     0.2,
		LeadWeightIntent:       0.1,
	}
	weights := cfg.LeadWeights()
	assert.Equal(t, 0.3, weights["completeness"])
	assert.Equal(t, 0.1, weights["intent"])
	assert.Len(t, weights, 5)
}
