package aggregation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/validation"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type stubValidator struct {
	summary *validation.ValidationSummary
	err     error
	calls   int
}

func (s *stubValidator) Validate(ctx context.Context, email, phone, countryCode string) (*validation.ValidationSummary, error) {
	s.calls++
	return s.summary, s.err
}

func testConfig() EngineConfig {
	return EngineConfig{
		SourcePriorities:   map[string]int{"crm": 3, "erp": 2, "web": 1},
		DefaultCountryCode: "ES",
		GroupWorkers:       4,
	}
}

func TestNewEngine(t *testing.T) {
	t.Run("empty lead weights are a configuration error", func(t *testing.T) {
		_, err := NewEngine(testLogger(), nil, EngineConfig{LeadWeights: map[string]float64{}})
		require.Error(t, err)
		assert.True(t, models.IsConfigurationError(err))
	})

	t.Run("nil lead weights fall back to defaults", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})
}

func TestEngine_Screen(t *testing.T) {
	engine, err := NewEngine(testLogger(), nil, testConfig())
	require.NoError(t, err)

	report := engine.Screen([]models.SourceRecord{
		{OrgName: "Aero Club", Dataset: "crm", RecordID: "c1"},
		{OrgName: "   ", Dataset: "erp", RecordID: "e1"},
		{OrgName: "...", Dataset: "erp", RecordID: "e2"},
	})

	assert.Len(t, report.Valid, 1)
	require.Len(t, report.Rejected, 2)
	assert.Equal(t, "missing org_name", report.Rejected[0].Reason)
	assert.Equal(t, "e1", report.Rejected[0].Record.RecordID)
}

func TestEngine_Aggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("higher priority source wins conflicting fields", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{OrgName: "Aero Club", Slug: "aero-club", Dataset: "erp", RecordID: "e1", Website: "http://a.com"},
			{OrgName: "Aero Club", Slug: "aero-club", Dataset: "crm", RecordID: "c1", Website: "http://b.com"},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		rec := result.Records[0]
		assert.Equal(t, "aero-club", rec.Slug)
		assert.Equal(t, "http://b.com", rec.Website)
		assert.Equal(t, 2, rec.SourceCount)

		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, "website", result.Conflicts[0].Field)
		assert.Equal(t, "http://b.com", result.Conflicts[0].Value)
	})

	t.Run("recency breaks priority and quality ties", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		older := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		newer := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c1", Address: "Calle Vieja 1", LastInteraction: &older},
			{OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c2", Address: "Calle Nueva 2", LastInteraction: &newer},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		assert.Equal(t, "Calle Nueva 2", result.Records[0].Address)
		assert.Equal(t, "c2", result.Records[0].RecordID)
	})

	t.Run("records without a slug group by organization name", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{OrgName: "Aero Club, S.L.", Dataset: "crm", RecordID: "c1"},
			{OrgName: "aero club s.l.", Dataset: "erp", RecordID: "e1"},
			{OrgName: "Otra Empresa", Dataset: "erp", RecordID: "e2"},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 2)
		assert.Equal(t, "aero-club-s-l", result.Records[0].Slug)
		assert.Equal(t, 2, result.Records[0].SourceCount)
		assert.Equal(t, "otra-empresa", result.Records[1].Slug)
	})

	t.Run("group order follows first appearance regardless of workers", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		records := []models.SourceRecord{
			{OrgName: "Zeta", Slug: "zeta", Dataset: "web", RecordID: "w1"},
			{OrgName: "Alfa", Slug: "alfa", Dataset: "web", RecordID: "w2"},
			{OrgName: "Beta", Slug: "beta", Dataset: "web", RecordID: "w3"},
		}

		first, err := engine.Aggregate(ctx, records)
		require.NoError(t, err)
		second, err := engine.Aggregate(ctx, records)
		require.NoError(t, err)

		require.Len(t, first.Records, 3)
		assert.Equal(t, "zeta", first.Records[0].Slug)
		assert.Equal(t, "alfa", first.Records[1].Slug)
		assert.Equal(t, "beta", first.Records[2].Slug)
		assert.Equal(t, first.Records, second.Records)
	})

	t.Run("validator summary lands on the record", func(t *testing.T) {
		emailConf, phoneConf := 0.97, 0.85
		stub := &stubValidator{summary: &validation.ValidationSummary{
			EmailConfidence: &emailConf,
			PhoneConfidence: &phoneConf,
			EmailStatus:     "deliverable",
			PhoneStatus:     "valid",
		}}

		engine, err := NewEngine(testLogger(), stub, testConfig())
		require.NoError(t, err)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c1", Emails: []string{"ana@acme.com"}, Phones: []string{"+34912345678"}},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		rec := result.Records[0]
		assert.Equal(t, 1, stub.calls)
		require.NotNil(t, rec.EmailConfidence)
		assert.Equal(t, 0.97, *rec.EmailConfidence)
		assert.Equal(t, "deliverable", rec.EmailStatus)
		assert.Equal(t, "valid", rec.PhoneStatus)
	})

	t.Run("validator failure degrades to a diagnostic", func(t *testing.T) {
		stub := &stubValidator{err: errors.New("upstream timeout")}

		engine, err := NewEngine(testLogger(), stub, testConfig())
		require.NoError(t, err)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c1", Emails: []string{"ana@acme.com"}},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		assert.Nil(t, result.Records[0].EmailConfidence)
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, "contact_validation", result.Diagnostics[0].Stage)
		assert.Equal(t, "validator_error", result.Diagnostics[0].Code)
	})

	t.Run("quality and lead scores are populated", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		result, err := engine.Aggregate(ctx, []models.SourceRecord{
			{
				OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c1",
				Province: "Malaga", Address: "Calle Mayor 1", Website: "acme.com",
				Emails: []string{"ana@acme.com"}, Phones: []string{"+34912345678"},
				ContactNames: []string{"Ana"}, ContactRoles: []string{"Directora"},
			},
		})
		require.NoError(t, err)

		require.Len(t, result.Records, 1)
		rec := result.Records[0]
		assert.Equal(t, 1.0, rec.DataQualityScore)
		assert.Equal(t, []string{"none"}, rec.QualityFlags)
		assert.Greater(t, rec.LeadScore, 0.0)
		assert.LessOrEqual(t, rec.LeadScore, 1.0)
	})

	t.Run("canceled context aborts the run", func(t *testing.T) {
		engine, err := NewEngine(testLogger(), nil, testConfig())
		require.NoError(t, err)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = engine.Aggregate(canceled, []models.SourceRecord{
			{OrgName: "Acme", Slug: "acme", Dataset: "crm", RecordID: "c1"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
