package aggregation

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/scoring"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// EngineConfig carries the tunables for one aggregation engine.
type EngineConfig struct {
	SourcePriorities   map[string]int
	DefaultCountryCode string
	GroupWorkers       int
	LeadWeights        map[string]float64
	IntentScores       map[string]float64
}

// Engine screens, groups and reduces source records into canonical records.
// Groups are independent, so they reduce in parallel; rows inside a group
// reduce sequentially in rank order so output is deterministic.
type Engine struct {
	logger     ectologger.Logger
	validator  validation.ContactValidator
	reducer    *FieldReducer
	leadScorer *scoring.LeadScorer
	config     EngineConfig
}

// NewEngine validates configuration up front so a misconfigured engine
// never starts processing.
func NewEngine(logger ectologger.Logger, validator validation.ContactValidator, config EngineConfig) (*Engine, error) {
	weights := config.LeadWeights
	if weights == nil {
		weights = scoring.DefaultLeadWeights()
	}

	maxPriority := 0
	for _, p := range config.SourcePriorities {
		if p > maxPriority {
			maxPriority = p
		}
	}

	leadScorer, err := scoring.NewLeadScorer(weights, maxPriority)
	if err != nil {
		return nil, err
	}

	if validator == nil {
		validator = validation.NopValidator{}
	}
	if config.GroupWorkers <= 0 {
		config.GroupWorkers = 4
	}

	return &Engine{
		logger:     logger,
		validator:  validator,
		reducer:    NewFieldReducer(config.DefaultCountryCode),
		leadScorer: leadScorer,
		config:     config,
	}, nil
}

// Screen partitions a batch into usable and rejected rows. A row without an
// organization name cannot be keyed, so it is rejected; rejection never
// fails the batch.
func (e *Engine) Screen(records []models.SourceRecord) models.ValidationReport {
	report := models.ValidationReport{
		Valid: make([]models.SourceRecord, 0, len(records)),
	}
	for _, rec := range records {
		if normalizers.NormalizeName(rec.OrgName) == "" {
			report.Rejected = append(report.Rejected, models.RejectedRecord{
				Record: rec,
				Reason: "missing org_name",
			})
			continue
		}
		report.Valid = append(report.Valid, rec)
	}
	return report
}

// group is one canonical key's worth of rows, tagged with the order its key
// first appeared in the batch so output ordering is stable.
type group struct {
	slug string
	rows []rankedRow
}

// groupResult is the per-group output slot written by a worker.
type groupResult struct {
	record      models.CanonicalRecord
	conflicts   []models.ConflictEntry
	diagnostics []models.Diagnostic
}

// Aggregate runs the full reduction: screen, group by canonical key, reduce
// each group, then validate contacts and score the survivors. Returns an
// error only on cancellation; per-row problems land in the report or the
// diagnostics.
func (e *Engine) Aggregate(ctx context.Context, records []models.SourceRecord) (*models.AggregationResult, error) {
	ctx, span := tracing.StartSpan(ctx, "aggregation.Aggregate")
	defer span.End()

	log := e.logger.WithContext(ctx).WithField("records", len(records))

	report := e.Screen(records)
	groups := e.groupByKey(report.Valid)

	log.WithFields(map[string]interface{}{
		"rejected": len(report.Rejected),
		"groups":   len(groups),
	}).Info("Reducing record groups")

	results := make([]groupResult, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.GroupWorkers)
	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.reduceGroup(gctx, grp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregation canceled: %w", err)
	}

	result := &models.AggregationResult{
		Records: make([]models.CanonicalRecord, 0, len(groups)),
		Report:  report,
	}
	for _, res := range results {
		result.Records = append(result.Records, res.record)
		result.Conflicts = append(result.Conflicts, res.conflicts...)
		result.Diagnostics = append(result.Diagnostics, res.diagnostics...)
	}

	log.WithField("conflicts", len(result.Conflicts)).Info("Aggregation complete")
	return result, nil
}

// groupByKey buckets valid rows by canonical key. The key is the provided
// slug when present, otherwise the slug of the organization name. Groups
// keep the order their key first appeared.
func (e *Engine) groupByKey(records []models.SourceRecord) []group {
	index := make(map[string]int)
	groups := make([]group, 0)
	for i, rec := range records {
		key := normalizers.Slug(rec.Slug)
		if key == "" {
			key = normalizers.Slug(rec.OrgName)
		}
		row := rankedRow{
			Record: rec,
			Meta:   computeMetadata(i, rec, e.config.SourcePriorities),
		}
		if at, ok := index[key]; ok {
			groups[at].rows = append(groups[at].rows, row)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, group{slug: key, rows: []rankedRow{row}})
	}
	return groups
}

// reduceGroup reduces one group end to end: rank, field-reduce, contact
// validation, quality and lead scoring. Validator failures degrade to absent
// confidences plus a diagnostic instead of failing the group.
func (e *Engine) reduceGroup(ctx context.Context, grp group) groupResult {
	sortByRank(grp.rows)

	record, conflicts := e.reducer.Reduce(grp.slug, grp.rows)
	res := groupResult{conflicts: conflicts}

	countryCode := e.countryCodeFor(grp.rows)

	summary, err := e.validator.Validate(ctx, record.PrimaryContact.Email, record.PrimaryContact.Phone, countryCode)
	if err != nil {
		adapterErr := models.NewValidationAdapterError(record.RecordID, err)
		e.logger.WithContext(ctx).WithError(adapterErr).WithField("slug", record.Slug).Warn("Contact validator failed; continuing without confidences")
		res.diagnostics = append(res.diagnostics, models.Diagnostic{
			Stage:    "contact_validation",
			Code:     "validator_error",
			Message:  adapterErr.Error(),
			RecordID: record.RecordID,
		})
	} else if summary != nil {
		record.EmailConfidence = summary.EmailConfidence
		record.PhoneConfidence = summary.PhoneConfidence
		record.EmailStatus = summary.EmailStatus
		record.PhoneStatus = summary.PhoneStatus
	}

	quality := scoring.ScoreQuality(
		record.PrimaryContact.Email,
		record.PrimaryContact.Phone,
		record.Website,
		record.Province,
		record.Address,
	)
	record.DataQualityScore = quality.Score
	record.QualityFlags = quality.Flags

	record.LeadScore = e.leadScorer.Score(scoring.LeadInputs{
		HasName:         record.PrimaryContact.Name != "",
		HasEmail:        record.PrimaryContact.Email != "",
		HasPhone:        record.PrimaryContact.Phone != "",
		HasRole:         record.PrimaryContact.Role != "",
		EmailConfidence: record.EmailConfidence,
		PhoneConfidence: record.PhoneConfidence,
		SourcePriority:  record.SourcePriority,
		IntentScore:     e.config.IntentScores[record.Slug],
	})

	res.record = record
	return res
}

// countryCodeFor picks the first row-level country code in rank order,
// falling back to the configured default.
func (e *Engine) countryCodeFor(rows []rankedRow) string {
	for _, row := range rows {
		if row.Record.CountryCode != "" {
			return row.Record.CountryCode
		}
	}
	return e.config.DefaultCountryCode
}
