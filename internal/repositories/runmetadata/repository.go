// Package runmetadata persists per-run thresholds, strategy and counts.
package runmetadata

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Repository handles run metadata persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new run metadata repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new run's metadata
func (r *Repository) Create(ctx context.Context, meta *models.RunMetadata) (*models.RunMetadata, error) {
	ctx, span := tracing.StartSpan(ctx, "runmetadata.Repository.Create")
	defer span.End()

	if meta.RunID == "" {
		meta.RunID = uuid.New().String()
	}
	if meta.StartedAt.IsZero() {
		meta.StartedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("run_metadata")
	sb.Cols("run_id", "strategy", "threshold_high", "threshold_review", "threshold_reject", "input_count", "output_count", "match_count", "review_count", "rejected_count", "used_fallback", "started_at", "completed_at")
	sb.Values(meta.RunID, meta.Strategy, meta.ThresholdHigh, meta.ThresholdReview, meta.ThresholdReject, meta.InputCount, meta.OutputCount, meta.MatchCount, meta.ReviewCount, meta.RejectedCount, meta.UsedFallback, meta.StartedAt, meta.CompletedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"run_id": meta.RunID}).Error("Failed to create run metadata")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create run metadata")
	}

	return meta, nil
}

// Complete stamps the run's completion and final counts
func (r *Repository) Complete(ctx context.Context, meta *models.RunMetadata) error {
	ctx, span := tracing.StartSpan(ctx, "runmetadata.Repository.Complete")
	defer span.End()

	now := time.Now().UTC()
	meta.CompletedAt = &now

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("run_metadata")
	sb.Set(
		sb.Assign("output_count", meta.OutputCount),
		sb.Assign("match_count", meta.MatchCount),
		sb.Assign("review_count", meta.ReviewCount),
		sb.Assign("rejected_count", meta.RejectedCount),
		sb.Assign("used_fallback", meta.UsedFallback),
		sb.Assign("strategy", meta.Strategy),
		sb.Assign("completed_at", now),
	)
	sb.Where(sb.Equal("run_id", meta.RunID))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to complete run metadata")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to complete run metadata")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "run %s not found", meta.RunID)
	}

	return nil
}

// Get retrieves a run by id
func (r *Repository) Get(ctx context.Context, runID string) (*models.RunMetadata, error) {
	ctx, span := tracing.StartSpan(ctx, "runmetadata.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("run_id", "strategy", "threshold_high", "threshold_review", "threshold_reject", "input_count", "output_count", "match_count", "review_count", "rejected_count", "used_fallback", "started_at", "completed_at")
	sb.From("run_metadata")
	sb.Where(sb.Equal("run_id", runID))

	query, args := sb.Build()
	var meta models.RunMetadata
	if err := r.db.GetContext(ctx, &meta, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "run %s not found", runID)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get run metadata")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get run metadata")
	}

	return &meta, nil
}

// List retrieves recent runs, newest first
func (r *Repository) List(ctx context.Context, limit int) ([]models.RunMetadata, error) {
	ctx, span := tracing.StartSpan(ctx, "runmetadata.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("run_id", "strategy", "threshold_high", "threshold_review", "threshold_reject", "input_count", "output_count", "match_count", "review_count", "rejected_count", "used_fallback", "started_at", "completed_at")
	sb.From("run_metadata")
	sb.OrderBy("started_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var runs []models.RunMetadata
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list runs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list runs")
	}

	return runs, nil
}
