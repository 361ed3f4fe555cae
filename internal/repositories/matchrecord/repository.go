// Package matchrecord persists scored match predictions.
package matchrecord

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Repository handles match prediction persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new match record repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// row carries the db-tagged columns for one stored prediction.
type row struct {
	MatchID     string    `db:"match_id"`
	RunID       string    `db:"run_id"`
	LeftID      string    `db:"left_id"`
	RightID     string    `db:"right_id"`
	Probability float64   `db:"probability"`
	Label       string    `db:"label"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreateBatch stores a run's predictions. Re-running the same batch updates
// probabilities in place instead of duplicating rows.
func (r *Repository) CreateBatch(ctx context.Context, runID string, predictions []models.MatchPrediction) error {
	ctx, span := tracing.StartSpan(ctx, "matchrecord.Repository.CreateBatch")
	defer span.End()

	if len(predictions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("match_predictions")
	sb.Cols("match_id", "run_id", "left_id", "right_id", "probability", "label", "created_at")
	for _, p := range predictions {
		sb.Values(p.MatchID, runID, p.LeftID, p.RightID, p.Probability, p.Label, now)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (match_id) DO UPDATE SET probability = EXCLUDED.probability, label = EXCLUDED.label, run_id = EXCLUDED.run_id"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to store match predictions")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to store match predictions")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(predictions), "run_id": runID}).Debug("Stored match predictions")
	return nil
}

// ListByRun retrieves a run's predictions ordered by probability
func (r *Repository) ListByRun(ctx context.Context, runID string, limit int) ([]models.MatchPrediction, error) {
	ctx, span := tracing.StartSpan(ctx, "matchrecord.Repository.ListByRun")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "run_id", "left_id", "right_id", "probability", "label", "created_at")
	sb.From("match_predictions")
	sb.Where(sb.Equal("run_id", runID))
	sb.OrderBy("probability DESC", "match_id ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list match predictions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list match predictions")
	}

	out := make([]models.MatchPrediction, len(rows))
	for i, rw := range rows {
		out[i] = models.MatchPrediction{
			MatchID:     rw.MatchID,
			RunID:       rw.RunID,
			LeftID:      rw.LeftID,
			RightID:     rw.RightID,
			Probability: rw.Probability,
			Label:       rw.Label,
		}
	}
	return out, nil
}

// Get retrieves one prediction by match id
func (r *Repository) Get(ctx context.Context, matchID string) (*models.MatchPrediction, error) {
	ctx, span := tracing.StartSpan(ctx, "matchrecord.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "run_id", "left_id", "right_id", "probability", "label", "created_at")
	sb.From("match_predictions")
	sb.Where(sb.Equal("match_id", matchID))

	query, args := sb.Build()
	var rw row
	if err := r.db.GetContext(ctx, &rw, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "match %s not found", matchID)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get match prediction")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get match prediction")
	}

	return &models.MatchPrediction{
		MatchID:     rw.MatchID,
		RunID:       rw.RunID,
		LeftID:      rw.LeftID,
		RightID:     rw.RightID,
		Probability: rw.Probability,
		Label:       rw.Label,
	}, nil
}
