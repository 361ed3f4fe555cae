// Package reviewqueue persists pairs awaiting human adjudication.
package reviewqueue

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Queue item statuses.
const (
	StatusPending = "pending"
	StatusDecided = "decided"
)

// Repository handles review queue persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new review queue repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type row struct {
	MatchID     string          `db:"match_id"`
	RunID       string          `db:"run_id"`
	LeftID      string          `db:"left_id"`
	RightID     string          `db:"right_id"`
	Probability float64         `db:"probability"`
	LeftFields  json.RawMessage `db:"left_fields"`
	RightFields json.RawMessage `db:"right_fields"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Enqueue stores a run's review items. Items already queued for the same
// match id are left untouched so pending reviews survive re-runs.
func (r *Repository) Enqueue(ctx context.Context, runID string, items []models.ReviewItem) error {
	ctx, span := tracing.StartSpan(ctx, "reviewqueue.Repository.Enqueue")
	defer span.End()

	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("review_queue")
	sb.Cols("match_id", "run_id", "left_id", "right_id", "probability", "left_fields", "right_fields", "status", "created_at")
	for _, item := range items {
		leftFields, err := json.Marshal(item.LeftFields)
		if err != nil {
			return err
		}
		rightFields, err := json.Marshal(item.RightFields)
		if err != nil {
			return err
		}
		sb.Values(item.MatchID, runID, item.Prediction.LeftID, item.Prediction.RightID, item.Prediction.Probability, leftFields, rightFields, StatusPending, now)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (match_id) DO NOTHING"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to enqueue review items")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to enqueue review items")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(items), "run_id": runID}).Debug("Enqueued review items")
	return nil
}

// ListPending retrieves pending review items, highest probability first
func (r *Repository) ListPending(ctx context.Context, limit int) ([]models.ReviewItem, error) {
	ctx, span := tracing.StartSpan(ctx, "reviewqueue.Repository.ListPending")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "run_id", "left_id", "right_id", "probability", "left_fields", "right_fields", "status", "created_at")
	sb.From("review_queue")
	sb.Where(sb.Equal("status", StatusPending))
	sb.OrderBy("probability DESC", "created_at ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list pending review items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list pending review items")
	}

	items := make([]models.ReviewItem, 0, len(rows))
	for _, rw := range rows {
		item, err := rw.toItem()
		if err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("match_id", rw.MatchID).Warn("Skipping unreadable review item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Get retrieves one review item by match id
func (r *Repository) Get(ctx context.Context, matchID string) (*models.ReviewItem, error) {
	ctx, span := tracing.StartSpan(ctx, "reviewqueue.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "run_id", "left_id", "right_id", "probability", "left_fields", "right_fields", "status", "created_at")
	sb.From("review_queue")
	sb.Where(sb.Equal("match_id", matchID))

	query, args := sb.Build()
	var rw row
	if err := r.db.GetContext(ctx, &rw, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "review item %s not found", matchID)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get review item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get review item")
	}

	item, err := rw.toItem()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to decode review item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to decode review item")
	}
	return &item, nil
}

// MarkDecided flips a pending item to decided
func (r *Repository) MarkDecided(ctx context.Context, matchID string) error {
	ctx, span := tracing.StartSpan(ctx, "reviewqueue.Repository.MarkDecided")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("review_queue")
	sb.Set(sb.Assign("status", StatusDecided))
	sb.Where(
		sb.Equal("match_id", matchID),
		sb.Equal("status", StatusPending),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to mark review item decided")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to mark review item decided")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "pending review item %s not found", matchID)
	}

	return nil
}

func (rw row) toItem() (models.ReviewItem, error) {
	var leftFields, rightFields map[string]string
	if err := json.Unmarshal(rw.LeftFields, &leftFields); err != nil {
		return models.ReviewItem{}, err
	}
	if err := json.Unmarshal(rw.RightFields, &rightFields); err != nil {
		return models.ReviewItem{}, err
	}

	return models.ReviewItem{
		MatchID: rw.MatchID,
		Prediction: models.MatchPrediction{
			MatchID:     rw.MatchID,
			LeftID:      rw.LeftID,
			RightID:     rw.RightID,
			Probability: rw.Probability,
			Label:       models.LabelReview,
		},
		LeftFields:  leftFields,
		RightFields: rightFields,
	}, nil
}
