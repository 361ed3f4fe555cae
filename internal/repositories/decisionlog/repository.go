// Package decisionlog persists the append-only reviewer decision log.
package decisionlog

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

// Repository handles reviewer decision persistence. Decisions are append
// only: the first decision for a match id wins and later appends are no-ops.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new decision log repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Append records a decision. Returns false when a decision for the match id
// already exists, so re-processing a pair never duplicates adjudications.
func (r *Repository) Append(ctx context.Context, decision models.ReviewerDecision) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "decisionlog.Repository.Append")
	defer span.End()

	if decision.DecidedAt.IsZero() {
		decision.DecidedAt = time.Now().UTC()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("reviewer_decisions")
	sb.Cols("match_id", "decision", "reviewer", "decided_at")
	sb.Values(decision.MatchID, decision.Decision, decision.Reviewer, decision.DecidedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (match_id) DO NOTHING"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("match_id", decision.MatchID).Error("Failed to append reviewer decision")
		return false, httperror.NewHTTPError(http.StatusInternalServerError, "failed to append reviewer decision")
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// Get retrieves the decision for a match id
func (r *Repository) Get(ctx context.Context, matchID string) (*models.ReviewerDecision, error) {
	ctx, span := tracing.StartSpan(ctx, "decisionlog.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "decision", "reviewer", "decided_at")
	sb.From("reviewer_decisions")
	sb.Where(sb.Equal("match_id", matchID))

	query, args := sb.Build()
	var decision models.ReviewerDecision
	if err := r.db.GetContext(ctx, &decision, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "no decision for match %s", matchID)
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get reviewer decision")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get reviewer decision")
	}

	return &decision, nil
}

// List retrieves decisions in append order
func (r *Repository) List(ctx context.Context, limit int) ([]models.ReviewerDecision, error) {
	ctx, span := tracing.StartSpan(ctx, "decisionlog.Repository.List")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("match_id", "decision", "reviewer", "decided_at")
	sb.From("reviewer_decisions")
	sb.OrderBy("decided_at ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var decisions []models.ReviewerDecision
	if err := r.db.SelectContext(ctx, &decisions, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list reviewer decisions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list reviewer decisions")
	}

	return decisions, nil
}
