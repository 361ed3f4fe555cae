// Package reviewqueue exposes the human review workflow: listing queued
// pairs and recording reviewer decisions.
package reviewqueue

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/reviewqueue"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/processor"
)

var validate = validator.New()

// DecisionRequest is the reviewer's adjudication of a queued pair
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reviewer string `json:"reviewer" validate:"required"`
}

// DecisionResponse reports whether the decision was newly recorded
type DecisionResponse struct {
	MatchID  string `json:"match_id"`
	Decision string `json:"decision"`
	Recorded bool   `json:"recorded"`
}

// Register registers review queue routes
func Register(g *echo.Group) {
	g.GET("", ListPending)
	g.GET("/:match_id", Get)
	g.POST("/:match_id/decision", Decide)
}

// ListPending lists pairs awaiting review, highest probability first
func ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*reviewqueue.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	items, err := repo.ListPending(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, items)
}

// Get returns one queued pair by match id
func Get(c echo.Context) error {
	ctx := c.Request().Context()

	matchID := c.Param("match_id")
	if matchID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "match_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*reviewqueue.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	item, err := repo.Get(ctx, matchID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// Decide records a reviewer decision for a queued pair. Idempotent: a match
// id that already has a decision reports recorded=false.
func Decide(c echo.Context) error {
	ctx := c.Request().Context()

	matchID := c.Param("match_id")
	if matchID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "match_id is required")
	}

	var req DecisionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, proc, err := ectoinject.GetContext[*processor.Processor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get processor")
	}

	recorded, err := proc.RecordDecision(ctx, models.ReviewerDecision{
		MatchID:   matchID,
		Decision:  req.Decision,
		Reviewer:  req.Reviewer,
		DecidedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{
			"match_id": matchID,
			"decision": req.Decision,
			"recorded": recorded,
		}).Info("Reviewer decision handled")
	}

	return c.JSON(http.StatusOK, DecisionResponse{
		MatchID:  matchID,
		Decision: req.Decision,
		Recorded: recorded,
	})
}
