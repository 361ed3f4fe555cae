// Package runs exposes run metadata and per-run match predictions.
package runs

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/matchrecord"
	"github.com/Ramsey-B/fern/internal/repositories/runmetadata"
)

// Register registers run routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.GET("/:run_id", Get)
	g.GET("/:run_id/matches", ListMatches)
}

// List returns recent runs, newest first
func List(c echo.Context) error {
	ctx := c.Request().Context()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*runmetadata.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	runs, err := repo.List(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, runs)
}

// Get returns one run's metadata
func Get(c echo.Context) error {
	ctx := c.Request().Context()

	runID := c.Param("run_id")
	if runID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "run_id is required")
	}

	ctx, repo, err := ectoinject.GetContext[*runmetadata.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	meta, err := repo.Get(ctx, runID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meta)
}

// ListMatches returns a run's predictions ordered by probability
func ListMatches(c echo.Context) error {
	ctx := c.Request().Context()

	runID := c.Param("run_id")
	if runID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "run_id is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, repo, err := ectoinject.GetContext[*matchrecord.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get repository")
	}

	matches, err := repo.ListByRun(ctx, runID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, matches)
}
