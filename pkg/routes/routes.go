// Package routes assembles the HTTP API.
package routes

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/routes/health"
	"github.com/Ramsey-B/fern/pkg/routes/reviewqueue"
	"github.com/Ramsey-B/fern/pkg/routes/runs"
)

// Register wires middleware and all route groups onto the echo instance.
func Register(e *echo.Echo, logger ectologger.Logger, checker *health.Checker) {
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(otelecho.Middleware("fern"))
	e.Use(echomiddleware.Recover())

	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	reviewqueue.Register(api.Group("/review-queue"))
	runs.Register(api.Group("/runs"))
}
