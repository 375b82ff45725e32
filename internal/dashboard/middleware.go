//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dashboard

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/metrics"
)

// Errors returned to API clients.
var (
	ErrDatasetUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "dataset unavailable")
	ErrInvalidQuery       = fiber.NewError(fiber.StatusBadRequest, "invalid query string")
)

func setupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(requestLogger)
}

// requestLogger logs each request and records it in the request metrics.
// Handler errors are rendered here so the logged status is the one sent.
func requestLogger(c fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := errorHandler(c, err); herr != nil {
			return herr
		}
	}

	status := c.Response().StatusCode()
	elapsed := time.Since(start)
	route := c.Route().Path
	metrics.RecordRequest(route, c.Method(), status, elapsed)

	event := logging.Debug()
	if status >= fiber.StatusInternalServerError {
		event = logging.Warn()
	}
	event.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", elapsed).
		Msg("Request")

	return nil
}

// errorHandler renders every error as {"error": ..., "code": ...}.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if ok := errors.As(err, &fiberErr); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		logging.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
