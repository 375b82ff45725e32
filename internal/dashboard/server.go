//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dashboard serves the interactive sales dashboard: an HTML page
// with five panels and a JSON API over the same views.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8050"

	// DefaultTableRows is the number of rows shown by the data table panel.
	DefaultTableRows = 100

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Options configures the dashboard server.
type Options struct {
	Addr            string
	TableRows       int
	TopProducts     int
	RFM             rfm.Options
	ShutdownTimeout time.Duration
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Addr:            DefaultAddr,
		TableRows:       DefaultTableRows,
		TopProducts:     report.DefaultTopProducts,
		RFM:             rfm.DefaultOptions(),
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func (o Options) reportOptions() report.Options {
	return report.Options{TopProducts: o.TopProducts, RFM: o.RFM}
}

// Server is the dashboard HTTP server. Every request recomputes its views
// from the cached base table.
type Server struct {
	ctx   context.Context
	app   *fiber.App
	store *dataset.Store
	opts  Options
	page  *template.Template
}

// New builds the fiber application and registers every route. ctx is used
// for loading the base table if the store has not loaded it yet.
func New(ctx context.Context, store *dataset.Store, opts Options) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ctx:   ctx,
		store: store,
		opts:  opts,
		page:  page,
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "pgEdge Sales Dashboard",
	})
	setupMiddleware(s.app)
	s.routes()

	return s, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Get("/", s.handleIndex)
	s.app.Get("/healthz", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Get("/filters", s.handleFilters)
	api.Get("/overview", s.handleOverview)
	api.Get("/table", s.handleTable)
	api.Get("/rfm", s.handleRFM)
	api.Get("/products", s.handleProducts)
	api.Get("/trends", s.handleTrends)
	api.Get("/export.csv", s.handleExport)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           adaptor.FiberApp(s.app),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.opts.Addr).Msg("Starting dashboard server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dashboard server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("Stopping dashboard server")

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
