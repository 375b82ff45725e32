//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/dashboard"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/metrics"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

var (
	serveAddr        string
	serveTableRows   int
	serveTopProducts int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	Long: `Load the dataset once and serve the dashboard over HTTP until
interrupted with Ctrl+C. Filters are chosen per request in the page or with
the country, category, year and return_status query parameters of the
JSON API.

Example:
  pgedge-salesdash serve --data online_sales_dataset_cleaned.csv
  pgedge-salesdash serve --source postgres --connection "postgres://..." --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :8050)")
	serveCmd.Flags().IntVar(&serveTableRows, "table-rows", -1,
		"rows shown by the data table panel (0 = all)")
	serveCmd.Flags().IntVar(&serveTopProducts, "top-products", 0,
		"length of the top products ranking")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if serveTableRows >= 0 {
		cfg.Serve.TableRows = serveTableRows
	}
	if serveTopProducts > 0 {
		cfg.Serve.TopProducts = serveTopProducts
	}

	// Validate configuration
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Load before listening so a bad dataset fails the command.
	start := time.Now()
	base, err := loadBase(ctx)
	if err != nil {
		return err
	}
	metrics.RecordDataset(base.Len(), time.Since(start))

	server, err := dashboard.New(ctx, dataset.NewStaticStore(base), dashboard.Options{
		Addr:            cfg.Serve.Addr,
		TableRows:       cfg.Serve.TableRows,
		TopProducts:     cfg.Serve.TopProducts,
		RFM:             rfm.Options{MinYear: cfg.RFM.MinYear, MaxYear: cfg.RFM.MaxYear},
		ShutdownTimeout: time.Duration(cfg.Serve.ShutdownTimeout) * time.Second,
	})
	if err != nil {
		return err
	}

	logging.Info().
		Str("addr", cfg.Serve.Addr).
		Str("source", cfg.Source.Type).
		Int("rows", base.Len()).
		Msg("Dashboard ready")

	return server.Run(ctx)
}
