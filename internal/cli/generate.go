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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/datagen"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/db"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

var (
	genOutput              string
	genPath                string
	genCustomers           int
	genInvoices            int
	genStartYear           int
	genEndYear             int
	genRefundRate          float64
	genMissingCustomerRate float64
	genProfile             string
	genSeed                int64
	genDropExisting        bool
	genQuiet               bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic sales dataset",
	Long: `Generate a synthetic online sales dataset with the columns the
dashboard expects, written to a CSV file or loaded into a PostgreSQL table.
The same seed always produces the same dataset. Order hours and weekdays
follow an activity profile (see 'pgedge-salesdash profiles').

Example:
  pgedge-salesdash generate --path sales.csv --customers 1000 --invoices 20000
  pgedge-salesdash generate --output postgres --connection "postgres://..." --drop-existing`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOutput, "output", "",
		"output type: csv or postgres")
	generateCmd.Flags().StringVar(&genPath, "path", "",
		"CSV file to write (default: sales_data.csv)")
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"number of distinct customers")
	generateCmd.Flags().IntVar(&genInvoices, "invoices", 0,
		"number of invoices")
	generateCmd.Flags().IntVar(&genStartYear, "start-year", 0,
		"first order year")
	generateCmd.Flags().IntVar(&genEndYear, "end-year", 0,
		"last order year")
	generateCmd.Flags().Float64Var(&genRefundRate, "refund-rate", -1,
		"fraction of line items that are refunds")
	generateCmd.Flags().Float64Var(&genMissingCustomerRate, "missing-customer-rate", -1,
		"fraction of invoices without a customer id")
	generateCmd.Flags().StringVar(&genProfile, "profile", "",
		"activity profile: office-hours, store-regional, store-global")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0,
		"random seed (default: 1)")
	generateCmd.Flags().BoolVar(&genDropExisting, "drop-existing", false,
		"drop the orders table before loading (postgres output)")
	generateCmd.Flags().BoolVar(&genQuiet, "quiet", false,
		"do not show a progress bar")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	g := &cfg.Generate
	if genOutput != "" {
		g.Output = genOutput
	}
	if genPath != "" {
		g.Path = genPath
	}
	if genCustomers > 0 {
		g.Customers = genCustomers
	}
	if genInvoices > 0 {
		g.Invoices = genInvoices
	}
	if genStartYear > 0 {
		g.StartYear = genStartYear
	}
	if genEndYear > 0 {
		g.EndYear = genEndYear
	}
	if genRefundRate >= 0 {
		g.RefundRate = genRefundRate
	}
	if genMissingCustomerRate >= 0 {
		g.MissingCustomerRate = genMissingCustomerRate
	}
	if genProfile != "" {
		g.Profile = genProfile
	}
	if cmd.Flags().Changed("seed") {
		g.Seed = genSeed
	}
	if genDropExisting {
		g.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	var progress io.Writer = os.Stderr
	if genQuiet {
		progress = nil
	}

	gen, err := datagen.New(datagen.Config{
		Customers:           g.Customers,
		Invoices:            g.Invoices,
		StartYear:           g.StartYear,
		EndYear:             g.EndYear,
		RefundRate:          g.RefundRate,
		MissingCustomerRate: g.MissingCustomerRate,
		Profile:             g.Profile,
		Seed:                g.Seed,
		Progress:            progress,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logging.Info().
		Str("output", g.Output).
		Int("customers", g.Customers).
		Int("invoices", g.Invoices).
		Int64("seed", g.Seed).
		Msg("Generating dataset")

	tbl, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}

	if g.Output == config.SourceCSV {
		if err := dataset.WriteCSVFile(g.Path, tbl); err != nil {
			return err
		}
		logging.Info().
			Str("path", g.Path).
			Int("rows", tbl.Len()).
			Msg("Wrote dataset")
		return nil
	}

	pool, err := db.Connect(ctx, cfg.Source.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	return datagen.WritePostgres(ctx, pool, tbl, datagen.PostgresOptions{
		Table:        cfg.Source.Table,
		Profile:      g.Profile,
		Seed:         g.Seed,
		DropExisting: g.DropExisting,
	})
}
