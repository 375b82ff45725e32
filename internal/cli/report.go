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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

var (
	reportJSON        bool
	reportTopProducts int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard views for a selection",
	Long: `Compute every dashboard view for the selected rows and print them as
text tables, or as JSON with --json. Customer segmentation always covers
the whole dataset.

Example:
  pgedge-salesdash report --data sales.csv --country France --year 2024
  pgedge-salesdash report --data sales.csv --json`,
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().BoolVar(&reportJSON, "json", false,
		"print the views as JSON")
	reportCmd.Flags().IntVar(&reportTopProducts, "top-products", 0,
		"length of the top products ranking")
}

func reportOptions() report.Options {
	opts := report.DefaultOptions()
	opts.RFM = rfm.Options{MinYear: cfg.RFM.MinYear, MaxYear: cfg.RFM.MaxYear}
	if cfg.Serve.TopProducts > 0 {
		opts.TopProducts = cfg.Serve.TopProducts
	}
	return opts
}

func runReport(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags()
	if err != nil {
		return err
	}

	base, err := loadBase(context.Background())
	if err != nil {
		return err
	}

	opts := reportOptions()
	if reportTopProducts > 0 {
		opts.TopProducts = reportTopProducts
	}

	dash, err := report.Build(report.NewInputs(base, sel), opts)
	if err != nil {
		return err
	}

	if reportJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dash)
	}
	return writeReport(cmd.OutOrStdout(), sel, dash)
}

// writeReport prints every panel as an aligned text table.
func writeReport(out io.Writer, sel filter.Selection, d *report.Dashboard) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Selection:\t%s\n", sel)
	fmt.Fprintf(w, "Rows:\t%d\n", d.Overview.Rows)
	fmt.Fprintf(w, "Total Sales:\t%.2f\n", d.Overview.TotalSales)
	fmt.Fprintf(w, "Total Orders:\t%d\n", d.Overview.TotalOrders)
	fmt.Fprintf(w, "Avg. Order Value:\t%.2f\n", d.Overview.AvgOrderValue)

	writePoints(w, "Sales by Month", "MONTH", "SALES", d.SalesByMonth, money)
	writePoints(w, "Top Products", "DESCRIPTION", "SALES", d.TopProducts, money)
	writePoints(w, "Sales by Category", "CATEGORY", "SALES", d.SalesByCategory, money)
	writePoints(w, "Hourly Sales", "HOUR", "SALES", d.SalesByHour, money)
	writePoints(w, "Weekday Sales", "WEEKDAY", "SALES", d.SalesByWeekday, money)
	writePoints(w, "Refund Rate by Month", "MONTH", "REFUND RATE", d.RefundRateByMonth, ratio)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Customer Segments (whole dataset)")
	fmt.Fprintln(w, "SEGMENT\tCUSTOMERS\tSHARE\tMONETARY")
	for _, s := range d.Segments {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Segment, s.Customers, ratio(s.Share), money(s.Monetary))
	}

	return w.Flush()
}

func writePoints(w io.Writer, title, labelHeader, valueHeader string, points []report.Point, format func(float64) string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	if len(points) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", labelHeader, valueHeader)
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Label, format(p.Value))
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func ratio(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
