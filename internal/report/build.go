//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"errors"
	"fmt"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

// DefaultTopProducts is the length of the product ranking.
const DefaultTopProducts = 10

// Inputs names the two tables a dashboard is built from. Segmentation reads
// Base; every other panel reads Filtered.
type Inputs struct {
	Base     *dataset.Table
	Filtered *dataset.Table
}

// NewInputs applies a selection to the base table.
func NewInputs(base *dataset.Table, sel filter.Selection) Inputs {
	return Inputs{Base: base, Filtered: filter.Apply(base, sel)}
}

// Options tunes the views.
type Options struct {
	TopProducts int
	RFM         rfm.Options
}

// DefaultOptions returns the options used by the dashboard.
func DefaultOptions() Options {
	return Options{TopProducts: DefaultTopProducts, RFM: rfm.DefaultOptions()}
}

// Dashboard carries the data behind all five panels.
type Dashboard struct {
	// Overview panel.
	Overview     Overview `json:"overview"`
	SalesByMonth []Point  `json:"sales_by_month"`

	// Customer segmentation panel; nil when the base table is empty.
	Segmentation *rfm.Result          `json:"segmentation,omitempty"`
	Segments     []rfm.SegmentSummary `json:"segments"`

	// Product insights panel.
	TopProducts     []Point `json:"top_products"`
	SalesByCategory []Point `json:"sales_by_category"`

	// Trends panel.
	SalesByHour       []Point `json:"sales_by_hour"`
	SalesByWeekday    []Point `json:"sales_by_weekday"`
	RefundRateByMonth []Point `json:"refund_rate_by_month"`
}

// Build computes every panel.
func Build(in Inputs, opts Options) (*Dashboard, error) {
	seg, err := Segment(in, opts)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Overview:          ComputeOverview(in.Filtered),
		SalesByMonth:      SalesByMonth(in.Filtered),
		TopProducts:       TopProducts(in.Filtered, opts.TopProducts),
		SalesByCategory:   SalesByCategory(in.Filtered),
		SalesByHour:       SalesByHour(in.Filtered),
		SalesByWeekday:    SalesByWeekday(in.Filtered),
		RefundRateByMonth: RefundRateByMonth(in.Filtered),
		Segmentation:      seg,
		Segments:          rfm.Summarize(nil),
	}
	if seg != nil {
		d.Segments = rfm.Summarize(seg.Profiles)
	}
	return d, nil
}

// Segment runs the RFM engine over the base table. An empty base table
// yields a nil result rather than an error.
func Segment(in Inputs, opts Options) (*rfm.Result, error) {
	res, err := rfm.Compute(in.Base, opts.RFM)
	if errors.Is(err, rfm.ErrEmptyTable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("customer segmentation failed: %w", err)
	}

	if res.Scoring.Degenerate() {
		logging.Warn().
			Int("customers", len(res.Profiles)).
			Str("recency", string(res.Scoring.Recency)).
			Str("frequency", string(res.Scoring.Frequency)).
			Str("monetary", string(res.Scoring.Monetary)).
			Msg("Quartile edges undefined; using rank scoring")
	}
	if res.DroppedRows > 0 {
		logging.Debug().
			Int("rows", res.DroppedRows).
			Msg("Rows without customer id excluded from segmentation")
	}
	return res, nil
}
