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
	"bytes"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
	"github.com/pgEdge/pgedge-salesdash/internal/metrics"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
	"github.com/pgEdge/pgedge-salesdash/pkg/version"
)

// Query parameter names. Each may repeat; values are OR-combined.
const (
	paramCountry      = "country"
	paramCategory     = "category"
	paramYear         = "year"
	paramReturnStatus = "return_status"
)

// ExportFilename is the name offered for the CSV download.
const ExportFilename = "filtered_data.csv"

// TableResponse is the data table panel.
type TableResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated"`
}

// OverviewResponse is the overview panel.
type OverviewResponse struct {
	Selection    filter.Selection `json:"selection"`
	Overview     report.Overview  `json:"overview"`
	SalesByMonth []report.Point   `json:"sales_by_month"`
}

// RFMResponse is the customer segmentation panel.
type RFMResponse struct {
	Segmentation *rfm.Result          `json:"segmentation"`
	Segments     []rfm.SegmentSummary `json:"segments"`
}

// ProductsResponse is the product insights panel.
type ProductsResponse struct {
	TopProducts     []report.Point `json:"top_products"`
	SalesByCategory []report.Point `json:"sales_by_category"`
}

// TrendsResponse is the trends panel.
type TrendsResponse struct {
	SalesByHour       []report.Point `json:"sales_by_hour"`
	SalesByWeekday    []report.Point `json:"sales_by_weekday"`
	RefundRateByMonth []report.Point `json:"refund_rate_by_month"`
}

// parseSelection reads the filter parameters. Repeated parameters are kept,
// so the raw query string is parsed rather than fiber's single-value view.
func parseSelection(c fiber.Ctx) (filter.Selection, error) {
	var query string
	if _, q, ok := strings.Cut(c.OriginalURL(), "?"); ok {
		query = q
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return filter.Selection{}, ErrInvalidQuery
	}

	years, err := filter.ParseYears(values[paramYear])
	if err != nil {
		return filter.Selection{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return filter.Selection{
		Countries:      values[paramCountry],
		Categories:     values[paramCategory],
		Years:          years,
		ReturnStatuses: values[paramReturnStatus],
	}, nil
}

func (s *Server) base() (*dataset.Table, error) {
	base, err := s.store.Base(s.ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load dataset")
		return nil, ErrDatasetUnavailable
	}
	return base, nil
}

// inputs resolves the request's selection against the base table.
func (s *Server) inputs(c fiber.Ctx) (report.Inputs, filter.Selection, error) {
	sel, err := parseSelection(c)
	if err != nil {
		return report.Inputs{}, sel, err
	}
	base, err := s.base()
	if err != nil {
		return report.Inputs{}, sel, err
	}
	in := timed("filter", func() report.Inputs {
		return report.NewInputs(base, sel)
	})
	return in, sel, nil
}

// timed runs fn and records its duration under the given view name.
func timed[T any](view string, fn func() T) T {
	start := time.Now()
	v := fn()
	metrics.RecordView(view, time.Since(start))
	return v
}

func (s *Server) segment(in report.Inputs) (RFMResponse, error) {
	start := time.Now()
	res, err := report.Segment(in, s.opts.reportOptions())
	metrics.RecordView("rfm", time.Since(start))
	if err != nil {
		return RFMResponse{}, err
	}

	resp := RFMResponse{Segmentation: res, Segments: rfm.Summarize(nil)}
	if res != nil {
		resp.Segments = rfm.Summarize(res.Profiles)
	}
	metrics.RecordSegments(resp.Segments)
	return resp, nil
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	base, err := s.base()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"rows":   base.Len(),
	})
}

func (s *Server) handleFilters(c fiber.Ctx) error {
	base, err := s.base()
	if err != nil {
		return err
	}
	return c.JSON(timed("filters", func() filter.Options {
		return filter.AvailableOptions(base)
	}))
}

func (s *Server) handleOverview(c fiber.Ctx) error {
	in, sel, err := s.inputs(c)
	if err != nil {
		return err
	}
	return c.JSON(timed("overview", func() OverviewResponse {
		return OverviewResponse{
			Selection:    sel,
			Overview:     report.ComputeOverview(in.Filtered),
			SalesByMonth: report.SalesByMonth(in.Filtered),
		}
	}))
}

func (s *Server) handleTable(c fiber.Ctx) error {
	in, _, err := s.inputs(c)
	if err != nil {
		return err
	}
	return c.JSON(timed("table", func() TableResponse {
		return tableView(in.Filtered, s.opts.TableRows)
	}))
}

// tableView renders the first limit rows; limit <= 0 renders all of them.
func tableView(t *dataset.Table, limit int) TableResponse {
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	for i := range n {
		rows[i] = t.Record(i)
	}
	return TableResponse{
		Columns:   t.Header(),
		Rows:      rows,
		TotalRows: t.Len(),
		Truncated: n < t.Len(),
	}
}

func (s *Server) handleRFM(c fiber.Ctx) error {
	in, _, err := s.inputs(c)
	if err != nil {
		return err
	}
	resp, err := s.segment(in)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleProducts(c fiber.Ctx) error {
	in, _, err := s.inputs(c)
	if err != nil {
		return err
	}
	return c.JSON(timed("products", func() ProductsResponse {
		return ProductsResponse{
			TopProducts:     report.TopProducts(in.Filtered, s.opts.TopProducts),
			SalesByCategory: report.SalesByCategory(in.Filtered),
		}
	}))
}

func (s *Server) handleTrends(c fiber.Ctx) error {
	in, _, err := s.inputs(c)
	if err != nil {
		return err
	}
	return c.JSON(timed("trends", func() TrendsResponse {
		return TrendsResponse{
			SalesByHour:       report.SalesByHour(in.Filtered),
			SalesByWeekday:    report.SalesByWeekday(in.Filtered),
			RefundRateByMonth: report.RefundRateByMonth(in.Filtered),
		}
	}))
}

func (s *Server) handleExport(c fiber.Ctx) error {
	in, sel, err := s.inputs(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, in.Filtered); err != nil {
		return err
	}

	logging.Debug().
		Str("selection", sel.String()).
		Int("rows", in.Filtered.Len()).
		Msg("Exporting filtered table")

	c.Attachment(ExportFilename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleIndex(c fiber.Ctx) error {
	in, sel, err := s.inputs(c)
	if err != nil {
		return err
	}

	start := time.Now()
	dash, err := report.Build(in, s.opts.reportOptions())
	metrics.RecordView("dashboard", time.Since(start))
	if err != nil {
		return err
	}
	metrics.RecordSegments(dash.Segments)

	data := pageData{
		Selection: sel,
		Options:   filter.AvailableOptions(in.Base),
		Dashboard: dash,
		Table:     tableView(in.Filtered, s.opts.TableRows),
		ExportURL: "/api/export.csv",
		Version:   version.Short(),
	}
	if dash.Segmentation != nil {
		data.Profiles = dash.Segmentation.Profiles
		if n := s.opts.TableRows; n > 0 && n < len(data.Profiles) {
			data.Profiles = data.Profiles[:n]
		}
	}
	if _, q, ok := strings.Cut(c.OriginalURL(), "?"); ok && q != "" {
		data.ExportURL += "?" + q
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
