//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package rfm computes Recency/Frequency/Monetary customer profiles,
// scores them by quartile and labels each customer with a segment.
//
// The engine always runs over the unfiltered base table. Filter selections
// change what the other views display but never the segmentation.
package rfm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// ErrEmptyTable is returned when there are no rows to profile.
var ErrEmptyTable = errors.New("rfm: table has no rows")

// secondsPerDay converts Unix-second gaps to whole days. time.Duration
// saturates near 292 years, which a wide year range can exceed.
const secondsPerDay = 24 * 60 * 60

// Options bounds the calendar range accepted for synthesized order dates.
type Options struct {
	MinYear int
	MaxYear int
}

// DefaultOptions returns the default calendar range, 1900 through 2100.
func DefaultOptions() Options {
	return Options{MinYear: 1900, MaxYear: 2100}
}

// Profile is one customer's RFM row.
type Profile struct {
	CustomerID string    `json:"customer_id"`
	LastOrder  time.Time `json:"last_order"`
	Recency    int       `json:"recency"`
	Frequency  int       `json:"frequency"`
	Monetary   float64   `json:"monetary"`
	RScore     int       `json:"r_score"`
	FScore     int       `json:"f_score"`
	MScore     int       `json:"m_score"`
	Code       string    `json:"rfm_segment"`
	Score      int       `json:"rfm_score"`
	Segment    Segment   `json:"segment"`
}

// Result is the full segmentation of one base table.
type Result struct {
	// Profiles holds one row per customer, ordered by customer id.
	Profiles []Profile `json:"profiles"`

	// MaxDate is the latest synthesized order date in the table.
	MaxDate time.Time `json:"max_date"`

	// Scoring records how each metric was bucketed.
	Scoring Scoring `json:"scoring"`

	// DroppedRows counts rows without a customer id. They take part in
	// MaxDate but not in any profile.
	DroppedRows int `json:"dropped_rows"`
}

// customer accumulates one customer's rows.
type customer struct {
	id       string
	last     time.Time
	invoices map[string]struct{}
	monetary float64
}

// Compute profiles every customer in base.
func Compute(base *dataset.Table, opts Options) (*Result, error) {
	if base.Len() == 0 {
		return nil, ErrEmptyTable
	}

	dates, maxDate, err := orderDates(base, opts)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*customer)
	dropped := 0
	for i, o := range base.Orders() {
		if !o.HasCustomer() {
			dropped++
			continue
		}
		c, ok := byID[o.CustomerID]
		if !ok {
			c = &customer{id: o.CustomerID, invoices: make(map[string]struct{})}
			byID[o.CustomerID] = c
		}
		if dates[i].After(c.last) {
			c.last = dates[i]
		}
		c.invoices[o.InvoiceNum] = struct{}{}
		c.monetary += o.Sales
	}

	profiles := make([]Profile, 0, len(byID))
	for _, c := range byID {
		profiles = append(profiles, Profile{
			CustomerID: c.id,
			LastOrder:  c.last,
			Recency:    int((maxDate.Unix() - c.last.Unix()) / secondsPerDay),
			Frequency:  len(c.invoices),
			Monetary:   c.monetary,
		})
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return lessCustomerID(profiles[i].CustomerID, profiles[j].CustomerID)
	})

	scoring := score(profiles)

	return &Result{
		Profiles:    profiles,
		MaxDate:     maxDate,
		Scoring:     scoring,
		DroppedRows: dropped,
	}, nil
}

// orderDates anchors every row at day 1 of its order month and returns the
// dates along with their maximum over the whole table.
func orderDates(base *dataset.Table, opts Options) ([]time.Time, time.Time, error) {
	dates := make([]time.Time, base.Len())
	var maxDate time.Time
	for i, o := range base.Orders() {
		if o.OrderYear < opts.MinYear || o.OrderYear > opts.MaxYear {
			return nil, time.Time{}, dataset.NewDataError(i+1, dataset.ColOrderYear,
				strconv.Itoa(o.OrderYear),
				fmt.Errorf("year outside %d-%d", opts.MinYear, opts.MaxYear))
		}
		if o.OrderMonth < 1 || o.OrderMonth > 12 {
			return nil, time.Time{}, dataset.NewDataError(i+1, dataset.ColOrderMonth,
				strconv.Itoa(o.OrderMonth), errors.New("month outside 1-12"))
		}
		d := time.Date(o.OrderYear, time.Month(o.OrderMonth), 1, 0, 0, 0, 0, time.UTC)
		dates[i] = d
		if d.After(maxDate) {
			maxDate = d
		}
	}
	return dates, maxDate, nil
}

// lessCustomerID orders numeric ids numerically and before any non-numeric
// id; non-numeric ids compare as strings.
func lessCustomerID(a, b string) bool {
	fa, numA := numericID(a)
	fb, numB := numericID(b)
	switch {
	case numA && numB:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case numA:
		return true
	case numB:
		return false
	}
	return a < b
}

func numericID(id string) (float64, bool) {
	f, err := strconv.ParseFloat(id, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
