//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package filter narrows the base order table to the rows matching the
// user's categorical selections.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// Selection holds the allowed values per filterable column. Values within a
// column are OR-combined, columns are AND-combined, and an empty column
// places no restriction.
type Selection struct {
	Countries      []string `json:"country,omitempty"`
	Categories     []string `json:"category,omitempty"`
	Years          []int    `json:"order_year,omitempty"`
	ReturnStatuses []string `json:"return_status,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (s Selection) IsEmpty() bool {
	return len(s.Countries) == 0 && len(s.Categories) == 0 &&
		len(s.Years) == 0 && len(s.ReturnStatuses) == 0
}

// String renders the selection for log lines.
func (s Selection) String() string {
	if s.IsEmpty() {
		return "all"
	}
	var parts []string
	add := func(name string, vals []string) {
		if len(vals) > 0 {
			parts = append(parts, name+"="+strings.Join(vals, "|"))
		}
	}
	years := make([]string, len(s.Years))
	for i, y := range s.Years {
		years[i] = strconv.Itoa(y)
	}
	add(dataset.ColCountry, s.Countries)
	add(dataset.ColCategory, s.Categories)
	add(dataset.ColOrderYear, years)
	add(dataset.ColReturnStatus, s.ReturnStatuses)
	return strings.Join(parts, " ")
}

// Apply returns the rows of base matching every non-empty constraint, in
// their original order. base itself is returned when nothing is selected.
func Apply(base *dataset.Table, s Selection) *dataset.Table {
	if s.IsEmpty() {
		return base
	}

	countries := stringSet(s.Countries)
	categories := stringSet(s.Categories)
	statuses := stringSet(s.ReturnStatuses)
	years := make(map[int]bool, len(s.Years))
	for _, y := range s.Years {
		years[y] = true
	}

	return base.Where(func(o dataset.Order) bool {
		if countries != nil && !countries[o.Country] {
			return false
		}
		if categories != nil && !categories[o.Category] {
			return false
		}
		if len(years) > 0 && !years[o.OrderYear] {
			return false
		}
		if statuses != nil && !statuses[o.ReturnStatus] {
			return false
		}
		return true
	})
}

// stringSet returns nil for an empty selection.
func stringSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// ParseYears converts textual year selections, ignoring blanks.
func ParseYears(values []string) ([]int, error) {
	var years []int
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
		years = append(years, y)
	}
	return years, nil
}

// Options lists the values offered by each filter control.
type Options struct {
	Countries      []string `json:"country"`
	Categories     []string `json:"category"`
	Years          []int    `json:"order_year"`
	ReturnStatuses []string `json:"return_status"`
}

// AvailableOptions collects the distinct values of each filterable column.
// Strings keep first-seen order; years are sorted ascending.
func AvailableOptions(base *dataset.Table) Options {
	var opts Options
	seenCountry := map[string]bool{}
	seenCategory := map[string]bool{}
	seenStatus := map[string]bool{}
	seenYear := map[int]bool{}

	for _, o := range base.Orders() {
		if !seenCountry[o.Country] {
			seenCountry[o.Country] = true
			opts.Countries = append(opts.Countries, o.Country)
		}
		if !seenCategory[o.Category] {
			seenCategory[o.Category] = true
			opts.Categories = append(opts.Categories, o.Category)
		}
		if !seenStatus[o.ReturnStatus] {
			seenStatus[o.ReturnStatus] = true
			opts.ReturnStatuses = append(opts.ReturnStatuses, o.ReturnStatus)
		}
		if !seenYear[o.OrderYear] {
			seenYear[o.OrderYear] = true
			opts.Years = append(opts.Years, o.OrderYear)
		}
	}
	sort.Ints(opts.Years)
	return opts
}
