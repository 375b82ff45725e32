//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset holds the order table the dashboard reports on: the
// column schema, the immutable in-memory table, CSV encoding, and the
// load-once store shared by every view.
package dataset

import (
	"fmt"
	"strings"
)

// Canonical column names.
const (
	ColInvoiceNum   = "invoice_num"
	ColCustomerID   = "customer_id"
	ColCountry      = "country"
	ColCategory     = "category"
	ColDescription  = "description"
	ColSales        = "sales"
	ColIsRefund     = "is_refund"
	ColReturnStatus = "return_status"
	ColOrderYear    = "order_year"
	ColOrderMonth   = "order_month"
	ColOrderHour    = "order_hour"
	ColOrderWeekday = "order_weekday"
)

// Columns lists the required columns in export order.
var Columns = []string{
	ColInvoiceNum,
	ColCustomerID,
	ColCountry,
	ColCategory,
	ColDescription,
	ColSales,
	ColIsRefund,
	ColReturnStatus,
	ColOrderYear,
	ColOrderMonth,
	ColOrderHour,
	ColOrderWeekday,
}

// Schema maps a source header onto the canonical columns. It is built once
// per load; rows are then decoded by position.
type Schema struct {
	// index holds the source position of each canonical column.
	index map[string]int

	// Extra names the non-canonical columns, in source order.
	Extra []string

	// extraIndex holds the source position of each extra column.
	extraIndex []int
}

// NormalizeColumn lowercases and trims a header cell.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewSchema validates a header row. Every canonical column must be present;
// the returned SchemaError names all of the missing ones.
func NewSchema(header []string) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(Columns))}

	canonical := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		canonical[c] = true
	}

	for i, h := range header {
		name := NormalizeColumn(h)
		// A BOM sneaks into the first cell of files saved by spreadsheet tools.
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if canonical[name] {
			if _, dup := s.index[name]; dup {
				return nil, fmt.Errorf("duplicate column %q in header", name)
			}
			s.index[name] = i
			continue
		}
		s.Extra = append(s.Extra, strings.TrimSpace(h))
		s.extraIndex = append(s.extraIndex, i)
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := s.index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return s, nil
}

// Decode converts one data row into an Order. row is the 1-based data row
// number used in error messages.
func (s *Schema) Decode(row int, record []string) (Order, error) {
	get := func(col string) string {
		i := s.index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		o   Order
		err error
	)
	o.InvoiceNum = get(ColInvoiceNum)
	o.CustomerID = get(ColCustomerID)
	o.Country = get(ColCountry)
	o.Category = get(ColCategory)
	o.Description = get(ColDescription)
	o.ReturnStatus = get(ColReturnStatus)

	if o.Sales, err = parseFloat(get(ColSales)); err != nil {
		return o, NewDataError(row, ColSales, get(ColSales), err)
	}
	if o.IsRefund, err = parseBool(get(ColIsRefund)); err != nil {
		return o, NewDataError(row, ColIsRefund, get(ColIsRefund), err)
	}
	if o.OrderYear, err = parseInt(get(ColOrderYear)); err != nil {
		return o, NewDataError(row, ColOrderYear, get(ColOrderYear), err)
	}
	if o.OrderMonth, err = parseInt(get(ColOrderMonth)); err != nil {
		return o, NewDataError(row, ColOrderMonth, get(ColOrderMonth), err)
	}
	if o.OrderHour, err = parseInt(get(ColOrderHour)); err != nil {
		return o, NewDataError(row, ColOrderHour, get(ColOrderHour), err)
	}
	if o.OrderWeekday, err = parseWeekday(get(ColOrderWeekday)); err != nil {
		return o, NewDataError(row, ColOrderWeekday, get(ColOrderWeekday), err)
	}

	if len(s.extraIndex) > 0 {
		o.Extra = make([]string, len(s.extraIndex))
		for j, i := range s.extraIndex {
			if i < len(record) {
				o.Extra[j] = record[i]
			}
		}
	}
	return o, nil
}
