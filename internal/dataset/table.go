//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Order is a single invoice line item.
type Order struct {
	InvoiceNum   string  `json:"invoice_num"`
	CustomerID   string  `json:"customer_id"` // empty when the source has no customer
	Country      string  `json:"country"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Sales        float64 `json:"sales"` // negative for refunds
	IsRefund     bool    `json:"is_refund"`
	ReturnStatus string  `json:"return_status"`
	OrderYear    int     `json:"order_year"`
	OrderMonth   int     `json:"order_month"`
	OrderHour    int     `json:"order_hour"`
	OrderWeekday int     `json:"order_weekday"` // 0 = Monday

	// Extra holds values of non-canonical source columns, aligned with
	// Table.Extra.
	Extra []string `json:"-"`
}

// HasCustomer reports whether the row is attributed to a customer.
func (o Order) HasCustomer() bool {
	return o.CustomerID != ""
}

// RefundValue returns is_refund as 0 or 1.
func (o Order) RefundValue() float64 {
	if o.IsRefund {
		return 1
	}
	return 0
}

// Table is an immutable, ordered set of orders. Tables are never modified
// after construction; filtering produces a new Table sharing the same
// Order values.
type Table struct {
	extra  []string
	orders []Order
}

// NewTable builds a table. extra names the pass-through columns carried by
// every order.
func NewTable(extra []string, orders []Order) *Table {
	return &Table{extra: extra, orders: orders}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.orders)
}

// At returns the i-th row.
func (t *Table) At(i int) Order {
	return t.orders[i]
}

// Orders returns the rows. Callers must not modify the returned slice.
func (t *Table) Orders() []Order {
	if t == nil {
		return nil
	}
	return t.orders
}

// Extra returns the pass-through column names.
func (t *Table) Extra() []string {
	if t == nil {
		return nil
	}
	return t.extra
}

// Header returns the full export header: canonical columns followed by the
// pass-through columns.
func (t *Table) Header() []string {
	header := make([]string, 0, len(Columns)+len(t.Extra()))
	header = append(header, Columns...)
	return append(header, t.Extra()...)
}

// Where returns a new table holding the rows for which keep returns true,
// in their original order.
func (t *Table) Where(keep func(Order) bool) *Table {
	out := make([]Order, 0, t.Len())
	for _, o := range t.Orders() {
		if keep(o) {
			out = append(out, o)
		}
	}
	return &Table{extra: t.Extra(), orders: out}
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// parseInt accepts integers and integral floats ("2024.0"), which is how
// pandas writes integer columns that once held a null.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "t", "yes", "y":
		return true, nil
	case "0", "0.0", "false", "f", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}

var weekdayNames = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

func parseWeekday(s string) (int, error) {
	if d, ok := weekdayNames[strings.ToLower(s)]; ok {
		return d, nil
	}
	d, err := parseInt(s)
	if err != nil {
		return 0, fmt.Errorf("not a weekday")
	}
	if d < 0 || d > 6 {
		return 0, fmt.Errorf("weekday out of range 0-6")
	}
	return d, nil
}

// WeekdayName returns the English name for a 0 = Monday weekday number.
func WeekdayName(d int) string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if d < 0 || d >= len(names) {
		return strconv.Itoa(d)
	}
	return names[d]
}
