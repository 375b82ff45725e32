//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report implements the group-and-reduce queries behind the
// dashboard panels. Every function is a pure query over the table it is
// given.
package report

import (
	"sort"
	"strconv"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// Point is one labelled value of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Overview holds the headline metrics.
type Overview struct {
	TotalSales    float64 `json:"total_sales"`
	TotalOrders   int     `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
	Rows          int     `json:"rows"`
}

// ComputeOverview sums sales, counts distinct invoices and averages sales
// per line item. An empty table yields zeros.
func ComputeOverview(t *dataset.Table) Overview {
	var ov Overview
	invoices := make(map[string]struct{})
	for _, o := range t.Orders() {
		ov.TotalSales += o.Sales
		invoices[o.InvoiceNum] = struct{}{}
	}
	ov.Rows = t.Len()
	ov.TotalOrders = len(invoices)
	if ov.Rows > 0 {
		ov.AvgOrderValue = ov.TotalSales / float64(ov.Rows)
	}
	return ov
}

// SalesByMonth sums sales per order month, months ascending.
func SalesByMonth(t *dataset.Table) []Point {
	return sumByInt(t, func(o dataset.Order) int { return o.OrderMonth }, strconv.Itoa)
}

// SalesByHour sums sales per order hour, hours ascending.
func SalesByHour(t *dataset.Table) []Point {
	return sumByInt(t, func(o dataset.Order) int { return o.OrderHour }, strconv.Itoa)
}

// SalesByWeekday sums sales per weekday, Monday first.
func SalesByWeekday(t *dataset.Table) []Point {
	return sumByInt(t, func(o dataset.Order) int { return o.OrderWeekday }, dataset.WeekdayName)
}

// SalesByCategory sums sales per category, categories ascending.
func SalesByCategory(t *dataset.Table) []Point {
	points := sumByString(t, func(o dataset.Order) string { return o.Category })
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

// TopProducts returns the n descriptions with the largest summed sales,
// largest first. Equal totals are ordered by description.
func TopProducts(t *dataset.Table, n int) []Point {
	points := sumByString(t, func(o dataset.Order) string { return o.Description })
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
	if n > 0 && len(points) > n {
		points = points[:n]
	}
	return points
}

// RefundRateByMonth averages the refund flag per order month.
func RefundRateByMonth(t *dataset.Table) []Point {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[int]*acc)
	for _, o := range t.Orders() {
		a, ok := groups[o.OrderMonth]
		if !ok {
			a = &acc{}
			groups[o.OrderMonth] = a
		}
		a.sum += o.RefundValue()
		a.count++
	}

	keys := sortedKeys(groups)
	points := make([]Point, len(keys))
	for i, k := range keys {
		points[i] = Point{Label: strconv.Itoa(k), Value: groups[k].sum / float64(groups[k].count)}
	}
	return points
}

func sumByInt(t *dataset.Table, key func(dataset.Order) int, label func(int) string) []Point {
	sums := make(map[int]float64)
	for _, o := range t.Orders() {
		sums[key(o)] += o.Sales
	}
	keys := sortedKeys(sums)
	points := make([]Point, len(keys))
	for i, k := range keys {
		points[i] = Point{Label: label(k), Value: sums[k]}
	}
	return points
}

// sumByString returns one point per key in first-seen order.
func sumByString(t *dataset.Table, key func(dataset.Order) string) []Point {
	index := make(map[string]int)
	var points []Point
	for _, o := range t.Orders() {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(points)
			index[k] = i
			points = append(points, Point{Label: k})
		}
		points[i].Value += o.Sales
	}
	return points
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
