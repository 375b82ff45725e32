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
	"reflect"
	"testing"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/filter"
)

func testTable() *dataset.Table {
	return dataset.NewTable(nil, []dataset.Order{
		{InvoiceNum: "1", CustomerID: "A", Country: "United Kingdom", Category: "Electronics", Description: "Lamp",
			Sales: 10, ReturnStatus: "Not Returned", OrderYear: 2024, OrderMonth: 1, OrderHour: 9, OrderWeekday: 0},
		{InvoiceNum: "1", CustomerID: "A", Country: "United Kingdom", Category: "Electronics", Description: "Desk",
			Sales: 20, ReturnStatus: "Not Returned", OrderYear: 2024, OrderMonth: 1, OrderHour: 9, OrderWeekday: 0},
		{InvoiceNum: "2", CustomerID: "B", Country: "France", Category: "Furniture", Description: "Desk",
			Sales: 30, ReturnStatus: "Not Returned", OrderYear: 2024, OrderMonth: 2, OrderHour: 14, OrderWeekday: 2},
		{InvoiceNum: "3", CustomerID: "B", Country: "France", Category: "Furniture", Description: "Lamp",
			Sales: -10, IsRefund: true, ReturnStatus: "Returned", OrderYear: 2024, OrderMonth: 2, OrderHour: 14, OrderWeekday: 2},
		{InvoiceNum: "4", Country: "Germany", Category: "Toys", Description: "Ball",
			Sales: 5, ReturnStatus: "Not Returned", OrderYear: 2023, OrderMonth: 3, OrderHour: 9, OrderWeekday: 4},
	})
}

func TestComputeOverview(t *testing.T) {
	ov := ComputeOverview(testTable())

	if ov.TotalSales != 55 {
		t.Errorf("Expected total sales 55, got %v", ov.TotalSales)
	}
	if ov.TotalOrders != 4 {
		t.Errorf("Expected 4 orders, got %d", ov.TotalOrders)
	}
	if ov.AvgOrderValue != 11 {
		t.Errorf("Expected average 11, got %v", ov.AvgOrderValue)
	}
	if ov.Rows != 5 {
		t.Errorf("Expected 5 rows, got %d", ov.Rows)
	}
}

func TestComputeOverviewEmpty(t *testing.T) {
	ov := ComputeOverview(dataset.NewTable(nil, nil))
	if ov != (Overview{}) {
		t.Errorf("Expected zero overview, got %+v", ov)
	}
}

func TestGroupedViews(t *testing.T) {
	tbl := testTable()

	tests := []struct {
		name string
		got  []Point
		want []Point
	}{
		{"sales by month", SalesByMonth(tbl), []Point{{"1", 30}, {"2", 20}, {"3", 5}}},
		{"sales by category", SalesByCategory(tbl), []Point{{"Electronics", 30}, {"Furniture", 20}, {"Toys", 5}}},
		{"sales by hour", SalesByHour(tbl), []Point{{"9", 35}, {"14", 20}}},
		{"sales by weekday", SalesByWeekday(tbl), []Point{{"Monday", 30}, {"Wednesday", 20}, {"Friday", 5}}},
		{"refund rate by month", RefundRateByMonth(tbl), []Point{{"1", 0}, {"2", 0.5}, {"3", 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestTopProducts(t *testing.T) {
	got := TopProducts(testTable(), 2)
	want := []Point{{"Desk", 50}, {"Ball", 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	all := TopProducts(testTable(), 0)
	if len(all) != 3 {
		t.Errorf("Expected 3 products with no limit, got %d", len(all))
	}
}

func TestTopProductsTiesByDescription(t *testing.T) {
	tbl := dataset.NewTable(nil, []dataset.Order{
		{Description: "Zebra", Sales: 10},
		{Description: "Apple", Sales: 10},
		{Description: "Mango", Sales: 20},
	})

	got := TopProducts(tbl, 10)
	want := []Point{{"Mango", 20}, {"Apple", 10}, {"Zebra", 10}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestViewsEmptyTable(t *testing.T) {
	empty := dataset.NewTable(nil, nil)
	if n := len(SalesByMonth(empty)); n != 0 {
		t.Errorf("Expected no months, got %d", n)
	}
	if n := len(TopProducts(empty, 10)); n != 0 {
		t.Errorf("Expected no products, got %d", n)
	}
	if n := len(RefundRateByMonth(empty)); n != 0 {
		t.Errorf("Expected no refund rates, got %d", n)
	}
}

func TestBuildSegmentationIgnoresFilter(t *testing.T) {
	base := testTable()

	unfiltered, err := Build(NewInputs(base, filter.Selection{}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	selections := []filter.Selection{
		{Countries: []string{"France"}},
		{Years: []int{2023}},
		{Countries: []string{"Spain"}},
	}
	for _, sel := range selections {
		t.Run(sel.String(), func(t *testing.T) {
			d, err := Build(NewInputs(base, sel), DefaultOptions())
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if !reflect.DeepEqual(d.Segmentation, unfiltered.Segmentation) {
				t.Error("Expected segmentation to be independent of the filter")
			}
			if !reflect.DeepEqual(d.Segments, unfiltered.Segments) {
				t.Error("Expected segment summary to be independent of the filter")
			}
		})
	}
}

func TestBuildFilteredPanels(t *testing.T) {
	d, err := Build(NewInputs(testTable(), filter.Selection{Countries: []string{"France"}}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if d.Overview.TotalSales != 20 {
		t.Errorf("Expected filtered total sales 20, got %v", d.Overview.TotalSales)
	}
	if d.Overview.TotalOrders != 2 {
		t.Errorf("Expected 2 filtered orders, got %d", d.Overview.TotalOrders)
	}
	if len(d.SalesByCategory) != 1 || d.SalesByCategory[0].Label != "Furniture" {
		t.Errorf("Expected only Furniture, got %v", d.SalesByCategory)
	}
	if len(d.Segmentation.Profiles) != 2 {
		t.Errorf("Expected 2 customer profiles from the base table, got %d", len(d.Segmentation.Profiles))
	}
}

func TestBuildNoMatchingRows(t *testing.T) {
	d, err := Build(NewInputs(testTable(), filter.Selection{Countries: []string{"Spain"}}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if d.Overview != (Overview{}) {
		t.Errorf("Expected zero overview, got %+v", d.Overview)
	}
	if len(d.TopProducts) != 0 {
		t.Errorf("Expected no products, got %v", d.TopProducts)
	}
	if d.Segmentation == nil {
		t.Error("Expected segmentation from the base table")
	}
}

func TestBuildEmptyBase(t *testing.T) {
	empty := dataset.NewTable(nil, nil)
	d, err := Build(Inputs{Base: empty, Filtered: empty}, DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if d.Segmentation != nil {
		t.Error("Expected no segmentation for an empty base table")
	}
	if len(d.Segments) != 4 {
		t.Errorf("Expected 4 segment summaries, got %d", len(d.Segments))
	}
}

func TestBuildInvalidDate(t *testing.T) {
	base := dataset.NewTable(nil, []dataset.Order{
		{InvoiceNum: "1", CustomerID: "A", Sales: 1, OrderYear: 2024, OrderMonth: 13},
	})

	if _, err := Build(NewInputs(base, filter.Selection{}), DefaultOptions()); err == nil {
		t.Error("Expected error for month 13, got nil")
	}
}
