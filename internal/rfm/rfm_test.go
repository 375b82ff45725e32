//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package rfm

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
)

// line builds a single order line.
func line(customer, invoice string, year, month int, sales float64) dataset.Order {
	return dataset.Order{
		InvoiceNum: invoice,
		CustomerID: customer,
		Country:    "United Kingdom",
		Category:   "Electronics",
		Sales:      sales,
		OrderYear:  year,
		OrderMonth: month,
	}
}

func byCustomer(t *testing.T, res *Result) map[string]Profile {
	t.Helper()
	m := make(map[string]Profile, len(res.Profiles))
	for _, p := range res.Profiles {
		m[p.CustomerID] = p
	}
	return m
}

// scenarioTable: A has two invoices (2024-01, 2024-03) worth 500, B one
// invoice in 2024-03 worth 100, C five invoices from 2023-06 to 2024-03
// worth 2000, D one invoice in 2022-01 worth 50.
func scenarioTable() *dataset.Table {
	return dataset.NewTable(nil, []dataset.Order{
		line("A", "A1", 2024, 1, 150),
		line("A", "A1", 2024, 1, 50),
		line("A", "A2", 2024, 3, 300),
		line("B", "B1", 2024, 3, 100),
		line("C", "C1", 2023, 6, 400),
		line("C", "C2", 2023, 9, 400),
		line("C", "C3", 2023, 12, 400),
		line("C", "C4", 2024, 2, 400),
		line("C", "C5", 2024, 3, 400),
		line("D", "D1", 2022, 1, 50),
	})
}

func TestComputeScenario(t *testing.T) {
	res, err := Compute(scenarioTable(), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	wantMax := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !res.MaxDate.Equal(wantMax) {
		t.Errorf("Expected max date %v, got %v", wantMax, res.MaxDate)
	}

	tests := []struct {
		id        string
		recency   int
		frequency int
		monetary  float64
		r, f, m   int
		segment   Segment
	}{
		{"A", 0, 2, 500, 4, 3, 3, SegmentChampions},
		{"B", 0, 1, 100, 4, 1, 2, SegmentLoyal},
		{"C", 0, 5, 2000, 4, 4, 4, SegmentChampions},
		// 2022-01-01 to 2024-03-01
		{"D", 790, 1, 50, 1, 2, 1, SegmentAtRisk},
	}

	got := byCustomer(t, res)
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := got[tt.id]
			if !ok {
				t.Fatalf("Missing profile for %s", tt.id)
			}
			if p.Recency != tt.recency {
				t.Errorf("Expected Recency %d, got %d", tt.recency, p.Recency)
			}
			if p.Frequency != tt.frequency {
				t.Errorf("Expected Frequency %d, got %d", tt.frequency, p.Frequency)
			}
			if p.Monetary != tt.monetary {
				t.Errorf("Expected Monetary %v, got %v", tt.monetary, p.Monetary)
			}
			if p.RScore != tt.r || p.FScore != tt.f || p.MScore != tt.m {
				t.Errorf("Expected scores %d/%d/%d, got %d/%d/%d",
					tt.r, tt.f, tt.m, p.RScore, p.FScore, p.MScore)
			}
			if p.Code != fmt.Sprintf("%d%d%d", tt.r, tt.f, tt.m) {
				t.Errorf("Unexpected RFM code %q", p.Code)
			}
			if p.Segment != tt.segment {
				t.Errorf("Expected segment %s, got %s", tt.segment, p.Segment)
			}
		})
	}

	// Recency has only two distinct values here, so it must use the
	// rank fallback rather than quartile edges.
	if res.Scoring.Recency != MethodRank {
		t.Errorf("Expected rank scoring for Recency, got %s", res.Scoring.Recency)
	}
	if res.Scoring.Frequency != MethodQuantile || res.Scoring.Monetary != MethodQuantile {
		t.Errorf("Expected quantile scoring for F and M, got %+v", res.Scoring)
	}
	if !res.Scoring.Degenerate() {
		t.Error("Expected scenario to be reported as degenerate")
	}
}

func TestComputeQuartilesEvenSplit(t *testing.T) {
	// Customer i buys i invoices worth i*100 each, all in month i of 2024.
	var orders []dataset.Order
	for i := 1; i <= 8; i++ {
		for inv := 1; inv <= i; inv++ {
			orders = append(orders, line(fmt.Sprint(i), fmt.Sprintf("%d-%d", i, inv), 2024, i, float64(i*100)))
		}
	}

	res, err := Compute(dataset.NewTable(nil, orders), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Scoring.Degenerate() {
		t.Fatalf("Expected quantile scoring for every metric, got %+v", res.Scoring)
	}

	want := map[string][3]int{
		"1": {1, 1, 1}, "2": {1, 1, 1},
		"3": {2, 2, 2}, "4": {2, 2, 2},
		"5": {3, 3, 3}, "6": {3, 3, 3},
		"7": {4, 4, 4}, "8": {4, 4, 4},
	}
	counts := map[int]int{}
	for _, p := range res.Profiles {
		w := want[p.CustomerID]
		if p.RScore != w[0] || p.FScore != w[1] || p.MScore != w[2] {
			t.Errorf("Customer %s: expected %v, got %d/%d/%d",
				p.CustomerID, w, p.RScore, p.FScore, p.MScore)
		}
		counts[p.FScore]++
	}
	for s := 1; s <= Quartiles; s++ {
		if counts[s] != 2 {
			t.Errorf("Expected 2 customers with F score %d, got %d", s, counts[s])
		}
	}
}

func TestComputeFrequencyTieBreak(t *testing.T) {
	// Eight customers with one invoice each. Rows arrive in reverse id
	// order; ties must be broken by customer id, not by arrival.
	var orders []dataset.Order
	for i := 8; i >= 1; i-- {
		id := fmt.Sprintf("c%02d", i)
		orders = append(orders, line(id, "inv-"+id, 2024, 1+i%3, float64(10*i)))
	}

	res, err := Compute(dataset.NewTable(nil, orders), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Scoring.Frequency != MethodQuantile {
		t.Fatalf("Expected ranked Frequency to use quantiles, got %s", res.Scoring.Frequency)
	}

	want := map[string]int{
		"c01": 1, "c02": 1,
		"c03": 2, "c04": 2,
		"c05": 3, "c06": 3,
		"c07": 4, "c08": 4,
	}
	for _, p := range res.Profiles {
		if p.FScore != want[p.CustomerID] {
			t.Errorf("Customer %s: expected F score %d, got %d",
				p.CustomerID, want[p.CustomerID], p.FScore)
		}
	}
}

func TestComputeProfilesOrderedByCustomerID(t *testing.T) {
	orders := []dataset.Order{
		line("10", "i1", 2024, 1, 1),
		line("abc", "i2", 2024, 1, 1),
		line("2", "i3", 2024, 1, 1),
		line("1", "i4", 2024, 1, 1),
	}
	res, err := Compute(dataset.NewTable(nil, orders), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	want := []string{"1", "2", "10", "abc"}
	for i, p := range res.Profiles {
		if p.CustomerID != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], p.CustomerID)
		}
	}
}

func TestComputeFewCustomers(t *testing.T) {
	tests := []struct {
		name     string
		orders   []dataset.Order
		wantR    map[string]int
		wantF    map[string]int
		wantM    map[string]int
		wantRank bool
	}{
		{
			name:   "single customer",
			orders: []dataset.Order{line("1", "i1", 2024, 5, 10)},
			wantR:  map[string]int{"1": 4},
			wantF:  map[string]int{"1": 1},
			wantM:  map[string]int{"1": 1},
		},
		{
			name: "two customers",
			orders: []dataset.Order{
				line("1", "i1", 2024, 5, 10),
				line("2", "i2", 2024, 1, 20),
				line("2", "i3", 2024, 1, 20),
			},
			wantR: map[string]int{"1": 4, "2": 2},
			wantF: map[string]int{"1": 1, "2": 3},
			wantM: map[string]int{"1": 1, "2": 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(dataset.NewTable(nil, tt.orders), DefaultOptions())
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			want := Scoring{Recency: MethodRank, Frequency: MethodRank, Monetary: MethodRank}
			if res.Scoring != want {
				t.Errorf("Expected rank fallback for every metric, got %+v", res.Scoring)
			}
			for _, p := range res.Profiles {
				if p.RScore != tt.wantR[p.CustomerID] {
					t.Errorf("Customer %s: expected R %d, got %d", p.CustomerID, tt.wantR[p.CustomerID], p.RScore)
				}
				if p.FScore != tt.wantF[p.CustomerID] {
					t.Errorf("Customer %s: expected F %d, got %d", p.CustomerID, tt.wantF[p.CustomerID], p.FScore)
				}
				if p.MScore != tt.wantM[p.CustomerID] {
					t.Errorf("Customer %s: expected M %d, got %d", p.CustomerID, tt.wantM[p.CustomerID], p.MScore)
				}
			}
		})
	}
}

func TestComputeRecencyWideYearRange(t *testing.T) {
	orders := []dataset.Order{
		line("1", "i1", 1, 1, 10),
		line("2", "i2", 2024, 1, 20),
	}

	res, err := Compute(dataset.NewTable(nil, orders), Options{MinYear: 1, MaxYear: 9999})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	first := time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Proleptic Gregorian day count: 2023 years holding 490 leap days.
	want := 2023*365 + 490

	profiles := byCustomer(t, res)
	if got := profiles["1"].Recency; got != want {
		t.Errorf("Expected recency %d days, got %d", want, got)
	}
	if got := profiles["2"].Recency; got != 0 {
		t.Errorf("Expected recency 0 for the latest customer, got %d", got)
	}
	if !profiles["1"].LastOrder.Equal(first) || !res.MaxDate.Equal(last) {
		t.Errorf("Expected dates %s and %s, got %s and %s",
			first, last, profiles["1"].LastOrder, res.MaxDate)
	}
	if profiles["1"].RScore >= profiles["2"].RScore {
		t.Errorf("Expected older customer to score lower R, got %d vs %d",
			profiles["1"].RScore, profiles["2"].RScore)
	}
}

func TestComputeMissingCustomers(t *testing.T) {
	orders := []dataset.Order{
		line("1", "i1", 2024, 1, 10),
		line("", "i2", 2024, 6, 99),
		line("", "i3", 2024, 2, 5),
	}

	res, err := Compute(dataset.NewTable(nil, orders), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(res.Profiles) != 1 {
		t.Fatalf("Expected rows without customer to be dropped, got %d profiles", len(res.Profiles))
	}
	if res.DroppedRows != 2 {
		t.Errorf("Expected 2 dropped rows, got %d", res.DroppedRows)
	}

	// The anchor still comes from the whole table.
	if res.MaxDate.Month() != time.June {
		t.Errorf("Expected max date in June, got %v", res.MaxDate)
	}
	if res.Profiles[0].Recency != 152 {
		t.Errorf("Expected recency of 152 days, got %d", res.Profiles[0].Recency)
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name   string
		orders []dataset.Order
		column string
	}{
		{"month too large", []dataset.Order{line("1", "i1", 2024, 13, 1)}, dataset.ColOrderMonth},
		{"month zero", []dataset.Order{line("1", "i1", 2024, 0, 1)}, dataset.ColOrderMonth},
		{"year too small", []dataset.Order{line("1", "i1", 1800, 1, 1)}, dataset.ColOrderYear},
		{"year too large", []dataset.Order{line("1", "i1", 2024, 1, 1), line("2", "i2", 2200, 1, 1)}, dataset.ColOrderYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(dataset.NewTable(nil, tt.orders), DefaultOptions())
			var dataErr *dataset.DataError
			if !errors.As(err, &dataErr) {
				t.Fatalf("Expected DataError, got %v", err)
			}
			if dataErr.Column != tt.column {
				t.Errorf("Expected column %s, got %s", tt.column, dataErr.Column)
			}
		})
	}

	if _, err := Compute(dataset.NewTable(nil, nil), DefaultOptions()); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("Expected ErrEmptyTable, got %v", err)
	}
}

// randomTable builds a deterministic pseudo-random dataset.
func randomTable(seed int64, customers, rows int) *dataset.Table {
	rng := rand.New(rand.NewSource(seed))
	orders := make([]dataset.Order, rows)
	for i := range orders {
		c := rng.Intn(customers)
		sales := float64(rng.Intn(100000))/100 - 100
		orders[i] = line(
			fmt.Sprint(1000+c),
			fmt.Sprintf("inv-%d-%d", c, rng.Intn(6)),
			2022+rng.Intn(3), 1+rng.Intn(12), sales)
	}
	return dataset.NewTable(nil, orders)
}

func TestComputeProperties(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			table := randomTable(seed, 60, 600)
			res, err := Compute(table, DefaultOptions())
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}

			// Distinct invoices and total sales per customer, counted directly.
			invoices := map[string]map[string]bool{}
			var total float64
			for _, o := range table.Orders() {
				if invoices[o.CustomerID] == nil {
					invoices[o.CustomerID] = map[string]bool{}
				}
				invoices[o.CustomerID][o.InvoiceNum] = true
				total += o.Sales
			}

			segmentByScore := map[int]Segment{}
			var monetary float64
			for _, p := range res.Profiles {
				for _, s := range []int{p.RScore, p.FScore, p.MScore} {
					if s < 1 || s > 4 {
						t.Errorf("Customer %s: score %d out of range", p.CustomerID, s)
					}
				}
				if p.Score < 3 || p.Score > 12 || p.Score != p.RScore+p.FScore+p.MScore {
					t.Errorf("Customer %s: bad composite score %d", p.CustomerID, p.Score)
				}
				if p.Recency < 0 {
					t.Errorf("Customer %s: negative recency", p.CustomerID)
				}
				if p.Recency == 0 && p.RScore != 4 {
					t.Errorf("Customer %s: most recent customer got R score %d", p.CustomerID, p.RScore)
				}
				if p.Frequency != len(invoices[p.CustomerID]) {
					t.Errorf("Customer %s: expected frequency %d, got %d",
						p.CustomerID, len(invoices[p.CustomerID]), p.Frequency)
				}
				if seg, ok := segmentByScore[p.Score]; ok && seg != p.Segment {
					t.Errorf("Score %d mapped to both %s and %s", p.Score, seg, p.Segment)
				}
				segmentByScore[p.Score] = p.Segment
				monetary += p.Monetary
			}

			if math.Abs(monetary-total) > 1e-6 {
				t.Errorf("Monetary total %v does not match sales total %v", monetary, total)
			}

			// Recency never decreases as the last order gets older.
			for _, a := range res.Profiles {
				for _, b := range res.Profiles {
					if a.LastOrder.After(b.LastOrder) && a.Recency > b.Recency {
						t.Fatalf("Recency not monotonic: %s=%d vs %s=%d",
							a.CustomerID, a.Recency, b.CustomerID, b.Recency)
					}
				}
			}
		})
	}
}

func TestComputeTiedValuesShareRankScore(t *testing.T) {
	// Six customers, two distinct recency values: rank fallback applies and
	// customers with equal recency must receive equal R scores.
	var orders []dataset.Order
	for i := 1; i <= 6; i++ {
		month := 6
		if i > 4 {
			month = 1
		}
		orders = append(orders, line(fmt.Sprint(i), fmt.Sprint("i", i), 2024, month, float64(i)))
	}

	res, err := Compute(dataset.NewTable(nil, orders), DefaultOptions())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Scoring.Recency != MethodRank {
		t.Fatalf("Expected rank scoring for Recency, got %s", res.Scoring.Recency)
	}

	for _, p := range res.Profiles {
		want := 4
		if p.Recency > 0 {
			// First position of the older group is 5 of 6: bucket 4*4/6 = 2.
			want = 2
		}
		if p.RScore != want {
			t.Errorf("Customer %s: expected R %d, got %d", p.CustomerID, want, p.RScore)
		}
	}
}
