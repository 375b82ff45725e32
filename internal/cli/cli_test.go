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
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
	"github.com/pgEdge/pgedge-salesdash/internal/testutil"
)

// writeSampleCSV writes the sample orders to a temporary file.
func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create sample file: %v", err)
	}
	defer f.Close()
	if err := dataset.WriteCSV(f, dataset.NewTable(nil, testutil.SampleOrders())); err != nil {
		t.Fatalf("Failed to write sample file: %v", err)
	}
	return path
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSelectionFromFlags(t *testing.T) {
	t.Cleanup(func() {
		filterCountries, filterCategories, filterYears, filterReturnStatuses = nil, nil, nil, nil
	})

	filterCountries = []string{"Korea, Republic of", "France"}
	filterYears = []string{"2024", " 2023 ", ""}
	sel, err := selectionFromFlags()
	if err != nil {
		t.Fatalf("selectionFromFlags failed: %v", err)
	}
	if !reflect.DeepEqual(sel.Countries, []string{"Korea, Republic of", "France"}) {
		t.Errorf("Expected countries to be kept verbatim, got %v", sel.Countries)
	}
	if !reflect.DeepEqual(sel.Years, []int{2024, 2023}) {
		t.Errorf("Expected years [2024 2023], got %v", sel.Years)
	}

	filterYears = []string{"twenty"}
	if _, err := selectionFromFlags(); err == nil {
		t.Error("Expected error for a non-numeric year, got nil")
	}
}

func TestFilterFlagsRegistered(t *testing.T) {
	names := []string{"country", "category", "year", "return-status"}
	for _, cmd := range []*cobra.Command{reportCmd, exportCmd} {
		for _, name := range names {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("Expected --%s on %s", name, cmd.Name())
			}
		}
	}
	// serve takes its selection from each request's query string.
	for _, name := range names {
		if serveCmd.Flags().Lookup(name) != nil {
			t.Errorf("Expected no --%s on serve", name)
		}
	}
}

func TestWriteReport(t *testing.T) {
	base := dataset.NewTable(nil, testutil.SampleOrders())
	sel := filter.Selection{Countries: []string{"France"}}
	dash, err := report.Build(report.NewInputs(base, sel), report.DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, sel, dash); err != nil {
		t.Fatalf("writeReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"country=France",
		"Total Orders:",
		"Top Products",
		"Kite",
		"Refund Rate by Month",
		"100.0%",
		"Customer Segments (whole dataset)",
		"At Risk",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q\n%s", want, out)
		}
	}
}

func TestWriteProfilesCSV(t *testing.T) {
	profiles := []rfm.Profile{{
		CustomerID: "17850", Recency: 0, Frequency: 3, Monetary: 19.55,
		RScore: 4, FScore: 4, MScore: 4, Code: "444", Score: 12, Segment: rfm.SegmentChampions,
	}}

	var buf bytes.Buffer
	if err := writeProfilesCSV(&buf, profiles); err != nil {
		t.Fatalf("writeProfilesCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	want := []string{"17850", "0", "3", "19.55", "4", "4", "4", "444", "12", "Champions"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("Expected %v, got %v", want, records[1])
	}
}

func TestSegmentHelpers(t *testing.T) {
	if !validSegment(rfm.SegmentAtRisk) {
		t.Error("Expected At Risk to be a valid segment")
	}
	if validSegment("Dormant") {
		t.Error("Expected Dormant to be rejected")
	}

	profiles := []rfm.Profile{
		{CustomerID: "1", Segment: rfm.SegmentLoyal},
		{CustomerID: "2", Segment: rfm.SegmentAtRisk},
		{CustomerID: "3", Segment: rfm.SegmentLoyal},
	}
	got := bySegment(profiles, rfm.SegmentLoyal)
	if len(got) != 2 || got[0].CustomerID != "1" || got[1].CustomerID != "3" {
		t.Errorf("Expected customers 1 and 3, got %+v", got)
	}
}

func TestExportCommand(t *testing.T) {
	path := writeSampleCSV(t)
	t.Cleanup(func() {
		filterCountries = nil
		dataPath = ""
		exportOutput = "filtered_data.csv"
	})

	out, err := execute(t, "export", "--data", path, "--country", "Germany", "--output", "-")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	tbl, err := dataset.ReadCSV(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if tbl.Len() != 1 || tbl.At(0).Description != "Trowel" {
		t.Errorf("Expected only the Germany row, got %+v", tbl.Orders())
	}
}

func TestRFMCommand(t *testing.T) {
	path := writeSampleCSV(t)
	t.Cleanup(func() {
		dataPath = ""
		rfmCSV = false
	})

	out, err := execute(t, "rfm", "--data", path, "--csv")
	if err != nil {
		t.Fatalf("rfm failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 customers, got %d records", len(records))
	}
	if !reflect.DeepEqual(records[0], profileColumns) {
		t.Errorf("Expected header %v, got %v", profileColumns, records[0])
	}
}

func TestMissingDataPath(t *testing.T) {
	t.Setenv("SALESDASH_DATA", "")

	_, err := execute(t, "report")
	if err == nil || !strings.Contains(err.Error(), "input file is required") {
		t.Errorf("Expected missing input error, got %v", err)
	}
}
