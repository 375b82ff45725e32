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
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/report"
	"github.com/pgEdge/pgedge-salesdash/internal/rfm"
)

var (
	rfmCSV     bool
	rfmSegment string
)

// profileColumns is the header of the customer table.
var profileColumns = []string{
	"customer_id", "Recency", "Frequency", "Monetary",
	"R_Score", "F_Score", "M_Score", "RFM_Segment", "RFM_Score", "Segment",
}

var rfmCmd = &cobra.Command{
	Use:   "rfm",
	Short: "Print the RFM customer segmentation",
	Long: `Score every customer on recency, frequency and monetary value and
print the per-customer table. The segmentation always covers the whole
dataset.

Example:
  pgedge-salesdash rfm --data sales.csv
  pgedge-salesdash rfm --data sales.csv --segment Champions --csv > champions.csv`,
	RunE: runRFM,
}

func init() {
	rfmCmd.Flags().BoolVar(&rfmCSV, "csv", false,
		"write the customer table as CSV")
	rfmCmd.Flags().StringVar(&rfmSegment, "segment", "",
		"only print customers in this segment (Champions, Loyal, Potential, At Risk)")
}

func runRFM(cmd *cobra.Command, args []string) error {
	if rfmSegment != "" && !validSegment(rfm.Segment(rfmSegment)) {
		return fmt.Errorf("unknown segment %q", rfmSegment)
	}

	base, err := loadBase(context.Background())
	if err != nil {
		return err
	}

	res, err := report.Segment(report.Inputs{Base: base}, reportOptions())
	if err != nil {
		return err
	}
	var profiles []rfm.Profile
	if res != nil {
		profiles = res.Profiles
	}
	if rfmSegment != "" {
		profiles = bySegment(profiles, rfm.Segment(rfmSegment))
	}

	if rfmCSV {
		return writeProfilesCSV(cmd.OutOrStdout(), profiles)
	}
	return writeProfiles(cmd.OutOrStdout(), res, profiles)
}

func validSegment(s rfm.Segment) bool {
	for _, seg := range rfm.Segments {
		if seg == s {
			return true
		}
	}
	return false
}

func bySegment(profiles []rfm.Profile, s rfm.Segment) []rfm.Profile {
	var out []rfm.Profile
	for _, p := range profiles {
		if p.Segment == s {
			out = append(out, p)
		}
	}
	return out
}

func profileRecord(p rfm.Profile) []string {
	return []string{
		p.CustomerID,
		strconv.Itoa(p.Recency),
		strconv.Itoa(p.Frequency),
		dataset.FormatFloat(p.Monetary),
		strconv.Itoa(p.RScore),
		strconv.Itoa(p.FScore),
		strconv.Itoa(p.MScore),
		p.Code,
		strconv.Itoa(p.Score),
		string(p.Segment),
	}
}

func writeProfilesCSV(out io.Writer, profiles []rfm.Profile) error {
	w := csv.NewWriter(out)
	if err := w.Write(profileColumns); err != nil {
		return err
	}
	for _, p := range profiles {
		if err := w.Write(profileRecord(p)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeProfiles(out io.Writer, res *rfm.Result, profiles []rfm.Profile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if res == nil {
		fmt.Fprintln(w, "No customers to segment.")
		return w.Flush()
	}

	fmt.Fprintf(w, "Reference date:\t%s\n", res.MaxDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Customers:\t%d\n", len(res.Profiles))
	fmt.Fprintf(w, "Rows without customer:\t%d\n", res.DroppedRows)
	if res.Scoring.Degenerate() {
		fmt.Fprintf(w, "Scoring:\trecency=%s frequency=%s monetary=%s\n",
			res.Scoring.Recency, res.Scoring.Frequency, res.Scoring.Monetary)
	}
	fmt.Fprintln(w)

	for i, col := range profileColumns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, p := range profiles {
		for i, v := range profileRecord(p) {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
