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
	"bufio"
	"context"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/filter"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered table as CSV",
	Long: `Write the rows matching the filter flags as CSV, with every input
column including ones the dashboard does not use. Use --output - to write
to standard output.

Example:
  pgedge-salesdash export --data sales.csv --country France --output france.csv`,
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "filtered_data.csv",
		"output file, or - for standard output")
}

func runExport(cmd *cobra.Command, args []string) error {
	sel, err := selectionFromFlags()
	if err != nil {
		return err
	}

	base, err := loadBase(context.Background())
	if err != nil {
		return err
	}
	filtered := filter.Apply(base, sel)

	if exportOutput == "-" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := dataset.WriteCSV(w, filtered); err != nil {
			return err
		}
		return w.Flush()
	}

	if err := dataset.WriteCSVFile(exportOutput, filtered); err != nil {
		return err
	}
	logging.Info().
		Str("selection", sel.String()).
		Int("rows", filtered.Len()).
		Str("path", exportOutput).
		Msg("Export complete")
	return nil
}
