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
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesdash/internal/filter"
)

// Filter flags shared by report and export.
var (
	filterCountries      []string
	filterCategories     []string
	filterYears          []string
	filterReturnStatuses []string
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&filterCountries, "country", nil,
		"keep rows from this country (repeatable)")
	cmd.Flags().StringArrayVar(&filterCategories, "category", nil,
		"keep rows in this category (repeatable)")
	cmd.Flags().StringArrayVar(&filterYears, "year", nil,
		"keep rows from this order year (repeatable)")
	cmd.Flags().StringArrayVar(&filterReturnStatuses, "return-status", nil,
		"keep rows with this return status (repeatable)")
}

// selectionFromFlags builds the row selection from the filter flags.
func selectionFromFlags() (filter.Selection, error) {
	years, err := filter.ParseYears(filterYears)
	if err != nil {
		return filter.Selection{}, err
	}
	return filter.Selection{
		Countries:      filterCountries,
		Categories:     filterCategories,
		Years:          years,
		ReturnStatuses: filterReturnStatuses,
	}, nil
}
