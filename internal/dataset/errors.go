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
	"strings"
)

// SchemaError reports required columns absent from a source.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// DataError reports a value that cannot be interpreted. Row is the 1-based
// data row (the header is not counted).
type DataError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

// NewDataError builds a DataError.
func NewDataError(row int, column, value string, err error) *DataError {
	return &DataError{Row: row, Column: column, Value: value, Err: err}
}

func (e *DataError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
