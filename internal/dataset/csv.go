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
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadCSV parses a delimited order file. The first row is the header. Any
// malformed row aborts the load; partial tables are never returned.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input: no header row")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	schema, err := NewSchema(header)
	if err != nil {
		return nil, err
	}

	var orders []Order
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", row, err)
		}
		o, err := schema.Decode(row, record)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return NewTable(schema.Extra, orders), nil
}

// WriteCSV serializes a table with a header row and no index column.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range t.Len() {
		record := t.Record(i)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the table to path, replacing any existing file.
func WriteCSVFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := WriteCSV(w, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Record renders row i as text in Header order, formatted the way WriteCSV
// writes it.
func (t *Table) Record(i int) []string {
	o := t.orders[i]
	record := make([]string, 0, len(Columns)+len(t.extra))
	record = append(record,
		o.InvoiceNum,
		o.CustomerID,
		o.Country,
		o.Category,
		o.Description,
		FormatFloat(o.Sales),
		FormatBool(o.IsRefund),
		o.ReturnStatus,
		strconv.Itoa(o.OrderYear),
		strconv.Itoa(o.OrderMonth),
		strconv.Itoa(o.OrderHour),
		strconv.Itoa(o.OrderWeekday),
	)
	for j := range t.extra {
		v := ""
		if j < len(o.Extra) {
			v = o.Extra[j]
		}
		record = append(record, v)
	}
	return record
}

// FormatFloat writes the shortest decimal that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatBool writes booleans the way pandas does.
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
