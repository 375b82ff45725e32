//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// DefaultOrdersTable is the table written by the generator and read by the
// database sources.
const DefaultOrdersTable = "sales_orders"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName rejects names that would need quoting.
func ValidateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

const createOrdersTableSQL = `
CREATE TABLE IF NOT EXISTS %s (
    invoice_num   TEXT NOT NULL,
    customer_id   TEXT,
    country       TEXT NOT NULL,
    category      TEXT NOT NULL,
    description   TEXT NOT NULL,
    sales         DOUBLE PRECISION NOT NULL,
    is_refund     BOOLEAN NOT NULL,
    return_status TEXT NOT NULL,
    order_year    INTEGER NOT NULL,
    order_month   INTEGER NOT NULL CHECK (order_month BETWEEN 1 AND 12),
    order_hour    INTEGER NOT NULL CHECK (order_hour BETWEEN 0 AND 23),
    order_weekday INTEGER NOT NULL CHECK (order_weekday BETWEEN 0 AND 6)
)`

// CreateSchema creates the orders table if it does not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}
	ident := pgx.Identifier{table}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf(createOrdersTableSQL, ident)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	logging.Debug().Str("table", table).Msg("Created orders table")
	return nil
}

// DropSchema drops the orders table and the metadata table.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}
	ident := pgx.Identifier{table}.Sanitize()
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	if err := DropMetadata(ctx, pool); err != nil {
		return fmt.Errorf("failed to drop metadata: %w", err)
	}
	logging.Info().Str("table", table).Msg("Dropped orders table")
	return nil
}

// InsertOrders bulk loads orders with COPY. Pass-through columns are not
// stored.
func InsertOrders(ctx context.Context, pool *pgxpool.Pool, table string, orders []dataset.Order) (int64, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, dataset.Columns,
		pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
			return orderRow(orders[i]), nil
		}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy orders into %s: %w", table, err)
	}
	return n, nil
}

// orderRow lays out an order in dataset.Columns order. A missing customer
// is stored as NULL.
func orderRow(o dataset.Order) []any {
	var customer any
	if o.HasCustomer() {
		customer = o.CustomerID
	}
	return []any{
		o.InvoiceNum,
		customer,
		o.Country,
		o.Category,
		o.Description,
		o.Sales,
		o.IsRefund,
		o.ReturnStatus,
		int32(o.OrderYear),
		int32(o.OrderMonth),
		int32(o.OrderHour),
		int32(o.OrderWeekday),
	}
}

// LoadOrders reads every row of the table. Column names are matched the
// same way as a CSV header, so extra columns are carried through and
// missing ones fail with a schema error.
func LoadOrders(ctx context.Context, pool *pgxpool.Pool, table string) (*dataset.Table, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	schema, err := dataset.NewSchema(header)
	if err != nil {
		return nil, err
	}

	var orders []dataset.Order
	record := make([]string, len(fields))
	for row := 1; rows.Next(); row++ {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of %s: %w", row, table, err)
		}
		for i, v := range values {
			record[i] = formatValue(v)
		}
		o, err := schema.Decode(row, record)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	return dataset.NewTable(schema.Extra, orders), nil
}

// formatValue renders a decoded PostgreSQL value as the text a CSV file
// would hold. NULL becomes the empty string.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return dataset.FormatBool(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return dataset.FormatFloat(float64(x))
	case float64:
		return dataset.FormatFloat(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return dataset.FormatFloat(f.Float64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
