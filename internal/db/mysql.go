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
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// OpenMySQL opens a MySQL or MariaDB handle. dsn may be a mysql:// or
// mariadb:// URL or a native driver DSN.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	mysqlDSN, err := ToMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg, err := mysql.ParseDSN(mysqlDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql dsn: %w", err)
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	logging.Info().
		Str("addr", cfg.Addr).
		Str("database", cfg.DBName).
		Msg("Connected to database")

	return db, nil
}

// ToMySQLDSN converts mysql:// and mariadb:// URLs to the driver's DSN
// format, keeping any query parameters. Anything else is returned
// unchanged.
func ToMySQLDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}

	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
		return "", fmt.Errorf("incomplete dsn: user, host and database are required")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	// Params are written after the defaults, so URL values win when the
	// driver parses the DSN back.
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for key := range q {
			cfg.Params[key] = q.Get(key)
		}
	}

	return cfg.FormatDSN(), nil
}

// LoadOrdersMySQL reads every row of the table through database/sql. Rows
// are decoded with the same schema rules as a CSV file.
func LoadOrdersMySQL(ctx context.Context, db *sql.DB, table string) (*dataset.Table, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM `"+table+"`")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	schema, err := dataset.NewSchema(header)
	if err != nil {
		return nil, err
	}

	values := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(header))

	var orders []dataset.Order
	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to read row %d of %s: %w", row, table, err)
		}
		for i, v := range values {
			record[i] = v.String
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
