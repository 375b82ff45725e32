//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package source

import (
	"context"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/db"
)

func init() {
	Register(&MySQL{})
}

// MySQL reads the orders table from a MySQL or MariaDB database.
type MySQL struct{}

// Name returns the source type.
func (s *MySQL) Name() string {
	return config.SourceMySQL
}

// Description returns a short description.
func (s *MySQL) Description() string {
	return "Orders table in a MySQL or MariaDB database"
}

// Load reads cfg.Table over cfg.Connection.
func (s *MySQL) Load(ctx context.Context, cfg config.SourceConfig) (*dataset.Table, error) {
	conn, err := db.OpenMySQL(ctx, cfg.Connection)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return db.LoadOrdersMySQL(ctx, conn, cfg.Table)
}
