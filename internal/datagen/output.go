//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/db"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// PostgresOptions controls loading into PostgreSQL.
type PostgresOptions struct {
	Table        string
	Profile      string
	Seed         int64
	DropExisting bool
}

// WritePostgres creates the orders table, copies the rows in and records
// the generation metadata.
func WritePostgres(ctx context.Context, pool *pgxpool.Pool, t *dataset.Table, opts PostgresOptions) error {
	if opts.DropExisting {
		if err := db.DropSchema(ctx, pool, opts.Table); err != nil {
			return err
		}
	}
	if err := db.CreateSchema(ctx, pool, opts.Table); err != nil {
		return err
	}

	n, err := db.InsertOrders(ctx, pool, opts.Table, t.Orders())
	if err != nil {
		return err
	}

	info := db.GenerationInfo{
		Table:   opts.Table,
		Profile: opts.Profile,
		Seed:    opts.Seed,
		Rows:    n,
	}
	if err := db.SaveMetadata(ctx, pool, info); err != nil {
		return err
	}

	logging.Info().
		Str("table", opts.Table).
		Int64("rows", n).
		Msg("Loaded dataset into PostgreSQL")
	return nil
}
