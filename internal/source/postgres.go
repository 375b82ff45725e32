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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/db"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

func init() {
	Register(&Postgres{})
}

// Postgres reads the orders table from a PostgreSQL database.
type Postgres struct{}

// Name returns the source type.
func (s *Postgres) Name() string {
	return config.SourcePostgres
}

// Description returns a short description.
func (s *Postgres) Description() string {
	return "Orders table in a PostgreSQL database"
}

// Load reads cfg.Table over cfg.Connection.
func (s *Postgres) Load(ctx context.Context, cfg config.SourceConfig) (*dataset.Table, error) {
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if meta, ok := provenance(ctx, pool, cfg.Table); ok {
		logging.Info().
			Str("generated_at", meta["generated_at"]).
			Str("profile", meta["profile"]).
			Str("seed", meta["seed"]).
			Msg("Dataset was generated by pgedge-salesdash")
	}

	return db.LoadOrders(ctx, pool, cfg.Table)
}

// provenance returns the generation metadata when it describes table.
// Metadata left behind by a generate into another table is ignored.
func provenance(ctx context.Context, pool *pgxpool.Pool, table string) (map[string]string, bool) {
	if exists, err := db.MetadataExists(ctx, pool); err != nil || !exists {
		return nil, false
	}
	generated, err := db.GetMetadataValue(ctx, pool, "table")
	if err != nil || generated != table {
		return nil, false
	}
	meta, err := db.GetAllMetadata(ctx, pool)
	if err != nil {
		return nil, false
	}
	return meta, true
}
