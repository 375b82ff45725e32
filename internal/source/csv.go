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
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

func init() {
	Register(&CSV{})
}

// CSV reads a comma separated file with a header row.
type CSV struct{}

// Name returns the source type.
func (s *CSV) Name() string {
	return config.SourceCSV
}

// Description returns a short description.
func (s *CSV) Description() string {
	return "Comma separated file with a header row"
}

// Load reads the file named by cfg.Path.
func (s *CSV) Load(ctx context.Context, cfg config.SourceConfig) (*dataset.Table, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no input file given")
	}

	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	logging.Debug().Str("path", cfg.Path).Msg("Reading input file")

	tbl, err := dataset.ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Path, err)
	}
	return tbl, nil
}
