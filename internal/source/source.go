//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source defines where the order dataset comes from. Sources
// register themselves by name; the configured one is wrapped in a
// load-once dataset store.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pgEdge/pgedge-salesdash/internal/config"
	"github.com/pgEdge/pgedge-salesdash/internal/dataset"
	"github.com/pgEdge/pgedge-salesdash/internal/logging"
)

// ErrUnknownSource is returned for a source name nobody registered.
var ErrUnknownSource = errors.New("unknown source")

// Source loads the complete order table.
type Source interface {
	// Name returns the source type used in configuration.
	Name() string

	// Description returns a one-line description for help output.
	Description() string

	// Load reads and validates every row.
	Load(ctx context.Context, cfg config.SourceConfig) (*dataset.Table, error)
}

var (
	registry = make(map[string]Source)
	mu       sync.RWMutex
)

// Register adds a source to the registry.
func Register(s Source) {
	mu.Lock()
	defer mu.Unlock()
	registry[s.Name()] = s
}

// Get retrieves a source by name.
func Get(name string) (Source, error) {
	mu.RLock()
	defer mu.RUnlock()

	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return s, nil
}

// List returns all registered source names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader returns a load function for the configured source. The function
// logs what it loaded and how long it took.
func Loader(cfg config.SourceConfig) (dataset.LoadFunc, error) {
	src, err := Get(cfg.Type)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) (*dataset.Table, error) {
		start := time.Now()
		tbl, err := src.Load(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset from %s source: %w", src.Name(), err)
		}

		logging.Info().
			Str("source", src.Name()).
			Int("rows", tbl.Len()).
			Strs("extra_columns", tbl.Extra()).
			Dur("elapsed", time.Since(start)).
			Msg("Dataset loaded")
		return tbl, nil
	}, nil
}

// NewStore wraps the configured source in a load-once store.
func NewStore(cfg config.SourceConfig) (*dataset.Store, error) {
	load, err := Loader(cfg)
	if err != nil {
		return nil, err
	}
	return dataset.NewStore(load), nil
}
