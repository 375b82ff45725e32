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
	"context"
	"sync"
)

// LoadFunc produces the base table.
type LoadFunc func(ctx context.Context) (*Table, error)

// Store owns the base table for the lifetime of the process. The loader
// runs at most once; its table, or its error, is returned to every caller
// after that. There is no invalidation.
type Store struct {
	load  LoadFunc
	once  sync.Once
	table *Table
	err   error
}

// NewStore creates a store around a loader.
func NewStore(load LoadFunc) *Store {
	return &Store{load: load}
}

// NewStaticStore wraps an already loaded table.
func NewStaticStore(t *Table) *Store {
	s := &Store{}
	s.once.Do(func() { s.table = t })
	return s
}

// Base returns the unfiltered table, loading it on first use.
func (s *Store) Base(ctx context.Context) (*Table, error) {
	s.once.Do(func() {
		s.table, s.err = s.load(ctx)
	})
	return s.table, s.err
}
