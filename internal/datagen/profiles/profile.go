//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package profiles implements shopping activity profiles. A profile weights
// each hour of the week; the generator draws order hours and weekdays in
// proportion to those weights.
package profiles

import (
	"fmt"
	"sort"
	"time"
)

// Profile defines the interface for activity profiles.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// ActivityLevel returns the relative order volume (0.0 to 1.0+) for an
	// hour of the given weekday. Values above 1.0 mark busier than normal
	// hours, such as weekend evenings for stores.
	ActivityLevel(hour int, weekday time.Weekday) float64
}

var registry = make(map[string]func() Profile)

// Register adds a profile constructor to the registry.
func Register(name string, constructor func() Profile) {
	registry[name] = constructor
}

// Get retrieves a profile by name.
func Get(name string) (Profile, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return constructor(), nil
}

// List returns all registered profile names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Slot is one hour of the week.
type Slot struct {
	Weekday time.Weekday
	Hour    int
}

// Week returns the 168 slots of a week, Monday 00:00 first, with the
// profile's activity for each.
func Week(p Profile) ([]Slot, []float64) {
	slots := make([]Slot, 0, 7*24)
	levels := make([]float64, 0, 7*24)
	for d := 0; d < 7; d++ {
		wd := time.Weekday((d + 1) % 7)
		for h := 0; h < 24; h++ {
			slots = append(slots, Slot{Weekday: wd, Hour: h})
			levels = append(levels, p.ActivityLevel(h, wd))
		}
	}
	return slots, levels
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

func init() {
	Register("office-hours", NewOfficeHours)
	Register("store-regional", NewStoreRegional)
	Register("store-global", NewStoreGlobal)
}
