//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package profiles

import (
	"math"
	"time"
)

// StoreRegional models a store selling to a single region.
// Morning: 6AM - 12PM (40% of peak)
// Afternoon: 12PM - 5PM (60% of peak)
// Evening peak: 5PM - 10PM (100%)
// Late night: 10PM - 12AM (70%)
// Night: 12AM - 6AM (15%)
// Weekend: 120% of weekday
type StoreRegional struct{}

// NewStoreRegional creates a new StoreRegional profile.
func NewStoreRegional() Profile {
	return &StoreRegional{}
}

func (p *StoreRegional) Name() string {
	return "store-regional"
}

func (p *StoreRegional) Description() string {
	return "Online store, regional (evening peak)"
}

func (p *StoreRegional) ActivityLevel(hour int, weekday time.Weekday) float64 {
	var base float64

	switch {
	case hour < 6:
		base = 0.15
	case hour < 12:
		base = 0.40
	case hour < 17:
		base = 0.60
	case hour < 22:
		base = 1.0
	default:
		base = 0.70
	}

	if isWeekend(weekday) {
		base *= 1.20
	}
	return base
}

// StoreGlobal models a store selling worldwide, with order hours recorded
// in UTC. Each major market contributes an evening peak and volume never
// drops below 40%.
// Weekend: 110% of weekday
type StoreGlobal struct{}

// NewStoreGlobal creates a new StoreGlobal profile.
func NewStoreGlobal() Profile {
	return &StoreGlobal{}
}

func (p *StoreGlobal) Name() string {
	return "store-global"
}

func (p *StoreGlobal) Description() string {
	return "Online store, global (24/7 multi-region)"
}

func (p *StoreGlobal) ActivityLevel(hour int, weekday time.Weekday) float64 {
	// 5PM-10PM local in each market:
	// Americas (EST) 22:00-03:00 UTC, Europe (CET) 16:00-21:00 UTC,
	// Asia (JST) 08:00-13:00 UTC.
	americas := eveningPeak(hour, 22, 3)
	europe := eveningPeak(hour, 16, 21)
	asia := eveningPeak(hour, 8, 13)

	activity := 0.40 + 0.60*math.Max(americas, math.Max(europe, asia))

	if isWeekend(weekday) {
		activity *= 1.10
	}
	return activity
}

// eveningPeak returns 1 inside [start, end), ramping down over the two
// hours either side. Windows may wrap past midnight.
func eveningPeak(hour, start, end int) float64 {
	inside := hour >= start && hour < end
	if start > end {
		inside = hour >= start || hour < end
	}
	if inside {
		return 1.0
	}

	switch hourDistance(hour, start, end) {
	case 1:
		return 0.6
	case 2:
		return 0.3
	}
	return 0.0
}

// hourDistance is how many hours hour lies before start or at/after end,
// on a 24 hour clock.
func hourDistance(hour, start, end int) int {
	before := (start - hour + 24) % 24
	after := (hour-end+24)%24 + 1
	return min(before, after)
}
