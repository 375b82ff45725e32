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
	"time"
)

// OfficeHours models a wholesaler whose customers order from work.
// Peak hours: 8AM - 6PM
// Lunch dip: 12PM - 1PM (50%)
// Break dips: 10AM, 3PM (85%)
// Early morning: 6AM - 8AM (ramp up)
// Evening: 6PM - 10PM (ramp down to 20%)
// Night: 10PM - 6AM (5%)
// Weekend: 10% of weekday peak
type OfficeHours struct{}

// NewOfficeHours creates a new OfficeHours profile.
func NewOfficeHours() Profile {
	return &OfficeHours{}
}

func (p *OfficeHours) Name() string {
	return "office-hours"
}

func (p *OfficeHours) Description() string {
	return "Office hours (8AM-6PM, weekday focus)"
}

func (p *OfficeHours) ActivityLevel(hour int, weekday time.Weekday) float64 {
	if isWeekend(weekday) {
		return 0.10
	}

	switch {
	case hour >= 22 || hour < 6:
		return 0.05
	case hour < 8:
		// 6AM → 8AM, sampled at the half hour
		progress := (float64(hour-6) + 0.5) / 2.0
		return 0.05 + 0.95*progress
	case hour < 18:
		switch hour {
		case 12:
			return 0.50
		case 10, 15:
			return 0.85
		}
		return 1.0
	default:
		// 6PM → 10PM
		progress := (float64(hour-18) + 0.5) / 4.0
		return 1.0 - 0.80*progress
	}
}
