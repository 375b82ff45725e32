//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package rfm

// Segment is a customer value label derived from the composite RFM score.
type Segment string

// Segments, best first.
const (
	SegmentChampions Segment = "Champions"
	SegmentLoyal     Segment = "Loyal"
	SegmentPotential Segment = "Potential"
	SegmentAtRisk    Segment = "At Risk"
)

// Segments lists every segment in ladder order.
var Segments = []Segment{SegmentChampions, SegmentLoyal, SegmentPotential, SegmentAtRisk}

// ladder is evaluated top down; the first threshold met wins.
var ladder = []struct {
	min     int
	segment Segment
}{
	{9, SegmentChampions},
	{7, SegmentLoyal},
	{5, SegmentPotential},
}

// Classify maps a composite score (3-12) to its segment.
func Classify(score int) Segment {
	for _, step := range ladder {
		if score >= step.min {
			return step.segment
		}
	}
	return SegmentAtRisk
}

// SegmentSummary aggregates the customers of one segment.
type SegmentSummary struct {
	Segment   Segment `json:"segment"`
	Customers int     `json:"customers"`
	Share     float64 `json:"share"`
	Monetary  float64 `json:"monetary"`
}

// Summarize counts customers and sums monetary value per segment. Every
// segment is present, in ladder order, even when empty.
func Summarize(profiles []Profile) []SegmentSummary {
	index := make(map[Segment]int, len(Segments))
	out := make([]SegmentSummary, len(Segments))
	for i, s := range Segments {
		index[s] = i
		out[i].Segment = s
	}

	for _, p := range profiles {
		i, ok := index[p.Segment]
		if !ok {
			continue
		}
		out[i].Customers++
		out[i].Monetary += p.Monetary
	}

	if len(profiles) > 0 {
		for i := range out {
			out[i].Share = float64(out[i].Customers) / float64(len(profiles))
		}
	}
	return out
}
