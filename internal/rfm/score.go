//-------------------------------------------------------------------------
//
// pgEdge Sales Dashboard
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package rfm

import (
	"fmt"
	"math"
	"sort"
)

// Quartiles is the number of score buckets per metric.
const Quartiles = 4

// Method names how a metric was bucketed.
type Method string

const (
	// MethodQuantile bins values between quartile edges.
	MethodQuantile Method = "quantile"

	// MethodRank bins values by ordinal position. It is used when quartile
	// edges are undefined: fewer than four customers, fewer than four
	// distinct values, or colliding edges.
	MethodRank Method = "rank"
)

// Scoring records the method used for each metric.
type Scoring struct {
	Recency   Method `json:"recency"`
	Frequency Method `json:"frequency"`
	Monetary  Method `json:"monetary"`
}

// Degenerate reports whether any metric fell back to rank scoring.
func (s Scoring) Degenerate() bool {
	return s.Recency == MethodRank || s.Frequency == MethodRank || s.Monetary == MethodRank
}

// score fills in the R, F and M scores, the composite score and the
// segment of every profile. Profiles must already be in customer id order;
// that order breaks Frequency ties.
func score(profiles []Profile) Scoring {
	n := len(profiles)
	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	for i, p := range profiles {
		recency[i] = float64(p.Recency)
		frequency[i] = float64(p.Frequency)
		monetary[i] = p.Monetary
	}

	rBins, rMethod := bucket(recency)
	fBins, fMethod := bucket(firstRank(frequency))
	mBins, mMethod := bucket(monetary)

	for i := range profiles {
		p := &profiles[i]
		p.RScore = Quartiles - rBins[i]
		p.FScore = fBins[i] + 1
		p.MScore = mBins[i] + 1
		p.Score = p.RScore + p.FScore + p.MScore
		p.Code = fmt.Sprintf("%d%d%d", p.RScore, p.FScore, p.MScore)
		p.Segment = Classify(p.Score)
	}

	return Scoring{Recency: rMethod, Frequency: fMethod, Monetary: mMethod}
}

// bucket assigns every value a bin in [0, Quartiles).
func bucket(values []float64) ([]int, Method) {
	if edges, ok := quartileEdges(values); ok {
		return binByEdges(values, edges), MethodQuantile
	}
	return binByRank(values), MethodRank
}

// quartileEdges returns the 0/25/50/75/100 % quantiles of values with linear
// interpolation between order statistics. ok is false when the edges do not
// define Quartiles non-empty ranges.
func quartileEdges(values []float64) ([]float64, bool) {
	n := len(values)
	if n < Quartiles {
		return nil, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	distinct := 1
	for i := 1; i < n; i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	if distinct < Quartiles {
		return nil, false
	}

	edges := make([]float64, Quartiles+1)
	for q := 0; q <= Quartiles; q++ {
		edges[q] = quantile(sorted, float64(q)/Quartiles)
	}
	for q := 1; q <= Quartiles; q++ {
		if edges[q] <= edges[q-1] {
			return nil, false
		}
	}
	return edges, true
}

func quantile(sorted []float64, q float64) float64 {
	h := q * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// binByEdges places each value in the right-closed interval it falls in;
// the lowest edge belongs to the first bin.
func binByEdges(values, edges []float64) []int {
	bins := make([]int, len(values))
	for i, v := range values {
		b := 0
		for b < Quartiles-1 && v > edges[b+1] {
			b++
		}
		bins[i] = b
	}
	return bins
}

// binByRank buckets by ascending position. Tied values share the smallest
// position of their group, so equal values always share a bin.
func binByRank(values []float64) []int {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	bins := make([]int, n)
	groupStart := 0
	for pos, idx := range order {
		if pos > 0 && values[idx] != values[order[pos-1]] {
			groupStart = pos
		}
		bins[idx] = Quartiles * groupStart / n
	}
	return bins
}

// firstRank returns 1-based ascending ranks in which ties are ordered by
// position, so every rank is distinct.
func firstRank(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks := make([]float64, len(values))
	for pos, idx := range order {
		ranks[idx] = float64(pos + 1)
	}
	return ranks
}
