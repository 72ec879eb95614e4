// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"log/slog"
	"slices"
	"time"
)

// Summary describes a window of loop-time samples. All durations are
// zero when Count is zero.
type Summary struct {
	Count int
	Last  time.Duration
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P99   time.Duration
}

// Summarize computes a Summary over durations, which must be in arrival
// order (Last is the final element). durations is not modified.
func Summarize(durations []time.Duration) Summary {
	if len(durations) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	// Summed in float64 so windows of very large values cannot wrap.
	var total float64
	for _, duration := range sorted {
		total += float64(duration)
	}

	return Summary{
		Count: len(sorted),
		Last:  durations[len(durations)-1],
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  time.Duration(total / float64(len(sorted))),
		P50:   percentile(sorted, 50),
		P99:   percentile(sorted, 99),
	}
}

// percentile returns the nearest-rank percentile of sorted values.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// LogValue renders the summary as a log group.
func (s Summary) LogValue() slog.Value {
	if s.Count == 0 {
		return slog.GroupValue(slog.Int("count", 0))
	}
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Duration("last", s.Last),
		slog.Duration("min", s.Min),
		slog.Duration("max", s.Max),
		slog.Duration("mean", s.Mean),
		slog.Duration("p50", s.P50),
		slog.Duration("p99", s.P99),
	)
}
