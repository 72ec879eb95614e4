// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"time"

	"github.com/bureau-foundation/perfview/lib/clock"
	"github.com/bureau-foundation/perfview/lib/ring"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// State is the windowed telemetry the consumer displays. Each sample
// kind has its own fixed-capacity buffer; when a buffer is full the
// oldest entry is overwritten.
type State struct {
	clock     clock.Clock
	loopTimes *ring.Buffer[time.Duration]

	applied      uint64
	lastSampleAt time.Time
}

// NewState creates a State whose buffers hold capacity samples each.
// Panics if capacity <= 0.
func NewState(capacity int, clk clock.Clock) *State {
	return &State{
		clock:     clk,
		loopTimes: ring.New[time.Duration](capacity),
	}
}

// Apply records one sample.
func (s *State) Apply(sample perf.Sample) {
	if loopTime, ok := sample.(perf.LoopTime); ok {
		s.loopTimes.Push(loopTime.Duration)
	}
	s.applied++
	s.lastSampleAt = s.clock.Now()
}

// Capacity returns the per-kind window size.
func (s *State) Capacity() int { return s.loopTimes.Cap() }

// Applied returns the number of samples applied since creation,
// including ones since overwritten.
func (s *State) Applied() uint64 { return s.applied }

// Evicted returns the number of loop-time samples overwritten because
// the window was full.
func (s *State) Evicted() uint64 { return s.loopTimes.Evicted() }

// LastSampleAt returns when the most recent sample was applied, or the
// zero time if none has been.
func (s *State) LastSampleAt() time.Time { return s.lastSampleAt }

// SinceLastSample returns how long ago the most recent sample was
// applied. The second result is false if none has been.
func (s *State) SinceLastSample() (time.Duration, bool) {
	if s.lastSampleAt.IsZero() {
		return 0, false
	}
	return s.clock.Now().Sub(s.lastSampleAt), true
}

// LoopTimes returns a copy of the loop-time window, oldest first.
func (s *State) LoopTimes() []time.Duration { return s.loopTimes.Values() }

// Summary computes statistics over the loop-time window.
func (s *State) Summary() Summary {
	return Summarize(s.loopTimes.Values())
}
