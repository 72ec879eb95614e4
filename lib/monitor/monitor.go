// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"errors"
	"time"

	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// Monitor pairs the consumer end of the forwarding queue with the state
// it feeds.
type Monitor struct {
	receiver     *queue.Receiver[perf.Sample]
	state        *State
	disconnected bool
}

// New creates a Monitor that drains receiver into state.
func New(receiver *queue.Receiver[perf.Sample], state *State) *Monitor {
	return &Monitor{receiver: receiver, state: state}
}

// DrainApply applies the samples queued at the time of the call, in
// queue order, and returns how many it applied. Samples sent during the
// call are left for the next one, so producers that keep pace cannot
// hold it. It never waits: with nothing queued it returns 0 and leaves
// the state untouched.
func (m *Monitor) DrainApply() int {
	applied, err := drain(m.state, m.receiver)
	if errors.Is(err, queue.ErrDisconnected) {
		m.disconnected = true
	}
	return applied
}

// Disconnected reports whether a DrainApply has observed that every
// producer is gone and the queue is empty. No further samples can
// arrive once it returns true.
func (m *Monitor) Disconnected() bool { return m.disconnected }

// Notify returns the queue's wakeup channel. See queue.Receiver.Notify.
func (m *Monitor) Notify() <-chan struct{} { return m.receiver.Notify() }

// State returns the state DrainApply feeds.
func (m *Monitor) State() *State { return m.state }

// LoopTimes returns a copy of the loop-time window, oldest first.
func (m *Monitor) LoopTimes() []time.Duration { return m.state.LoopTimes() }

// Summary computes statistics over the loop-time window.
func (m *Monitor) Summary() Summary { return m.state.Summary() }

// DrainApply applies the samples queued in receiver at the time of the
// call to state and returns how many it applied. It never waits.
func DrainApply(state *State, receiver *queue.Receiver[perf.Sample]) int {
	applied, _ := drain(state, receiver)
	return applied
}

// drain applies at most the number of samples queued on entry. It
// returns queue.ErrDisconnected once no further sample can arrive.
func drain(state *State, receiver *queue.Receiver[perf.Sample]) (int, error) {
	pending := receiver.Len()
	applied := 0
	for applied < pending {
		sample, err := receiver.TryReceive()
		if err != nil {
			return applied, err
		}
		state.Apply(sample)
		applied++
	}
	if receiver.Disconnected() {
		return applied, queue.ErrDisconnected
	}
	return applied, nil
}
