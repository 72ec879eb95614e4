// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package monitor is the consumer half of the perfview bridge. It owns
// the windowed telemetry state and moves samples into it from the
// forwarding queue.
//
// [Monitor.DrainApply] is the only way samples enter the state. It is
// designed to be called from a render loop: it takes what was queued
// at the moment of the call, applies it in queue order, and returns
// without ever waiting for more. Samples that arrive during the call
// wait for the next one, so a fast producer cannot hold a frame.
//
// State is not safe for concurrent use. The goroutine that calls
// DrainApply is the only one that may read the state, which is the
// natural arrangement for a UI loop that drains and then draws.
//
// [RunReporter] is a consumer for when there is no UI: it drains on
// every queue notification and logs a [Summary] of the window on a
// fixed interval.
package monitor
