// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package perfui is the terminal display for perfview. It is a
// bubbletea model that, on every refresh tick, calls
// [monitor.Monitor.DrainApply] and redraws the loop-time window as a
// column chart with summary statistics.
//
// The model never touches the socket or the queue directly. Everything
// it draws comes from the monitor's state, which only the bubbletea
// Update goroutine reads and writes.
package perfui
