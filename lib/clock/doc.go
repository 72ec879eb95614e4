// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for the
// tick-driven parts of perfview: the headless summary reporter, the
// synthetic producer's emit loop, and the monitor's last-sample
// timestamps.
//
// Production code accepts a Clock and is given Real(). Tests pass
// Fake(), which only moves when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go reporter.Run(ctx)
//	c.WaitForTimers(1)     // wait for the reporter's ticker
//	c.Advance(time.Second) // fire it deterministically
package clock
