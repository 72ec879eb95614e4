// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bureau-foundation/perfview/lib/clock"
	"github.com/bureau-foundation/perfview/lib/emit"
)

// produceOptions shapes the synthetic sample stream.
type produceOptions struct {
	Interval time.Duration
	Base     time.Duration
	Jitter   time.Duration
	// Count of zero means unlimited.
	Count int

	// jitter returns a value in [-Jitter, Jitter]. Nil uses math/rand.
	jitter func(limit time.Duration) time.Duration
}

func (options produceOptions) validate() error {
	switch {
	case options.Interval <= 0:
		return fmt.Errorf("--interval must be positive, got %v", options.Interval)
	case options.Jitter < 0:
		return fmt.Errorf("--jitter must not be negative, got %v", options.Jitter)
	case options.Base-options.Jitter < 0:
		return fmt.Errorf("--base %v minus --jitter %v is negative", options.Base, options.Jitter)
	case options.Count < 0:
		return fmt.Errorf("--count must not be negative, got %d", options.Count)
	}
	return nil
}

func uniformJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(2*limit+1) - limit
}

// produce sends one loop-time sample per tick of clk. It returns the
// number sent, with a nil error when Count is reached or ctx is
// cancelled.
func produce(ctx context.Context, emitter *emit.Emitter, clk clock.Clock, options produceOptions) (int, error) {
	jitter := options.jitter
	if jitter == nil {
		jitter = uniformJitter
	}

	ticker := clk.NewTicker(options.Interval)
	defer ticker.Stop()

	sent := 0
	for options.Count == 0 || sent < options.Count {
		select {
		case <-ctx.Done():
			return sent, nil
		case <-ticker.C:
		}
		if err := emitter.LoopTime(options.Base + jitter(options.Jitter)); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
