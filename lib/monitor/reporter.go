// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/perfview/lib/clock"
)

// RunReporter consumes samples without a display. It drains whenever
// the queue signals new samples and logs the window summary every
// interval. It returns nil when ctx is cancelled or when the queue
// disconnects, logging a last summary in the latter case.
func RunReporter(ctx context.Context, monitor *Monitor, clk clock.Clock, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		return fmt.Errorf("summary interval must be positive, got %v", interval)
	}

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	state := monitor.State()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-monitor.Notify():
			monitor.DrainApply()

		case <-ticker.C:
			monitor.DrainApply()
			if !monitor.Disconnected() {
				logSummary(logger, state)
			}
		}

		if monitor.Disconnected() {
			logger.Info("all producers gone",
				"summary", state.Summary(),
				"applied", state.Applied(),
			)
			return nil
		}
	}
}

func logSummary(logger *slog.Logger, state *State) {
	summary := state.Summary()
	if summary.Count == 0 {
		logger.Debug("no samples yet")
		return
	}
	logger.Info("loop time summary",
		"summary", summary,
		"applied", state.Applied(),
		"evicted", state.Evicted(),
		"last_sample_at", state.LastSampleAt(),
	)
}
