// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"fmt"
	"net"

	"github.com/google/uuid"

	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// Connect dials a producer that is listening at path and reads its
// frames exactly as if it had connected to a Listener. It blocks until
// the producer closes the stream, ctx is cancelled, or the connection
// fails. Returns nil on a clean end or cancellation, the dial error
// wrapped with the path if the producer cannot be reached, and the
// connection's error otherwise.
//
// Connect clones sender and closes only the clone.
func Connect(ctx context.Context, path string, sender *queue.Sender[perf.Sample], config Config) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return fmt.Errorf("connecting to producer at %s: %w", path, err)
	}

	id := uuid.NewString()
	logger := config.logger().With("socket", path, "connection", id)
	logger.Info("connected to producer")

	connection := &connection{
		id:       id,
		conn:     conn,
		sender:   sender.Clone(),
		logger:   logger,
		metrics:  config.Metrics,
		onClosed: config.OnConnectionClosed,
	}
	err = connection.run(ctx)
	connection.finish(err)
	return err
}
