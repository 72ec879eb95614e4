// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"syscall"

	"github.com/bureau-foundation/perfview/lib/codec"
	"github.com/bureau-foundation/perfview/lib/netutil"
	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// connection reads one producer's frames. It owns conn and its sender
// clone and closes both when run returns.
type connection struct {
	id       string
	conn     net.Conn
	sender   *queue.Sender[perf.Sample]
	logger   *slog.Logger
	metrics  *Metrics
	onClosed func(ConnectionResult)

	source  string
	frames  int
	samples int
}

// run decodes frames until end of stream, cancellation, or the first
// error. Frames are handled strictly in arrival order. A clean end of
// stream and cancellation both return nil.
func (c *connection) run(ctx context.Context) error {
	c.metrics.connectionOpened()
	defer c.sender.Close()
	defer c.conn.Close()

	// Closing the connection is the only way to interrupt a blocked
	// read.
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	decoder := codec.NewDecoder(c.conn)
	for {
		var frame perf.Frame
		if err := decoder.Decode(&frame); err != nil {
			if ctx.Err() != nil || netutil.IsExpectedCloseError(err) {
				return nil
			}
			return classifyReadError(err)
		}
		c.frames++

		message, err := perf.Decode(frame)
		if err != nil {
			return &DecodeError{Err: err}
		}
		c.metrics.frameDecoded(message)

		if err := c.handle(message); err != nil {
			return err
		}
	}
}

func (c *connection) handle(message perf.Message) error {
	switch message := message.(type) {
	case perf.Sample:
		if err := c.sender.Send(message); err != nil {
			return forwardError(err)
		}
		c.samples++

	case perf.Hello:
		c.source = message.Source
		c.logger = c.logger.With("source", message.Source)
		c.logger.Info("producer identified", "pid", message.PID)

	case perf.Unknown:
		// Newer producers may send kinds this build does not know.
		if c.logger.Enabled(context.Background(), slog.LevelDebug) {
			diagnostic, err := codec.Diagnose(message.Body)
			if err != nil {
				diagnostic = "<undecodable>"
			}
			c.logger.Debug("skipping unknown message kind", "kind", message.FrameKind, "body", diagnostic)
		}
	}
	return nil
}

// finish logs and reports the connection's outcome.
func (c *connection) finish(err error) {
	c.metrics.connectionClosed(err)

	attributes := []any{"frames", c.frames, "samples", c.samples}
	switch {
	case err == nil:
		c.logger.Info("producer disconnected", attributes...)
	case errors.Is(err, ErrChannelClosed):
		c.logger.Debug("producer dropped during shutdown", append(attributes, "error", err)...)
	default:
		c.logger.Warn("producer connection failed", append(attributes, "error", err)...)
	}

	if c.onClosed != nil {
		c.onClosed(ConnectionResult{
			ID:      c.id,
			Source:  c.source,
			Frames:  c.frames,
			Samples: c.samples,
			Err:     err,
		})
	}
}

// classifyReadError separates socket failures from malformed input.
func classifyReadError(err error) error {
	var opError *net.OpError
	var errno syscall.Errno
	if errors.As(err, &opError) || errors.As(err, &errno) {
		return &TransportError{Err: err}
	}
	return &DecodeError{Err: err}
}
