// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package emit is the producer side of the perfview protocol: it dials
// a bridge socket and streams CBOR frames to it.
//
// A program instruments its main loop with one Emitter:
//
//	emitter, err := emit.Dial(ctx, socketPath)
//	if err != nil {
//	    logger.Warn("perfview unavailable", "error", err)
//	}
//	defer emitter.Close()
//	emitter.Hello("renderer")
//	for {
//	    start := time.Now()
//	    step()
//	    emitter.LoopTime(time.Since(start))
//	}
//
// All methods are no-ops on a nil *Emitter, so the failed-Dial path
// above needs no further checks. The bridge never signals back, so a
// send can only fail on a local write error (typically the bridge
// went away).
package emit

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/perfview/lib/codec"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// Emitter writes frames to one connection. It is safe for concurrent
// use; frames from concurrent callers are written whole, in the order
// the internal lock is acquired.
type Emitter struct {
	conn net.Conn

	mu      sync.Mutex
	encoder *codec.Encoder
}

// Dial connects to the bridge listening at socketPath.
func Dial(ctx context.Context, socketPath string) (*Emitter, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting to perfview at %s: %w", socketPath, err)
	}
	return New(conn), nil
}

// New wraps an established connection. Used by producers that accept
// connections from a bridge in client mode rather than dialing one.
func New(conn net.Conn) *Emitter {
	return &Emitter{
		conn:    conn,
		encoder: codec.NewEncoder(conn),
	}
}

// Hello identifies this producer to the bridge.
func (e *Emitter) Hello(source string) error {
	return e.Send(perf.Hello{Source: source, PID: os.Getpid()})
}

// LoopTime reports one main-loop iteration duration.
func (e *Emitter) LoopTime(duration time.Duration) error {
	return e.Send(perf.LoopTime{Duration: duration})
}

// Send encodes and writes one message.
func (e *Emitter) Send(message perf.Message) error {
	if e == nil {
		return nil
	}
	frame, err := perf.Encode(message)
	if err != nil {
		return err
	}
	return e.SendFrame(frame)
}

// SendFrame writes a pre-built frame. This lets a producer send kinds
// the perf package does not define yet.
func (e *Emitter) SendFrame(frame perf.Frame) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.encoder.Encode(frame); err != nil {
		return fmt.Errorf("writing %s frame: %w", frame.Kind, err)
	}
	return nil
}

// Close closes the connection. The bridge sees a clean end of stream.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	return e.conn.Close()
}
