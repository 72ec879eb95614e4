// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/perfview/lib/queue"
)

var (
	// ErrAddressInUse means another live listener owns the socket path.
	ErrAddressInUse = errors.New("socket path in use by a live listener")

	// ErrChannelClosed means the consumer dropped its end of the
	// forwarding queue. It only happens during shutdown. Errors
	// carrying it also match queue.ErrDisconnected.
	ErrChannelClosed = errors.New("forwarding channel closed")
)

// BindError reports that the socket path could not be bound.
type BindError struct {
	Path string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("binding %s: %v", e.Path, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// AcceptError reports a failed accept. It ends the accept loop; no
// further connections are possible on that listener.
type AcceptError struct {
	Err error
}

func (e *AcceptError) Error() string {
	return fmt.Sprintf("accepting connection: %v", e.Err)
}

func (e *AcceptError) Unwrap() error { return e.Err }

// DecodeError reports a malformed frame. It ends one connection.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError reports an I/O failure on one connection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection i/o: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// forwardError wraps a failed send. It matches both ErrChannelClosed
// and the queue's own error.
func forwardError(err error) error {
	if errors.Is(err, queue.ErrDisconnected) {
		return fmt.Errorf("%w: %w", ErrChannelClosed, err)
	}
	return fmt.Errorf("forwarding sample: %w", err)
}

// failureReason maps a connection error to its metric label.
func failureReason(err error) string {
	var decodeError *DecodeError
	var transportError *TransportError
	switch {
	case errors.As(err, &decodeError):
		return "decode"
	case errors.As(err, &transportError):
		return "transport"
	case errors.Is(err, ErrChannelClosed):
		return "channel_closed"
	default:
		return "other"
	}
}
