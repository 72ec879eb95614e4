// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds small helpers for socket error handling.
package netutil

import (
	"errors"
	"io"
	"net"
)

// IsExpectedCloseError reports whether err is a normal end of a
// producer stream: EOF at a frame boundary, or a read on a connection
// this process already closed (shutdown). Resets and broken pipes are
// not included; for an ingest stream they mean the peer vanished
// mid-stream and are reported as transport failures.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return false
	}
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
