// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for perfview packages.
//
// [SocketDir] creates a short temporary directory in /tmp for Unix
// domain sockets. Socket paths are limited to 108 bytes (sun_path in
// sockaddr_un), and t.TempDir() paths under a deep TMPDIR can exceed
// that.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// safety valve so tests never hang on a channel that is not signalled.
// They are the only place tests use real wall-clock timeouts.
//
// All helpers call t.Fatalf on failure.
package testutil
