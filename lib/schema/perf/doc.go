// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package perf defines the messages producers stream to a perfview
// bridge and the frame envelope that carries them.
//
// The wire is a sequence of CBOR data items over a Unix socket, one
// [Frame] per item, producer to bridge only:
//
//	{"kind": "hello",     "body": {"source": "engine", "pid": 4242}}
//	{"kind": "loop_time", "body": {"duration_ns": 16384000}}
//	{"kind": "loop_time", "body": {"duration_ns": 16901000}}
//
// The set of kinds is closed per build: [Decode] returns one of the
// concrete [Message] types in this package. A kind this build does not
// know decodes to [Unknown] without error so that producers can start
// sending new kinds before every bridge understands them. The bridge
// skips such frames.
//
// Data-carrying messages implement [Sample]; those are the only
// messages forwarded to the consumer. [Hello] is a control message
// that only annotates the connection.
package perf
