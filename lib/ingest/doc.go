// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest is the I/O half of the perfview bridge. It binds a
// Unix socket, accepts producer connections, decodes each connection's
// stream of [perf.Frame] values, and forwards data-carrying messages to
// a [queue.Sender].
//
// Data flow:
//
//	producer → socket → Listener.Serve → connection (one goroutine each) → queue.Sender → consumer
//
// Each accepted connection runs in its own goroutine with its own
// clone of the sender and shares nothing else with other connections.
// A connection moves through Accepted → Reading → Closed (clean end of
// stream) or Failed (decode, transport, or forwarding error). Failure
// ends only that connection: it is logged, counted, and reported to
// [Config.OnConnectionClosed], never retried and never propagated to
// other connections or to the consumer. Only [BindError] and
// [AcceptError] are visible to the process.
//
// Binding cleans up after crashed predecessors: a socket file left at
// the path with nothing listening behind it is removed before binding,
// while a path with a live listener fails with [ErrAddressInUse].
//
// [Connect] runs the same connection handler over an outbound
// connection, for producers that listen and wait for a viewer.
package ingest
