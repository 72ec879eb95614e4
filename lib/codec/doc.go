// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides perfview's CBOR (RFC 8949) encoding
// configuration.
//
// Producers and the bridge exchange a stream of CBOR data items over a
// Unix socket, one item per frame. CBOR items are self-delimiting, so
// the stream needs no length prefix: a stream decoder reads exactly one
// frame per Decode call and reports io.EOF only at a clean item
// boundary (io.ErrUnexpectedEOF when the peer disconnects mid-item).
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// decoder ignores unknown map keys so newer producers can add fields
// without breaking older bridges.
//
// Buffer-oriented:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Stream-oriented (sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Wire types use `cbor` struct tags only.
package codec
