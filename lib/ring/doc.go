// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ring provides a fixed-capacity circular buffer that keeps the
// most recent N values. A Push at full capacity overwrites the oldest
// value, so the buffer always holds the latest window of samples in
// arrival order (index 0 is the oldest).
//
// The backing store is a single slice allocated at construction; Push
// never allocates. Buffer has no internal locking: it is meant to be
// owned by exactly one goroutine (the consumer that applies samples
// and the renderer that reads them run on the same goroutine).
package ring
