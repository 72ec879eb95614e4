// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for the perfview
// binaries: fatal error reporting to stderr for errors returned from
// run() before (or after) the structured logger is available.
package process
