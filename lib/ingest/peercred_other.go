// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package ingest

import (
	"errors"
	"net"
)

func peerCredentials(*net.UnixConn) (peerCredential, error) {
	return peerCredential{}, errors.New("peer credentials not supported on this platform")
}
