// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package ingest

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// peerCredentials returns the pid and uid of the process on the other
// end of conn, as recorded by the kernel at connect time (SO_PEERCRED).
// Used for logging only.
func peerCredentials(conn *net.UnixConn) (peerCredential, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return peerCredential{}, err
	}

	var ucred *unix.Ucred
	var sockoptErr error
	if err := raw.Control(func(fd uintptr) {
		ucred, sockoptErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return peerCredential{}, err
	}
	if sockoptErr != nil {
		return peerCredential{}, fmt.Errorf("SO_PEERCRED: %w", sockoptErr)
	}
	return peerCredential{PID: int(ucred.Pid), UID: int(ucred.Uid)}, nil
}
