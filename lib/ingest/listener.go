// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// staleProbeTimeout bounds the dial used to tell a live socket from a
// stale one. A live listener on a local socket answers immediately.
const staleProbeTimeout = time.Second

// Config carries the collaborators shared by every connection.
type Config struct {
	// Logger receives connection lifecycle and failure records. Nil
	// discards them.
	Logger *slog.Logger

	// Metrics counts connections and frames. Nil records nothing.
	Metrics *Metrics

	// OnConnectionClosed, if set, is called once per connection after
	// it ends, from that connection's goroutine.
	OnConnectionClosed func(ConnectionResult)
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// ConnectionResult describes how one connection ended.
type ConnectionResult struct {
	// ID is the identifier assigned at accept time and used in logs.
	ID string

	// Source is the name the producer announced in a hello message,
	// or empty if it never sent one.
	Source string

	// Frames counts decoded frames, including skipped unknown kinds.
	Frames int

	// Samples counts samples forwarded to the queue.
	Samples int

	// Err is nil for a clean end of stream or a shutdown, and the
	// connection-fatal error otherwise.
	Err error
}

// Listener is a bound socket ready to serve.
type Listener struct {
	path     string
	listener *net.UnixListener
	config   Config
	logger   *slog.Logger

	closing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Bind claims path for a new listening socket.
//
// If a socket file already exists at path, Bind probes it. A probe
// that connects means another process is serving there, and Bind fails
// with ErrAddressInUse. A refused probe means the file was left by a
// process that exited without cleaning up, and Bind removes it. Any
// other existing file is left alone and Bind fails.
//
// The socket is created with mode 0600. All failures are *BindError.
func Bind(path string, config Config) (*Listener, error) {
	if err := removeStaleSocket(path); err != nil {
		return nil, &BindError{Path: path, Err: err}
	}

	address := &net.UnixAddr{Name: path, Net: "unix"}
	listener, err := net.ListenUnix("unix", address)
	if err != nil {
		return nil, &BindError{Path: path, Err: err}
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, &BindError{Path: path, Err: fmt.Errorf("setting socket permissions: %w", err)}
	}

	return &Listener{
		path:     path,
		listener: listener,
		config:   config,
		logger:   config.logger().With("socket", path),
	}, nil
}

// removeStaleSocket clears path for binding, or reports why it cannot.
func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("%s exists and is not a socket (mode %v)", path, info.Mode())
	}

	conn, err := net.DialTimeout("unix", path, staleProbeTimeout)
	if err == nil {
		conn.Close()
		return ErrAddressInUse
	}
	switch {
	case errors.Is(err, unix.ECONNREFUSED):
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing stale socket: %w", err)
		}
		return nil
	case errors.Is(err, unix.ENOENT):
		// Removed between Lstat and the probe.
		return nil
	default:
		return fmt.Errorf("probing existing socket: %w", err)
	}
}

// Path returns the filesystem path of the socket.
func (l *Listener) Path() string { return l.path }

// Serve accepts connections until ctx is cancelled or Close is called,
// running each one in its own goroutine with a clone of sender. It
// returns nil on shutdown and *AcceptError if accepting fails for any
// other reason. Before returning it cancels every connection and waits
// for them to finish, so no clone of sender outlives Serve. The caller
// still owns sender itself.
//
// Serve must be called at most once.
func (l *Listener) Serve(ctx context.Context, sender *queue.Sender[perf.Sample]) error {
	defer l.Close()

	connectionCtx, cancelConnections := context.WithCancel(ctx)
	var connections sync.WaitGroup
	defer func() {
		cancelConnections()
		connections.Wait()
	}()

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()

	l.logger.Info("listening for producers")

	for {
		conn, err := l.listener.AcceptUnix()
		if err != nil {
			if ctx.Err() != nil || l.closing.Load() {
				return nil
			}
			return &AcceptError{Err: err}
		}

		connection := l.newConnection(conn, sender.Clone())
		connections.Go(func() {
			connection.finish(connection.run(connectionCtx))
		})
	}
}

// Close stops accepting and removes the socket file. Connections
// already running are cancelled by Serve as it returns. Close is safe
// to call more than once and from any goroutine.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.closing.Store(true)
		l.closeErr = l.listener.Close()
	})
	return l.closeErr
}

func (l *Listener) newConnection(conn *net.UnixConn, sender *queue.Sender[perf.Sample]) *connection {
	id := uuid.NewString()
	logger := l.logger.With("connection", id)

	peer, err := peerCredentials(conn)
	if err != nil {
		logger.Debug("reading peer credentials failed", "error", err)
		logger.Info("producer connected")
	} else {
		logger.Info("producer connected", "peer_pid", peer.PID, "peer_uid", peer.UID)
	}

	return &connection{
		id:       id,
		conn:     conn,
		sender:   sender,
		logger:   logger,
		metrics:  l.config.Metrics,
		onClosed: l.config.OnConnectionClosed,
	}
}

// peerCredential identifies the process behind a connection.
type peerCredential struct {
	PID int
	UID int
}
