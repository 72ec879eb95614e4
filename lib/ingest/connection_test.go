// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bureau-foundation/perfview/lib/codec"
	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
)

// resetConn serves data and then fails every read with a connection
// reset, as when a producer dies mid-stream.
type resetConn struct {
	net.Conn
	data *bytes.Reader
}

func (c *resetConn) Read(p []byte) (int, error) {
	if c.data.Len() > 0 {
		return c.data.Read(p)
	}
	return 0, &net.OpError{Op: "read", Net: "unix", Err: os.NewSyscallError("read", syscall.ECONNRESET)}
}

func TestConnectionResetIsTransportError(t *testing.T) {
	frame, err := perf.Encode(perf.LoopTime{Duration: 16 * time.Millisecond})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data, err := codec.Marshal(frame)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	client, server := net.Pipe()
	defer server.Close()
	sender, receiver := queue.New[perf.Sample]()
	metrics := NewMetrics(nil)
	var result ConnectionResult
	c := &connection{
		id:       "reset",
		conn:     &resetConn{Conn: client, data: bytes.NewReader(data)},
		sender:   sender,
		logger:   slog.New(slog.DiscardHandler),
		metrics:  metrics,
		onClosed: func(r ConnectionResult) { result = r },
	}

	err = c.run(context.Background())
	c.finish(err)

	var transportError *TransportError
	if !errors.As(err, &transportError) {
		t.Fatalf("run = %v (%T), want *TransportError", err, err)
	}
	if !errors.Is(err, syscall.ECONNRESET) {
		t.Errorf("run = %v, want it to wrap ECONNRESET", err)
	}
	if result.Err != err || result.Frames != 1 || result.Samples != 1 {
		t.Errorf("result = %+v, want 1 frame, 1 sample and the transport error", result)
	}

	sample, receiveErr := receiver.TryReceive()
	if receiveErr != nil {
		t.Fatalf("TryReceive: %v", receiveErr)
	}
	if got := sample.(perf.LoopTime).Duration; got != 16*time.Millisecond {
		t.Errorf("sample before the reset = %v, want 16ms", got)
	}

	if got := promtestutil.ToFloat64(metrics.failures.WithLabelValues("transport")); got != 1 {
		t.Errorf("transport failures = %v, want 1", got)
	}
	if got := promtestutil.ToFloat64(metrics.failures.WithLabelValues("decode")); got != 0 {
		t.Errorf("decode failures = %v, want 0", got)
	}
	if got := promtestutil.ToFloat64(metrics.active); got != 0 {
		t.Errorf("active connections = %v, want 0", got)
	}
}

func TestClassifyReadError(t *testing.T) {
	var value any
	syntaxError := codec.Unmarshal([]byte{0xff}, &value)
	if syntaxError == nil {
		t.Fatal("Unmarshal of a lone break byte succeeded")
	}

	tests := []struct {
		name      string
		err       error
		transport bool
		reason    string
	}{
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true, "transport"},
		{"bare errno", fmt.Errorf("reading frame: %w", syscall.EPIPE), true, "transport"},
		{"truncated frame", io.ErrUnexpectedEOF, false, "decode"},
		{"cbor syntax", syntaxError, false, "decode"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			classified := classifyReadError(test.err)
			var transportError *TransportError
			var decodeError *DecodeError
			switch {
			case test.transport && !errors.As(classified, &transportError):
				t.Fatalf("classifyReadError = %T, want *TransportError", classified)
			case !test.transport && !errors.As(classified, &decodeError):
				t.Fatalf("classifyReadError = %T, want *DecodeError", classified)
			}
			if !errors.Is(classified, test.err) {
				t.Errorf("classified error does not wrap %v", test.err)
			}
			if got := failureReason(classified); got != test.reason {
				t.Errorf("failureReason = %q, want %q", got, test.reason)
			}
		})
	}
}

func TestFailureReasonOther(t *testing.T) {
	if got := failureReason(forwardError(queue.ErrDisconnected)); got != "channel_closed" {
		t.Errorf("failureReason(channel closed) = %q", got)
	}
	if got := failureReason(errors.New("unexpected")); got != "other" {
		t.Errorf("failureReason(plain error) = %q", got)
	}
}
