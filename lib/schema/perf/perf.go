// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perf

import (
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/perfview/lib/codec"
)

// Kind names a message variant on the wire.
type Kind string

const (
	// KindHello identifies the producer. Optional; typically the first
	// frame on a connection.
	KindHello Kind = "hello"

	// KindLoopTime carries one main-loop duration measurement.
	KindLoopTime Kind = "loop_time"
)

// Frame is the wire envelope: one CBOR data item per message. Body is
// decoded only once Kind is known.
type Frame struct {
	Kind Kind             `cbor:"kind"`
	Body codec.RawMessage `cbor:"body,omitempty"`
}

// Message is any decoded frame. The set of implementations is closed:
// only types in this package satisfy it.
type Message interface {
	Kind() Kind
	message()
}

// Sample is a data-carrying message, forwarded from connection
// handlers to the consumer.
type Sample interface {
	Message
	sample()
}

// LoopTime is the duration of one iteration of the producer's main
// loop.
type LoopTime struct {
	Duration time.Duration `cbor:"duration_ns"`
}

// Kind returns KindLoopTime.
func (LoopTime) Kind() Kind { return KindLoopTime }
func (LoopTime) message()   {}
func (LoopTime) sample()    {}

// Hello identifies the producer on a connection.
type Hello struct {
	// Source is a free-form producer name shown in bridge logs.
	Source string `cbor:"source"`
	// PID is the producer's process id as the producer sees it.
	PID int `cbor:"pid,omitempty"`
}

// Kind returns KindHello.
func (Hello) Kind() Kind { return KindHello }
func (Hello) message()   {}

// Unknown is a frame whose kind this build does not recognize. Body is
// kept for diagnostics.
type Unknown struct {
	FrameKind Kind
	Body      codec.RawMessage
}

// Kind returns the frame's kind as received.
func (u Unknown) Kind() Kind { return u.FrameKind }
func (Unknown) message()     {}

// ErrEmptyKind is returned by Decode for a frame without a kind.
var ErrEmptyKind = errors.New("perf: frame has no kind")

// Decode converts a frame into its typed message. An unrecognized kind
// yields Unknown and a nil error. A recognized kind whose body does not
// decode, or whose values are out of range, is an error.
func Decode(frame Frame) (Message, error) {
	switch frame.Kind {
	case "":
		return nil, ErrEmptyKind

	case KindLoopTime:
		var loopTime LoopTime
		if err := decodeBody(frame, &loopTime); err != nil {
			return nil, err
		}
		if loopTime.Duration < 0 {
			return nil, fmt.Errorf("perf: %s: negative duration %v", frame.Kind, loopTime.Duration)
		}
		return loopTime, nil

	case KindHello:
		var hello Hello
		if err := decodeBody(frame, &hello); err != nil {
			return nil, err
		}
		return hello, nil

	default:
		return Unknown{FrameKind: frame.Kind, Body: frame.Body}, nil
	}
}

func decodeBody(frame Frame, target any) error {
	if len(frame.Body) == 0 {
		return fmt.Errorf("perf: %s: missing body", frame.Kind)
	}
	if err := codec.Unmarshal(frame.Body, target); err != nil {
		return fmt.Errorf("perf: %s: decoding body: %w", frame.Kind, err)
	}
	return nil
}

// Encode wraps a message in a frame. Unknown messages cannot be
// re-encoded: a producer only sends kinds it defines.
func Encode(message Message) (Frame, error) {
	switch message.(type) {
	case LoopTime, Hello:
	default:
		return Frame{}, fmt.Errorf("perf: cannot encode message of kind %q", message.Kind())
	}

	body, err := codec.Marshal(message)
	if err != nil {
		return Frame{}, fmt.Errorf("perf: encoding %s body: %w", message.Kind(), err)
	}
	return Frame{Kind: message.Kind(), Body: body}, nil
}
