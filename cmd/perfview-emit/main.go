// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// perfview-emit is a synthetic producer for perfview. It sends a
// hello followed by loop-time samples around --base with uniform
// jitter, one every --interval, until --count samples are sent or it
// is interrupted.
//
// By default it dials a perfview listening on --socket. With --listen
// it binds --socket itself and waits for a perfview started with
// --connect.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/perfview/lib/clock"
	"github.com/bureau-foundation/perfview/lib/config"
	"github.com/bureau-foundation/perfview/lib/emit"
	"github.com/bureau-foundation/perfview/lib/logging"
	"github.com/bureau-foundation/perfview/lib/process"
	"github.com/bureau-foundation/perfview/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		socketPath string
		listen     bool
		source     string
		options    produceOptions
		logLevel   string
	)

	flagSet := pflag.NewFlagSet("perfview-emit", pflag.ContinueOnError)
	flagSet.StringVar(&socketPath, "socket", "", "perfview socket path (default: the perfview default socket)")
	flagSet.BoolVar(&listen, "listen", false, "listen on --socket and wait for perfview --connect")
	flagSet.StringVar(&source, "source", "perfview-emit", "producer name sent in the hello message")
	flagSet.DurationVar(&options.Interval, "interval", 16*time.Millisecond, "time between samples")
	flagSet.DurationVar(&options.Base, "base", 16*time.Millisecond, "center of the reported loop times")
	flagSet.DurationVar(&options.Jitter, "jitter", 4*time.Millisecond, "maximum deviation from --base")
	flagSet.IntVar(&options.Count, "count", 0, "number of samples to send (0 sends until interrupted)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("perfview-emit")
		return nil
	}
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Usage: perfview-emit [flags]\n\n%s", flagSet.FlagUsages())
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		fmt.Fprintf(os.Stderr, "Usage: perfview-emit [flags]\n\n%s", flagSet.FlagUsages())
		return nil
	}
	if err := options.validate(); err != nil {
		return err
	}

	if socketPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		socketPath = cfg.SocketPath
	}

	logger, closeLog, err := logging.New(logging.Options{Level: logLevel})
	if err != nil {
		return err
	}
	defer closeLog.Close()
	logger = logger.With("socket", socketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emitter, err := connect(ctx, socketPath, listen, logger)
	if err != nil {
		return err
	}
	defer emitter.Close()

	if err := emitter.Hello(source); err != nil {
		return err
	}
	sent, err := produce(ctx, emitter, clock.Real(), options)
	logger.Info("producer finished", "sent", sent)
	return err
}

// connect dials the bridge, or in listen mode waits for the bridge to
// dial us.
func connect(ctx context.Context, socketPath string, listen bool, logger *slog.Logger) (*emit.Emitter, error) {
	if !listen {
		emitter, err := emit.Dial(ctx, socketPath)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to perfview")
		return emitter, nil
	}

	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", socketPath, err)
	}
	defer listener.Close()
	stopAccept := context.AfterFunc(ctx, func() { listener.Close() })
	defer stopAccept()

	logger.Info("waiting for perfview --connect")
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accepting perfview: %w", err)
	}
	logger.Info("perfview connected")
	return emit.New(conn), nil
}
