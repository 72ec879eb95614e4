// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// perfview is a live loop-time monitor. Instrumented programs stream
// CBOR telemetry frames over a Unix socket; perfview keeps the most
// recent samples in a fixed window and draws them in the terminal.
//
// Two modes of operation:
//
// Listener mode (default): binds --socket and accepts any number of
// producers. A stale socket file left by a crashed perfview is
// removed; a socket with a live listener behind it is an error.
//
// Client mode (--connect): dials a producer that listens on its own
// socket and reads that single stream.
//
// When stdout is not a terminal, or with --headless, perfview draws
// nothing and logs a window summary every --summary-interval instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/bureau-foundation/perfview/lib/clock"
	"github.com/bureau-foundation/perfview/lib/config"
	"github.com/bureau-foundation/perfview/lib/ingest"
	"github.com/bureau-foundation/perfview/lib/logging"
	"github.com/bureau-foundation/perfview/lib/monitor"
	"github.com/bureau-foundation/perfview/lib/perfui"
	"github.com/bureau-foundation/perfview/lib/process"
	"github.com/bureau-foundation/perfview/lib/queue"
	"github.com/bureau-foundation/perfview/lib/schema/perf"
	"github.com/bureau-foundation/perfview/lib/version"
)

// metricsShutdownTimeout bounds how long the /metrics server may take
// to finish in-flight scrapes at shutdown.
const metricsShutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("perfview", pflag.ContinueOnError)
	var flags commandFlags
	flags.register(flagSet)

	// Handle --version before flag parsing to match other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("perfview")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if flags.help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	flags.apply(flagSet, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	headless := cfg.Headless || !term.IsTerminal(int(os.Stdout.Fd()))

	// The display owns the terminal; without a log file, records
	// written to stderr would corrupt it.
	var logStderr io.Writer
	if !headless && cfg.Log.File == "" {
		logStderr = io.Discard
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Stderr:     logStderr,
	})
	if err != nil {
		return err
	}
	defer closeLog.Close()

	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestConfig := ingest.Config{
		Logger:  logger,
		Metrics: ingest.NewMetrics(registry),
	}

	sender, receiver := queue.New[perf.Sample]()
	defer receiver.Close()

	// Bind before starting anything else so an occupied socket fails
	// fast, before the display takes over the terminal.
	var listener *ingest.Listener
	if cfg.ConnectPath == "" {
		listener, err = ingest.Bind(cfg.SocketPath, ingestConfig)
		if err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer sender.Close()
		if listener != nil {
			return listener.Serve(groupCtx, sender)
		}
		return ingest.Connect(groupCtx, cfg.ConnectPath, sender, ingestConfig)
	})
	if cfg.Metrics.Listen != "" {
		serveMetrics(groupCtx, group, cfg.Metrics.Listen, registry, logger)
	}

	state := monitor.NewState(cfg.Capacity, clock.Real())
	consumer := monitor.New(receiver, state)

	var consumerErr error
	if headless {
		consumerErr = monitor.RunReporter(groupCtx, consumer, clock.Real(), cfg.SummaryInterval, logger)
	} else {
		consumerErr = runDisplay(groupCtx, consumer, cfg)
	}

	cancel()
	if err := group.Wait(); err != nil {
		return err
	}
	return consumerErr
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// runDisplay runs the terminal display until the user quits or ctx is
// cancelled.
func runDisplay(ctx context.Context, consumer *monitor.Monitor, cfg *config.Config) error {
	title := cfg.SocketPath
	if cfg.ConnectPath != "" {
		title = "→ " + cfg.ConnectPath
	}
	model := perfui.NewModel(consumer, perfui.Options{
		Title:           title,
		RefreshInterval: cfg.RefreshInterval,
		Renderer:        perfui.NewRenderer(os.Stdout, cfg.Color),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running display: %w", err)
	}
	return nil
}

// serveMetrics serves /metrics on address as part of group until ctx
// is done.
func serveMetrics(ctx context.Context, group *errgroup.Group, address string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group.Go(func() error {
		logger.Info("serving metrics", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `perfview: live loop-time monitor for instrumented programs.

Producers connect to the socket and stream CBOR frames; perfview draws
the most recent samples. Run perfview-emit for a synthetic producer.

Usage:
  perfview [flags]

Examples:
  # Listen on the default socket and draw a chart
  perfview

  # Read from a producer that listens on its own socket
  perfview --connect /run/user/1000/game-perf.sock

  # Log summaries instead of drawing, and expose Prometheus metrics
  perfview --headless --metrics-listen 127.0.0.1:9464

Flags:
%s`, flagSet.FlagUsages())
}
