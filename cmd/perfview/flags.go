// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/perfview/lib/config"
)

// commandFlags holds the command line. Every flag except --config and
// --help overrides the matching config field, but only when given
// explicitly, so file values survive unset flags.
type commandFlags struct {
	configPath      string
	socketPath      string
	connectPath     string
	capacity        int
	refreshInterval time.Duration
	summaryInterval time.Duration
	headless        bool
	color           string
	logLevel        string
	logFile         string
	metricsListen   string
	help            bool
}

func (flags *commandFlags) register(flagSet *pflag.FlagSet) {
	defaults := config.Default()
	flagSet.StringVar(&flags.configPath, "config", "", "path to a YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&flags.socketPath, "socket", "", "socket path to listen on (default: "+defaults.SocketPath+")")
	flagSet.StringVar(&flags.connectPath, "connect", "", "dial a listening producer at this socket path instead of listening")
	flagSet.IntVar(&flags.capacity, "capacity", defaults.Capacity, "number of samples kept in the window")
	flagSet.DurationVar(&flags.refreshInterval, "refresh", defaults.RefreshInterval, "display refresh interval")
	flagSet.DurationVar(&flags.summaryInterval, "summary-interval", defaults.SummaryInterval, "headless summary interval")
	flagSet.BoolVar(&flags.headless, "headless", false, "log summaries instead of drawing (implied when stdout is not a terminal)")
	flagSet.StringVar(&flags.color, "color", string(defaults.Color), "color output: auto, always, never")
	flagSet.StringVar(&flags.logLevel, "log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	flagSet.StringVar(&flags.logFile, "log-file", "", "write JSON log records to this rotated file")
	flagSet.StringVar(&flags.metricsListen, "metrics-listen", "", "serve Prometheus /metrics on this address")
	flagSet.BoolVarP(&flags.help, "help", "h", false, "show help")
}

// apply copies explicitly set flags over cfg.
func (flags *commandFlags) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	if flagSet.Changed("socket") {
		cfg.SocketPath = flags.socketPath
	}
	if flagSet.Changed("connect") {
		cfg.ConnectPath = flags.connectPath
	}
	if flagSet.Changed("capacity") {
		cfg.Capacity = flags.capacity
	}
	if flagSet.Changed("refresh") {
		cfg.RefreshInterval = flags.refreshInterval
	}
	if flagSet.Changed("summary-interval") {
		cfg.SummaryInterval = flags.summaryInterval
	}
	if flagSet.Changed("headless") {
		cfg.Headless = flags.headless
	}
	if flagSet.Changed("color") {
		cfg.Color = config.ColorMode(flags.color)
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if flagSet.Changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if flagSet.Changed("metrics-listen") {
		cfg.Metrics.Listen = flags.metricsListen
	}
}
