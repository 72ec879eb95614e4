// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for perfview.
//
// Configuration comes from at most one file, named either by the
// PERFVIEW_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). The file is optional: without one, [Default]
// values apply. There is no discovery of files in well-known
// locations. Command-line flags override file values, but that merge
// happens in the binaries, not here.
//
// Variable expansion is performed on path fields after loading:
// ${XDG_RUNTIME_DIR}, ${HOME}, and ${VAR:-default} patterns are
// expanded from the process environment.
//
// Key exports:
//
//   - [Config] -- socket paths, window capacity, intervals, logging, metrics
//   - [Default] -- a Config with every field set to its default
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every invalid field at once
//
// This package depends on no other perfview packages.
package config
