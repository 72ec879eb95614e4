// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestInfoMarksDirtyBuilds(t *testing.T) {
	savedCommit, savedDirty := GitCommit, GitDirty
	t.Cleanup(func() { GitCommit, GitDirty = savedCommit, savedDirty })

	GitCommit = "abc1234"
	GitDirty = "true"
	if info := Info(); !strings.Contains(info, "abc1234-dirty") {
		t.Errorf("Info() = %q, want commit marked dirty", info)
	}

	GitDirty = "false"
	if info := Info(); strings.Contains(info, "-dirty") {
		t.Errorf("Info() = %q, clean build marked dirty", info)
	}
}

func TestPrintWritesFullVersion(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	savedStdout := os.Stdout
	os.Stdout = writer
	t.Cleanup(func() { os.Stdout = savedStdout })

	Print("perfview")
	writer.Close()
	output, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if !strings.HasPrefix(string(output), "perfview "+Info()) {
		t.Errorf("Print output = %q, want binary name and Info", output)
	}
	if !strings.Contains(string(output), "Platform:") {
		t.Errorf("Print output = %q, want Go version and platform", output)
	}
}
