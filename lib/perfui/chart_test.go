// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perfui

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestRenderChartColumns(t *testing.T) {
	values := []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	rows := renderChart(values, axisWidth+4, 2)

	want := []chartRow{
		{axis: "    4.0ms┤", plot: "  █ "},
		{axis: "    0.0ms┤", plot: "▄██ "},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestRenderChartShowsNewestWhenNarrow(t *testing.T) {
	values := []time.Duration{8, 8, 8, 1 * time.Millisecond, 2 * time.Millisecond}
	rows := renderChart(values, axisWidth+2, 1)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	// Scale is 2ms: 1ms is four eighths, 2ms is a full cell.
	if rows[0].plot != "▄█" {
		t.Errorf("plot = %q, want %q", rows[0].plot, "▄█")
	}
}

func TestRenderChartTinyValuesStayVisible(t *testing.T) {
	values := []time.Duration{time.Microsecond, 100 * time.Millisecond}
	rows := renderChart(values, axisWidth+2, 1)
	if got := []rune(rows[0].plot)[0]; got != '▁' {
		t.Errorf("tiny value drawn as %q, want the smallest block", got)
	}
}

func TestRenderChartRowWidths(t *testing.T) {
	values := make([]time.Duration, 50)
	for i := range values {
		values[i] = time.Duration(i%17) * time.Millisecond
	}
	const width, height = 60, 9
	rows := renderChart(values, width, height)
	if len(rows) != height {
		t.Fatalf("got %d rows, want %d", len(rows), height)
	}
	for i, row := range rows {
		if got := utf8.RuneCountInString(row.axis) + utf8.RuneCountInString(row.plot); got != width {
			t.Errorf("row %d is %d columns wide, want %d", i, got, width)
		}
	}
	if rows[4].axis != "    8.0ms┤" {
		t.Errorf("middle label = %q, want 8.0ms", rows[4].axis)
	}
	if rows[1].axis != "         │" {
		t.Errorf("unlabeled row axis = %q", rows[1].axis)
	}
}

func TestRenderChartTooSmall(t *testing.T) {
	values := []time.Duration{time.Millisecond}
	if rows := renderChart(values, axisWidth, 5); rows != nil {
		t.Errorf("chart with no plot columns = %v, want nil", rows)
	}
	if rows := renderChart(values, 80, 0); rows != nil {
		t.Errorf("chart with no rows = %v, want nil", rows)
	}
}

func TestChartScale(t *testing.T) {
	tests := []struct {
		values []time.Duration
		want   time.Duration
	}{
		{nil, time.Millisecond},
		{[]time.Duration{0, 0}, time.Millisecond},
		{[]time.Duration{16 * time.Millisecond}, 16 * time.Millisecond},
		{[]time.Duration{16*time.Millisecond + 1}, 17 * time.Millisecond},
		{[]time.Duration{3 * time.Millisecond, 33_300 * time.Microsecond}, 34 * time.Millisecond},
	}
	for _, test := range tests {
		if got := chartScale(test.values); got != test.want {
			t.Errorf("chartScale(%v) = %v, want %v", test.values, got, test.want)
		}
	}
}

func TestRenderChartHugeValues(t *testing.T) {
	values := []time.Duration{math.MaxInt64, math.MaxInt64 / 2, time.Millisecond}
	rows := renderChart(values, axisWidth+3, 4)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	if top := rows[0].axis; !strings.Contains(top, "e+12ms") {
		t.Errorf("top axis label = %q, want the largest value in exponent form", top)
	}
	for i, row := range rows {
		if width := utf8.RuneCountInString(row.axis); width != axisWidth {
			t.Errorf("row %d axis %q is %d runes, want %d", i, row.axis, width, axisWidth)
		}
	}

	column := func(row, index int) rune { return []rune(rows[row].plot)[index] }
	if column(0, 0) != '█' || column(3, 0) != '█' {
		t.Errorf("largest value does not fill its column: %q", rows)
	}
	if column(0, 1) != ' ' || column(3, 1) != '█' {
		t.Errorf("half value drawn wrong: %q", rows)
	}
	if column(3, 2) != '▁' {
		t.Errorf("1ms beside huge values drawn as %q, want the smallest block", column(3, 2))
	}
}
