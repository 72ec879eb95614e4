// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package perfui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// axisWidth is the width of the y-axis label column including the
// axis line itself: seven characters of number, "ms", and one rune.
const axisWidth = 10

// blocks indexes partial-cell glyphs by height in eighths.
var blocks = []rune(" ▁▂▃▄▅▆▇█")

// chartRow is one line of the chart, split so axis and plot can be
// styled separately.
type chartRow struct {
	axis string
	plot string
}

// renderChart draws values as columns, one sample per column in
// arrival order, scaled so the largest value fills height rows. When
// there are more values than columns, the newest ones are shown.
// Returns nil if the area cannot fit an axis and one column.
func renderChart(values []time.Duration, width, height int) []chartRow {
	plotWidth := width - axisWidth
	if height < 1 || plotWidth < 1 {
		return nil
	}
	if len(values) > plotWidth {
		values = values[len(values)-plotWidth:]
	}

	scale := chartScale(values)
	levels := make([]int, len(values))
	for i, value := range values {
		level := int(math.Round(float64(value) / float64(scale) * float64(height*8)))
		if level == 0 && value > 0 {
			level = 1
		}
		levels[i] = level
	}

	rows := make([]chartRow, height)
	var plot strings.Builder
	for row := range height {
		floor := (height - 1 - row) * 8
		plot.Reset()
		for _, level := range levels {
			plot.WriteRune(blocks[min(max(level-floor, 0), 8)])
		}
		plot.WriteString(strings.Repeat(" ", plotWidth-len(levels)))

		rows[row] = chartRow{
			axis: axisLabel(row, height, scale),
			plot: plot.String(),
		}
	}
	return rows
}

// chartScale returns the value mapped to the full chart height: the
// largest value rounded up to a whole millisecond, or the largest value
// itself when rounding up would overflow.
func chartScale(values []time.Duration) time.Duration {
	var largest time.Duration
	for _, value := range values {
		largest = max(largest, value)
	}
	scale := largest.Truncate(time.Millisecond)
	if scale < largest {
		if scale > math.MaxInt64-time.Millisecond {
			scale = largest
		} else {
			scale += time.Millisecond
		}
	}
	if scale <= 0 {
		scale = time.Millisecond
	}
	return scale
}

// axisLabel labels the top, middle, and bottom rows.
func axisLabel(row, height int, scale time.Duration) string {
	var value float64
	switch {
	case row == 0:
		value = milliseconds(scale)
	case row == height-1:
		value = 0
	case height >= 5 && row == (height-1)/2:
		value = milliseconds(scale) * float64(height-1-row) / float64(height-1)
	default:
		return strings.Repeat(" ", axisWidth-1) + "│"
	}
	// Values past 99999.9ms switch to exponent form to keep the width.
	if value >= 99999.95 {
		return fmt.Sprintf("%7.1ems┤", value)
	}
	return fmt.Sprintf("%7.1fms┤", value)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
