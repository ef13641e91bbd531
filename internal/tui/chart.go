package tui

import (
	"math"
	"strconv"
	"strings"

	"market-mood/internal/domain"
)

// chartOptions controls one ASCII line chart. FixedBounds pins the y-axis
// instead of fitting it to the data (used by the fear & greed chart, which
// always spans 0-100).
type chartOptions struct {
	Width       int
	Height      int
	YMin        float64
	YMax        float64
	FixedBounds bool
	FormatY     func(float64) string
}

// renderChart plots a series as rows of text. The caller guarantees a
// non-empty series; empty series are skipped before rendering.
func renderChart(series domain.Series, opts chartOptions) string {
	if series.Empty() || opts.Width < 10 || opts.Height < 2 {
		return ""
	}

	min, max := opts.YMin, opts.YMax
	if !opts.FixedBounds {
		min, max = math.Inf(1), math.Inf(-1)
		for _, p := range series {
			min = math.Min(min, p.Value)
			max = math.Max(max, p.Value)
		}
		if max == min {
			max = min + 1
		}
	}

	cols := downsample(series, opts.Width)

	// Map each column to a row, top row is index 0.
	grid := make([][]rune, opts.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", len(cols)))
	}
	for x, v := range cols {
		norm := (v - min) / (max - min)
		norm = math.Max(0, math.Min(1, norm))
		y := int(math.Round(float64(opts.Height-1) * (1 - norm)))
		grid[y][x] = '•'
	}

	formatY := opts.FormatY
	if formatY == nil {
		formatY = func(v float64) string { return strings.TrimSpace(trimFloat(v)) }
	}

	labelTop := formatY(max)
	labelBottom := formatY(min)
	labelWidth := len(labelTop)
	if len(labelBottom) > labelWidth {
		labelWidth = len(labelBottom)
	}

	var sb strings.Builder
	for i, row := range grid {
		label := strings.Repeat(" ", labelWidth)
		switch i {
		case 0:
			label = pad(labelTop, labelWidth)
		case opts.Height - 1:
			label = pad(labelBottom, labelWidth)
		}
		sb.WriteString(label)
		sb.WriteString(" ┤")
		sb.WriteString(string(row))
		sb.WriteString("\n")
	}

	// Date axis: first and last date of the window.
	first := series[0].Date.Format("02.01.2006")
	last := series[len(series)-1].Date.Format("02.01.2006")
	gap := len(cols) - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	sb.WriteString(first)
	sb.WriteString(strings.Repeat(" ", gap))
	sb.WriteString(last)

	return sb.String()
}

// downsample buckets the series into at most width columns, averaging the
// values that land in each bucket.
func downsample(series domain.Series, width int) []float64 {
	if len(series) <= width {
		out := make([]float64, len(series))
		for i, p := range series {
			out[i] = p.Value
		}
		return out
	}

	out := make([]float64, width)
	for x := 0; x < width; x++ {
		lo := x * len(series) / width
		hi := (x + 1) * len(series) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, p := range series[lo:hi] {
			sum += p.Value
		}
		out[x] = sum / float64(hi-lo)
	}
	return out
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
