package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/brownsim/internal/dynamo"
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Red}

// Charts is an in-place chart surface drawn with asciigraph. Plot replaces
// the series of one chart; View renders it on demand.
type Charts struct {
	Width, Height int

	series  map[dynamo.ChartID][]dynamo.Series
	updates map[dynamo.ChartID]int
}

func NewCharts(w, h int) *Charts {
	return &Charts{
		Width:   w,
		Height:  h,
		series:  make(map[dynamo.ChartID][]dynamo.Series),
		updates: make(map[dynamo.ChartID]int),
	}
}

func (c *Charts) Plot(chart dynamo.ChartID, series []dynamo.Series) error {
	if chart.Title() == "" {
		return fmt.Errorf("chart %d: %w", int(chart), dynamo.ErrNotFound)
	}
	c.series[chart] = series
	c.updates[chart]++
	return nil
}

func (c *Charts) Series(chart dynamo.ChartID) []dynamo.Series { return c.series[chart] }
func (c *Charts) Updates(chart dynamo.ChartID) int            { return c.updates[chart] }

// View renders the chart: line series as one asciigraph plot sharing a y
// scale, marker series as a legend of points below it.
func (c *Charts) View(chart dynamo.ChartID) string {
	xLabel, yLabel := chart.Axes()
	var lines [][]float64
	var names []string
	var markers []dynamo.Series

	for _, s := range c.series[chart] {
		switch s.Mode {
		case dynamo.ModeMarkers:
			markers = append(markers, s)
		default:
			if s.Len() >= 2 && len(lines) < len(seriesColors) {
				lines = append(lines, s.Y[:s.Len()])
				names = append(names, s.Name)
			}
		}
	}

	var b strings.Builder
	b.WriteString(chart.Title() + "\n")

	if len(lines) == 0 {
		b.WriteString("  (waiting for data)\n")
	} else {
		exp := displayExponent(lines)
		factor := math.Pow(10, float64(-exp))
		data := make([][]float64, len(lines))
		for i, ys := range lines {
			data[i] = scaled(ys, factor)
		}

		caption := fmt.Sprintf("%s vs %s", yLabel, xLabel)
		if exp != 0 {
			caption = fmt.Sprintf("%s (x1e%d) vs %s", yLabel, exp, xLabel)
		}
		b.WriteString(asciigraph.PlotMany(data,
			asciigraph.Height(c.Height),
			asciigraph.Width(c.Width),
			asciigraph.SeriesColors(seriesColors[:len(data)]...),
			asciigraph.SeriesLegends(names...),
			asciigraph.Caption(caption),
		))
		b.WriteString("\n")
		if span, ok := xSpan(c.series[chart]); ok {
			b.WriteString(fmt.Sprintf("  %s: %s\n", xLabel, span))
		}
	}

	for _, m := range markers {
		for i := 0; i < m.Len(); i++ {
			b.WriteString(fmt.Sprintf("  ● %s  x=%.4g  y=%.4e\n", m.Name, m.X[i], m.Y[i]))
		}
	}
	return b.String()
}

// displayExponent picks a power of ten that brings the largest finite value
// into a readable range for asciigraph's fixed-precision labels.
func displayExponent(series [][]float64) int {
	maxAbs := 0.0
	for _, ys := range series {
		for _, y := range ys {
			if a := math.Abs(y); !math.IsInf(a, 0) && !math.IsNaN(a) && a > maxAbs {
				maxAbs = a
			}
		}
	}
	if maxAbs == 0 {
		return 0
	}
	exp := int(math.Floor(math.Log10(maxAbs)))
	if exp >= -2 && exp <= 5 {
		return 0
	}
	return exp
}

func scaled(ys []float64, factor float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		if math.IsInf(y, 0) {
			y = math.NaN()
		}
		out[i] = y * factor
	}
	return out
}

func xSpan(series []dynamo.Series) (string, bool) {
	for _, s := range series {
		if s.Mode != dynamo.ModeMarkers && s.Len() >= 2 {
			return fmt.Sprintf("%.4g … %.4g", s.X[0], s.X[s.Len()-1]), true
		}
	}
	return "", false
}
