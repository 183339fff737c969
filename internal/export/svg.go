package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/viz"
)

var strokeColors = []string{"#00ccff", "#ffaa00", "#00ff88", "#ff66cc"}

const markerColor = "#ff4444"

// CanvasToSVG converts a braille canvas to SVG, one circle per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelWidth(), canvas.PixelHeight()
	width := float64(pw) * scale
	height := float64(ph) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="#ffffff">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type bounds struct {
	minX, maxX, minY, maxY float64
	ok                     bool
}

func (b *bounds) add(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	if !b.ok {
		b.minX, b.maxX, b.minY, b.maxY, b.ok = x, x, y, y, true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// pad widens the bounds by 10% on each side.
func (b *bounds) pad() {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ChartToSVG draws a chart's series on shared axes: line series as paths,
// marker series as circles. Non-finite points are skipped. It returns "" when
// no series has a drawable point.
func ChartToSVG(chart dynamo.ChartID, series []dynamo.Series, width, height int) string {
	var b bounds
	for _, s := range series {
		for i := 0; i < s.Len(); i++ {
			b.add(s.X[i], s.Y[i])
		}
	}
	if !b.ok {
		return ""
	}
	b.pad()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	project := func(x, y float64) (float64, float64) {
		return (x - b.minX) / rangeX * float64(width),
			float64(height) - (y-b.minY)/rangeY*float64(height)
	}

	xLabel, yLabel := chart.Axes()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#e0e0e0" font-size="12">%s</text>
<text x="8" y="%d" fill="#666688" font-size="10">%s vs %s</text>
`, width, height, width, height, html.EscapeString(chart.Title()), height-6,
		html.EscapeString(yLabel), html.EscapeString(xLabel)))

	line := 0
	for _, s := range series {
		if s.Mode == dynamo.ModeMarkers {
			sb.WriteString(fmt.Sprintf(`<g fill="%s"><title>%s</title>
`, markerColor, html.EscapeString(s.Name)))
			for i := 0; i < s.Len(); i++ {
				if !finite(s.X[i]) || !finite(s.Y[i]) {
					continue
				}
				x, y := project(s.X[i], s.Y[i])
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4"/>
`, x, y))
			}
			sb.WriteString("</g>\n")
			continue
		}

		color := strokeColors[line%len(strokeColors)]
		line++
		var path strings.Builder
		move := true
		for i := 0; i < s.Len(); i++ {
			if !finite(s.X[i]) || !finite(s.Y[i]) {
				move = true
				continue
			}
			x, y := project(s.X[i], s.Y[i])
			if move {
				if path.Len() > 0 {
					path.WriteString(" ")
				}
				path.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				move = false
			} else {
				path.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		if path.Len() == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"><title>%s</title></path>
`, color, path.String(), html.EscapeString(s.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
