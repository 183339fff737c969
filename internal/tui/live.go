package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/brownsim/internal/ensemble"
	"github.com/san-kum/brownsim/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints a scene to a plain terminal without Bubble Tea. It is a
// tick observer: frames are throttled to frameRate and the scene itself is
// filled by the controller as its renderer.
type LiveRenderer struct {
	scene     *viz.Scene
	series    *ensemble.Series
	out       io.Writer
	frameRate int
	lastFrame time.Time
	frames    int
	now       func() time.Time
}

func NewLiveRenderer(scene *viz.Scene, series *ensemble.Series, out io.Writer, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		scene:     scene,
		series:    series,
		out:       out,
		frameRate: frameRate,
		now:       time.Now,
	}
}

func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) OnTick(step int, t float64) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now
	r.frames++
	r.render(step, t)
}

func (r *LiveRenderer) render(step int, t float64) {
	canvas := r.scene.String()
	width := r.scene.Canvas.Width

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  brownian motion  step=%d  t=%.2fs\n", step, t))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range strings.Split(strings.TrimSuffix(canvas, "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	line := fmt.Sprintf("  particles=%d visible=%d", r.scene.LiveObjects(), r.scene.Visible())
	if n := r.series.Len(); n > 0 {
		line += fmt.Sprintf(" msd=%.3e m²", r.series.MSD[n-1])
	}
	b.WriteString(line + "\n")

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
