package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/ensemble"
	"github.com/san-kum/brownsim/internal/viz"
)

func TestLiveRendererThrottles(t *testing.T) {
	scene := viz.NewScene(10, 4)
	scene.AddObject()
	scene.Render([]dynamo.Vec3{{}})

	var out bytes.Buffer
	var series ensemble.Series
	r := NewLiveRenderer(scene, &series, &out, 10)

	clock := time.Unix(100, 0)
	r.now = func() time.Time { return clock }

	r.OnTick(1, 0.01)
	r.OnTick(2, 0.02)
	if r.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", r.Frames())
	}

	clock = clock.Add(100 * time.Millisecond)
	r.OnTick(3, 0.03)
	if r.Frames() != 2 {
		t.Errorf("frames = %d, want 2", r.Frames())
	}

	text := out.String()
	if strings.Count(text, clearScreen) != 2 {
		t.Errorf("expected two cleared frames")
	}
	if !strings.Contains(text, "step=3") || !strings.Contains(text, "particles=1") {
		t.Errorf("unexpected frame %q", text)
	}
}

func TestLiveRendererShowsMSD(t *testing.T) {
	scene := viz.NewScene(10, 4)
	var out bytes.Buffer
	series := ensemble.Series{Time: []float64{0.05}, MSD: []float64{6e-11}}
	r := NewLiveRenderer(scene, &series, &out, 30)

	r.OnTick(5, 0.05)
	if !strings.Contains(out.String(), "msd=6.000e-11") {
		t.Errorf("frame missing msd: %q", out.String())
	}
}
