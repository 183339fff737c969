package viz

import (
	"math"
	"testing"

	"github.com/san-kum/brownsim/internal/dynamo"
)

func TestSceneObjects(t *testing.T) {
	s := NewScene(10, 5)
	ids := map[int]bool{}
	for i := 0; i < 3; i++ {
		id := s.AddObject()
		if ids[id] {
			t.Fatalf("duplicate id %d", id)
		}
		ids[id] = true
	}
	if s.LiveObjects() != 3 {
		t.Errorf("live = %d, want 3", s.LiveObjects())
	}
	for id := range ids {
		s.RemoveObject(id)
	}
	if s.LiveObjects() != 0 {
		t.Errorf("live after remove = %d", s.LiveObjects())
	}
}

func TestSceneRender(t *testing.T) {
	s := NewScene(10, 5)
	s.ShowAxes = false
	s.AddObject()
	s.AddObject()

	positions := []dynamo.Vec3{
		{},
		{X: 0.5, Y: 0.5},
		{X: 2, Y: -2}, // no object
	}
	s.Render(positions)

	if s.Frames() != 1 {
		t.Errorf("frames = %d, want 1", s.Frames())
	}
	if s.Visible() != 2 {
		t.Errorf("visible = %d, want 2", s.Visible())
	}
	if s.Canvas.Count() != 2 {
		t.Errorf("lit = %d, want 2", s.Canvas.Count())
	}
}

func TestSceneSkipsInvalid(t *testing.T) {
	s := NewScene(10, 5)
	s.ShowAxes = false
	s.AddObject()
	s.AddObject()

	s.Render([]dynamo.Vec3{{X: math.NaN()}, {Z: math.Inf(1)}})
	if s.Visible() != 0 {
		t.Errorf("visible = %d, want 0", s.Visible())
	}
}

func TestSceneRedrawAfterCameraMove(t *testing.T) {
	s := NewScene(20, 10)
	s.ShowAxes = false
	s.AddObject()
	s.Render([]dynamo.Vec3{{X: 1}})

	cx, cy := s.Canvas.PixelWidth()/2, s.Canvas.PixelHeight()/2
	if s.Canvas.IsSet(cx, cy) {
		t.Fatal("particle should be off center before rotation")
	}

	s.Camera.RotateY(math.Pi / 2)
	s.Redraw()
	if !s.Canvas.IsSet(cx, cy) {
		t.Error("particle on the x axis should project to the center after a quarter turn")
	}
}
