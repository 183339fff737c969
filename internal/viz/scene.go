package viz

import (
	"github.com/san-kum/brownsim/internal/dynamo"
)

// Scene is a terminal particle renderer. Each particle is one object; Render
// draws the first LiveObjects() positions as single braille dots.
type Scene struct {
	Canvas     *Canvas
	Camera     *Camera
	ShowAxes   bool
	AxisLength float64

	objects   map[int]struct{}
	next      int
	positions []dynamo.Vec3
	frames    int
	visible   int
}

func NewScene(w, h int) *Scene {
	return &Scene{
		Canvas:     NewCanvas(w, h),
		Camera:     NewCamera(),
		ShowAxes:   true,
		AxisLength: 1,
		objects:    make(map[int]struct{}),
	}
}

func (s *Scene) AddObject() int {
	s.next++
	s.objects[s.next] = struct{}{}
	return s.next
}

func (s *Scene) RemoveObject(id int) {
	delete(s.objects, id)
}

func (s *Scene) LiveObjects() int { return len(s.objects) }
func (s *Scene) Frames() int      { return s.frames }

// Visible is the number of particles that landed on the canvas in the last
// frame.
func (s *Scene) Visible() int { return s.visible }

func (s *Scene) Render(positions []dynamo.Vec3) {
	n := len(positions)
	if live := len(s.objects); n > live {
		n = live
	}
	s.positions = append(s.positions[:0], positions[:n]...)
	s.frames++
	s.Redraw()
}

// Redraw repaints the last frame, e.g. after the camera moved.
func (s *Scene) Redraw() {
	c := s.Canvas
	c.Clear()
	sw, sh := c.PixelWidth(), c.PixelHeight()

	if s.ShowAxes {
		ox, oy, _, _ := s.Camera.Project(dynamo.Vec3{}, sw, sh)
		for _, axis := range []dynamo.Vec3{{X: s.AxisLength}, {Y: s.AxisLength}, {Z: s.AxisLength}} {
			if ax, ay, _, ok := s.Camera.Project(axis, sw, sh); ok {
				c.DrawLine(ox, oy, ax, ay)
			}
		}
	}

	s.visible = 0
	for _, p := range s.positions {
		if !p.IsValid() {
			continue
		}
		x, y, _, ok := s.Camera.Project(p, sw, sh)
		if !ok {
			continue
		}
		c.Set(x, y)
		s.visible++
	}
}

func (s *Scene) String() string { return s.Canvas.String() }
