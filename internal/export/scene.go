package export

import (
	"context"

	"github.com/san-kum/brownsim/internal/config"
	"github.com/san-kum/brownsim/internal/dynamo"
	"github.com/san-kum/brownsim/internal/logging"
	"github.com/san-kum/brownsim/internal/sim"
	"github.com/san-kum/brownsim/internal/viz"
)

const (
	SceneWidth  = 80
	SceneHeight = 40
	SceneScale  = 4
)

// SceneSnapshot replays cfg headless for steps ticks and returns the last
// frame as SVG. A stored run carries its seed, so the replay ends on the same
// positions.
func SceneSnapshot(ctx context.Context, cfg *config.Config, steps int) (string, error) {
	if steps <= 0 {
		return "", dynamo.Bounds("steps", float64(steps))
	}

	scene := viz.NewScene(SceneWidth, SceneHeight)
	ctrl, err := sim.New(cfg.Params(), cfg.SimConfig(), scene, nil)
	if err != nil {
		return "", err
	}
	ctrl.SetLogger(logging.Discard())
	if err := ctrl.Run(ctx, steps); err != nil {
		return "", err
	}
	return CanvasToSVG(scene.Canvas, SceneScale), nil
}
