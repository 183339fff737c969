package optim

import (
	"context"
	"math"
)

// Point is one evaluated grid point. Failed evaluations keep their error and
// a score of +Inf.
type Point struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// Objective scores one parameter combination; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Size is the number of points in the grid.
func (g *GridSearch) Size() int {
	if len(g.paramNames) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search evaluates every grid point in order, the last parameter varying
// fastest, and returns the best parameters, their score and all points.
// It stops early with ctx.Err() when ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, eval Objective) (map[string]float64, float64, []Point, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	points := make([]Point, 0, g.Size())

	if len(g.paramNames) == 0 {
		return nil, best, points, nil
	}
	err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &bestParams, &points)
	return bestParams, best, points, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Objective,
	best *float64,
	bestParams *map[string]float64,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		score, err := eval(ctx, current)
		if err != nil {
			score = math.Inf(1)
		}
		*points = append(*points, Point{Params: current, Score: score, Err: err})

		if err == nil && score < *best {
			*best = score
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best, bestParams, points); err != nil {
			return err
		}
	}
	return nil
}
