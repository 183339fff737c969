package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2, 3}, {10, 20}})
	if g.Size() != 6 {
		t.Fatalf("size = %d, want 6", g.Size())
	}

	best, score, points, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		return math.Abs(p["a"]-2) + math.Abs(p["b"]-20), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 6 {
		t.Errorf("points = %d, want 6", len(points))
	}
	if best["a"] != 2 || best["b"] != 20 || score != 0 {
		t.Errorf("best = %v (%v), want a=2 b=20", best, score)
	}
	if points[0].Params["a"] != 1 || points[0].Params["b"] != 10 || points[1].Params["b"] != 20 {
		t.Error("last parameter should vary fastest")
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	errBad := errors.New("bad point")
	g := NewGridSearch([]string{"x"}, [][]float64{{-1, 1, 2}})

	best, score, points, err := g.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] < 0 {
			return -100, errBad
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 1 || score != 1 {
		t.Errorf("best = %v (%v), want x=1", best, score)
	}
	if !errors.Is(points[0].Err, errBad) || !math.IsInf(points[0].Score, 1) {
		t.Errorf("failed point = %+v", points[0])
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	calls := 0
	_, _, points, err := g.Search(ctx, func(context.Context, map[string]float64) (float64, error) {
		calls++
		cancel()
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 || len(points) != 1 {
		t.Errorf("calls = %d, points = %d, want 1", calls, len(points))
	}
}

func TestGridSearchEmpty(t *testing.T) {
	best, score, points, err := NewGridSearch(nil, nil).Search(context.Background(), nil)
	if err != nil || best != nil || !math.IsInf(score, 1) || len(points) != 0 {
		t.Errorf("empty grid = %v %v %v %v", best, score, points, err)
	}
}
