package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/brownsim/internal/config"
	"github.com/san-kum/brownsim/internal/dynamo"
)

func TestSceneSnapshotReplaysSeededRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.N = 50
	cfg.Seed = 7

	first, err := SceneSnapshot(context.Background(), cfg, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(first, "<?xml") || strings.Count(first, "<circle") == 0 {
		t.Fatalf("snapshot has no dots: %q", first)
	}
	if !strings.Contains(first, `width="640" height="640"`) {
		t.Error("unexpected document size")
	}

	second, err := SceneSnapshot(context.Background(), cfg, 20)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("replay with the same seed differs")
	}
}

func TestSceneSnapshotRejectsEmptyRun(t *testing.T) {
	_, err := SceneSnapshot(context.Background(), config.DefaultConfig(), 0)
	if !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("err = %v, want bounds error", err)
	}
}

func TestSceneSnapshotCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SceneSnapshot(ctx, config.DefaultConfig(), 10); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
