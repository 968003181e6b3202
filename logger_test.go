package skyraster

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	if _, err := NewRasterizer(allSky(1), RasterizerOptions{Width: 8, Height: 4}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "built rasterizer") {
		t.Errorf("expected construction to be logged, got %q", buf.String())
	}

	buf.Reset()
	queue := NewPickQueue(0)
	queue.HandlePick(PickEvent{Index: 3})
	if !strings.Contains(buf.String(), "pick queue full") {
		t.Errorf("expected a dropped pick to be logged, got %q", buf.String())
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("expected a logger after resetting")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("expected the default logger to be silent")
	}
}
