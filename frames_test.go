package skyraster

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestRenderFrames(t *testing.T) {
	addrs := allSky(2)
	r := newTestRasterizer(t, addrs, ProjectionEckertIV, 60, 30, SkyPosition{})

	frames := make([]Frame, 8)
	for i := range frames {
		values := indexValues(len(addrs))
		for j := range values {
			values[j] *= float64(i)
		}
		frames[i] = Frame{Index: 100 + i, Values: values}
	}
	frames[3].Values = frames[3].Values[:10]

	results := RenderFrames(context.Background(), r, frames, 3)
	if len(results) != len(frames) {
		t.Fatalf("expected %d results, got %d", len(frames), len(results))
	}
	for i, res := range results {
		if res.Index != 100+i {
			t.Errorf("expected result %d to carry frame index %d, got %d", i, 100+i, res.Index)
		}
		if i == 3 {
			if !errors.Is(res.Err, ErrInvalidInput) || res.Image != nil {
				t.Errorf("expected the short frame to fail on its own, got %v", res.Err)
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("expected frame %d to render, got %v", i, res.Err)
			continue
		}
		expect, _ := r.Rasterize(frames[i].Values)
		for c := range expect.Pix {
			if math.Float64bits(expect.Pix[c]) != math.Float64bits(res.Image.Pix[c]) {
				t.Fatalf("expected frame %d to match a direct rasterization at cell %d", i, c)
			}
		}
	}
}

func TestRenderFramesCancelled(t *testing.T) {
	addrs := allSky(1)
	r := newTestRasterizer(t, addrs, ProjectionCartesian, 10, 5, SkyPosition{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RenderFrames(ctx, r, []Frame{{Index: 0, Values: indexValues(12)}, {Index: 1, Values: indexValues(12)}}, 0)
	for _, res := range results {
		if !errors.Is(res.Err, context.Canceled) || res.Image != nil {
			t.Errorf("expected frame %d to be skipped after cancellation, got %v", res.Index, res.Err)
		}
	}
}
