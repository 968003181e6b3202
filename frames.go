package skyraster

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// One set of values to render, e.g. the map at one distance slice. Index is
// the caller's label for the frame and is copied to its result.
type Frame struct {
	Index  int
	Values []float64
}

type FrameResult struct {
	Index int
	Image *Image
	Err   error
}

// Rasterizes every frame through the shared rasterizer using up to workers
// goroutines (GOMAXPROCS when workers < 1). Results come back in the order of
// frames. A frame that fails carries its own error and does not stop the
// others. Once ctx is done no further frames are started and those left carry
// ctx.Err().
func RenderFrames(ctx context.Context, r *Rasterizer, frames []Frame, workers int) []FrameResult {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]FrameResult, len(frames))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, frame := range frames {
		results[i].Index = frame.Index
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			img, err := r.Rasterize(frame.Values)
			if err != nil {
				Logger().Warn("frame failed", "frame", frame.Index, "error", err)
				results[i].Err = err
				return nil
			}
			Logger().Debug("frame rendered", "frame", frame.Index)
			results[i].Image = img
			return nil
		})
	}
	g.Wait()
	return results
}
