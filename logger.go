package skyraster

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// Routes this package's log records to l; nil silences them again, which is
// also the default. Records carry these messages:
//
//   - Debug "built rasterizer": projection, width, height, addresses, nsides,
//     coverage and elapsed build time, once per NewRasterizer.
//   - Debug "pick": cursor x, y and the address index found by Picker.Pick.
//   - Debug "frame rendered" and Warn "frame failed" (with the error) from
//     RenderFrames, keyed by the frame's index.
//   - Debug "evicted cached rasterizer" when RasterizerCache is full.
//   - Warn "skipping resolution without projectable probe points" per nside
//     whose probe grid projects nowhere.
//   - Warn "no display cell resolved to a pixel address, using whole-sky
//     bounds" when a rasterizer ends up with no coverage.
//   - Warn "pick queue full, dropping pick" from PickQueue.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

func Logger() *slog.Logger {
	return logger.Load()
}
