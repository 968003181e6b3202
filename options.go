package skyraster

import (
	"encoding/json"
	"io"
)

// Everything about a rendering that is fixed once a rasterizer is built. The
// projection is named in JSON, e.g. {"projection": "mollweide", "width": 2000,
// "height": 1000, "center": {"l": 90, "b": 10}}.
type RasterizerOptions struct {
	Projection ProjectionKind `json:"projection"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	// Sky position brought to the middle of the map. The zero position disables recentering.
	Center SkyPosition `json:"center"`
}

func DefaultRasterizerOptions() RasterizerOptions {
	return RasterizerOptions{
		Projection: ProjectionCartesian,
		Width:      800,
		Height:     400,
	}
}

// Decodes options from JSON, starting from the defaults, and validates them.
func LoadOptions(r io.Reader) (RasterizerOptions, error) {
	opts := DefaultRasterizerOptions()
	if err := json.NewDecoder(r).Decode(&opts); err != nil {
		return RasterizerOptions{}, err
	}
	if err := opts.Validate(); err != nil {
		return RasterizerOptions{}, err
	}
	return opts, nil
}

func (o RasterizerOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return NewInvalidImageSizeError(o.Width, o.Height)
	}
	if _, ok := projectionNames[o.Projection]; !ok {
		return NewUnknownProjectionError(o.Projection.String())
	}
	return nil
}
