package skyraster

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// A position on the sky in degrees. L is the longitude, B the latitude.
type SkyPosition struct {
	L float64 `json:"l"`
	B float64 `json:"b"`
}

// Reports whether the position is the origin, in which case no recentering is applied.
func (s SkyPosition) IsZero() bool {
	return s.L == 0 && s.B == 0
}

// A coordinate in the plane a projection maps the sphere onto.
type PlanePoint struct {
	X float64
	Y float64
}

// An axis-aligned box. For sky bounds the box is oriented like the display, so
// XMin is the longitude found at the left edge of the image and may be larger
// than XMax.
type Bounds struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

func (b Bounds) Width() float64 {
	return b.XMax - b.XMin
}

func (b Bounds) Height() float64 {
	return b.YMax - b.YMin
}

// Reports whether the point lies inside the box, regardless of its orientation.
func (b Bounds) Contains(p PlanePoint) bool {
	xLo, xHi := math.Min(b.XMin, b.XMax), math.Max(b.XMin, b.XMax)
	yLo, yHi := math.Min(b.YMin, b.YMax), math.Max(b.YMin, b.YMax)
	return p.X >= xLo && p.X <= xHi && p.Y >= yLo && p.Y <= yHi
}

// Folds a longitude in degrees into (-180, 180].
func WrapLongitude(l float64) float64 {
	l = math.Mod(l, 360)
	if l > 180 {
		l -= 360
	} else if l <= -180 {
		l += 360
	}
	return l
}

func clamp(v float64, lo float64, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// The running min/max accumulator used while probing projection extents.
type boundsAccumulator struct {
	bounds Bounds
	empty  bool
}

func newBoundsAccumulator() boundsAccumulator {
	return boundsAccumulator{
		bounds: Bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)},
		empty:  true,
	}
}

func (a *boundsAccumulator) add(x float64, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	a.bounds.XMin = math.Min(a.bounds.XMin, x)
	a.bounds.XMax = math.Max(a.bounds.XMax, x)
	a.bounds.YMin = math.Min(a.bounds.YMin, y)
	a.bounds.YMax = math.Max(a.bounds.YMax, y)
	a.empty = false
}

// MinExtent is the smallest extent a rasterizer allows along either axis of its
// bounding boxes. Narrower boxes, e.g. around a single pixel, are widened to it.
const MinExtent = 1e-9

// widen grows a degenerate axis by MinExtent either side of its midpoint, preserving orientation.
func widen(lo float64, hi float64) (float64, float64) {
	if math.Abs(hi-lo) >= MinExtent {
		return lo, hi
	}
	mid := 0.5 * (lo + hi)
	if hi < lo {
		return mid + MinExtent, mid - MinExtent
	}
	return mid - MinExtent, mid + MinExtent
}
