package skyraster

import "math"

// Which families of grid lines to generate.
type GraticuleMode int

const (
	BothLines GraticuleMode = iota
	ParallelsOnly
	MeridiansOnly
)

type LineKind int

const (
	// A line of constant latitude.
	Parallel LineKind = iota
	// A line of constant longitude.
	Meridian
)

type GraticuleOptions struct {
	// Degrees of longitude between consecutive points along a parallel. Defaults to 1.
	LonSpacing float64
	// Degrees of latitude between consecutive points along a meridian. Defaults to 1.
	LatSpacing float64
	Mode       GraticuleMode
	// Drop points that fall outside the rasterizer's sky bounds. Only used by GridLines.
	Clip bool
}

func (o GraticuleOptions) spacings() (float64, float64) {
	lonSpacing, latSpacing := o.LonSpacing, o.LatSpacing
	if lonSpacing <= 0 {
		lonSpacing = 1
	}
	if latSpacing <= 0 {
		latSpacing = 1
	}
	return lonSpacing, latSpacing
}

// A dotted grid line, as a sequence of projected points.
type GridLine struct {
	Kind   LineKind
	Value  float64
	Points []PlanePoint
}

// A grid line value and the two places its label should be drawn.
type Label struct {
	Value   float64
	Anchors [2]PlanePoint
}

// Generates points along parallels at the given latitudes and meridians at the
// given longitudes, in degrees, recentered on center and projected to the plane.
// Parallels come first, in the order given, then meridians.
func Graticule(lons []float64, lats []float64, opts GraticuleOptions, proj Projection, center SkyPosition) []GridLine {
	lonSpacing, latSpacing := opts.spacings()
	forward, _ := recenterRotations(center)
	rotate := !center.IsZero()

	project := func(sky SkyPosition) PlanePoint {
		if rotate {
			sky = forward.Apply(sky)
		}
		x, y := proj.Forward(sky.B*degToRad, (180-sky.L)*degToRad)
		return PlanePoint{x, y}
	}

	lines := []GridLine{}
	if opts.Mode == BothLines || opts.Mode == ParallelsOnly {
		for _, b := range lats {
			line := GridLine{Kind: Parallel, Value: b}
			for i := 0; -180+float64(i)*lonSpacing < 180+lonSpacing/2; i++ {
				line.Points = append(line.Points, project(SkyPosition{L: -180 + float64(i)*lonSpacing, B: b}))
			}
			lines = append(lines, line)
		}
	}
	if opts.Mode == BothLines || opts.Mode == MeridiansOnly {
		for _, l := range lons {
			line := GridLine{Kind: Meridian, Value: l}
			for i := 0; -90+float64(i)*latSpacing < 90+latSpacing/2; i++ {
				line.Points = append(line.Points, project(SkyPosition{L: l, B: -90 + float64(i)*latSpacing}))
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// Grid lines in the rasterizer's projection and recentering, rescaled into its
// sky bounds so that they overlay an image drawn with those bounds as extent,
// whatever the image resolution.
func (r *Rasterizer) GridLines(lons []float64, lats []float64, opts GraticuleOptions) []GridLine {
	lines := Graticule(lons, lats, opts, r.proj, r.opts.Center)
	for i := range lines {
		kept := lines[i].Points[:0]
		for _, p := range lines[i].Points {
			p = r.PlaneToSky(p)
			if opts.Clip && !r.sky.Contains(p) {
				continue
			}
			kept = append(kept, p)
		}
		lines[i].Points = kept
	}
	return lines
}

// Finds where the labels of the given meridians and parallels go. Each line is
// cut where consecutive points jump furthest apart, which is where it leaves
// the visible map; the two points on either side of the cut are pushed
// outward by shiftFrac of the map's size. Lines with no visible points get no label.
func (r *Rasterizer) LabelAnchors(lons []float64, lats []float64, shiftFrac float64) ([]Label, []Label) {
	dist := shiftFrac * math.Sqrt(math.Abs(r.sky.Width())*math.Abs(r.sky.Height()))

	lonLabels := []Label{}
	for _, l := range lons {
		lines := r.GridLines([]float64{l}, nil, GraticuleOptions{Mode: MeridiansOnly, Clip: true})
		if anchors, ok := labelAnchors(lines[0].Points, dist); ok {
			lonLabels = append(lonLabels, Label{Value: l, Anchors: anchors})
		}
	}

	latLabels := []Label{}
	for _, b := range lats {
		lines := r.GridLines(nil, []float64{b}, GraticuleOptions{Mode: ParallelsOnly, Clip: true})
		if anchors, ok := labelAnchors(lines[0].Points, dist); ok {
			latLabels = append(latLabels, Label{Value: b, Anchors: anchors})
		}
	}
	return lonLabels, latLabels
}

func labelAnchors(pts []PlanePoint, dist float64) ([2]PlanePoint, bool) {
	n := len(pts)
	if n == 0 {
		return [2]PlanePoint{}, false
	}

	// steps[i] runs from the previous point, wrapping around, to point i
	steps := make([]PlanePoint, n)
	cut := 0
	longest := -1.0
	for i := range pts {
		prev := pts[(i-1+n)%n]
		steps[i] = PlanePoint{pts[i].X - prev.X, pts[i].Y - prev.Y}
		if ds := math.Hypot(steps[i].X, steps[i].Y); ds > longest {
			longest = ds
			cut = i
		}
	}

	before := (cut - 1 + n) % n
	out := steps[0]
	if cut+1 < n {
		out = steps[cut+1]
	}
	out = scaleTo(PlanePoint{-out.X, -out.Y}, dist)
	in := scaleTo(steps[before], dist)

	return [2]PlanePoint{
		{pts[cut].X + out.X, pts[cut].Y + out.Y},
		{pts[before].X + in.X, pts[before].Y + in.Y},
	}, true
}

// Rescales v to length dist. A zero vector stays put.
func scaleTo(v PlanePoint, dist float64) PlanePoint {
	length := math.Hypot(v.X, v.Y)
	if length == 0 {
		return PlanePoint{}
	}
	return PlanePoint{v.X * dist / length, v.Y * dist / length}
}
