package skyraster

import (
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"
)

// Marks a display cell that no pixel address covers.
const Unmapped int = -1

// Lookup tables for resolutions with more pixels than this are kept sparse.
const maxDenseLookup = 1 << 22

// Which coordinates a position handed to CellAt is expressed in.
type CoordinateSpace int

const (
	PlaneSpace CoordinateSpace = iota
	SkySpace
)

// The "no data" value of rasterized images.
var NoData = math.NaN()

// A rasterized map, stored row-major with row 0 at the minimum y of the plane.
type Image struct {
	Width  int
	Height int
	Pix    []float64
}

func NewImage(width int, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

func (i *Image) At(x int, y int) float64 {
	return i.Pix[y*i.Width+x]
}

// Precomputed mapping from the cells of a fixed display grid to a list of
// HEALPix pixel addresses, for one projection and one recentering. Building it
// is the expensive part; Rasterize afterwards only copies values through the
// mapping, so the same rasterizer serves any number of value arrays over the
// same addresses. A Rasterizer is immutable and safe for concurrent use.
type Rasterizer struct {
	opts     RasterizerOptions
	proj     Projection
	grid     GridIndexer
	count    int
	nsides   []int
	rotate   bool
	forward  EulerRotation
	backward EulerRotation

	outOfBounds  []bool
	addressIndex []int32
	coverage     int
	plane        Bounds
	sky          Bounds
}

// Sorted index from pixel number to position in the caller's address list.
type pixelLookup struct {
	dense  []int32
	sparse map[int]int32
}

func newPixelLookup(pixels int) pixelLookup {
	if pixels > maxDenseLookup {
		return pixelLookup{sparse: map[int]int32{}}
	}
	dense := make([]int32, pixels)
	for i := range dense {
		dense[i] = int32(Unmapped)
	}
	return pixelLookup{dense: dense}
}

func (l pixelLookup) set(pixel int, position int) {
	if l.sparse != nil {
		l.sparse[pixel] = int32(position)
		return
	}
	l.dense[pixel] = int32(position)
}

func (l pixelLookup) get(pixel int) int32 {
	if l.sparse != nil {
		if pos, ok := l.sparse[pixel]; ok {
			return pos
		}
		return int32(Unmapped)
	}
	if pixel < 0 || pixel >= len(l.dense) {
		return int32(Unmapped)
	}
	return l.dense[pixel]
}

// One resolution present in the address list.
type resolutionLevel struct {
	indexer   HealpixIndexer
	positions []int
	lookup    pixelLookup
}

// Builds the display-cell to pixel-address mapping. Resolutions are processed
// from coarsest to finest, and a cell claimed by one resolution is never
// reassigned by a later one. If an address appears twice, the later position
// in the list is the one reported.
func NewRasterizer(addrs []PixelAddress, opts RasterizerOptions) (*Rasterizer, error) {
	levels, err := groupResolutions(addrs)
	if err != nil {
		return nil, err
	}
	nsides := maps.Keys(levels)
	slices.Sort(nsides)
	return buildRasterizer(addrs, opts, levels, nsides)
}

func groupResolutions(addrs []PixelAddress) (map[int]*resolutionLevel, error) {
	if len(addrs) == 0 {
		return nil, ErrEmptyInput
	}
	if int64(len(addrs)) > math.MaxInt32 {
		return nil, fmt.Errorf("%d pixel addresses exceed the supported count: %w", len(addrs), ErrInvalidInput)
	}
	levels := map[int]*resolutionLevel{}
	for i, addr := range addrs {
		level, ok := levels[addr.Nside]
		if !ok {
			indexer, err := NewHealpixIndexer(addr.Nside)
			if err != nil {
				return nil, err
			}
			level = &resolutionLevel{
				indexer: indexer,
				lookup:  newPixelLookup(indexer.Pixels()),
			}
			levels[addr.Nside] = level
		}
		if addr.Index < 0 || addr.Index >= level.indexer.Pixels() {
			return nil, NewPixelOutOfRangeError(i, addr)
		}
		level.positions = append(level.positions, i)
		level.lookup.set(addr.Index, i)
	}
	return levels, nil
}

func buildRasterizer(addrs []PixelAddress, opts RasterizerOptions, levels map[int]*resolutionLevel, nsides []int) (*Rasterizer, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	proj, err := NewProjection(opts.Projection, DefaultCentralMeridian)
	if err != nil {
		return nil, err
	}

	r := &Rasterizer{
		opts:   opts,
		proj:   proj,
		grid:   NewGridIndexer(opts.Width, opts.Height, true),
		count:  len(addrs),
		nsides: nsides,
		rotate: !opts.Center.IsZero(),
	}
	r.forward, r.backward = recenterRotations(opts.Center)

	plane, ok := r.probePlaneBounds(addrs, levels)
	if !ok {
		return nil, fmt.Errorf("no pixel centre could be projected: %w", ErrInvalidInput)
	}
	plane.XMin, plane.XMax = widen(plane.XMin, plane.XMax)
	plane.YMin, plane.YMax = widen(plane.YMin, plane.YMax)
	r.plane = plane

	r.resolveCells(levels)

	Logger().Debug("built rasterizer",
		"projection", opts.Projection.String(),
		"width", opts.Width,
		"height", opts.Height,
		"addresses", r.count,
		"nsides", nsides,
		"coverage", r.coverage,
		"elapsed", time.Since(start))
	return r, nil
}

// Projects the 3x3 grid of offsets around every pixel centre, each offset a
// fraction of the local pixel scale, and keeps the extremes.
func (r *Rasterizer) probePlaneBounds(addrs []PixelAddress, levels map[int]*resolutionLevel) (Bounds, bool) {
	overall := newBoundsAccumulator()
	for _, nside := range r.nsides {
		level := levels[nside]
		scale := level.indexer.Resolution()

		lams := make([]float64, len(level.positions))
		lats := make([]float64, len(level.positions))
		for i, pos := range level.positions {
			centre := level.indexer.PixelToAngle(addrs[pos].Index)
			if r.rotate {
				centre = r.forward.Apply(centre)
			}
			lams[i] = 180 - centre.L
			lats[i] = centre.B
		}

		acc := newBoundsAccumulator()
		for _, sx := range []float64{-scale, 0, scale} {
			for _, sy := range []float64{-scale, 0, scale} {
				for i := range lams {
					lam := clamp(lams[i]+0.75*sx, 0, 360)
					lat := clamp(lats[i]+0.75*sy, -90, 90)
					acc.add(r.proj.Forward(lat*degToRad, lam*degToRad))
				}
			}
		}
		if acc.empty {
			Logger().Warn("skipping resolution without projectable probe points", "nside", nside)
			continue
		}
		overall.add(acc.bounds.XMin, acc.bounds.YMin)
		overall.add(acc.bounds.XMax, acc.bounds.YMax)
	}
	return overall.bounds, !overall.empty
}

// Inverts every display cell and assigns it the first resolution whose
// lookup lists the pixel under it. Rows are independent and run in parallel.
func (r *Rasterizer) resolveCells(levels map[int]*resolutionLevel) {
	size := r.grid.Size()
	r.outOfBounds = make([]bool, size)
	r.addressIndex = make([]int32, size)

	ordered := make([]*resolutionLevel, len(r.nsides))
	for i, nside := range r.nsides {
		ordered[i] = levels[nside]
	}

	rowSky := make([]boundsAccumulator, r.grid.Height)
	rowCoverage := make([]int, r.grid.Height)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < r.grid.Height; y++ {
		g.Go(func() error {
			acc := newBoundsAccumulator()
			for x := 0; x < r.grid.Width; x++ {
				cell := r.grid.ToIndex(x, y)
				r.addressIndex[cell] = int32(Unmapped)
				sky, ok := r.invertCell(x, y)
				if !ok {
					r.outOfBounds[cell] = true
					continue
				}
				for _, level := range ordered {
					pos := level.lookup.get(level.indexer.AngleToPixel(sky))
					if pos != int32(Unmapped) {
						r.addressIndex[cell] = pos
						rowCoverage[y]++
						acc.add(sky.L, sky.B)
						break
					}
				}
			}
			rowSky[y] = acc
			return nil
		})
	}
	g.Wait()

	sky := newBoundsAccumulator()
	for y := range rowSky {
		r.coverage += rowCoverage[y]
		if !rowSky[y].empty {
			sky.add(rowSky[y].bounds.XMin, rowSky[y].bounds.YMin)
			sky.add(rowSky[y].bounds.XMax, rowSky[y].bounds.YMax)
		}
	}
	if sky.empty {
		Logger().Warn("no display cell resolved to a pixel address, using whole-sky bounds",
			"width", r.grid.Width, "height", r.grid.Height)
		sky.add(-180, -90)
		sky.add(180, 90)
	}
	// longitude grows to the left of the display
	r.sky = Bounds{
		XMin: sky.bounds.XMax,
		XMax: sky.bounds.XMin,
		YMin: sky.bounds.YMin,
		YMax: sky.bounds.YMax,
	}
	r.sky.XMin, r.sky.XMax = widen(r.sky.XMin, r.sky.XMax)
	r.sky.YMin, r.sky.YMax = widen(r.sky.YMin, r.sky.YMax)
}

// The plane coordinate at the centre of a display cell.
func (r *Rasterizer) cellCentre(x int, y int) PlanePoint {
	return PlanePoint{
		X: r.plane.XMin + r.plane.Width()*(float64(x)+0.5)/float64(r.grid.Width),
		Y: r.plane.YMin + r.plane.Height()*(float64(y)+0.5)/float64(r.grid.Height),
	}
}

// The sky position under a display cell, in the original frame, or false when
// the cell falls outside the projection.
func (r *Rasterizer) invertCell(x int, y int) (SkyPosition, bool) {
	pt := r.cellCentre(x, y)
	lat, lam, out := r.proj.Inverse(pt.X, pt.Y)
	if out {
		return SkyPosition{}, false
	}
	sky := SkyPosition{L: 180 - lam*radToDeg, B: lat * radToDeg}
	if r.rotate {
		sky = r.backward.Apply(sky)
	}
	return sky, true
}

// Fills an image with values[i] wherever a cell resolved to address i, and
// NoData elsewhere. values must hold exactly one entry per pixel address.
func (r *Rasterizer) Rasterize(values []float64) (*Image, error) {
	img := NewImage(r.grid.Width, r.grid.Height)
	if err := r.RasterizeInto(img, values); err != nil {
		return nil, err
	}
	return img, nil
}

// Like Rasterize, but writes into an existing image of the rasterizer's size.
func (r *Rasterizer) RasterizeInto(dst *Image, values []float64) error {
	if len(values) != r.count {
		return NewValueCountMismatchError(r.count, len(values))
	}
	if dst.Width != r.grid.Width || dst.Height != r.grid.Height || len(dst.Pix) != r.grid.Size() {
		return NewInvalidImageSizeError(dst.Width, dst.Height)
	}
	for cell, pos := range r.addressIndex {
		if pos == int32(Unmapped) {
			dst.Pix[cell] = NoData
		} else {
			dst.Pix[cell] = values[pos]
		}
	}
	return nil
}

// Returns the address index of the display cell containing (x, y), or
// Unmapped when the point is off the image, outside the projection or over a
// cell no address covers. In SkySpace, (x, y) is read against the sky bounds,
// the way an image drawn with those bounds as its extent is addressed.
func (r *Rasterizer) CellAt(x float64, y float64, space CoordinateSpace) int {
	bounds := r.plane
	if space == SkySpace {
		bounds = r.sky
	}
	dx := bounds.Width() / float64(r.grid.Width)
	dy := bounds.Height() / float64(r.grid.Height)
	ix := int(math.Floor((x - bounds.XMin) / dx))
	iy := int(math.Floor((y - bounds.YMin) / dy))
	if !r.grid.Contains(ix, iy) {
		return Unmapped
	}
	return r.AddressIndex(ix, iy)
}

// The address index display cell (x, y) resolved to, or Unmapped. Cells off
// the image are Unmapped.
func (r *Rasterizer) AddressIndex(x int, y int) int {
	if !r.grid.Contains(x, y) {
		return Unmapped
	}
	cell := r.grid.ToIndex(x, y)
	if r.outOfBounds[cell] {
		return Unmapped
	}
	return int(r.addressIndex[cell])
}

// Reports whether display cell (x, y) lies outside the projection's valid
// region. Cells off the image count as outside.
func (r *Rasterizer) OutOfBounds(x int, y int) bool {
	if !r.grid.Contains(x, y) {
		return true
	}
	return r.outOfBounds[r.grid.ToIndex(x, y)]
}

// Reports whether display cell (x, y) resolved to a pixel address.
func (r *Rasterizer) Resolved(x int, y int) bool {
	return r.AddressIndex(x, y) != Unmapped
}

// Recomputes the sky position under display cell (x, y).
func (r *Rasterizer) CellPosition(x int, y int) (SkyPosition, bool) {
	if !r.grid.Contains(x, y) {
		return SkyPosition{}, false
	}
	return r.invertCell(x, y)
}

// Maps a plane coordinate into the sky bounds, so that it lands where the same
// point appears on an image drawn with the sky bounds as its extent.
func (r *Rasterizer) PlaneToSky(p PlanePoint) PlanePoint {
	return PlanePoint{
		X: r.sky.XMin + (p.X-r.plane.XMin)*r.sky.Width()/r.plane.Width(),
		Y: r.sky.YMin + (p.Y-r.plane.YMin)*r.sky.Height()/r.plane.Height(),
	}
}

// The inverse of PlaneToSky.
func (r *Rasterizer) SkyToPlane(p PlanePoint) PlanePoint {
	return PlanePoint{
		X: (p.X-r.sky.XMin)*r.plane.Width()/r.sky.Width() + r.plane.XMin,
		Y: (p.Y-r.sky.YMin)*r.plane.Height()/r.sky.Height() + r.plane.YMin,
	}
}

func (r *Rasterizer) Options() RasterizerOptions {
	return r.opts
}

func (r *Rasterizer) Projection() Projection {
	return r.proj
}

// The image size in cells.
func (r *Rasterizer) Size() (int, int) {
	return r.grid.Width, r.grid.Height
}

// The number of pixel addresses the rasterizer was built from.
func (r *Rasterizer) Len() int {
	return r.count
}

// The resolutions present, in processing order.
func (r *Rasterizer) Nsides() []int {
	return slices.Clone(r.nsides)
}

// The number of display cells that resolved to an address.
func (r *Rasterizer) Coverage() int {
	return r.coverage
}

// The plane-space box the display grid spans.
func (r *Rasterizer) PlaneBounds() Bounds {
	return r.plane
}

// The sky box spanned by resolved cells, oriented like the display: XMin is
// the largest longitude, found on the left.
func (r *Rasterizer) SkyBounds() Bounds {
	return r.sky
}
