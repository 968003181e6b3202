package skyraster

import (
	"math"
	"math/bits"

	"github.com/owlpinetech/healpix"
)

// One cell of a nested HEALPix pixelization at resolution Nside.
type PixelAddress struct {
	Nside int `json:"nside"`
	Index int `json:"index"`
}

// Simple indexing into a rectangular grid of display cells. Supports either
// row-major or column-major storage; (0, 0) is the cell at the minimum x and
// minimum y of the plane.
type GridIndexer struct {
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	RowMajor bool `json:"rowmajor"`
}

func NewGridIndexer(width int, height int, rowMajor bool) GridIndexer {
	return GridIndexer{
		Width:    width,
		Height:   height,
		RowMajor: rowMajor,
	}
}

func (g GridIndexer) Size() int {
	return g.Width * g.Height
}

// Reports whether the cell lies on the grid.
func (g GridIndexer) Contains(x int, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g GridIndexer) ToIndex(x int, y int) int {
	if g.RowMajor {
		return y*g.Width + x
	}
	return x*g.Height + y
}

func (g GridIndexer) FromIndex(index int) (int, int) {
	if g.RowMajor {
		return index % g.Width, index / g.Width
	}
	return index / g.Height, index % g.Height
}

// Indexing into one resolution of a nested HEALPix pixelization. Positions are
// sky coordinates in degrees.
type HealpixIndexer struct {
	Nside int `json:"nside"`
	order healpix.HealpixOrder
}

// Creates an indexer for the given nside, which the nested scheme requires to
// be a power of two no deeper than the library's maximum order.
func NewHealpixIndexer(nside int) (HealpixIndexer, error) {
	if nside < 1 || !healpix.IsValidNSide(nside) {
		return HealpixIndexer{}, NewInvalidNsideError(nside)
	}
	order := bits.TrailingZeros(uint(nside))
	if order > int(healpix.MaxOrder()) {
		return HealpixIndexer{}, NewInvalidNsideError(nside)
	}
	return HealpixIndexer{
		Nside: nside,
		order: healpix.HealpixOrder(order),
	}, nil
}

func (h HealpixIndexer) Order() healpix.HealpixOrder {
	return h.order
}

// The total number of pixels at this resolution, 12·nside².
func (h HealpixIndexer) Pixels() int {
	return h.order.Pixels()
}

// The characteristic angular size of a pixel, in degrees.
func (h HealpixIndexer) Resolution() float64 {
	return h.order.AngularResolution() * radToDeg
}

// The nested index of the pixel containing the position.
func (h HealpixIndexer) AngleToPixel(p SkyPosition) int {
	lon := math.Mod(p.L, 360)
	if lon < 0 {
		lon += 360
	}
	lat := clamp(p.B, -90, 90)
	return healpix.NewLatLonCoordinate(lat*degToRad, lon*degToRad).PixelId(h.order, healpix.NestScheme)
}

var (
	faceRow    = [12]int{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	faceColumn = [12]int{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
)

// The centre of a nested pixel, longitude folded into (-180, 180].
func (h HealpixIndexer) PixelToAngle(index int) SkyPosition {
	nside := h.Nside
	npix := 12 * nside * nside
	facePixels := nside * nside
	face := index / facePixels
	inFace := index % facePixels
	ix := compactBits(uint64(inFace))
	iy := compactBits(uint64(inFace) >> 1)

	fact2 := 4 / float64(npix)
	fact1 := float64(2*nside) * fact2

	ringRow := faceRow[face]*nside - ix - iy - 1
	var ringPixels, shift int
	var z float64
	switch {
	case ringRow < nside:
		// north polar cap
		ringPixels = ringRow
		z = 1 - float64(ringPixels*ringPixels)*fact2
	case ringRow > 3*nside:
		// south polar cap
		ringPixels = 4*nside - ringRow
		z = float64(ringPixels*ringPixels)*fact2 - 1
	default:
		ringPixels = nside
		z = float64(2*nside-ringRow) * fact1
		shift = (ringRow - nside) & 1
	}

	column := (faceColumn[face]*ringPixels + ix - iy + 1 + shift) / 2
	if column > 4*nside {
		column -= 4 * nside
	}
	if column < 1 {
		column += 4 * nside
	}
	phi := (float64(column) - 0.5*float64(shift+1)) * (0.5 * math.Pi / float64(ringPixels))
	return SkyPosition{
		L: WrapLongitude(phi * radToDeg),
		B: math.Asin(clamp(z, -1, 1)) * radToDeg,
	}
}

// Gathers the even bits of v into the low half of the result.
func compactBits(v uint64) int {
	v &= 0x5555555555555555
	v = (v | v>>1) & 0x3333333333333333
	v = (v | v>>2) & 0x0f0f0f0f0f0f0f0f
	v = (v | v>>4) & 0x00ff00ff00ff00ff
	v = (v | v>>8) & 0x0000ffff0000ffff
	v = (v | v>>16) & 0x00000000ffffffff
	return int(v)
}
