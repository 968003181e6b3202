package skyraster

import (
	"math"
	"strings"

	"github.com/owlpinetech/flatsphere"
)

// The closed set of projections a map can be drawn in.
type ProjectionKind int

const (
	ProjectionCartesian ProjectionKind = iota
	ProjectionMollweide
	ProjectionEckertIV
	ProjectionHammer
)

// The central meridian, in degrees of projection longitude, used unless configured otherwise.
const DefaultCentralMeridian float64 = 180

const (
	mollweideIterations = 15
	eckertIVIterations  = 10
)

var projectionNames = map[ProjectionKind]string{
	ProjectionCartesian: "cartesian",
	ProjectionMollweide: "mollweide",
	ProjectionEckertIV:  "eckert-iv",
	ProjectionHammer:    "hammer",
}

func (k ProjectionKind) String() string {
	if name, ok := projectionNames[k]; ok {
		return name
	}
	return "unknown"
}

// Looks up a projection by its configuration name, ignoring case.
func ParseProjection(name string) (ProjectionKind, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for kind, n := range projectionNames {
		if n == lowered {
			return kind, nil
		}
	}
	return 0, NewUnknownProjectionError(name)
}

func (k ProjectionKind) MarshalText() ([]byte, error) {
	if _, ok := projectionNames[k]; !ok {
		return nil, NewUnknownProjectionError(k.String())
	}
	return []byte(k.String()), nil
}

func (k *ProjectionKind) UnmarshalText(text []byte) error {
	kind, err := ParseProjection(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Maps the sphere onto a plane and back. Angles are radians; lon is the
// projection longitude, measured so that the central meridian sits at x = 0.
// Inverse reports points outside the projection's valid region rather than
// failing on them.
type Projection interface {
	Kind() ProjectionKind
	Forward(lat float64, lon float64) (x float64, y float64)
	Inverse(x float64, y float64) (lat float64, lon float64, outOfBounds bool)
}

// Builds the projection of the given kind around the central meridian lam0, in degrees.
func NewProjection(kind ProjectionKind, lam0 float64) (Projection, error) {
	switch kind {
	case ProjectionCartesian:
		return NewCartesianProjection(lam0), nil
	case ProjectionMollweide:
		return NewMollweideProjection(lam0), nil
	case ProjectionEckertIV:
		return NewEckertIVProjection(lam0), nil
	case ProjectionHammer:
		return NewHammerProjection(lam0), nil
	default:
		return nil, NewUnknownProjectionError(kind.String())
	}
}

// Longitude outside [0, 2π], latitude outside [-π, π], or a coordinate that
// could not be inverted at all.
func outsideSphere(lat float64, lon float64) bool {
	return math.IsNaN(lat) || math.IsNaN(lon) || lon < 0 || lon > 2*math.Pi || lat < -math.Pi || lat > math.Pi
}

// Plain degree-scaled longitude and latitude.
type CartesianProjection struct {
	lam0 float64
	proj flatsphere.Equirectangular
}

func NewCartesianProjection(lam0 float64) CartesianProjection {
	return CartesianProjection{
		lam0: lam0 * degToRad,
		proj: flatsphere.NewEquirectangular(0),
	}
}

func (c CartesianProjection) Kind() ProjectionKind {
	return ProjectionCartesian
}

func (c CartesianProjection) Forward(lat float64, lon float64) (float64, float64) {
	x, y := c.proj.Project(lat, lon-c.lam0)
	return x * radToDeg, y * radToDeg
}

func (c CartesianProjection) Inverse(x float64, y float64) (float64, float64, bool) {
	// bounds are judged on the unwrapped coordinates
	out := outsideSphere(y*degToRad, c.lam0+x*degToRad)
	lat, lon := c.proj.Inverse(x*degToRad, y*degToRad)
	return lat, c.lam0 + lon, out
}

// The Mollweide projection: pseudocylindrical, equal-area, bounded by a 2:1 ellipse.
type MollweideProjection struct {
	lam0 float64
}

func NewMollweideProjection(lam0 float64) MollweideProjection {
	return MollweideProjection{lam0: lam0 * degToRad}
}

func (m MollweideProjection) Kind() ProjectionKind {
	return ProjectionMollweide
}

func (m MollweideProjection) Forward(lat float64, lon float64) (float64, float64) {
	theta := mollweideTheta(lat)
	x := 2 * math.Sqrt2 * (lon - m.lam0) * math.Cos(theta) / math.Pi
	y := math.Sqrt2 * math.Sin(theta)
	return x, y
}

func (m MollweideProjection) Inverse(x float64, y float64) (float64, float64, bool) {
	theta := math.Asin(y / math.Sqrt2)
	lat := math.Asin((2*theta + math.Sin(2*theta)) / math.Pi)
	lon := m.lam0 + math.Pi*x/(2*math.Sqrt2*math.Cos(theta))
	return lat, lon, outsideSphere(lat, lon)
}

// Solves 2θ + sin 2θ = π sin φ by Newton-Raphson. At the poles the derivative
// vanishes and the iterate blows up; the answer there is ±π/2.
func mollweideTheta(lat float64) float64 {
	sinLat := math.Sin(lat)
	theta := math.Asin(2 * lat / math.Pi)
	for i := 0; i < mollweideIterations; i++ {
		theta -= 0.5 * (2*theta + math.Sin(2*theta) - math.Pi*sinLat) / (1 + math.Cos(2*theta))
	}
	return poleFallback(theta, sinLat)
}

func poleFallback(theta float64, sinLat float64) float64 {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return math.Copysign(0.5*math.Pi, sinLat)
	}
	return theta
}

// The Eckert IV projection: pseudocylindrical, equal-area, with rounded
// flanks. Axes are scaled so the whole sphere spans 360 by 180.
type EckertIVProjection struct {
	lam0   float64
	xScale float64
	yScale float64
	a      float64
	b      float64
	c      float64
}

func NewEckertIVProjection(lam0 float64) EckertIVProjection {
	return EckertIVProjection{
		lam0:   lam0 * degToRad,
		xScale: 180 / 2.65300085635,
		yScale: 90 / 1.32649973731,
		a:      math.Sqrt(math.Pi * (4 + math.Pi)),
		b:      math.Sqrt(math.Pi / (4 + math.Pi)),
		c:      2 + math.Pi/2,
	}
}

func (e EckertIVProjection) Kind() ProjectionKind {
	return ProjectionEckertIV
}

func (e EckertIVProjection) Forward(lat float64, lon float64) (float64, float64) {
	theta := e.theta(lat)
	x := e.xScale * 2 / e.a * (lon - e.lam0) * (1 + math.Cos(theta))
	y := e.yScale * 2 * e.b * math.Sin(theta)
	return x, y
}

func (e EckertIVProjection) Inverse(x float64, y float64) (float64, float64, bool) {
	theta := math.Asin((y / e.yScale) / 2 / e.b)
	lat := math.Asin((theta + 0.5*math.Sin(2*theta) + 2*math.Sin(theta)) / e.c)
	lon := e.lam0 + e.a/2*(x/e.xScale)/(1+math.Cos(theta))
	return lat, lon, outsideSphere(lat, lon)
}

// Solves θ + ½ sin 2θ + 2 sin θ = c sin φ by Newton-Raphson.
func (e EckertIVProjection) theta(lat float64) float64 {
	sinLat := math.Sin(lat)
	theta := lat / 2
	for i := 0; i < eckertIVIterations; i++ {
		theta -= (theta + 0.5*math.Sin(2*theta) + 2*math.Sin(theta) - e.c*sinLat) / (2 * math.Cos(theta) * (1 + math.Cos(theta)))
	}
	return poleFallback(theta, sinLat)
}

// The Hammer projection: equal-area with curved parallels, bounded by the
// ellipse x²/4 + y² = 2.
type HammerProjection struct {
	lam0 float64
}

func NewHammerProjection(lam0 float64) HammerProjection {
	return HammerProjection{lam0: lam0 * degToRad}
}

func (h HammerProjection) Kind() ProjectionKind {
	return ProjectionHammer
}

func (h HammerProjection) Forward(lat float64, lon float64) (float64, float64) {
	half := (lon - h.lam0) / 2
	denom := math.Sqrt(1 + math.Cos(lat)*math.Cos(half))
	x := 2 * math.Sqrt2 * math.Cos(lat) * math.Sin(half) / denom
	y := math.Sqrt2 * math.Sin(lat) / denom
	return x, y
}

func (h HammerProjection) Inverse(x float64, y float64) (float64, float64, bool) {
	if 0.25*x*x+y*y > 2 {
		return math.NaN(), math.NaN(), true
	}
	z := math.Sqrt(1 - (x/4)*(x/4) - (y/2)*(y/2))
	// atan2 keeps the far side of the map, where 2z²-1 turns negative
	lon := h.lam0 + 2*math.Atan2(z*x, 2*(2*z*z-1))
	lat := math.Asin(z * y)
	return lat, lon, math.IsNaN(lat) || math.IsNaN(lon)
}
