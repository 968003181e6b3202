package skyraster

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

type rotationMatrix [3][3]float64

func (m rotationMatrix) mul(o rotationMatrix) rotationMatrix {
	var r rotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

func (m rotationMatrix) apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func rotationX(a float64) rotationMatrix {
	s, c := math.Sincos(a)
	return rotationMatrix{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotationY(a float64) rotationMatrix {
	s, c := math.Sincos(a)
	return rotationMatrix{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotationZ(a float64) rotationMatrix {
	s, c := math.Sincos(a)
	return rotationMatrix{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// A 3-2-1 Euler rotation of the sphere. Angles are in degrees: Alpha about the
// z axis, Beta about the y axis and Gamma about the x axis.
type EulerRotation struct {
	matrix rotationMatrix
}

// Builds the rotation, or its inverse. The forward rotation applies Z, then Y,
// then X; the inverse negates every angle and applies them in reverse order, so
// the two compose to the identity.
func NewEulerRotation(alpha float64, beta float64, gamma float64, inverse bool) EulerRotation {
	alpha, beta, gamma = alpha*degToRad, beta*degToRad, gamma*degToRad
	if inverse {
		return EulerRotation{rotationZ(-alpha).mul(rotationY(-beta)).mul(rotationX(-gamma))}
	}
	return EulerRotation{rotationX(gamma).mul(rotationY(beta)).mul(rotationZ(alpha))}
}

// Rotates a sky position, returning a longitude in (-180, 180].
func (e EulerRotation) Apply(p SkyPosition) SkyPosition {
	v := s2.PointFromLatLng(s2.LatLngFromDegrees(p.B, p.L))
	ll := s2.LatLngFromPoint(s2.Point{Vector: e.matrix.apply(v.Vector)})
	return SkyPosition{L: ll.Lng.Degrees(), B: ll.Lat.Degrees()}
}

// Rotates a single sky position by the given Euler angles in degrees.
func Rotate(p SkyPosition, alpha float64, beta float64, gamma float64, inverse bool) SkyPosition {
	return NewEulerRotation(alpha, beta, gamma, inverse).Apply(p)
}

// The rotation that brings center to the middle of the map, and its inverse.
func recenterRotations(center SkyPosition) (EulerRotation, EulerRotation) {
	return NewEulerRotation(-center.L, center.B, 0, false), NewEulerRotation(-center.L, center.B, 0, true)
}
