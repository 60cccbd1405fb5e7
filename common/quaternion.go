package common

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Camera-local basis. The camera looks down its local -Z axis with +Y up and +X right.
var (
	LocalRight   = r3.Vec{X: 1}
	LocalUp      = r3.Vec{Y: 1}
	LocalForward = r3.Vec{Z: -1}
)

// QuatIdentity is the identity rotation.
var QuatIdentity = quat.Number{Real: 1}

// normEpsilon is the length below which a vector or quaternion has no usable direction.
const normEpsilon = 1e-12

// AxisAngle returns the unit quaternion rotating by angle radians about axis.
// A zero-length or non-finite axis yields the identity.
//
// Parameters:
//   - axis: rotation axis (need not be unit length)
//   - angle: rotation angle in radians, right-hand rule
//
// Returns:
//   - quat.Number: the rotation
func AxisAngle(axis r3.Vec, angle float64) quat.Number {
	n := r3.Norm(axis)
	if n < normEpsilon || !IsFiniteVec(axis) || math.IsNaN(angle) || math.IsInf(angle, 0) {
		return QuatIdentity
	}
	return quat.Number(r3.NewRotation(angle, r3.Scale(1/n, axis)))
}

// Rotate applies the unit quaternion q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Forward returns the world-space view direction of orientation q.
func Forward(q quat.Number) r3.Vec { return Rotate(q, LocalForward) }

// Right returns the world-space right axis of orientation q.
func Right(q quat.Number) r3.Vec { return Rotate(q, LocalRight) }

// Up returns the world-space up axis of orientation q.
func Up(q quat.Number) r3.Vec { return Rotate(q, LocalUp) }

// Normalize scales q to unit length.
//
// Returns:
//   - quat.Number: the unit quaternion, or the identity when q cannot be normalized
//   - bool: false when q was non-finite or too short to normalize
func Normalize(q quat.Number) (quat.Number, bool) {
	if !IsFiniteQuat(q) {
		return QuatIdentity, false
	}
	n := quat.Abs(q)
	if n < normEpsilon || math.IsInf(n, 0) {
		return QuatIdentity, false
	}
	return quat.Scale(1/n, q), true
}

// UnitVec scales v to unit length, returning ok=false for zero-length or non-finite input.
func UnitVec(v r3.Vec) (r3.Vec, bool) {
	n := r3.Norm(v)
	if n < normEpsilon || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, v), true
}

// Dot4 returns the four-component dot product of two quaternions.
func Dot4(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Slerp interpolates between unit quaternions a and b along the shorter arc.
//
// Parameters:
//   - a: start orientation
//   - b: end orientation
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - quat.Number: the interpolated unit quaternion
func Slerp(a, b quat.Number, t float64) quat.Number {
	d := Dot4(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}
	if d > 0.9995 {
		q, _ := Normalize(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
		return q
	}
	theta := math.Acos(d)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	q, _ := Normalize(quat.Add(quat.Scale(wa, a), quat.Scale(wb, b)))
	return q
}

// Angle returns the rotation angle in radians between two unit orientations.
func Angle(a, b quat.Number) float64 {
	d := math.Abs(Dot4(a, b))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// FromBasis builds the rotation whose columns are the given orthonormal camera axes.
//
// Parameters:
//   - right: world-space image of local +X
//   - up: world-space image of local +Y
//   - back: world-space image of local +Z (opposite the view direction)
//
// Returns:
//   - quat.Number: the unit quaternion for the basis
func FromBasis(right, up, back r3.Vec) quat.Number {
	m00, m01, m02 := right.X, up.X, back.X
	m10, m11, m12 := right.Y, up.Y, back.Y
	m20, m21, m22 := right.Z, up.Z, back.Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = quat.Number{Real: 0.25 * s, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	q, _ = Normalize(q)
	return q
}

// IsFiniteVec reports whether every component of v is finite.
func IsFiniteVec(v r3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// IsFiniteQuat reports whether every component of q is finite.
func IsFiniteQuat(q quat.Number) bool {
	return !quat.IsNaN(q) && !quat.IsInf(q)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
