package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVecInDelta(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-12, "X")
	assert.InDelta(t, want.Y, got.Y, 1e-12, "Y")
	assert.InDelta(t, want.Z, got.Z, 1e-12, "Z")
}

func TestAxisAngle_Basis(t *testing.T) {
	// A quarter turn about +X looks along +Y with +Z up.
	q := AxisAngle(r3.Vec{X: 1}, math.Pi/2)
	assert.InDelta(t, 1, quat.Abs(q), 1e-15)
	assertVecInDelta(t, r3.Vec{Y: 1}, Forward(q))
	assertVecInDelta(t, r3.Vec{Z: 1}, Up(q))
	assertVecInDelta(t, r3.Vec{X: 1}, Right(q))
}

func TestAxisAngle_Degenerate(t *testing.T) {
	assert.Equal(t, QuatIdentity, AxisAngle(r3.Vec{}, 1))
	assert.Equal(t, QuatIdentity, AxisAngle(r3.Vec{X: math.NaN()}, 1))
	assert.Equal(t, QuatIdentity, AxisAngle(r3.Vec{Z: 1}, math.Inf(1)))
	// The axis need not be unit length.
	assert.InDelta(t, 0, Angle(AxisAngle(r3.Vec{Z: 5}, 0.3), AxisAngle(r3.Vec{Z: 1}, 0.3)), 1e-7)
}

func TestNormalize(t *testing.T) {
	q, ok := Normalize(quat.Number{Real: 2})
	require.True(t, ok)
	assert.Equal(t, QuatIdentity, q)

	for _, bad := range []quat.Number{
		{},
		{Real: math.NaN()},
		{Imag: math.Inf(-1)},
	} {
		q, ok := Normalize(bad)
		assert.False(t, ok)
		assert.Equal(t, QuatIdentity, q)
	}
}

func TestUnitVec(t *testing.T) {
	v, ok := UnitVec(r3.Vec{Y: 3})
	require.True(t, ok)
	assertVecInDelta(t, r3.Vec{Y: 1}, v)

	_, ok = UnitVec(r3.Vec{})
	assert.False(t, ok)
	_, ok = UnitVec(r3.Vec{X: math.Inf(1)})
	assert.False(t, ok)
}

func TestSlerp(t *testing.T) {
	a := QuatIdentity
	b := AxisAngle(r3.Vec{Z: 1}, math.Pi/2)

	assert.InDelta(t, 0, Angle(a, Slerp(a, b, 0)), 1e-7)
	assert.InDelta(t, 0, Angle(b, Slerp(a, b, 1)), 1e-7)
	assert.InDelta(t, math.Pi/4, Angle(a, Slerp(a, b, 0.5)), 1e-9)

	// -b is the same rotation; Slerp must take the short way round.
	assert.InDelta(t, math.Pi/4, Angle(a, Slerp(a, quat.Scale(-1, b), 0.5)), 1e-9)

	// Nearly identical inputs use the normalized linear path and stay unit length.
	c := AxisAngle(r3.Vec{Z: 1}, 1e-6)
	assert.InDelta(t, 1, quat.Abs(Slerp(a, c, 0.5)), 1e-15)
}

func TestAngle(t *testing.T) {
	q := AxisAngle(r3.Vec{X: 1, Y: 1}, 0.8)
	assert.InDelta(t, 0.8, Angle(QuatIdentity, q), 1e-9)
	assert.InDelta(t, 0, Angle(q, quat.Scale(-1, q)), 1e-7)
}

func TestFromBasis_RoundTrip(t *testing.T) {
	for _, q := range []quat.Number{
		QuatIdentity,
		AxisAngle(r3.Vec{X: 1}, math.Pi/2),
		AxisAngle(r3.Vec{Y: 1}, math.Pi),
		AxisAngle(r3.Vec{Z: 1}, math.Pi),
		AxisAngle(r3.Vec{X: 1, Y: -2, Z: 0.5}, 2.5),
	} {
		got := FromBasis(Right(q), Up(q), r3.Scale(-1, Forward(q)))
		assert.InDelta(t, 0, Angle(q, got), 1e-6)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFiniteVec(r3.Vec{X: 1, Y: -1e300}))
	assert.False(t, IsFiniteVec(r3.Vec{Z: math.NaN()}))
	assert.True(t, IsFiniteQuat(QuatIdentity))
	assert.False(t, IsFiniteQuat(quat.Number{Kmag: math.Inf(1)}))
}
