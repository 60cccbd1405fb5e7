package pivot

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	orbitIntent = gesture.Intent{Kind: gesture.Orbit, Delta: r3.Vec{X: 1}}
	panIntent   = gesture.Intent{Kind: gesture.Pan, Delta: r3.Vec{X: 1}}
	eye         = r3.Vec{Y: -10}
	forward     = r3.Vec{Y: 1}
)

func TestAnchor_ResolveSeatsFromCursorHit(t *testing.T) {
	a := NewAnchor()
	hit := r3.Vec{X: 3, Y: 5, Z: 1}

	state, dist := a.Resolve(orbitIntent, gesture.EdgeRising, &hit, eye, forward, 10)
	assert.True(t, state.Locked)
	assert.Equal(t, r3.Vec{Y: 5}, state.Point, "pivot lies on the view axis at the hit depth")
	assert.Equal(t, 15.0, dist)

	// The eye does not move when the pivot is re-seated.
	got := r3.Sub(state.Point, r3.Scale(dist, forward))
	assert.Equal(t, eye, got)
}

func TestAnchor_ResolveIgnoresHitBehindEye(t *testing.T) {
	a := NewAnchor(WithPoint(r3.Vec{Z: 2}))
	hit := r3.Vec{Y: -20}

	state, dist := a.Resolve(orbitIntent, gesture.EdgeRising, &hit, eye, forward, 10)
	assert.True(t, state.Locked)
	assert.Equal(t, r3.Vec{Z: 2}, state.Point)
	assert.Equal(t, 10.0, dist)
}

func TestAnchor_ResolveClampsShallowHit(t *testing.T) {
	a := NewAnchor(WithMinDistance(0.5))
	hit := r3.Vec{Y: -9.9}

	state, dist := a.Resolve(orbitIntent, gesture.EdgeRising, &hit, eye, forward, 10)
	assert.InDelta(t, 0.5, dist, 1e-12)
	assert.InDelta(t, -9.5, state.Point.Y, 1e-12)
}

func TestAnchor_LockedPointNeverMoves(t *testing.T) {
	a := NewAnchor(WithPoint(r3.Vec{X: 1}))
	a.Resolve(orbitIntent, gesture.EdgeRising, nil, eye, forward, 10)
	start := a.State()
	require.True(t, start.Locked)

	hit := r3.Vec{Y: 100}
	for range 10 {
		state, dist := a.Resolve(orbitIntent, gesture.EdgeContinue, &hit, eye, forward, 10)
		assert.Equal(t, start, state)
		assert.Equal(t, 10.0, dist)
		moved, _ := a.Pan(r3.Vec{X: 3, Y: 3}, common.LocalRight, common.LocalUp, 0.1, 10)
		assert.False(t, moved)
	}
	// A second rising orbit while still locked (coasting re-grab) keeps the point.
	state, _ := a.Resolve(orbitIntent, gesture.EdgeRising, &hit, eye, forward, 10)
	assert.Equal(t, start, state)

	a.Release()
	assert.False(t, a.State().Locked)
	assert.Equal(t, start.Point, a.State().Point)
}

func TestAnchor_PanReleasesAndTranslates(t *testing.T) {
	a := NewAnchor()
	a.Resolve(orbitIntent, gesture.EdgeRising, nil, eye, forward, 10)

	state, _ := a.Resolve(panIntent, gesture.EdgeRising, nil, eye, forward, 10)
	assert.False(t, state.Locked)

	moved, clamped := a.Pan(r3.Vec{X: 2, Y: -1}, r3.Vec{X: 1}, r3.Vec{Z: 1}, 0.5, 4)
	assert.True(t, moved)
	assert.False(t, clamped)
	assert.Equal(t, r3.Vec{X: 4, Z: -2}, a.State().Point)
}

func TestAnchor_PanStopsAtExtent(t *testing.T) {
	a := NewAnchor(WithPoint(r3.Vec{X: 90}), WithExtent(100))

	moved, clamped := a.Pan(r3.Vec{X: 1}, r3.Vec{X: 1}, r3.Vec{Z: 1}, 1, 5)
	assert.True(t, moved)
	assert.False(t, clamped)
	assert.Equal(t, r3.Vec{X: 95}, a.State().Point)

	moved, clamped = a.Pan(r3.Vec{X: 1}, r3.Vec{X: 1}, r3.Vec{Z: 1}, 1, 50)
	assert.True(t, moved)
	assert.True(t, clamped)
	assert.InDelta(t, 100, r3.Norm(a.State().Point), 1e-9)

	// Panning back inward is never held at the boundary.
	moved, clamped = a.Pan(r3.Vec{X: -1}, r3.Vec{X: 1}, r3.Vec{Z: 1}, 1, 10)
	assert.True(t, moved)
	assert.False(t, clamped)
	assert.InDelta(t, 90, a.State().Point.X, 1e-9)
}

func TestAnchor_ExtentBoundsSeatAndSet(t *testing.T) {
	a := NewAnchor(WithExtent(50))
	far := r3.Vec{Y: 80}

	state, dist := a.Resolve(orbitIntent, gesture.EdgeRising, &far, eye, forward, 10)
	assert.True(t, state.Locked)
	assert.Equal(t, r3.Vec{}, state.Point, "a seat beyond the extent is ignored")
	assert.Equal(t, 10.0, dist)

	a.Set(r3.Vec{X: 300, Y: 400})
	assert.InDelta(t, 30, a.State().Point.X, 1e-9)
	assert.InDelta(t, 40, a.State().Point.Y, 1e-9)

	a.SetExtent(0)
	a.Set(r3.Vec{X: 300, Y: 400})
	assert.Equal(t, r3.Vec{X: 300, Y: 400}, a.State().Point)
}

func TestClampExtent(t *testing.T) {
	tests := []struct {
		name    string
		point   r3.Vec
		extent  float64
		want    r3.Vec
		clamped bool
	}{
		{"inside", r3.Vec{X: 3, Y: 4}, 10, r3.Vec{X: 3, Y: 4}, false},
		{"on the boundary", r3.Vec{X: 3, Y: 4}, 5, r3.Vec{X: 3, Y: 4}, false},
		{"outside", r3.Vec{X: 6, Y: 8}, 5, r3.Vec{X: 3, Y: 4}, true},
		{"unbounded", r3.Vec{X: 1e9}, 0, r3.Vec{X: 1e9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ClampExtent(tt.point, tt.extent)
			assert.Equal(t, tt.clamped, clamped)
			assert.InDelta(t, 0, r3.Norm(r3.Sub(tt.want, got)), 1e-12)
		})
	}
}

func TestAnchor_Set(t *testing.T) {
	a := NewAnchor()
	a.Resolve(orbitIntent, gesture.EdgeRising, nil, eye, forward, 10)
	a.Set(r3.Vec{X: 7})
	assert.Equal(t, State{Point: r3.Vec{X: 7}}, a.State())
}

func TestEyePosition(t *testing.T) {
	// Default orientation looks along +Y.
	q := common.AxisAngle(r3.Vec{X: 1}, math.Pi/2)
	got := EyePosition(r3.Vec{X: 1, Y: 2, Z: 3}, q, 5)
	assert.InDelta(t, 1, got.X, 1e-12)
	assert.InDelta(t, -3, got.Y, 1e-12)
	assert.InDelta(t, 3, got.Z, 1e-12)
}

func TestDolly(t *testing.T) {
	d, clamped := Dolly(10, math.Log(2), 1, 0.01, 100)
	assert.InDelta(t, 5, d, 1e-12)
	assert.False(t, clamped)

	d, clamped = Dolly(0.02, 50, 1, 0.01, 100)
	assert.Equal(t, 0.01, d)
	assert.True(t, clamped)

	d, clamped = Dolly(90, -50, 1, 0.01, 100)
	assert.Equal(t, 100.0, d)
	assert.True(t, clamped)

	d, clamped = Dolly(3, 0, 1, 0.01, 100)
	assert.Equal(t, 3.0, d)
	assert.False(t, clamped)
}

func TestIntersectPlane(t *testing.T) {
	up := r3.Vec{Z: 1}

	hit, ok := IntersectPlane(r3.Vec{X: 1, Z: 10}, r3.Vec{Y: 1, Z: -1}, r3.Vec{}, up)
	require.True(t, ok)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(r3.Vec{X: 1, Y: 10}, hit)), 1e-12)

	_, ok = IntersectPlane(r3.Vec{Z: 10}, r3.Vec{Z: 1}, r3.Vec{}, up)
	assert.False(t, ok, "plane behind the ray")

	_, ok = IntersectPlane(r3.Vec{Z: 10}, r3.Vec{X: 1}, r3.Vec{}, up)
	assert.False(t, ok, "ray parallel to the plane")
}
