package pivot

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the anchor point and whether it is pinned for the current gesture.
type State struct {
	Point  r3.Vec
	Locked bool
}

// Anchor maintains the world-space point the camera orbits around.
// While locked the point does not move; it is released when the gesture and its coasting end.
type Anchor interface {
	// Resolve updates the anchor for one tick. On the rising edge of an orbit with a free anchor,
	// the anchor is re-seated on the view axis at the depth of the cursor hit (when one is
	// supplied and lies in front of the eye) and locked. A pan rising edge releases the lock.
	//
	// Parameters:
	//   - intent: the classified gesture
	//   - edge: the gesture transition edge
	//   - cursorHit: world-space point under the cursor, or nil
	//   - eye: current eye position
	//   - forward: current unit view direction
	//   - distance: current pivot-to-eye distance
	//
	// Returns:
	//   - State: the anchor after the tick
	//   - float64: the distance to use from now on (changes only when re-seated)
	Resolve(intent gesture.Intent, edge gesture.Edge, cursorHit *r3.Vec, eye, forward r3.Vec, distance float64) (State, float64)

	// Release unlocks the anchor so the next orbit may re-seat it.
	Release()

	// Pan translates a free anchor by the pan velocity, reprojected onto the camera's right and up
	// axes and scaled by the view distance. A locked anchor is left unchanged.
	//
	// Parameters:
	//   - velocity: pan velocity, X along right and Y along up
	//   - right: camera right axis in world space
	//   - up: camera up axis in world space
	//   - dt: elapsed seconds
	//   - distance: current pivot-to-eye distance
	//
	// Returns:
	//   - bool: true if the anchor moved
	//   - bool: true if the move was stopped at the extent
	Pan(velocity, right, up r3.Vec, dt, distance float64) (bool, bool)

	// Set moves the anchor directly, pulled back inside the extent, and releases the lock.
	//
	// Parameters:
	//   - point: the new anchor point
	Set(point r3.Vec)

	// State returns a snapshot of the anchor.
	//
	// Returns:
	//   - State: the anchor point and lock flag
	State() State

	// SetMinDistance changes the standoff used when re-seating from a cursor hit.
	//
	// Parameters:
	//   - minDistance: the smallest allowed distance
	SetMinDistance(minDistance float64)

	// SetExtent changes the largest distance from the origin the anchor may reach. The current
	// point is not moved; callers re-Set it if needed.
	//
	// Parameters:
	//   - extent: the bound on the anchor's norm, zero or less for unbounded
	SetExtent(extent float64)
}

type anchorImpl struct {
	state       State
	minDistance float64
	extent      float64
}

var _ Anchor = &anchorImpl{}

// NewAnchor creates a free anchor at the origin, modified by options.
//
// Parameters:
//   - options: functional options to configure the anchor
//
// Returns:
//   - Anchor: the newly created anchor
func NewAnchor(options ...AnchorOption) Anchor {
	a := &anchorImpl{minDistance: 0.01}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *anchorImpl) Resolve(intent gesture.Intent, edge gesture.Edge, cursorHit *r3.Vec, eye, forward r3.Vec, distance float64) (State, float64) {
	if edge != gesture.EdgeRising {
		return a.state, distance
	}
	switch intent.Kind {
	case gesture.Orbit:
		if a.state.Locked {
			break
		}
		if cursorHit != nil && common.IsFiniteVec(*cursorHit) {
			if depth := r3.Dot(r3.Sub(*cursorHit, eye), forward); depth > 0 {
				depth = math.Max(depth, a.minDistance)
				seat := r3.Add(eye, r3.Scale(depth, forward))
				if _, out := ClampExtent(seat, a.extent); !out {
					a.state.Point = seat
					distance = depth
				}
			}
		}
		a.state.Locked = true
	case gesture.Pan:
		a.state.Locked = false
	}
	return a.state, distance
}

func (a *anchorImpl) Release() {
	a.state.Locked = false
}

func (a *anchorImpl) Pan(velocity, right, up r3.Vec, dt, distance float64) (bool, bool) {
	if a.state.Locked || (velocity.X == 0 && velocity.Y == 0) {
		return false, false
	}
	offset := r3.Add(r3.Scale(velocity.X, right), r3.Scale(velocity.Y, up))
	point, clamped := ClampExtent(r3.Add(a.state.Point, r3.Scale(dt*distance, offset)), a.extent)
	a.state.Point = point
	return true, clamped
}

func (a *anchorImpl) Set(point r3.Vec) {
	point, _ = ClampExtent(point, a.extent)
	a.state = State{Point: point}
}

func (a *anchorImpl) State() State {
	return a.state
}

func (a *anchorImpl) SetMinDistance(minDistance float64) {
	a.minDistance = minDistance
}

func (a *anchorImpl) SetExtent(extent float64) {
	a.extent = extent
}

// ClampExtent pulls a point back onto the sphere of radius extent around the origin when it lies
// outside it.
//
// Parameters:
//   - point: the candidate point
//   - extent: the largest allowed norm, zero or less for unbounded
//
// Returns:
//   - r3.Vec: the point, scaled back if needed
//   - bool: true if the point was pulled back
func ClampExtent(point r3.Vec, extent float64) (r3.Vec, bool) {
	if extent <= 0 {
		return point, false
	}
	n := r3.Norm(point)
	if !(n > extent) {
		return point, false
	}
	if math.IsInf(n, 0) {
		return r3.Vec{}, true
	}
	return r3.Scale(extent/n, point), true
}

// IntersectPlane returns where a ray meets a plane. Rays parallel to the plane and hits behind
// the origin are misses.
//
// Parameters:
//   - origin: ray start
//   - dir: ray direction
//   - point: any point on the plane
//   - normal: the plane normal
//
// Returns:
//   - r3.Vec: the hit point
//   - bool: true on a hit in front of the origin
func IntersectPlane(origin, dir, point, normal r3.Vec) (r3.Vec, bool) {
	denom := r3.Dot(dir, normal)
	if math.Abs(denom) < 1e-9 {
		return r3.Vec{}, false
	}
	t := r3.Dot(r3.Sub(point, origin), normal) / denom
	if !(t > 0) || math.IsInf(t, 0) {
		return r3.Vec{}, false
	}
	return r3.Add(origin, r3.Scale(t, dir)), true
}

// EyePosition derives the camera position from the anchor: pivot - forward·distance.
//
// Parameters:
//   - pivot: the anchor point
//   - orientation: the camera orientation
//   - distance: pivot-to-eye distance
//
// Returns:
//   - r3.Vec: the eye position in world space
func EyePosition(pivot r3.Vec, orientation quat.Number, distance float64) r3.Vec {
	return r3.Sub(pivot, r3.Scale(distance, common.Forward(orientation)))
}

// Dolly changes the view distance by the zoom velocity on a logarithmic scale and clamps it.
//
// Parameters:
//   - distance: current distance
//   - zoom: zoom velocity in 1/s, positive moves closer
//   - dt: elapsed seconds
//   - minDistance: the closest allowed standoff
//   - maxDistance: the farthest allowed distance
//
// Returns:
//   - float64: the new distance within [minDistance, maxDistance]
//   - bool: true when the result was clamped
func Dolly(distance, zoom, dt, minDistance, maxDistance float64) (float64, bool) {
	next := distance * math.Exp(-zoom*dt)
	clamped := common.Clamp(next, minDistance, maxDistance)
	return clamped, clamped != next
}
