package pivot

import "gonum.org/v1/gonum/spatial/r3"

// AnchorOption is a functional option for configuring an Anchor.
type AnchorOption func(*anchorImpl)

// WithPoint sets the initial anchor point.
//
// Parameters:
//   - point: world-space pivot
//
// Returns:
//   - AnchorOption: functional option to set the point
func WithPoint(point r3.Vec) AnchorOption {
	return func(a *anchorImpl) {
		a.state.Point = point
	}
}

// WithMinDistance sets the closest standoff used when re-seating from a cursor hit.
//
// Parameters:
//   - minDistance: the minimum distance, must be positive
//
// Returns:
//   - AnchorOption: functional option to set the minimum distance
func WithMinDistance(minDistance float64) AnchorOption {
	return func(a *anchorImpl) {
		if minDistance > 0 {
			a.minDistance = minDistance
		}
	}
}

// WithExtent bounds how far from the origin the anchor may be panned, seated or set.
//
// Parameters:
//   - extent: the largest allowed norm, zero or less for unbounded
//
// Returns:
//   - AnchorOption: functional option to set the extent
func WithExtent(extent float64) AnchorOption {
	return func(a *anchorImpl) {
		a.extent = extent
	}
}
