package guard

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/common"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// unitTolerance is how far a quaternion norm may stray from 1 before it is re-normalized.
// Values inside the band are returned untouched, which keeps sanitize idempotent bit for bit.
const unitTolerance = 1e-12

// Guard sanitizes scalars, vectors and quaternions crossing the boundary of the camera core.
// Every method returns a value that is finite and within the ceiling, and a Report that
// flags whether a fallback was substituted. Sanitizing an already sanitized value is a no-op.
type Guard interface {
	// Scalar sanitizes a single float.
	//
	// Parameters:
	//   - v: the value to check
	//   - fallback: value substituted when v is corrupt (itself sanitized, zero if unusable)
	//
	// Returns:
	//   - float64: v or the fallback
	//   - Report: the corruption flag
	Scalar(v, fallback float64) (float64, Report)

	// Vec sanitizes a 3D vector. A vector is corrupt when any component is NaN or Inf or its
	// length exceeds the ceiling.
	//
	// Parameters:
	//   - v: the vector to check
	//   - fallback: vector substituted when v is corrupt (itself sanitized, zero if unusable)
	//
	// Returns:
	//   - r3.Vec: v or the fallback
	//   - Report: the corruption flag
	Vec(v, fallback r3.Vec) (r3.Vec, Report)

	// Quat sanitizes an orientation. Finite quaternions are re-normalized; quaternions that cannot
	// be normalized become the identity, and non-finite ones become the (normalized) fallback.
	//
	// Parameters:
	//   - q: the quaternion to check
	//   - fallback: orientation substituted when q is non-finite
	//
	// Returns:
	//   - quat.Number: a unit quaternion
	//   - Report: the corruption flag
	Quat(q, fallback quat.Number) (quat.Number, Report)

	// Policy returns the guard's thresholds and recovery action.
	//
	// Returns:
	//   - Policy: the active policy
	Policy() Policy
}

type guardImpl struct {
	policy Policy
}

var _ Guard = &guardImpl{}

// NewGuard creates a Guard with the default policy, modified by options.
//
// Parameters:
//   - options: functional options to configure the guard
//
// Returns:
//   - Guard: the newly created guard
func NewGuard(options ...GuardOption) Guard {
	g := &guardImpl{policy: DefaultPolicy()}
	for _, option := range options {
		option(g)
	}
	if !(g.policy.Ceiling > 0) || math.IsInf(g.policy.Ceiling, 0) {
		g.policy.Ceiling = DefaultPolicy().Ceiling
	}
	return g
}

func (g *guardImpl) Policy() Policy {
	return g.policy
}

func (g *guardImpl) Scalar(v, fallback float64) (float64, Report) {
	if reason := g.scalarReason(v); reason != ReasonNone {
		if g.scalarReason(fallback) != ReasonNone {
			fallback = 0
		}
		return fallback, Report{Reason: reason}
	}
	return v, Report{}
}

func (g *guardImpl) Vec(v, fallback r3.Vec) (r3.Vec, Report) {
	if reason := g.vecReason(v); reason != ReasonNone {
		if g.vecReason(fallback) != ReasonNone {
			fallback = r3.Vec{}
		}
		return fallback, Report{Reason: reason}
	}
	return v, Report{}
}

func (g *guardImpl) Quat(q, fallback quat.Number) (quat.Number, Report) {
	if quat.IsNaN(q) {
		return cleanOrientation(fallback), Report{Reason: ReasonNaN}
	}
	if quat.IsInf(q) {
		return cleanOrientation(fallback), Report{Reason: ReasonInf}
	}
	n := quat.Abs(q)
	if math.Abs(n-1) <= unitTolerance {
		return q, Report{}
	}
	unit, ok := common.Normalize(q)
	if !ok {
		return common.QuatIdentity, Report{Reason: ReasonDegenerate}
	}
	return unit, Report{}
}

func (g *guardImpl) scalarReason(v float64) Reason {
	switch {
	case math.IsNaN(v):
		return ReasonNaN
	case math.IsInf(v, 0):
		return ReasonInf
	case math.Abs(v) > g.policy.Ceiling:
		return ReasonCeiling
	}
	return ReasonNone
}

func (g *guardImpl) vecReason(v r3.Vec) Reason {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
		return ReasonNaN
	}
	if math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
		return ReasonInf
	}
	if r3.Norm(v) > g.policy.Ceiling {
		return ReasonCeiling
	}
	return ReasonNone
}

// cleanOrientation returns fallback as a unit quaternion within the unit tolerance, or the identity.
func cleanOrientation(fallback quat.Number) quat.Number {
	if !common.IsFiniteQuat(fallback) {
		return common.QuatIdentity
	}
	if math.Abs(quat.Abs(fallback)-1) <= unitTolerance {
		return fallback
	}
	unit, _ := common.Normalize(fallback)
	return unit
}
