package camera

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/pivot"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// focusArrival is the relative tolerance at which a focus flight snaps onto its target.
const focusArrival = 1e-5

// focusPadding is added to the framed radius before scaling it into a view distance.
const focusPadding = 0.5

type focusTarget struct {
	pivot       r3.Vec
	distance    float64
	orientation quat.Number
}

func (f *focusTarget) reached(s State) bool {
	return r3.Norm(r3.Sub(s.Pivot, f.pivot)) <= focusArrival*math.Max(1, f.distance) &&
		math.Abs(math.Log(s.Distance/f.distance)) <= focusArrival &&
		common.Angle(s.Orientation, f.orientation) <= focusArrival
}

func (cc *cameraControllerImpl) FocusOn(center r3.Vec, radius float64) bool {
	return cc.focusOn(center, radius, cc.state.Orientation)
}

func (cc *cameraControllerImpl) FocusOnWithOrientation(center r3.Vec, radius float64, orientation quat.Number) bool {
	q, rep := cc.guard.Quat(orientation, cc.state.Orientation)
	if rep.Corrupt() {
		cc.logger.Debug("focus rejected: orientation not usable", zap.Stringer("reason", rep.Reason))
		return false
	}
	return cc.focusOn(center, radius, q)
}

func (cc *cameraControllerImpl) focusOn(center r3.Vec, radius float64, orientation quat.Number) bool {
	if !cc.cfg.AutoPilot {
		return false
	}
	center, rc := cc.guard.Vec(center, r3.Vec{})
	radius, rr := cc.guard.Scalar(radius, 0)
	if rep := rc.Merge(rr); rep.Corrupt() {
		cc.logger.Debug("focus rejected: target not usable", zap.Stringer("reason", rep.Reason))
		return false
	}

	if cc.cfg.HorizonEnabled {
		orientation = cc.horizon.Leveled(orientation)
	}
	distance := (math.Max(radius, 0) + focusPadding) * cc.cfg.FocusDistanceScale
	center, _ = pivot.ClampExtent(center, cc.cfg.pivotExtent())
	target := &focusTarget{
		pivot:       center,
		distance:    common.Clamp(distance, cc.cfg.MinDistance, cc.cfg.MaxDistance),
		orientation: orientation,
	}

	cc.halt()
	cc.focus = target
	cc.setMode(ModeFocusing)
	cc.logger.Debug("focus flight started",
		zap.Float64("distance", target.distance),
		zap.Float64("radius", radius),
	)
	return true
}

// fly moves next a frame-rate independent fraction of the way toward the focus target and
// snaps onto it on arrival.
func (cc *cameraControllerImpl) fly(next *State, dt float64) Signal {
	f := cc.focus
	step := 1 - math.Pow(1-cc.cfg.FocusSpeed, dt/cc.cfg.NominalDt)

	next.Pivot = r3.Add(next.Pivot, r3.Scale(step, r3.Sub(f.pivot, next.Pivot)))
	logDistance := math.Log(next.Distance)
	next.Distance = math.Exp(logDistance + step*(math.Log(f.distance)-logDistance))
	next.Orientation = common.Slerp(next.Orientation, f.orientation, step)
	signals := cc.level(next, dt)

	if f.reached(*next) {
		next.Pivot = f.pivot
		next.Distance = f.distance
		next.Orientation = f.orientation
		cc.focus = nil
		cc.setMode(ModeIdle)
		cc.logger.Debug("focus flight arrived")
	}
	cc.anchor.Set(next.Pivot)
	return signals
}
