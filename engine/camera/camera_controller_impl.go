package camera

import (
	"fmt"
	"math"
	"time"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/guard"
	"github.com/Carmen-Shannon/kineticam/engine/horizon"
	"github.com/Carmen-Shannon/kineticam/engine/pivot"
	"github.com/Carmen-Shannon/kineticam/engine/velocity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// cameraControllerImpl is the single implementation of CameraController.
// It owns the camera pose and every stage of the tick pipeline; none of it is shared.
type cameraControllerImpl struct {
	id     string
	logger *zap.Logger
	// warn throttles corruption log lines. Signals and Stats are never throttled.
	warn rate.Sometimes

	cfg Config

	guard      guard.Guard
	classifier gesture.Classifier
	velocity   velocity.Model
	anchor     pivot.Anchor
	horizon    horizon.Constraint

	// state is the last known-good pose.
	state State
	mode  Mode
	// kind is the gesture being performed while mode is ModeGesturing.
	kind gesture.Kind
	last Transform

	focus    *focusTarget
	smoother *deltaSmoother

	// clock is the accumulated tick time driving the sway overlay.
	clock          float64
	swaySuppressed bool

	pending Signal
	stats   Stats

	// Construction-time seeds applied once the configuration is final.
	seedVelocity *velocity.State
	seedYawPitch *[2]float64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller at rest at DefaultState with DefaultConfig,
// modified by options. An invalid configuration is logged and replaced by the defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		id:     uuid.NewString(),
		logger: zap.NewNop(),
		warn:   rate.Sometimes{First: 3, Interval: time.Second},
		cfg:    DefaultConfig(),
		state:  DefaultState(),
	}

	for _, option := range options {
		option(cc)
	}

	cc.logger = cc.logger.Named("camera").With(zap.String("controller_id", cc.id))
	if err := cc.cfg.Validate(); err != nil {
		cc.logger.Warn("invalid controller configuration, using defaults", zap.Error(err))
		cc.cfg = DefaultConfig()
	}

	cc.guard = guard.NewGuard(guard.WithPolicy(cc.cfg.guardPolicy()))
	cc.classifier = gesture.NewClassifier(gesture.WithBindings(cc.cfg.Bindings), gesture.WithPriority(cc.cfg.Priority))
	cc.anchor = pivot.NewAnchor(pivot.WithMinDistance(cc.cfg.MinDistance), pivot.WithExtent(cc.cfg.pivotExtent()))
	cc.horizon = horizon.NewConstraint(horizon.WithConfig(cc.cfg.horizonConfig()))
	cc.smoother = newDeltaSmoother(cc.cfg.DeltaSmoothingWindow)

	if cc.seedYawPitch != nil {
		cc.state.Orientation = cc.horizon.Compose(cc.seedYawPitch[0], cc.seedYawPitch[1])
	}
	fallback := DefaultState()
	fallback.Distance = common.Clamp(fallback.Distance, cc.cfg.MinDistance, cc.cfg.MaxDistance)
	cc.state, _ = cc.sanitizeState(cc.state, fallback)
	cc.anchor.Set(cc.state.Pivot)

	velocityOptions := []velocity.ModelOption{velocity.WithConfig(cc.cfg.velocityConfig())}
	if cc.seedVelocity != nil {
		seed := *cc.seedVelocity
		seed.Angular, _ = cc.guard.Vec(seed.Angular, r3.Vec{})
		seed.Pan, _ = cc.guard.Vec(seed.Pan, r3.Vec{})
		seed.Zoom, _ = cc.guard.Scalar(seed.Zoom, 0)
		velocityOptions = append(velocityOptions, velocity.WithState(seed))
	}
	cc.velocity = velocity.NewModel(velocityOptions...)
	if !cc.velocity.State().AtRest() {
		cc.mode = ModeCoasting
	}

	cc.emit(0, 0)
	cc.logger.Debug("controller created", zap.Stringer("mode", cc.mode))
	return cc
}

func (cc *cameraControllerImpl) ID() string {
	return cc.id
}

func (cc *cameraControllerImpl) Tick(dt float64, input gesture.RawInput) Transform {
	cc.stats.Ticks++
	signals := cc.pending
	cc.pending = 0
	corruptions := 0

	dt, dtSignal, dtReport := cc.sanitizeDt(dt)
	signals |= dtSignal
	input, inputReport := cc.sanitizeInput(input)
	if rep := dtReport.Merge(inputReport); rep.Corrupt() {
		corruptions++
		signals |= SignalCorruption
		cc.stats.Corruptions++
		cc.warnCorruption("input", rep)
		if input.Stop {
			cc.halt()
		}
		switch cc.cfg.GuardAction {
		case guard.ActionRevert:
			cc.stats.Reverts++
			return cc.repeat(signals, corruptions)
		case guard.ActionZeroVelocity:
			cc.halt()
			return cc.repeat(signals, corruptions)
		}
	}

	var intent gesture.Intent
	var edge gesture.Edge
	if input.Stop {
		cc.halt()
	} else {
		intent, edge = cc.classifier.Classify(input)
	}

	// A different gesture may not start until the current one has seen a zero-intent tick.
	if cc.mode == ModeGesturing && intent.Active() && intent.Kind != cc.kind {
		cc.logger.Debug("gesture switch suppressed", zap.Stringer("from", cc.kind), zap.Stringer("to", intent.Kind))
		cc.classifier.Interrupt()
		intent = gesture.Intent{Flags: intent.Flags}
		edge = gesture.EdgeFalling
	}

	next := cc.state
	if cc.mode == ModeFocusing && !(intent.Active() && cc.cfg.BreakOnManual) {
		if intent.Active() {
			cc.classifier.Interrupt()
		}
		signals |= cc.fly(&next, dt)
	} else {
		if cc.mode == ModeFocusing {
			cc.logger.Debug("focus flight interrupted by input", zap.Stringer("gesture", intent.Kind))
			cc.focus = nil
		}
		signals |= cc.drive(&next, intent, edge, input.CursorHit, dt)
	}

	if rep := cc.sanitizeOutput(&next); rep.Corrupt() {
		corruptions++
		signals |= SignalCorruption
		cc.stats.Corruptions++
		cc.stats.Reverts++
		cc.warnCorruption("output", rep)
		cc.halt()
		next = cc.state
		cc.anchor.Set(next.Pivot)
	}

	cc.state = next
	cc.clock += dt
	return cc.emit(signals, corruptions)
}

// drive runs the gesture pipeline: smoothing, pivot resolution, velocity, motion and leveling.
func (cc *cameraControllerImpl) drive(next *State, intent gesture.Intent, edge gesture.Edge, cursorHit *r3.Vec, dt float64) Signal {
	if edge != gesture.EdgeContinue {
		cc.smoother.reset()
	}
	if intent.Active() {
		intent.Delta = cc.smoother.push(intent.Delta)
	}

	if intent.Kind == gesture.Orbit && edge == gesture.EdgeRising {
		cc.velocity.ZeroPan()
	}
	eye := pivot.EyePosition(next.Pivot, next.Orientation, next.Distance)
	anchor, distance := cc.anchor.Resolve(intent, edge, cursorHit, eye, common.Forward(next.Orientation), next.Distance)
	next.Pivot = anchor.Point
	next.Distance = common.Clamp(distance, cc.cfg.MinDistance, cc.cfg.MaxDistance)

	v := cc.velocity.Integrate(intent, dt)
	next.Orientation = cc.rotate(next.Orientation, v.Angular, dt)
	if moved, clamped := cc.anchor.Pan(v.Pan, common.Right(next.Orientation), common.Up(next.Orientation), dt, next.Distance); moved {
		next.Pivot = cc.anchor.State().Point
		if clamped {
			cc.velocity.ZeroPan()
		}
	}
	if v.Zoom != 0 {
		d, clamped := pivot.Dolly(next.Distance, v.Zoom, dt, cc.cfg.MinDistance, cc.cfg.MaxDistance)
		next.Distance = d
		if clamped {
			cc.velocity.ZeroZoom()
		}
	}

	var signals Signal
	if !intent.Flags.Has(gesture.HorizonOff) {
		signals |= cc.level(next, dt)
	}

	switch {
	case intent.Active():
		cc.kind = intent.Kind
		cc.swaySuppressed = true
		cc.setMode(ModeGesturing)
	case cc.velocity.State().AtRest():
		cc.anchor.Release()
		cc.kind = gesture.Idle
		cc.setMode(ModeIdle)
	default:
		cc.swaySuppressed = false
		cc.setMode(ModeCoasting)
	}
	return signals
}

// rotate yaws about the world up-axis and pitches and rolls about the camera's own axes.
func (cc *cameraControllerImpl) rotate(q quat.Number, angular r3.Vec, dt float64) quat.Number {
	if angular == (r3.Vec{}) {
		return q
	}
	yaw := common.AxisAngle(cc.cfg.UpAxis, angular.X*dt)
	local := quat.Mul(common.AxisAngle(common.LocalRight, angular.Y*dt), common.AxisAngle(common.LocalForward, angular.Z*dt))
	rotated := quat.Mul(quat.Mul(yaw, q), local)
	if unit, ok := common.Normalize(rotated); ok {
		return unit
	}
	return rotated
}

func (cc *cameraControllerImpl) level(next *State, dt float64) Signal {
	q, rep := cc.horizon.Level(next.Orientation, dt)
	next.Orientation = q
	if rep.Degenerate {
		cc.stats.Degenerate++
		return SignalDegenerate
	}
	return 0
}

// sanitizeDt replaces non-finite dt (corruption) and out-of-range dt (stall) with NominalDt.
func (cc *cameraControllerImpl) sanitizeDt(dt float64) (float64, Signal, guard.Report) {
	if math.IsNaN(dt) {
		return cc.cfg.NominalDt, 0, guard.Report{Reason: guard.ReasonNaN}
	}
	if math.IsInf(dt, 0) {
		return cc.cfg.NominalDt, 0, guard.Report{Reason: guard.ReasonInf}
	}
	if dt <= 0 || dt > cc.cfg.StallDtThreshold {
		cc.stats.Stalls++
		cc.logger.Debug("dt out of range, using nominal", zap.Float64("dt", dt), zap.Float64("nominal", cc.cfg.NominalDt))
		return cc.cfg.NominalDt, SignalStall, guard.Report{}
	}
	return dt, 0, guard.Report{}
}

// sanitizeInput cleans every numeric field of the raw input. Corrupt fields are zeroed (or, for
// the cursor hit, dropped); the merged report flags at most one corruption for the chokepoint.
func (cc *cameraControllerImpl) sanitizeInput(in gesture.RawInput) (gesture.RawInput, guard.Report) {
	var rep, r guard.Report
	in.Delta.Z = 0
	in.Delta, r = cc.guard.Vec(in.Delta, r3.Vec{})
	rep = rep.Merge(r)
	in.Scroll, r = cc.guard.Scalar(in.Scroll, 0)
	rep = rep.Merge(r)
	if in.CursorHit != nil {
		hit, r := cc.guard.Vec(*in.CursorHit, r3.Vec{})
		rep = rep.Merge(r)
		if r.Corrupt() {
			in.CursorHit = nil
		} else {
			in.CursorHit = &hit
		}
	}
	return in, rep
}

// sanitizeOutput cleans the candidate pose against the last known-good one.
func (cc *cameraControllerImpl) sanitizeOutput(next *State) guard.Report {
	q, rq := cc.guard.Quat(next.Orientation, cc.state.Orientation)
	p, rp := cc.guard.Vec(next.Pivot, cc.state.Pivot)
	d, rd := cc.guard.Scalar(next.Distance, cc.state.Distance)
	_, re := cc.guard.Vec(pivot.EyePosition(p, q, d), r3.Vec{})

	next.Orientation = q
	next.Pivot = p
	next.Distance = common.Clamp(d, cc.cfg.MinDistance, cc.cfg.MaxDistance)
	return rq.Merge(rp).Merge(rd).Merge(re)
}

// sanitizeState cleans a pose supplied from outside the tick pipeline.
func (cc *cameraControllerImpl) sanitizeState(s, fallback State) (State, guard.Report) {
	q, rq := cc.guard.Quat(s.Orientation, fallback.Orientation)
	p, rp := cc.guard.Vec(s.Pivot, fallback.Pivot)
	p, _ = pivot.ClampExtent(p, cc.cfg.pivotExtent())
	d, rd := cc.guard.Scalar(s.Distance, fallback.Distance)
	fov, rf := cc.guard.Scalar(s.Fov, fallback.Fov)
	return State{
		Orientation: q,
		Pivot:       p,
		Distance:    common.Clamp(d, cc.cfg.MinDistance, cc.cfg.MaxDistance),
		Fov:         common.Clamp(fov, 0, math.Pi-1e-3),
	}, rq.Merge(rp).Merge(rd).Merge(rf)
}

// halt zeroes all motion and returns the state machine to Idle without touching the pose.
func (cc *cameraControllerImpl) halt() {
	cc.velocity.Stop()
	cc.anchor.Release()
	cc.classifier.Interrupt()
	cc.smoother.reset()
	cc.focus = nil
	cc.kind = gesture.Idle
	cc.setMode(ModeIdle)
}

func (cc *cameraControllerImpl) setMode(m Mode) {
	if m == cc.mode {
		return
	}
	cc.logger.Debug("mode change", zap.Stringer("from", cc.mode), zap.Stringer("to", m))
	cc.mode = m
}

func (cc *cameraControllerImpl) warnCorruption(chokepoint string, rep guard.Report) {
	cc.warn.Do(func() {
		cc.logger.Warn("corrupt value replaced",
			zap.String("chokepoint", chokepoint),
			zap.Stringer("reason", rep.Reason),
			zap.Stringer("action", cc.cfg.GuardAction),
			zap.Uint64("total_corruptions", cc.stats.Corruptions),
		)
	})
}

// repeat re-emits the previous transform with this tick's diagnostics.
func (cc *cameraControllerImpl) repeat(signals Signal, corruptions int) Transform {
	t := cc.last
	t.Mode = cc.mode
	if cc.mode != ModeGesturing {
		t.Gesture = gesture.Idle
	}
	t.Signals = signals
	t.Corruptions = corruptions
	cc.last = t
	return t
}

func (cc *cameraControllerImpl) emit(signals Signal, corruptions int) Transform {
	t := Transform{
		Orientation: cc.state.Orientation,
		Position:    pivot.EyePosition(cc.state.Pivot, cc.state.Orientation, cc.state.Distance),
		Pivot:       cc.state.Pivot,
		Distance:    cc.state.Distance,
		Fov:         cc.state.Fov,
		Mode:        cc.mode,
		Signals:     signals,
		Corruptions: corruptions,
	}
	if cc.mode == ModeGesturing {
		t.Gesture = cc.kind
	}
	if cc.swayActive() {
		t = applySway(t, cc.clock, cc.cfg.SwayIntensity)
	}
	cc.last = t
	return t
}

func (cc *cameraControllerImpl) Stop() {
	cc.logger.Debug("stop requested", zap.Stringer("mode", cc.mode))
	cc.halt()
}

func (cc *cameraControllerImpl) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		cc.stats.ConfigRejections++
		cc.pending |= SignalConfigRejected
		cc.logger.Warn("configuration rejected, keeping previous", zap.Error(err))
		return fmt.Errorf("configure controller %s: %w", cc.id, err)
	}

	// Validate has checked every constraint the components enforce.
	_ = cc.classifier.SetBindings(cfg.Bindings, cfg.Priority)
	_ = cc.horizon.SetConfig(cfg.horizonConfig())
	cc.guard = guard.NewGuard(guard.WithPolicy(cfg.guardPolicy()))
	cc.velocity.SetConfig(cfg.velocityConfig())
	cc.anchor.SetMinDistance(cfg.MinDistance)
	cc.anchor.SetExtent(cfg.pivotExtent())
	if cfg.DeltaSmoothingWindow != cc.cfg.DeltaSmoothingWindow {
		cc.smoother = newDeltaSmoother(cfg.DeltaSmoothingWindow)
	}
	cc.cfg = cfg
	cc.state.Distance = common.Clamp(cc.state.Distance, cfg.MinDistance, cfg.MaxDistance)
	if p, clamped := pivot.ClampExtent(cc.state.Pivot, cfg.pivotExtent()); clamped {
		cc.state.Pivot = p
		cc.anchor.Set(p)
		cc.velocity.ZeroPan()
	}
	if !cfg.AutoPilot && cc.focus != nil {
		cc.focus = nil
		cc.setMode(ModeIdle)
	}

	cc.logger.Info("configuration applied",
		zap.Bool("horizon", cfg.HorizonEnabled),
		zap.Stringer("guard_action", cfg.GuardAction),
		zap.Float64("angular_damping", cfg.AngularDamping),
	)
	return nil
}

func (cc *cameraControllerImpl) Config() Config {
	return cc.cfg
}

func (cc *cameraControllerImpl) SetHorizonEnabled(enabled bool) {
	cc.cfg.HorizonEnabled = enabled
	h := cc.horizon.Config()
	h.Enabled = enabled
	_ = cc.horizon.SetConfig(h)
	cc.logger.Debug("horizon toggled", zap.Bool("enabled", enabled))
}

func (cc *cameraControllerImpl) SetState(state State) Transform {
	s, rep := cc.sanitizeState(state, cc.state)
	var signals Signal
	corruptions := 0
	if rep.Corrupt() {
		signals |= SignalCorruption
		corruptions++
		cc.stats.Corruptions++
		cc.warnCorruption("set_state", rep)
	}

	cc.halt()
	cc.horizon.Reset()
	cc.state = s
	cc.anchor.Set(s.Pivot)
	return cc.emit(signals, corruptions)
}

func (cc *cameraControllerImpl) State() State {
	return cc.state
}

func (cc *cameraControllerImpl) Velocity() velocity.State {
	return cc.velocity.State()
}

func (cc *cameraControllerImpl) Anchor() pivot.State {
	return cc.anchor.State()
}

func (cc *cameraControllerImpl) Mode() Mode {
	return cc.mode
}

func (cc *cameraControllerImpl) Transform() Transform {
	return cc.last
}

func (cc *cameraControllerImpl) Stats() Stats {
	return cc.stats
}
