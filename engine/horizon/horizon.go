package horizon

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/common"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// singularDot is the |forward·up| above which the yaw/pitch decomposition is treated as singular.
	singularDot = 1 - 1e-9
	// restRoll is the roll below which an orientation is left bit-for-bit untouched.
	restRoll = 1e-12
	// snapRoll is the roll below which smoothing jumps straight to the leveled orientation.
	snapRoll = 1e-6
)

// Constraint removes accumulated roll from a camera orientation while leaving pitch free.
//
// The orientation is split into yaw about the up-axis, pitch about the camera's right-axis and a
// residual roll about the view axis. The leveled right-axis is whichever of ±(forward × up) lies
// closest to the current right-axis, so pitching over a pole continues smoothly into an inverted
// view instead of flipping 180° in roll.
type Constraint interface {
	// Level removes a frame-rate independent fraction of roll from q.
	//
	// Parameters:
	//   - q: the unit orientation to level
	//   - dt: elapsed seconds, positive
	//
	// Returns:
	//   - quat.Number: the leveled orientation, or q itself when disabled, already level or singular
	//   - Report: the decomposition used
	Level(q quat.Number, dt float64) (quat.Number, Report)

	// Leveled returns q with all roll removed, without touching the tracked yaw and pitch.
	//
	// Parameters:
	//   - q: the orientation to level
	//
	// Returns:
	//   - quat.Number: the roll-free orientation, or q when the decomposition is singular
	Leveled(q quat.Number) quat.Number

	// Decompose splits q into principal yaw, pitch and roll angles.
	//
	// Parameters:
	//   - q: the unit orientation
	//
	// Returns:
	//   - yaw, pitch, roll: angles in radians, each in (-π, π]
	//   - ok: false when the view axis is parallel to the up-axis
	Decompose(q quat.Number) (yaw, pitch, roll float64, ok bool)

	// Compose builds the roll-free orientation with the given yaw and pitch.
	//
	// Parameters:
	//   - yaw: rotation about the up-axis in radians
	//   - pitch: elevation of the view axis in radians, unbounded
	//
	// Returns:
	//   - quat.Number: the orientation
	Compose(yaw, pitch float64) quat.Number

	// Reset forgets the tracked yaw and pitch, e.g. after the host imposes a new orientation.
	Reset()

	// SetConfig replaces the configuration and resets tracking. Invalid configurations are rejected.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: validation error, nil when applied
	SetConfig(cfg Config) error

	// Config returns the active configuration.
	//
	// Returns:
	//   - Config: the current configuration
	Config() Config
}

type constraintImpl struct {
	cfg Config

	up        r3.Vec
	baseRight r3.Vec
	base      quat.Number

	tracked   bool
	lastYaw   float64
	lastPitch float64
}

var _ Constraint = &constraintImpl{}

// NewConstraint creates a horizon Constraint with the default configuration, modified by options.
// An invalid configuration falls back to the defaults.
//
// Parameters:
//   - options: functional options to configure the constraint
//
// Returns:
//   - Constraint: the newly created constraint
func NewConstraint(options ...ConstraintOption) Constraint {
	c := &constraintImpl{cfg: DefaultConfig()}
	for _, option := range options {
		option(c)
	}
	if c.cfg.Validate() != nil {
		c.cfg = DefaultConfig()
	}
	c.rebase()
	return c
}

func (c *constraintImpl) Level(q quat.Number, dt float64) (quat.Number, Report) {
	if !c.cfg.Enabled {
		return q, Report{Yaw: c.lastYaw, Pitch: c.lastPitch}
	}
	yaw, pitch, roll, ok := c.Decompose(q)
	if !ok {
		return q, Report{Yaw: c.lastYaw, Pitch: c.lastPitch, Degenerate: true}
	}
	if c.tracked {
		yaw = unwrap(yaw, c.lastYaw)
		pitch = unwrap(pitch, c.lastPitch)
	}
	c.tracked = true
	c.lastYaw, c.lastPitch = yaw, pitch
	report := Report{Yaw: yaw, Pitch: pitch, Roll: roll}

	if math.Abs(roll) < restRoll {
		return q, report
	}
	target := c.Compose(yaw, pitch)
	if math.Abs(roll) < snapRoll {
		return target, report
	}
	rate := 1 - math.Pow(1-c.cfg.SmoothingRate, dt/c.cfg.NominalDt)
	return common.Slerp(q, target, rate), report
}

func (c *constraintImpl) Leveled(q quat.Number) quat.Number {
	yaw, pitch, roll, ok := c.Decompose(q)
	if !ok || math.Abs(roll) < restRoll {
		return q
	}
	return c.Compose(yaw, pitch)
}

func (c *constraintImpl) Decompose(q quat.Number) (yaw, pitch, roll float64, ok bool) {
	f := common.Forward(q)
	r := common.Right(q)
	if math.Abs(r3.Dot(f, c.up)) > singularDot {
		return 0, 0, 0, false
	}
	levelRight, ok := common.UnitVec(r3.Cross(f, c.up))
	if !ok {
		return 0, 0, 0, false
	}
	if r3.Dot(levelRight, r) < 0 {
		levelRight = r3.Scale(-1, levelRight)
	}

	roll = math.Atan2(r3.Dot(f, r3.Cross(levelRight, r)), r3.Dot(levelRight, r))

	heading := r3.Cross(c.up, levelRight)
	pitch = math.Atan2(r3.Dot(f, c.up), r3.Dot(f, heading))

	yaw = math.Atan2(r3.Dot(r3.Cross(c.baseRight, levelRight), c.up), r3.Dot(c.baseRight, levelRight))
	return yaw, pitch, roll, true
}

func (c *constraintImpl) Compose(yaw, pitch float64) quat.Number {
	q := quat.Mul(common.AxisAngle(c.up, yaw), c.base)
	q = quat.Mul(q, common.AxisAngle(common.LocalRight, pitch))
	q, _ = common.Normalize(q)
	return q
}

func (c *constraintImpl) Reset() {
	c.tracked = false
	c.lastYaw, c.lastPitch = 0, 0
}

func (c *constraintImpl) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.rebase()
	return nil
}

func (c *constraintImpl) Config() Config {
	return c.cfg
}

// rebase derives the unit up-axis and the zero-yaw reference frame from the configuration.
func (c *constraintImpl) rebase() {
	c.up, _ = common.UnitVec(c.cfg.Up)
	helper := r3.Vec{X: 1}
	if math.Abs(c.up.X) > 0.9 {
		helper = r3.Vec{Y: 1}
	}
	c.baseRight, _ = common.UnitVec(r3.Sub(helper, r3.Scale(r3.Dot(helper, c.up), c.up)))
	c.base = common.FromBasis(c.baseRight, c.up, r3.Cross(c.baseRight, c.up))
	c.Reset()
}

// unwrap returns the representative of angle closest to last.
func unwrap(angle, last float64) float64 {
	d := math.Remainder(angle-last, 2*math.Pi)
	return last + d
}
