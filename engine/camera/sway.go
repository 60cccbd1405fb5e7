package camera

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/common"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// swayThreshold is the intensity below which the overlay is skipped entirely.
const swayThreshold = 1e-3

func (cc *cameraControllerImpl) swayActive() bool {
	return cc.cfg.SwayEnabled &&
		cc.cfg.SwayIntensity > swayThreshold &&
		!cc.swaySuppressed &&
		cc.mode != ModeFocusing
}

// swayAt returns the camera-local position offset and rotation of the idle drift at time t.
func swayAt(t, intensity float64) (r3.Vec, quat.Number) {
	strength := intensity * 0.05
	rotStrength := strength * 0.2

	offset := r3.Vec{
		X: (math.Sin(t*1.2) + math.Cos(t*2.1)*0.5) * strength,
		Y: (math.Cos(t*1.4) + math.Sin(t*2.4)*0.5) * strength,
		Z: math.Sin(t*0.5) * 0.5 * strength,
	}
	pitch := math.Sin(t*0.8) * rotStrength
	yaw := math.Cos(t*1.1) * rotStrength
	roll := math.Sin(t*1.6) * rotStrength * 0.5

	rotation := quat.Mul(
		common.AxisAngle(r3.Vec{Z: 1}, roll),
		quat.Mul(common.AxisAngle(r3.Vec{Y: 1}, yaw), common.AxisAngle(r3.Vec{X: 1}, pitch)),
	)
	return offset, rotation
}

// applySway overlays the drift on an output transform. The controller's own pose is untouched.
func applySway(t Transform, clock, intensity float64) Transform {
	offset, rotation := swayAt(clock, intensity)
	t.Position = r3.Add(t.Position, common.Rotate(t.Orientation, offset))
	if q, ok := common.Normalize(quat.Mul(t.Orientation, rotation)); ok {
		t.Orientation = q
	}
	return t
}
