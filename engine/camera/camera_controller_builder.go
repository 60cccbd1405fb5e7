package camera

import (
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/guard"
	"github.com/Carmen-Shannon/kineticam/engine/velocity"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithConfig replaces the whole configuration. It is validated once all options are applied.
//
// Parameters:
//   - cfg: the controller configuration
//
// Returns:
//   - CameraControllerOption: functional option to set the configuration
func WithConfig(cfg Config) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg = cfg
	}
}

// WithLogger sets the logger. The controller names it and tags every line with its id.
//
// Parameters:
//   - logger: the zap logger to use; nil keeps the no-op logger
//
// Returns:
//   - CameraControllerOption: functional option to set the logger
func WithLogger(logger *zap.Logger) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if logger != nil {
			cc.logger = logger
		}
	}
}

// WithID overrides the generated instance id.
//
// Parameters:
//   - id: the id to report from ID() and in log output
//
// Returns:
//   - CameraControllerOption: functional option to set the id
func WithID(id string) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if id != "" {
			cc.id = id
		}
	}
}

// WithState sets the initial camera pose.
//
// Parameters:
//   - state: the starting pose, sanitized on construction
//
// Returns:
//   - CameraControllerOption: functional option to set the pose
func WithState(state State) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state = state
	}
}

// WithPivot sets the initial orbit pivot.
//
// Parameters:
//   - pivot: world-space pivot point
//
// Returns:
//   - CameraControllerOption: functional option to set the pivot
func WithPivot(pivot r3.Vec) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Pivot = pivot
	}
}

// WithDistance sets the initial pivot-to-eye distance.
//
// Parameters:
//   - distance: the view distance, clamped to [MinDistance, MaxDistance]
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDistance(distance float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Distance = distance
	}
}

// WithOrientation sets the initial orientation.
//
// Parameters:
//   - orientation: the starting orientation, re-normalized on construction
//
// Returns:
//   - CameraControllerOption: functional option to set the orientation
func WithOrientation(orientation quat.Number) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Orientation = orientation
		cc.seedYawPitch = nil
	}
}

// WithYawPitch sets the initial orientation from a roll-free yaw about the up-axis and pitch.
//
// Parameters:
//   - yaw: heading in radians (0 looks along the zero-yaw heading of the up-axis)
//   - pitch: elevation in radians, positive looks up
//
// Returns:
//   - CameraControllerOption: functional option to set the orientation
func WithYawPitch(yaw, pitch float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.seedYawPitch = &[2]float64{yaw, pitch}
	}
}

// WithVelocity seeds the controller with motion, so it starts out coasting.
//
// Parameters:
//   - v: the initial velocity
//
// Returns:
//   - CameraControllerOption: functional option to set the velocity
func WithVelocity(v velocity.State) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.seedVelocity = &v
	}
}

// WithHorizon enables or disables horizon leveling.
//
// Parameters:
//   - enabled: true to keep the horizon level
//
// Returns:
//   - CameraControllerOption: functional option to set horizon leveling
func WithHorizon(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.HorizonEnabled = enabled
	}
}

// WithDamping sets the per-second damping of each velocity channel.
//
// Parameters:
//   - angular, pan, zoom: fraction of velocity left after one second, each in (0,1)
//
// Returns:
//   - CameraControllerOption: functional option to set the damping
func WithDamping(angular, pan, zoom float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.AngularDamping = angular
		cc.cfg.PanDamping = pan
		cc.cfg.ZoomDamping = zoom
	}
}

// WithMaxVelocity sets the magnitude clamp of each velocity channel.
//
// Parameters:
//   - angular, pan, zoom: positive clamps
//
// Returns:
//   - CameraControllerOption: functional option to set the clamps
func WithMaxVelocity(angular, pan, zoom float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.MaxAngularVelocity = angular
		cc.cfg.MaxPanVelocity = pan
		cc.cfg.MaxZoomVelocity = zoom
	}
}

// WithUpAxis sets the world up-axis used for yaw and horizon leveling.
//
// Parameters:
//   - up: a unit vector
//
// Returns:
//   - CameraControllerOption: functional option to set the up-axis
func WithUpAxis(up r3.Vec) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.UpAxis = up
	}
}

// WithGuardAction sets how the controller recovers from corrupted input.
//
// Parameters:
//   - action: the recovery action
//
// Returns:
//   - CameraControllerOption: functional option to set the guard action
func WithGuardAction(action guard.Action) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.GuardAction = action
	}
}

// WithBindings sets the gesture chords and tie-break priority.
//
// Parameters:
//   - bindings: the chord table
//   - priority: tie-break order, highest first
//
// Returns:
//   - CameraControllerOption: functional option to set the bindings
func WithBindings(bindings gesture.Bindings, priority gesture.Priority) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.cfg.Bindings = bindings
		cc.cfg.Priority = priority
	}
}
