package camera

import (
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/pivot"
	"github.com/Carmen-Shannon/kineticam/engine/velocity"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CameraController turns raw pointer input into kinetic camera motion for one viewport.
//
// Each tick sanitizes the input, classifies it into a gesture, integrates velocity with
// exponential damping, moves the pivot and orientation, levels the horizon and sanitizes the
// result before handing it back. Tick never fails: corrupted numbers are replaced and reported
// through Transform.Signals.
//
// A controller is not safe for concurrent use. The host owns one controller per viewport and
// calls Tick strictly sequentially; no goroutines are started.
type CameraController interface {
	// ID returns the controller's unique instance id.
	//
	// Returns:
	//   - string: the id, used to name log output
	ID() string

	// Tick advances the camera by one frame.
	//
	// Parameters:
	//   - dt: seconds since the previous tick as measured by the host
	//   - input: the pointer, button, modifier and scroll state for this tick
	//
	// Returns:
	//   - Transform: the camera pose to apply, always finite with a unit orientation
	Tick(dt float64, input gesture.RawInput) Transform

	// Stop zeroes all velocity, cancels any focus flight, releases the pivot lock and returns to Idle.
	// The camera pose is left where it is.
	Stop()

	// Configure validates and applies a new configuration atomically. On error the previous
	// configuration stays in force, the rejection is counted and the next Transform carries
	// SignalConfigRejected.
	//
	// Parameters:
	//   - cfg: the new configuration
	//
	// Returns:
	//   - error: a *ConfigError wrapping ErrInvalidConfig, nil when applied
	Configure(cfg Config) error

	// Config returns the configuration in force.
	//
	// Returns:
	//   - Config: the active configuration
	Config() Config

	// SetHorizonEnabled toggles horizon leveling (off is free-look / dutch angle mode).
	//
	// Parameters:
	//   - enabled: true to keep the horizon level
	SetHorizonEnabled(enabled bool)

	// FocusOn starts an auto-pilot flight that frames a sphere, keeping the current view direction.
	//
	// Parameters:
	//   - center: world-space center to fly the pivot to
	//   - radius: radius of the framed sphere
	//
	// Returns:
	//   - bool: false when auto-pilot is disabled or the target is not finite
	FocusOn(center r3.Vec, radius float64) bool

	// FocusOnWithOrientation starts an auto-pilot flight that also turns the camera to orientation.
	//
	// Parameters:
	//   - center: world-space center to fly the pivot to
	//   - radius: radius of the framed sphere
	//   - orientation: the view to arrive at (leveled first when the horizon is enabled)
	//
	// Returns:
	//   - bool: false when auto-pilot is disabled or the target is not finite
	FocusOnWithOrientation(center r3.Vec, radius float64, orientation quat.Number) bool

	// SetState adopts a pose imposed by the host, such as a snapped axis view. The pose is
	// sanitized, all motion stops and the controller returns to Idle.
	//
	// Parameters:
	//   - state: the new camera pose
	//
	// Returns:
	//   - Transform: the transform for the adopted pose
	SetState(state State) Transform

	// State returns the current camera pose.
	//
	// Returns:
	//   - State: the last known-good pose
	State() State

	// Velocity returns the current kinetic state.
	//
	// Returns:
	//   - velocity.State: angular, pan and zoom velocity
	Velocity() velocity.State

	// Anchor returns the current pivot anchor.
	//
	// Returns:
	//   - pivot.State: the anchor point and lock flag
	Anchor() pivot.State

	// Mode returns the state machine position.
	//
	// Returns:
	//   - Mode: idle, gesturing, coasting or focusing
	Mode() Mode

	// Transform returns the most recently emitted transform.
	//
	// Returns:
	//   - Transform: the last output
	Transform() Transform

	// Stats returns the cumulative diagnostic counters.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats
}
