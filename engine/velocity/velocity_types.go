package velocity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the kinetic state carried between ticks.
type State struct {
	// Angular is the rotation rate in rad/s: X yaws about the world up-axis, Y pitches about the
	// camera right-axis, Z rolls about the view axis.
	Angular r3.Vec
	// Pan is the pivot translation rate in screen-plane units/s: X along camera right, Y along camera up. Z is unused.
	Pan r3.Vec
	// Zoom is the log-distance rate in 1/s. Positive values move the eye toward the pivot.
	Zoom float64
}

// AtRest reports whether every channel is exactly zero.
func (s State) AtRest() bool {
	return s.Angular == (r3.Vec{}) && s.Pan == (r3.Vec{}) && s.Zoom == 0
}

// Config holds the gains, clamps and damping of the velocity model.
type Config struct {
	// AngularDamping, PanDamping and ZoomDamping are the fraction of velocity remaining after one second, in (0,1).
	AngularDamping float64
	PanDamping     float64
	ZoomDamping    float64

	// MaxAngular, MaxPan and MaxZoom clamp each channel's magnitude.
	MaxAngular float64
	MaxPan     float64
	MaxZoom    float64

	// OrbitGain is rad/s added per pixel of orbit drag.
	OrbitGain float64
	// PanGain is screen units/s added per pixel of pan drag.
	PanGain float64
	// ZoomGain is 1/s added per pixel of dolly.
	ZoomGain float64

	// Epsilon is the magnitude below which a decayed channel snaps to exactly zero.
	Epsilon float64
	// PrecisionScale multiplies every gain while the Precision flag is set.
	PrecisionScale float64
}

// DefaultConfig returns the stock tuning.
//
// Returns:
//   - Config: the default velocity configuration
func DefaultConfig() Config {
	return Config{
		AngularDamping: 0.01,
		PanDamping:     0.005,
		ZoomDamping:    0.005,
		MaxAngular:     4 * math.Pi,
		MaxPan:         8,
		MaxZoom:        12,
		OrbitGain:      0.01,
		PanGain:        0.002,
		ZoomGain:       0.05,
		Epsilon:        1e-3,
		PrecisionScale: 0.2,
	}
}

// TicksToRest is the closed-form upper bound on the number of zero-input ticks of length dt it
// takes a channel of magnitude v0 to snap to zero under the given damping and epsilon.
//
// Parameters:
//   - v0: the starting magnitude
//   - damping: the per-second damping factor in (0,1)
//   - epsilon: the snap threshold
//   - dt: the tick length in seconds
//
// Returns:
//   - int: ⌈ln(ε/v0) / (dt·ln(damping))⌉ + 1, or 1 when v0 is already below epsilon
func TicksToRest(v0, damping, epsilon, dt float64) int {
	if v0 < epsilon {
		return 1
	}
	return int(math.Ceil(math.Log(epsilon/v0)/(dt*math.Log(damping)))) + 1
}
