package camera

import (
	"fmt"
	"math"
	"strings"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the camera pose owned by a controller.
type State struct {
	// Orientation is a unit quaternion; the camera looks down its local -Z axis.
	Orientation quat.Number
	// Pivot is the world-space point the camera orbits.
	Pivot r3.Vec
	// Distance is the pivot-to-eye distance, always within [MinDistance, MaxDistance].
	Distance float64
	// Fov is the vertical field of view in radians. Zero leaves the host's choice in place.
	Fov float64
}

// DefaultState returns a camera ten units in front of the origin looking along +Y with +Z up.
//
// Returns:
//   - State: the default pose
func DefaultState() State {
	return State{
		Orientation: common.AxisAngle(r3.Vec{X: 1}, math.Pi/2),
		Distance:    10,
	}
}

// Mode is the controller's state machine position.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeGesturing
	ModeCoasting
	ModeFocusing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeGesturing:
		return "gesturing"
	case ModeCoasting:
		return "coasting"
	case ModeFocusing:
		return "focusing"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Signal flags diagnostic events raised during a tick. Signals never abort a tick.
type Signal uint8

const (
	// SignalCorruption means a NaN, Inf or out-of-range value was replaced.
	SignalCorruption Signal = 1 << iota
	// SignalDegenerate means the view axis was parallel to the up-axis and yaw was frozen.
	SignalDegenerate
	// SignalStall means dt was out of range and NominalDt was used instead.
	SignalStall
	// SignalConfigRejected means a Configure call since the previous tick was rejected.
	SignalConfigRejected
)

// Has reports whether every signal in s is raised.
func (sg Signal) Has(s Signal) bool { return sg&s == s }

func (sg Signal) String() string {
	if sg == 0 {
		return "none"
	}
	var names []string
	for _, s := range []struct {
		flag Signal
		name string
	}{
		{SignalCorruption, "corruption"},
		{SignalDegenerate, "degenerate"},
		{SignalStall, "stall"},
		{SignalConfigRejected, "config_rejected"},
	} {
		if sg.Has(s.flag) {
			names = append(names, s.name)
		}
	}
	return strings.Join(names, "|")
}

// Transform is the per-tick output handed to the host.
type Transform struct {
	Orientation quat.Number
	// Position is the eye: Pivot - forward·Distance (plus the sway overlay, when active).
	Position r3.Vec
	Pivot    r3.Vec
	Distance float64
	Fov      float64

	Mode    Mode
	Gesture gesture.Kind

	Signals Signal
	// Corruptions counts the guard chokepoints that tripped during the tick (input, output).
	Corruptions int
}

// Forward returns the world-space view direction.
func (t Transform) Forward() r3.Vec {
	return common.Forward(t.Orientation)
}

// Matrix returns the orientation as a row-major 3×3 rotation matrix.
func (t Transform) Matrix() [9]float64 {
	return common.Matrix3(t.Orientation)
}

// Stats are cumulative diagnostic counters. They are never throttled.
type Stats struct {
	Ticks            uint64
	Corruptions      uint64
	Reverts          uint64
	Degenerate       uint64
	Stalls           uint64
	ConfigRejections uint64
}
