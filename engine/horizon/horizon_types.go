package horizon

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Config is the horizon leveling setup.
type Config struct {
	// Up is the world up-axis the horizon is leveled against. Must be unit length.
	Up r3.Vec
	// Enabled turns leveling on. When false, Level returns its input unchanged.
	Enabled bool
	// SmoothingRate is the fraction of roll removed per nominal tick, in (0,1).
	SmoothingRate float64
	// NominalDt is the tick length SmoothingRate is expressed against, in seconds.
	NominalDt float64
}

// DefaultConfig returns leveling against world +Z at 15% per 60 Hz tick.
//
// Returns:
//   - Config: the default horizon configuration
func DefaultConfig() Config {
	return Config{
		Up:            r3.Vec{Z: 1},
		Enabled:       true,
		SmoothingRate: 0.15,
		NominalDt:     1.0 / 60,
	}
}

// Validate checks the up-axis is unit length and the rates are in range.
//
// Returns:
//   - error: error naming the first invalid field, nil when valid
func (c Config) Validate() error {
	if n := r3.Norm(c.Up); math.IsNaN(n) || math.Abs(n-1) > 1e-6 {
		return fmt.Errorf("up axis must be unit length, got %v", c.Up)
	}
	if !(c.SmoothingRate > 0 && c.SmoothingRate < 1) {
		return fmt.Errorf("smoothing rate must be in (0,1), got %v", c.SmoothingRate)
	}
	if !(c.NominalDt > 0) || math.IsInf(c.NominalDt, 0) {
		return errors.New("nominal dt must be positive and finite")
	}
	return nil
}

// Report describes the decomposition made during a Level call.
type Report struct {
	// Yaw is the rotation about the up-axis, unwrapped to stay continuous across ticks.
	Yaw float64
	// Pitch is the signed elevation of the view axis, unwrapped and unbounded so it can pass ±90° and ±180°.
	Pitch float64
	// Roll is the residual rotation about the view axis before this tick's correction.
	Roll float64
	// Degenerate is set when the view axis was parallel to the up-axis and yaw was frozen.
	Degenerate bool
}
