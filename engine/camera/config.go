package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/guard"
	"github.com/Carmen-Shannon/kineticam/engine/horizon"
	"github.com/Carmen-Shannon/kineticam/engine/velocity"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid camera config")

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
	Value  any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", ErrInvalidConfig, e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config is the complete tuning of a CameraController. Every field has a usable default.
type Config struct {
	// AngularDamping, PanDamping and ZoomDamping are the fraction of velocity left after one second, in (0,1).
	AngularDamping float64
	PanDamping     float64
	ZoomDamping    float64

	MaxAngularVelocity float64
	MaxPanVelocity     float64
	MaxZoomVelocity    float64

	// OrbitGain is rad/s per pixel, PanGain screen units/s per pixel, ZoomGain 1/s per pixel.
	OrbitGain float64
	PanGain   float64
	ZoomGain  float64

	// VelocityEpsilon is the magnitude below which velocity snaps to exactly zero.
	VelocityEpsilon float64
	// PrecisionScale multiplies the gains while the precision modifier is held, in (0,1].
	PrecisionScale float64

	HorizonEnabled       bool
	HorizonSmoothingRate float64
	UpAxis               r3.Vec

	MinDistance float64
	MaxDistance float64

	// CorruptionCeiling is the magnitude beyond which any input or output value is treated as corrupt.
	CorruptionCeiling float64
	GuardAction       guard.Action

	// StallDtThreshold is the largest dt accepted as-is; larger (or non-positive) dt is replaced by NominalDt.
	StallDtThreshold float64
	NominalDt        float64

	// DeltaSmoothingWindow averages the input delta over this many ticks of the same gesture. 1 disables it.
	DeltaSmoothingWindow int

	Bindings gesture.Bindings
	Priority gesture.Priority

	// AutoPilot enables FocusOn. BreakOnManual lets any gesture cancel a focus flight.
	AutoPilot          bool
	BreakOnManual      bool
	FocusSpeed         float64
	FocusDistanceScale float64

	// SwayEnabled overlays a slow procedural drift on the output while the camera is not being driven.
	SwayEnabled   bool
	SwayIntensity float64
}

// maxSmoothingWindow bounds DeltaSmoothingWindow.
const maxSmoothingWindow = 64

// DefaultConfig returns the stock controller tuning.
//
// Returns:
//   - Config: the default configuration
func DefaultConfig() Config {
	v := velocity.DefaultConfig()
	h := horizon.DefaultConfig()
	g := guard.DefaultPolicy()
	return Config{
		AngularDamping:       v.AngularDamping,
		PanDamping:           v.PanDamping,
		ZoomDamping:          v.ZoomDamping,
		MaxAngularVelocity:   v.MaxAngular,
		MaxPanVelocity:       v.MaxPan,
		MaxZoomVelocity:      v.MaxZoom,
		OrbitGain:            v.OrbitGain,
		PanGain:              v.PanGain,
		ZoomGain:             v.ZoomGain,
		VelocityEpsilon:      v.Epsilon,
		PrecisionScale:       v.PrecisionScale,
		HorizonEnabled:       h.Enabled,
		HorizonSmoothingRate: h.SmoothingRate,
		UpAxis:               h.Up,
		MinDistance:          0.01,
		MaxDistance:          1e5,
		CorruptionCeiling:    g.Ceiling,
		GuardAction:          g.Action,
		StallDtThreshold:     0.25,
		NominalDt:            h.NominalDt,
		DeltaSmoothingWindow: 1,
		Bindings:             gesture.DefaultBindings(),
		Priority:             gesture.DefaultPriority(),
		AutoPilot:            true,
		BreakOnManual:        true,
		FocusSpeed:           0.1,
		FocusDistanceScale:   3,
		SwayEnabled:          false,
		SwayIntensity:        0.5,
	}
}

// Validate checks every field and returns a *ConfigError for the first one out of range.
//
// Returns:
//   - error: a *ConfigError wrapping ErrInvalidConfig, nil when the configuration is usable
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"angularDamping", c.AngularDamping},
		{"panDamping", c.PanDamping},
		{"zoomDamping", c.ZoomDamping},
		{"horizonSmoothingRate", c.HorizonSmoothingRate},
	} {
		if !(f.value > 0 && f.value < 1) {
			return &ConfigError{Field: f.name, Reason: "must be in (0,1)", Value: f.value}
		}
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"maxAngularVelocity", c.MaxAngularVelocity},
		{"maxPanVelocity", c.MaxPanVelocity},
		{"maxZoomVelocity", c.MaxZoomVelocity},
		{"orbitGain", c.OrbitGain},
		{"panGain", c.PanGain},
		{"zoomGain", c.ZoomGain},
		{"velocityEpsilon", c.VelocityEpsilon},
		{"minDistance", c.MinDistance},
		{"corruptionCeiling", c.CorruptionCeiling},
		{"stallDtThreshold", c.StallDtThreshold},
		{"nominalDt", c.NominalDt},
		{"focusDistanceScale", c.FocusDistanceScale},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return &ConfigError{Field: f.name, Reason: "must be positive and finite", Value: f.value}
		}
	}

	if !(c.PrecisionScale > 0 && c.PrecisionScale <= 1) {
		return &ConfigError{Field: "precisionScale", Reason: "must be in (0,1]", Value: c.PrecisionScale}
	}
	if n := r3.Norm(c.UpAxis); math.IsNaN(n) || math.Abs(n-1) > 1e-6 {
		return &ConfigError{Field: "upAxis", Reason: "must be a unit vector", Value: c.UpAxis}
	}
	if !(c.MaxDistance > c.MinDistance) || math.IsInf(c.MaxDistance, 0) {
		return &ConfigError{Field: "maxDistance", Reason: "must be finite and greater than minDistance", Value: c.MaxDistance}
	}
	if !(c.CorruptionCeiling > c.MaxDistance) {
		return &ConfigError{Field: "corruptionCeiling", Reason: "must exceed maxDistance", Value: c.CorruptionCeiling}
	}
	if c.VelocityEpsilon >= min(c.MaxAngularVelocity, c.MaxPanVelocity, c.MaxZoomVelocity) {
		return &ConfigError{Field: "velocityEpsilon", Reason: "must be below every velocity clamp", Value: c.VelocityEpsilon}
	}
	if c.NominalDt > c.StallDtThreshold {
		return &ConfigError{Field: "nominalDt", Reason: "must not exceed stallDtThreshold", Value: c.NominalDt}
	}
	if c.GuardAction > guard.ActionZeroVelocity {
		return &ConfigError{Field: "guardAction", Reason: "is not a known action", Value: c.GuardAction}
	}
	if c.DeltaSmoothingWindow < 1 || c.DeltaSmoothingWindow > maxSmoothingWindow {
		return &ConfigError{Field: "deltaSmoothingWindow", Reason: fmt.Sprintf("must be in [1,%d]", maxSmoothingWindow), Value: c.DeltaSmoothingWindow}
	}
	if err := c.Bindings.Validate(); err != nil {
		return &ConfigError{Field: "bindings", Reason: err.Error(), Value: c.Bindings}
	}
	if err := c.Priority.Validate(); err != nil {
		return &ConfigError{Field: "priority", Reason: err.Error(), Value: c.Priority}
	}
	if !(c.FocusSpeed > 0 && c.FocusSpeed <= 1) {
		return &ConfigError{Field: "focusSpeed", Reason: "must be in (0,1]", Value: c.FocusSpeed}
	}
	if !(c.SwayIntensity >= 0 && c.SwayIntensity <= 1) {
		return &ConfigError{Field: "swayIntensity", Reason: "must be in [0,1]", Value: c.SwayIntensity}
	}
	return nil
}

func (c Config) velocityConfig() velocity.Config {
	return velocity.Config{
		AngularDamping: c.AngularDamping,
		PanDamping:     c.PanDamping,
		ZoomDamping:    c.ZoomDamping,
		MaxAngular:     c.MaxAngularVelocity,
		MaxPan:         c.MaxPanVelocity,
		MaxZoom:        c.MaxZoomVelocity,
		OrbitGain:      c.OrbitGain,
		PanGain:        c.PanGain,
		ZoomGain:       c.ZoomGain,
		Epsilon:        c.VelocityEpsilon,
		PrecisionScale: c.PrecisionScale,
	}
}

func (c Config) horizonConfig() horizon.Config {
	return horizon.Config{
		Up:            c.UpAxis,
		Enabled:       c.HorizonEnabled,
		SmoothingRate: c.HorizonSmoothingRate,
		NominalDt:     c.NominalDt,
	}
}

// pivotExtent keeps the pivot close enough to the origin that an eye at MaxDistance from it stays
// under the corruption ceiling.
func (c Config) pivotExtent() float64 {
	return (c.CorruptionCeiling - c.MaxDistance) * (1 - 1e-9)
}

func (c Config) guardPolicy() guard.Policy {
	return guard.Policy{Ceiling: c.CorruptionCeiling, Action: c.GuardAction}
}
