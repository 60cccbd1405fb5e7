package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"angularDamping", func(c *Config) { c.AngularDamping = 1 }},
		{"panDamping", func(c *Config) { c.PanDamping = 0 }},
		{"zoomDamping", func(c *Config) { c.ZoomDamping = math.NaN() }},
		{"horizonSmoothingRate", func(c *Config) { c.HorizonSmoothingRate = 1.5 }},
		{"maxAngularVelocity", func(c *Config) { c.MaxAngularVelocity = -1 }},
		{"maxPanVelocity", func(c *Config) { c.MaxPanVelocity = math.Inf(1) }},
		{"maxZoomVelocity", func(c *Config) { c.MaxZoomVelocity = 0 }},
		{"orbitGain", func(c *Config) { c.OrbitGain = 0 }},
		{"velocityEpsilon", func(c *Config) { c.VelocityEpsilon = 0 }},
		{"velocityEpsilon", func(c *Config) { c.VelocityEpsilon = 100 }},
		{"minDistance", func(c *Config) { c.MinDistance = -0.5 }},
		{"maxDistance", func(c *Config) { c.MaxDistance = c.MinDistance }},
		{"corruptionCeiling", func(c *Config) { c.CorruptionCeiling = c.MaxDistance }},
		{"stallDtThreshold", func(c *Config) { c.StallDtThreshold = 0 }},
		{"nominalDt", func(c *Config) { c.NominalDt = 0.5 }},
		{"precisionScale", func(c *Config) { c.PrecisionScale = 2 }},
		{"upAxis", func(c *Config) { c.UpAxis = r3.Vec{Z: 2} }},
		{"upAxis", func(c *Config) { c.UpAxis = r3.Vec{} }},
		{"guardAction", func(c *Config) { c.GuardAction = guard.Action(9) }},
		{"deltaSmoothingWindow", func(c *Config) { c.DeltaSmoothingWindow = 0 }},
		{"bindings", func(c *Config) { c.Bindings.Orbit = []gesture.Binding{{Modifiers: gesture.ModShift}} }},
		{"priority", func(c *Config) { c.Priority = gesture.Priority{gesture.Orbit} }},
		{"focusSpeed", func(c *Config) { c.FocusSpeed = 0 }},
		{"focusDistanceScale", func(c *Config) { c.FocusDistanceScale = -3 }},
		{"swayIntensity", func(c *Config) { c.SwayIntensity = 1.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
