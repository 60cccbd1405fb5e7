package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/guard"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r3"
)

// EnvPrefix prefixes every environment variable override, e.g. KINETICAM_CONTROLLER_ANGULAR_DAMPING.
const EnvPrefix = "KINETICAM"

// Config is the complete tool configuration loaded from file, environment and flags.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Controller ControllerConfig `mapstructure:"controller" yaml:"controller"`
	View       ViewConfig       `mapstructure:"view" yaml:"view"`
	Soak       SoakConfig       `mapstructure:"soak" yaml:"soak"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels in console output.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ControllerConfig is the file representation of camera.Config.
type ControllerConfig struct {
	AngularDamping       float64   `mapstructure:"angular_damping" yaml:"angular_damping"`
	PanDamping           float64   `mapstructure:"pan_damping" yaml:"pan_damping"`
	ZoomDamping          float64   `mapstructure:"zoom_damping" yaml:"zoom_damping"`
	MaxAngularVelocity   float64   `mapstructure:"max_angular_velocity" yaml:"max_angular_velocity"`
	MaxPanVelocity       float64   `mapstructure:"max_pan_velocity" yaml:"max_pan_velocity"`
	MaxZoomVelocity      float64   `mapstructure:"max_zoom_velocity" yaml:"max_zoom_velocity"`
	OrbitGain            float64   `mapstructure:"orbit_gain" yaml:"orbit_gain"`
	PanGain              float64   `mapstructure:"pan_gain" yaml:"pan_gain"`
	ZoomGain             float64   `mapstructure:"zoom_gain" yaml:"zoom_gain"`
	VelocityEpsilon      float64   `mapstructure:"velocity_epsilon" yaml:"velocity_epsilon"`
	PrecisionScale       float64   `mapstructure:"precision_scale" yaml:"precision_scale"`
	HorizonEnabled       bool      `mapstructure:"horizon_enabled" yaml:"horizon_enabled"`
	HorizonSmoothingRate float64   `mapstructure:"horizon_smoothing_rate" yaml:"horizon_smoothing_rate"`
	UpAxis               []float64 `mapstructure:"up_axis" yaml:"up_axis"`
	MinDistance          float64   `mapstructure:"min_distance" yaml:"min_distance"`
	MaxDistance          float64   `mapstructure:"max_distance" yaml:"max_distance"`
	CorruptionCeiling    float64   `mapstructure:"corruption_ceiling" yaml:"corruption_ceiling"`
	GuardAction          string    `mapstructure:"guard_action" yaml:"guard_action"`
	StallDtThreshold     float64   `mapstructure:"stall_dt_threshold" yaml:"stall_dt_threshold"`
	NominalDt            float64   `mapstructure:"nominal_dt" yaml:"nominal_dt"`
	DeltaSmoothingWindow int       `mapstructure:"delta_smoothing_window" yaml:"delta_smoothing_window"`
	ScrollDolly          bool      `mapstructure:"scroll_dolly" yaml:"scroll_dolly"`
	ScrollStep           float64   `mapstructure:"scroll_step" yaml:"scroll_step"`
	Priority             []string  `mapstructure:"priority" yaml:"priority"`
	AutoPilot            bool      `mapstructure:"auto_pilot" yaml:"auto_pilot"`
	BreakOnManual        bool      `mapstructure:"break_on_manual" yaml:"break_on_manual"`
	FocusSpeed           float64   `mapstructure:"focus_speed" yaml:"focus_speed"`
	FocusDistanceScale   float64   `mapstructure:"focus_distance_scale" yaml:"focus_distance_scale"`
	SwayEnabled          bool      `mapstructure:"sway_enabled" yaml:"sway_enabled"`
	SwayIntensity        float64   `mapstructure:"sway_intensity" yaml:"sway_intensity"`
}

// ViewConfig configures the interactive viewport host.
type ViewConfig struct {
	Title     string  `mapstructure:"title" yaml:"title"`
	Width     int     `mapstructure:"width" yaml:"width"`
	Height    int     `mapstructure:"height" yaml:"height"`
	TickRate  float64 `mapstructure:"tick_rate" yaml:"tick_rate"`
	Viewports int     `mapstructure:"viewports" yaml:"viewports"`
	Profiling bool    `mapstructure:"profiling" yaml:"profiling"`
	LogEvery  int     `mapstructure:"log_every" yaml:"log_every"`
}

// SoakConfig configures the pathological-input soak harness.
type SoakConfig struct {
	Sessions int   `mapstructure:"sessions" yaml:"sessions"`
	Ticks    int   `mapstructure:"ticks" yaml:"ticks"`
	Seed     int64 `mapstructure:"seed" yaml:"seed"`
	Workers  int   `mapstructure:"workers" yaml:"workers"`
}

// SetDefaults registers every default on v. Controller defaults mirror camera.DefaultConfig.
//
// Parameters:
//   - v: the viper instance to populate
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "kineticam")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Controller --
	c := camera.DefaultConfig()
	v.SetDefault("controller.angular_damping", c.AngularDamping)
	v.SetDefault("controller.pan_damping", c.PanDamping)
	v.SetDefault("controller.zoom_damping", c.ZoomDamping)
	v.SetDefault("controller.max_angular_velocity", c.MaxAngularVelocity)
	v.SetDefault("controller.max_pan_velocity", c.MaxPanVelocity)
	v.SetDefault("controller.max_zoom_velocity", c.MaxZoomVelocity)
	v.SetDefault("controller.orbit_gain", c.OrbitGain)
	v.SetDefault("controller.pan_gain", c.PanGain)
	v.SetDefault("controller.zoom_gain", c.ZoomGain)
	v.SetDefault("controller.velocity_epsilon", c.VelocityEpsilon)
	v.SetDefault("controller.precision_scale", c.PrecisionScale)
	v.SetDefault("controller.horizon_enabled", c.HorizonEnabled)
	v.SetDefault("controller.horizon_smoothing_rate", c.HorizonSmoothingRate)
	v.SetDefault("controller.up_axis", []float64{c.UpAxis.X, c.UpAxis.Y, c.UpAxis.Z})
	v.SetDefault("controller.min_distance", c.MinDistance)
	v.SetDefault("controller.max_distance", c.MaxDistance)
	v.SetDefault("controller.corruption_ceiling", c.CorruptionCeiling)
	v.SetDefault("controller.guard_action", c.GuardAction.String())
	v.SetDefault("controller.stall_dt_threshold", c.StallDtThreshold)
	v.SetDefault("controller.nominal_dt", c.NominalDt)
	v.SetDefault("controller.delta_smoothing_window", c.DeltaSmoothingWindow)
	v.SetDefault("controller.scroll_dolly", c.Bindings.ScrollDolly)
	v.SetDefault("controller.scroll_step", c.Bindings.ScrollStep)
	priority := make([]string, len(c.Priority))
	for i, k := range c.Priority {
		priority[i] = k.String()
	}
	v.SetDefault("controller.priority", priority)
	v.SetDefault("controller.auto_pilot", c.AutoPilot)
	v.SetDefault("controller.break_on_manual", c.BreakOnManual)
	v.SetDefault("controller.focus_speed", c.FocusSpeed)
	v.SetDefault("controller.focus_distance_scale", c.FocusDistanceScale)
	v.SetDefault("controller.sway_enabled", c.SwayEnabled)
	v.SetDefault("controller.sway_intensity", c.SwayIntensity)

	// -- View --
	v.SetDefault("view.title", "kineticam")
	v.SetDefault("view.width", 1280)
	v.SetDefault("view.height", 720)
	v.SetDefault("view.tick_rate", 60.0)
	v.SetDefault("view.viewports", 1)
	v.SetDefault("view.profiling", false)
	v.SetDefault("view.log_every", 30)

	// -- Soak --
	v.SetDefault("soak.sessions", 8)
	v.SetDefault("soak.ticks", 10000)
	v.SetDefault("soak.seed", 1)
	v.SetDefault("soak.workers", 4)
}

// NewViper returns a viper instance with defaults registered and environment overrides enabled.
//
// Returns:
//   - *viper.Viper: the configured instance
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
//
// Parameters:
//   - v: a viper instance with defaults, file and environment applied
//
// Returns:
//   - *Config: the validated configuration
//   - error: error if the configuration cannot be decoded or is invalid
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values, including the full controller configuration.
//
// Returns:
//   - error: the first problem found, nil when the configuration is usable
func (c *Config) Validate() error {
	if _, err := c.Controller.CameraConfig(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return errors.New("view.width and view.height must be positive")
	}
	if c.View.Viewports < 1 {
		return errors.New("view.viewports must be at least 1")
	}
	if c.Soak.Sessions < 1 {
		return errors.New("soak.sessions must be at least 1")
	}
	if c.Soak.Ticks < 1 {
		return errors.New("soak.ticks must be at least 1")
	}
	if c.Soak.Workers < 1 {
		return errors.New("soak.workers must be at least 1")
	}
	return nil
}

// CameraConfig converts the file representation into a validated camera.Config.
// Gesture chords keep their defaults; only scroll dolly and priority are configurable here.
//
// Returns:
//   - camera.Config: the controller configuration
//   - error: a parse error, or a *camera.ConfigError from validation
func (c ControllerConfig) CameraConfig() (camera.Config, error) {
	action, err := guard.ParseAction(c.GuardAction)
	if err != nil {
		return camera.Config{}, err
	}
	if len(c.UpAxis) != 3 {
		return camera.Config{}, fmt.Errorf("up_axis must have 3 components, got %d", len(c.UpAxis))
	}
	priority := make(gesture.Priority, len(c.Priority))
	for i, name := range c.Priority {
		if priority[i], err = gesture.ParseKind(name); err != nil {
			return camera.Config{}, fmt.Errorf("priority: %w", err)
		}
	}

	bindings := gesture.DefaultBindings()
	bindings.ScrollDolly = c.ScrollDolly
	bindings.ScrollStep = c.ScrollStep

	cfg := camera.Config{
		AngularDamping:       c.AngularDamping,
		PanDamping:           c.PanDamping,
		ZoomDamping:          c.ZoomDamping,
		MaxAngularVelocity:   c.MaxAngularVelocity,
		MaxPanVelocity:       c.MaxPanVelocity,
		MaxZoomVelocity:      c.MaxZoomVelocity,
		OrbitGain:            c.OrbitGain,
		PanGain:              c.PanGain,
		ZoomGain:             c.ZoomGain,
		VelocityEpsilon:      c.VelocityEpsilon,
		PrecisionScale:       c.PrecisionScale,
		HorizonEnabled:       c.HorizonEnabled,
		HorizonSmoothingRate: c.HorizonSmoothingRate,
		UpAxis:               r3.Vec{X: c.UpAxis[0], Y: c.UpAxis[1], Z: c.UpAxis[2]},
		MinDistance:          c.MinDistance,
		MaxDistance:          c.MaxDistance,
		CorruptionCeiling:    c.CorruptionCeiling,
		GuardAction:          action,
		StallDtThreshold:     c.StallDtThreshold,
		NominalDt:            c.NominalDt,
		DeltaSmoothingWindow: c.DeltaSmoothingWindow,
		Bindings:             bindings,
		Priority:             priority,
		AutoPilot:            c.AutoPilot,
		BreakOnManual:        c.BreakOnManual,
		FocusSpeed:           c.FocusSpeed,
		FocusDistanceScale:   c.FocusDistanceScale,
		SwayEnabled:          c.SwayEnabled,
		SwayIntensity:        c.SwayIntensity,
	}
	if err := cfg.Validate(); err != nil {
		return camera.Config{}, err
	}
	return cfg, nil
}
