package engine

import (
	"time"

	"github.com/Carmen-Shannon/kineticam/engine/viewport"
	"github.com/Carmen-Shannon/kineticam/engine/window"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables periodic stats output.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the host tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(tps float64) EngineBuilderOption {
	return func(e *engine) {
		if tps <= 0 {
			tps = 60.0
		}
		e.tickRate = time.Duration(float64(time.Second) / tps)
	}
}

// WithWindow sets the window whose message loop drives the engine and whose input feeds the
// focused viewport. Without a window the engine is headless and only Step advances it.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithViewport registers a viewport at the given key during engine construction.
//
// Parameters:
//   - key: the ordering key
//   - v: the Viewport to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewport(key int, v viewport.Viewport) EngineBuilderOption {
	return func(e *engine) {
		if len(e.viewports) == 0 {
			e.focused = key
		}
		e.viewports[key] = v
	}
}

// WithLogger sets the logger used for host loop and profiler output.
//
// Parameters:
//   - logger: the zap logger; nil keeps the no-op logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the wall clock used to compute tick dt.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}
