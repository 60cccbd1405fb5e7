package velocity

import (
	"math"

	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"gonum.org/v1/gonum/spatial/r3"
)

// Model is the kinetic coasting engine. Active intents accelerate the matching channel, and every
// channel decays exponentially with dt on every tick until it snaps to zero.
type Model interface {
	// Integrate applies one tick of input and damping.
	//
	// Parameters:
	//   - intent: the classified gesture for the tick
	//   - dt: elapsed seconds, already sanitized to be positive and finite
	//
	// Returns:
	//   - State: the velocity after the tick
	Integrate(intent gesture.Intent, dt float64) State

	// State returns the current velocity.
	//
	// Returns:
	//   - State: the current velocity
	State() State

	// Stop zeroes every channel.
	Stop()

	// ZeroPan zeroes the pan channel only.
	ZeroPan()

	// ZeroZoom zeroes the zoom channel only.
	ZeroZoom()

	// SetConfig replaces the tuning. The current velocity is re-clamped to the new limits.
	//
	// Parameters:
	//   - cfg: the new configuration, assumed valid
	SetConfig(cfg Config)

	// Config returns the active tuning.
	//
	// Returns:
	//   - Config: the current configuration
	Config() Config
}

type modelImpl struct {
	cfg   Config
	state State
}

var _ Model = &modelImpl{}

// NewModel creates a velocity Model at rest with the default configuration, modified by options.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelOption) Model {
	m := &modelImpl{cfg: DefaultConfig()}
	for _, option := range options {
		option(m)
	}
	m.clamp()
	return m
}

func (m *modelImpl) Integrate(intent gesture.Intent, dt float64) State {
	s := 1.0
	if intent.Flags.Has(gesture.Precision) {
		s = m.cfg.PrecisionScale
	}
	dx, dy := intent.Delta.X, intent.Delta.Y

	switch intent.Kind {
	case gesture.Orbit:
		m.state.Angular.X += -m.cfg.OrbitGain * s * dx
		m.state.Angular.Y += -m.cfg.OrbitGain * s * dy
	case gesture.Pan:
		m.state.Pan.X += -m.cfg.PanGain * s * dx
		m.state.Pan.Y += m.cfg.PanGain * s * dy
	case gesture.Dolly:
		m.state.Zoom += m.cfg.ZoomGain * s * dy
	}
	m.clamp()

	m.state.Angular = decayVec(m.state.Angular, m.cfg.AngularDamping, dt, m.cfg.Epsilon)
	m.state.Pan = decayVec(m.state.Pan, m.cfg.PanDamping, dt, m.cfg.Epsilon)
	m.state.Zoom = decayScalar(m.state.Zoom, m.cfg.ZoomDamping, dt, m.cfg.Epsilon)
	return m.state
}

func (m *modelImpl) State() State {
	return m.state
}

func (m *modelImpl) Stop() {
	m.state = State{}
}

func (m *modelImpl) ZeroPan() {
	m.state.Pan = r3.Vec{}
}

func (m *modelImpl) ZeroZoom() {
	m.state.Zoom = 0
}

func (m *modelImpl) SetConfig(cfg Config) {
	m.cfg = cfg
	m.clamp()
}

func (m *modelImpl) Config() Config {
	return m.cfg
}

func (m *modelImpl) clamp() {
	m.state.Angular = clampVec(m.state.Angular, m.cfg.MaxAngular)
	m.state.Pan = clampVec(r3.Vec{X: m.state.Pan.X, Y: m.state.Pan.Y}, m.cfg.MaxPan)
	m.state.Zoom = math.Max(-m.cfg.MaxZoom, math.Min(m.cfg.MaxZoom, m.state.Zoom))
}

func clampVec(v r3.Vec, limit float64) r3.Vec {
	if n := r3.Norm(v); n > limit {
		return r3.Scale(limit/n, v)
	}
	return v
}

// decayVec applies v·damping^dt and snaps to zero once the magnitude falls below epsilon.
func decayVec(v r3.Vec, damping, dt, epsilon float64) r3.Vec {
	if v == (r3.Vec{}) {
		return v
	}
	v = r3.Scale(math.Pow(damping, dt), v)
	if r3.Norm(v) < epsilon {
		return r3.Vec{}
	}
	return v
}

func decayScalar(v, damping, dt, epsilon float64) float64 {
	if v == 0 {
		return 0
	}
	v *= math.Pow(damping, dt)
	if math.Abs(v) < epsilon {
		return 0
	}
	return v
}
