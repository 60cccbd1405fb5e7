package velocity

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const nominalDt = 1.0 / 60

func orbit(dx, dy float64) gesture.Intent {
	return gesture.Intent{Kind: gesture.Orbit, Delta: r3.Vec{X: dx, Y: dy}}
}

func TestModel_IntegrateAppliesGainThenDecay(t *testing.T) {
	m := NewModel()
	got := m.Integrate(orbit(100, 0), nominalDt)

	want := -1.0 * math.Pow(0.01, nominalDt)
	assert.InDelta(t, want, got.Angular.X, 1e-12)
	assert.Zero(t, got.Angular.Y)
	assert.True(t, got.Pan == r3.Vec{})
	assert.Zero(t, got.Zoom)
}

func TestModel_Channels(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name   string
		intent gesture.Intent
		check  func(t *testing.T, s State)
	}{
		{
			name:   "pan moves against drag on x and with drag on y",
			intent: gesture.Intent{Kind: gesture.Pan, Delta: r3.Vec{X: 100, Y: 100}},
			check: func(t *testing.T, s State) {
				assert.Less(t, s.Pan.X, 0.0)
				assert.Greater(t, s.Pan.Y, 0.0)
				assert.Zero(t, s.Pan.Z)
				assert.True(t, s.Angular == r3.Vec{})
			},
		},
		{
			name:   "dolly drives zoom",
			intent: gesture.Intent{Kind: gesture.Dolly, Delta: r3.Vec{Y: 20}},
			check: func(t *testing.T, s State) {
				assert.InDelta(t, cfg.ZoomGain*20*math.Pow(cfg.ZoomDamping, nominalDt), s.Zoom, 1e-12)
			},
		},
		{
			name:   "precision scales the gain",
			intent: gesture.Intent{Kind: gesture.Orbit, Delta: r3.Vec{Y: 100}, Flags: gesture.Precision},
			check: func(t *testing.T, s State) {
				assert.InDelta(t, -cfg.OrbitGain*cfg.PrecisionScale*100*math.Pow(cfg.AngularDamping, nominalDt), s.Angular.Y, 1e-12)
			},
		},
		{
			name:   "idle adds nothing",
			intent: gesture.Intent{},
			check: func(t *testing.T, s State) {
				assert.True(t, s.AtRest())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(WithConfig(cfg))
			tt.check(t, m.Integrate(tt.intent, nominalDt))
		})
	}
}

func TestModel_ClampsMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	m := NewModel(WithConfig(cfg))

	for range 50 {
		m.Integrate(orbit(1e5, 1e5), nominalDt)
		m.Integrate(gesture.Intent{Kind: gesture.Pan, Delta: r3.Vec{X: 1e6}}, nominalDt)
		m.Integrate(gesture.Intent{Kind: gesture.Dolly, Delta: r3.Vec{Y: -1e6}}, nominalDt)
	}
	s := m.State()
	assert.LessOrEqual(t, r3.Norm(s.Angular), cfg.MaxAngular)
	assert.LessOrEqual(t, r3.Norm(s.Pan), cfg.MaxPan)
	assert.LessOrEqual(t, math.Abs(s.Zoom), cfg.MaxZoom)
}

func TestModel_FrameRateIndependentDecay(t *testing.T) {
	seed := State{Angular: r3.Vec{X: 2}}
	coarse := NewModel(WithState(seed))
	fine := NewModel(WithState(seed))

	coarse.Integrate(gesture.Intent{}, 0.1)
	for range 10 {
		fine.Integrate(gesture.Intent{}, 0.01)
	}
	assert.InDelta(t, coarse.State().Angular.X, fine.State().Angular.X, 1e-12)
}

func TestModel_DampingConvergence(t *testing.T) {
	cfg := DefaultConfig()
	dts := []float64{nominalDt, 1.0 / 144, 1.0 / 24}
	for _, dt := range dts {
		m := NewModel(WithConfig(cfg))
		for range 5 {
			m.Integrate(orbit(40, -25), dt)
		}
		v0 := r3.Norm(m.State().Angular)
		require.Greater(t, v0, cfg.Epsilon)

		bound := TicksToRest(v0, cfg.AngularDamping, cfg.Epsilon, dt)
		prev := v0
		ticks := 0
		for !m.State().AtRest() {
			m.Integrate(gesture.Intent{}, dt)
			ticks++
			cur := r3.Norm(m.State().Angular)
			require.Less(t, cur, prev, "velocity must decrease monotonically")
			prev = cur
			require.LessOrEqual(t, ticks, bound, "dt=%v", dt)
		}
		assert.Equal(t, State{}, m.State())
	}
}

func TestModel_ZeroInputDoesNotResetVelocity(t *testing.T) {
	m := NewModel()
	m.Integrate(orbit(100, 0), nominalDt)
	before := m.State().Angular.X
	after := m.Integrate(gesture.Intent{}, nominalDt).Angular.X
	assert.NotZero(t, after)
	assert.Less(t, math.Abs(after), math.Abs(before))
}

func TestModel_StopAndPartialZeroing(t *testing.T) {
	m := NewModel(WithState(State{Angular: r3.Vec{X: 1}, Pan: r3.Vec{X: 1}, Zoom: 1}))

	m.ZeroPan()
	assert.True(t, m.State().Pan == r3.Vec{})
	assert.NotZero(t, m.State().Zoom)

	m.ZeroZoom()
	assert.Zero(t, m.State().Zoom)
	assert.NotZero(t, m.State().Angular.X)

	m.Stop()
	assert.True(t, m.State().AtRest())
}

func TestModel_SetConfigReclamps(t *testing.T) {
	m := NewModel(WithState(State{Angular: r3.Vec{X: 10}}))
	cfg := DefaultConfig()
	cfg.MaxAngular = 1
	m.SetConfig(cfg)
	assert.InDelta(t, 1, m.State().Angular.X, 1e-12)
	assert.Equal(t, cfg, m.Config())
}

func TestTicksToRest(t *testing.T) {
	assert.Equal(t, 1, TicksToRest(1e-4, 0.5, 1e-3, nominalDt))
	// 2 rad/s at 0.01/s damping needs about 99.03 nominal ticks to fall below 1e-3.
	assert.Equal(t, 101, TicksToRest(2, 0.01, 1e-3, nominalDt))
}
