package guard

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGuard_Scalar(t *testing.T) {
	g := NewGuard(WithCeiling(100))

	tests := []struct {
		name     string
		in       float64
		fallback float64
		want     float64
		reason   Reason
	}{
		{"finite passes", 3.5, 0, 3.5, ReasonNone},
		{"negative within ceiling", -100, 0, -100, ReasonNone},
		{"nan uses fallback", math.NaN(), 7, 7, ReasonNaN},
		{"inf uses fallback", math.Inf(1), 7, 7, ReasonInf},
		{"above ceiling", 101, 2, 2, ReasonCeiling},
		{"corrupt fallback becomes zero", math.NaN(), math.Inf(-1), 0, ReasonNaN},
		{"fallback above ceiling becomes zero", math.Inf(1), 1e9, 0, ReasonInf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rep := g.Scalar(tt.in, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.reason, rep.Reason)
			assert.Equal(t, tt.reason != ReasonNone, rep.Corrupt())
		})
	}
}

func TestGuard_Vec(t *testing.T) {
	g := NewGuard(WithCeiling(10))
	last := r3.Vec{X: 1, Y: 2, Z: 3}

	got, rep := g.Vec(r3.Vec{X: math.NaN(), Y: 5}, last)
	assert.Equal(t, last, got)
	assert.Equal(t, ReasonNaN, rep.Reason)

	got, rep = g.Vec(r3.Vec{X: 8, Y: 8}, last)
	assert.Equal(t, last, got)
	assert.Equal(t, ReasonCeiling, rep.Reason)

	got, rep = g.Vec(r3.Vec{X: 1e308, Y: 1e308}, r3.Vec{})
	assert.Equal(t, r3.Vec{}, got)
	assert.True(t, rep.Corrupt())

	got, rep = g.Vec(r3.Vec{X: 3, Y: 4}, last)
	assert.Equal(t, r3.Vec{X: 3, Y: 4}, got)
	assert.False(t, rep.Corrupt())
}

func TestGuard_Quat(t *testing.T) {
	g := NewGuard()

	t.Run("renormalizes finite input", func(t *testing.T) {
		got, rep := g.Quat(quat.Number{Real: 2}, common.QuatIdentity)
		assert.False(t, rep.Corrupt())
		assert.InDelta(t, 1, quat.Abs(got), 1e-12)
	})

	t.Run("near zero becomes identity", func(t *testing.T) {
		got, rep := g.Quat(quat.Number{Imag: 1e-20}, common.AxisAngle(r3.Vec{Z: 1}, 1))
		assert.Equal(t, ReasonDegenerate, rep.Reason)
		assert.Equal(t, common.QuatIdentity, got)
	})

	t.Run("nan uses fallback", func(t *testing.T) {
		fallback := common.AxisAngle(r3.Vec{Z: 1}, 0.5)
		got, rep := g.Quat(quat.Number{Real: math.NaN()}, fallback)
		assert.Equal(t, ReasonNaN, rep.Reason)
		assert.Equal(t, fallback, got)
	})

	t.Run("corrupt fallback becomes identity", func(t *testing.T) {
		got, rep := g.Quat(quat.Number{Kmag: math.Inf(1)}, quat.Number{Real: math.NaN()})
		assert.Equal(t, ReasonInf, rep.Reason)
		assert.Equal(t, common.QuatIdentity, got)
	})
}

func TestGuard_Idempotent(t *testing.T) {
	g := NewGuard(WithCeiling(50))

	scalars := []float64{0, -3, 49.9, 51, math.NaN(), math.Inf(-1)}
	for _, s := range scalars {
		once, _ := g.Scalar(s, 1)
		twice, rep := g.Scalar(once, 1)
		assert.Equal(t, once, twice)
		assert.False(t, rep.Corrupt())
	}

	vecs := []r3.Vec{{X: 1}, {X: math.NaN()}, {Y: 1e9}, {Z: math.Inf(1)}}
	for _, v := range vecs {
		once, _ := g.Vec(v, r3.Vec{X: 2})
		twice, rep := g.Vec(once, r3.Vec{X: 2})
		assert.Equal(t, once, twice)
		assert.False(t, rep.Corrupt())
	}

	quats := []quat.Number{
		{Real: 3, Imag: 1},
		{Real: 0.1, Jmag: -0.7, Kmag: 0.2},
		{Real: math.NaN()},
		{},
		common.AxisAngle(r3.Vec{X: 1, Y: 1}, 2.2),
	}
	for _, q := range quats {
		once, _ := g.Quat(q, common.QuatIdentity)
		twice, rep := g.Quat(once, common.QuatIdentity)
		require.Equal(t, once, twice)
		assert.False(t, rep.Corrupt())
	}
}

func TestGuard_Options(t *testing.T) {
	g := NewGuard(WithAction(ActionDiscard), WithCeiling(-5))
	assert.Equal(t, ActionDiscard, g.Policy().Action)
	assert.Equal(t, DefaultPolicy().Ceiling, g.Policy().Ceiling)

	g = NewGuard(WithPolicy(Policy{Ceiling: math.Inf(1), Action: ActionZeroVelocity}))
	assert.Equal(t, DefaultPolicy().Ceiling, g.Policy().Ceiling)
	assert.Equal(t, ActionZeroVelocity, g.Policy().Action)
}

func TestParseAction(t *testing.T) {
	for _, a := range []Action{ActionRevert, ActionDiscard, ActionZeroVelocity} {
		got, err := ParseAction(" " + a.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("explode")
	assert.Error(t, err)
}

func TestReport_Merge(t *testing.T) {
	clean := Report{}
	nan := Report{Reason: ReasonNaN}
	inf := Report{Reason: ReasonInf}
	assert.Equal(t, nan, clean.Merge(nan))
	assert.Equal(t, nan, nan.Merge(inf))
	assert.Equal(t, clean, clean.Merge(clean))
}
