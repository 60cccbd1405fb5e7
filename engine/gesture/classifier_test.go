package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name  string
		in    RawInput
		kind  Kind
		delta r3.Vec
		flags Flags
	}{
		{
			name:  "middle drag orbits",
			in:    RawInput{Delta: r3.Vec{X: 4, Y: -2}, Buttons: ButtonMiddle},
			kind:  Orbit,
			delta: r3.Vec{X: 4, Y: -2},
		},
		{
			name:  "shift middle drag pans",
			in:    RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonMiddle, Modifiers: ModShift},
			kind:  Pan,
			delta: r3.Vec{X: 1},
		},
		{
			name:  "right drag pans",
			in:    RawInput{Delta: r3.Vec{Y: 3}, Buttons: ButtonRight},
			kind:  Pan,
			delta: r3.Vec{Y: 3},
		},
		{
			name:  "ctrl middle drag dollies with inverted y",
			in:    RawInput{Delta: r3.Vec{X: 9, Y: 5}, Buttons: ButtonMiddle, Modifiers: ModCtrl},
			kind:  Dolly,
			delta: r3.Vec{Y: -5},
		},
		{
			name:  "scroll dollies",
			in:    RawInput{Scroll: 2},
			kind:  Dolly,
			delta: r3.Vec{Y: 20},
		},
		{
			name: "zero delta is idle",
			in:   RawInput{Buttons: ButtonMiddle},
			kind: Idle,
		},
		{
			name: "motion without buttons is idle",
			in:   RawInput{Delta: r3.Vec{X: 10}},
			kind: Idle,
		},
		{
			name:  "precision modifier does not change the chord",
			in:    RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonMiddle, Modifiers: ModAlt},
			kind:  Orbit,
			delta: r3.Vec{X: 1},
			flags: Precision,
		},
		{
			name:  "free look modifier sets horizon off",
			in:    RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonMiddle, Modifiers: ModSuper | ModShift},
			kind:  Pan,
			delta: r3.Vec{X: 1},
			flags: HorizonOff,
		},
		{
			name: "unbound modifier blocks the chord",
			in:   RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonMiddle, Modifiers: ModCtrl | ModShift},
			kind: Idle,
		},
		{
			name:  "z component is dropped",
			in:    RawInput{Delta: r3.Vec{X: 1, Z: 7}, Buttons: ButtonMiddle},
			kind:  Orbit,
			delta: r3.Vec{X: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier()
			intent, _ := c.Classify(tt.in)
			assert.Equal(t, tt.kind, intent.Kind)
			assert.Equal(t, tt.delta, intent.Delta)
			assert.Equal(t, tt.flags, intent.Flags)
		})
	}
}

func TestClassifier_TieBreak(t *testing.T) {
	// Middle and right held together qualify for both orbit and pan; scroll adds dolly.
	both := RawInput{Delta: r3.Vec{X: 3, Y: 1}, Buttons: ButtonMiddle | ButtonRight}
	all := both
	all.Scroll = 1

	c := NewClassifier()
	intent, _ := c.Classify(both)
	assert.Equal(t, Orbit, intent.Kind)

	intent, _ = c.Classify(all)
	assert.Equal(t, Dolly, intent.Kind)
	assert.Equal(t, r3.Vec{Y: 10}, intent.Delta)

	c = NewClassifier(WithPriority(Priority{Pan, Orbit, Dolly}))
	intent, _ = c.Classify(all)
	assert.Equal(t, Pan, intent.Kind)
}

func TestClassifier_Edges(t *testing.T) {
	orbit := RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonMiddle}
	pan := RawInput{Delta: r3.Vec{X: 1}, Buttons: ButtonRight}
	idle := RawInput{}

	c := NewClassifier()
	steps := []struct {
		in   RawInput
		edge Edge
	}{
		{idle, EdgeNone},
		{orbit, EdgeRising},
		{orbit, EdgeContinue},
		{pan, EdgeRising},
		{idle, EdgeFalling},
		{idle, EdgeNone},
	}
	for i, s := range steps {
		_, edge := c.Classify(s.in)
		assert.Equal(t, s.edge, edge, "step %d", i)
	}

	c.Classify(orbit)
	c.Interrupt()
	_, edge := c.Classify(orbit)
	assert.Equal(t, EdgeRising, edge)
}

func TestClassifier_SetBindings(t *testing.T) {
	c := NewClassifier()

	err := c.SetBindings(Bindings{Orbit: []Binding{{}}}, DefaultPriority())
	require.Error(t, err)
	assert.Equal(t, DefaultBindings(), c.Bindings())

	err = c.SetBindings(DefaultBindings(), Priority{Orbit, Orbit, Pan})
	require.Error(t, err)

	custom := Bindings{Orbit: []Binding{{Buttons: ButtonLeft}}}
	require.NoError(t, c.SetBindings(custom, Priority{Pan, Dolly, Orbit}))
	assert.Equal(t, Priority{Pan, Dolly, Orbit}, c.Priority())

	intent, _ := c.Classify(RawInput{Delta: r3.Vec{Y: 2}, Buttons: ButtonLeft})
	assert.Equal(t, Orbit, intent.Kind)

	intent, _ = c.Classify(RawInput{Scroll: 1})
	assert.Equal(t, Idle, intent.Kind, "scroll dolly disabled by custom bindings")
}

func TestNewClassifier_InvalidOptionsFallBack(t *testing.T) {
	c := NewClassifier(WithPriority(Priority{Dolly}), WithBindings(Bindings{ScrollDolly: true}))
	assert.Equal(t, DefaultPriority(), c.Priority())
	assert.Equal(t, DefaultBindings(), c.Bindings())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Orbit, Pan, Dolly} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("idle")
	assert.Error(t, err)
}
