package window

import (
	"testing"

	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestInputAccumulator_SumsMotionBetweenDrains(t *testing.T) {
	var a inputAccumulator
	a.move(100, 100)
	a.move(110, 95)
	a.move(130, 90)
	a.wheel(1)
	a.wheel(0.5)

	in := a.drain()
	assert.Equal(t, r3.Vec{X: 30, Y: -10}, in.Delta)
	assert.Equal(t, 1.5, in.Scroll)

	in = a.drain()
	assert.Equal(t, r3.Vec{}, in.Delta)
	assert.Zero(t, in.Scroll)
}

func TestInputAccumulator_LeaveDropsReference(t *testing.T) {
	var a inputAccumulator
	a.move(10, 10)
	a.leave()
	a.move(500, 400)
	a.move(505, 400)
	assert.Equal(t, r3.Vec{X: 5}, a.drain().Delta)
}

func TestInputAccumulator_ButtonsAndModifiersCarryOver(t *testing.T) {
	var a inputAccumulator
	a.button(common.MouseButtonMiddle, true)
	a.button(common.MouseButtonRight, true)
	a.button(7, true)
	a.setModifiers(gesture.ModShift | gesture.ModAlt)

	in := a.drain()
	assert.Equal(t, gesture.ButtonMiddle|gesture.ButtonRight, in.Buttons)
	assert.Equal(t, gesture.ModShift|gesture.ModAlt, in.Modifiers)

	a.button(common.MouseButtonRight, false)
	in = a.drain()
	assert.Equal(t, gesture.ButtonMiddle, in.Buttons)
	assert.Equal(t, gesture.ModShift|gesture.ModAlt, in.Modifiers)
}

func TestInputAccumulator_StopIsOneShot(t *testing.T) {
	var a inputAccumulator
	a.stop()
	assert.True(t, a.drain().Stop)
	assert.False(t, a.drain().Stop)
}

func TestEngineWindow_StopKeyIsConsumed(t *testing.T) {
	w := newEngineWindow(WithStopKey(common.KeyH))
	var pressed []uint32
	w.SetKeyDownCallback(func(keyCode uint32) { pressed = append(pressed, keyCode) })

	w.keyDown(common.KeyH)
	w.keyDown(common.KeyF)
	w.keyUp(common.KeyH)

	assert.Equal(t, []uint32{common.KeyF}, pressed)
	assert.True(t, w.DrainInput().Stop)
}

func TestEngineWindow_Resize(t *testing.T) {
	w := newEngineWindow(WithWidth(640), WithHeight(480))
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())

	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.resize(800, 600)
	assert.Equal(t, [2]int{800, 600}, got)
	assert.Equal(t, 800, w.Width())
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
}

func TestInputAccumulator_Position(t *testing.T) {
	var a inputAccumulator
	_, _, ok := a.position()
	assert.False(t, ok)

	a.move(120, 45)
	x, y, ok := a.position()
	assert.True(t, ok)
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 45.0, y)

	a.drain()
	_, _, ok = a.position()
	assert.True(t, ok, "a drain keeps the cursor")

	a.leave()
	_, _, ok = a.position()
	assert.False(t, ok)
}
