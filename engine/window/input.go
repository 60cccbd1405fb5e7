package window

import (
	"github.com/Carmen-Shannon/kineticam/common"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"gonum.org/v1/gonum/spatial/r3"
)

// inputAccumulator sums pointer events between drains. Platform callbacks and the drain both
// run on the window's message loop goroutine.
type inputAccumulator struct {
	cursor    r3.Vec
	hasCursor bool

	delta     r3.Vec
	scroll    float64
	buttons   gesture.Buttons
	modifiers gesture.Modifiers
	stopped   bool
}

// move records an absolute cursor position in window pixels. The first position after a
// cursor enter only seeds the reference point.
func (a *inputAccumulator) move(x, y float64) {
	p := r3.Vec{X: x, Y: y}
	if a.hasCursor {
		a.delta = r3.Add(a.delta, r3.Sub(p, a.cursor))
	}
	a.cursor = p
	a.hasCursor = true
}

// leave forgets the cursor so re-entering the window does not produce a jump.
func (a *inputAccumulator) leave() {
	a.hasCursor = false
}

// position reports the last cursor position while the cursor is inside the window.
func (a *inputAccumulator) position() (float64, float64, bool) {
	return a.cursor.X, a.cursor.Y, a.hasCursor
}

func (a *inputAccumulator) button(index int, pressed bool) {
	var b gesture.Buttons
	switch index {
	case common.MouseButtonLeft:
		b = gesture.ButtonLeft
	case common.MouseButtonRight:
		b = gesture.ButtonRight
	case common.MouseButtonMiddle:
		b = gesture.ButtonMiddle
	default:
		return
	}
	if pressed {
		a.buttons |= b
	} else {
		a.buttons &^= b
	}
}

func (a *inputAccumulator) setModifiers(m gesture.Modifiers) {
	a.modifiers = m
}

// wheel adds a scroll step; positive is away from the user.
func (a *inputAccumulator) wheel(dy float64) {
	a.scroll += dy
}

func (a *inputAccumulator) stop() {
	a.stopped = true
}

func (a *inputAccumulator) drain() gesture.RawInput {
	in := gesture.RawInput{
		Delta:     a.delta,
		Scroll:    a.scroll,
		Buttons:   a.buttons,
		Modifiers: a.modifiers,
		Stop:      a.stopped,
	}
	a.delta = r3.Vec{}
	a.scroll = 0
	a.stopped = false
	return in
}
