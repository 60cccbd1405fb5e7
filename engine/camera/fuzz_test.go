package camera

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// FuzzTick drives a controller with arbitrary dt and input and checks the output is always usable.
func FuzzTick(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	f.Add([]byte("\x7f\xf8\x00\x00\x00\x00\x00\x01orbit"))
	f.Fuzz(func(t *testing.T, data []byte) {
		c := fuzz.NewConsumer(data)
		cc := NewCameraController()
		cfg := cc.Config()

		for range 64 {
			dt, err := c.GetFloat64()
			if err != nil {
				return
			}
			dx, _ := c.GetFloat64()
			dy, _ := c.GetFloat64()
			scroll, _ := c.GetFloat64()
			buttons, _ := c.GetByte()
			mods, _ := c.GetByte()
			stop, _ := c.GetBool()
			withHit, _ := c.GetBool()

			in := gesture.RawInput{
				Delta:     r3.Vec{X: dx, Y: dy},
				Scroll:    scroll,
				Buttons:   gesture.Buttons(buttons),
				Modifiers: gesture.Modifiers(mods),
				Stop:      stop,
			}
			if withHit {
				hx, _ := c.GetFloat64()
				hy, _ := c.GetFloat64()
				in.CursorHit = &r3.Vec{X: hx, Y: hy}
			}

			tr := cc.Tick(dt, in)
			if math.Abs(quat.Abs(tr.Orientation)-1) > 1e-9 {
				t.Fatalf("orientation not unit: %v", tr.Orientation)
			}
			if tr.Distance < cfg.MinDistance || tr.Distance > cfg.MaxDistance {
				t.Fatalf("distance %v out of range", tr.Distance)
			}
			for _, v := range []float64{tr.Position.X, tr.Position.Y, tr.Position.Z, tr.Pivot.X, tr.Pivot.Y, tr.Pivot.Z} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite transform %+v", tr)
				}
			}
		}
	})
}
