package viewport

import (
	"testing"

	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewViewport_PanicsWithoutController(t *testing.T) {
	assert.Panics(t, func() { NewViewport("main", nil) })
}

func TestViewport_TickUpdatesCameraAndOutput(t *testing.T) {
	ctrl := camera.NewCameraController()
	var got []camera.Transform
	v := NewViewport("main", ctrl, WithOutputCallback(func(name string, tr camera.Transform) {
		assert.Equal(t, "main", name)
		got = append(got, tr)
	}))
	require.True(t, v.Active())
	require.Same(t, ctrl, v.Controller())
	require.Same(t, ctrl, v.Camera().Controller())

	tr := v.Tick(1.0/60, gesture.RawInput{Delta: r3.Vec{X: 40}, Buttons: gesture.ButtonMiddle})
	require.Len(t, got, 1)
	assert.Equal(t, tr, got[0])
	assert.Equal(t, tr.Position, v.Camera().Eye())
}

func TestViewport_SetCameraAttachesController(t *testing.T) {
	ctrl := camera.NewCameraController()
	v := NewViewport("main", ctrl, WithActive(false))
	assert.False(t, v.Active())

	cam := camera.NewCamera(camera.WithFov(1))
	v.SetCamera(cam)
	assert.Same(t, cam, v.Camera())
	assert.Same(t, ctrl, cam.Controller())

	v.SetCamera(nil)
	assert.Same(t, cam, v.Camera())
}

func TestViewport_Resize(t *testing.T) {
	v := NewViewport("main", camera.NewCameraController())
	v.Resize(1600, 800)
	assert.Equal(t, float32(2), v.Camera().Aspect())

	v.Resize(0, 800)
	assert.Equal(t, float32(2), v.Camera().Aspect())
}

func TestViewport_PickHitsPivotAtCentre(t *testing.T) {
	ctrl := camera.NewCameraController(camera.WithYawPitch(-0.8, 0.5), camera.WithPivot(r3.Vec{X: 2, Y: -1}))
	v := NewViewport("main", ctrl)
	_, ok := v.Pick(400, 200)
	assert.False(t, ok, "no framebuffer size yet")

	v.Resize(800, 400)
	hit, ok := v.Pick(400, 200)
	require.True(t, ok)
	assert.InDelta(t, 0, r3.Norm(r3.Sub(r3.Vec{X: 2, Y: -1}, hit)), 1e-3)

	// The default view looks along the ground plane from inside it.
	flat := NewViewport("flat", camera.NewCameraController())
	flat.Resize(800, 400)
	_, ok = flat.Pick(400, 100)
	assert.False(t, ok)
}
