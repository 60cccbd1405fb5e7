package viewport

import (
	"sync"

	"github.com/Carmen-Shannon/kineticam/engine/camera"
	"github.com/Carmen-Shannon/kineticam/engine/gesture"
	"github.com/Carmen-Shannon/kineticam/engine/pivot"
	"gonum.org/v1/gonum/spatial/r3"
)

// Viewport pairs a CameraController with the Camera that renders its output, plus an optional
// output callback receiving every Transform the controller emits.
// Inactive viewports are skipped by the host loop entirely and do not coast.
// Thread-safe for concurrent access; ticks themselves must come from a single goroutine.
type Viewport interface {
	// Name returns the viewport's identifier.
	Name() string

	// SetName sets the viewport's identifier.
	SetName(name string)

	// Active returns whether the host loop ticks this viewport.
	Active() bool

	// SetActive sets whether the host loop ticks this viewport.
	SetActive(active bool)

	// Controller returns the viewport's camera controller.
	Controller() camera.CameraController

	// Camera returns the viewport's camera.
	Camera() camera.Camera

	// SetCamera replaces the viewport's camera and attaches the controller to it.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// SetOutputCallback registers the function receiving each tick's Transform.
	//
	// Parameters:
	//   - callback: function to call after every tick (or nil to disable)
	SetOutputCallback(callback func(name string, t camera.Transform))

	// Tick advances the controller by dt with the given input, refreshes the camera matrices and
	// hands the Transform to the output callback.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	//   - input: the pointer input for this tick
	//
	// Returns:
	//   - camera.Transform: the controller's output
	Tick(dt float64, input gesture.RawInput) camera.Transform

	// Resize updates the camera's aspect ratio for a new framebuffer size.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels; zero sizes are ignored
	Resize(width, height int)

	// Pick casts the cursor into the scene and returns where it meets the ground plane: the plane
	// through the world origin perpendicular to the controller's up axis.
	//
	// Parameters:
	//   - x, y: cursor position in framebuffer pixels, origin at the top-left
	//
	// Returns:
	//   - r3.Vec: the world-space hit point
	//   - bool: false before the first Resize, or when the cursor ray misses the plane
	Pick(x, y float64) (r3.Vec, bool)
}

type viewport struct {
	mu *sync.RWMutex

	name   string
	active bool

	ctrl camera.CameraController
	cam  camera.Camera

	width, height int

	onOutput func(name string, t camera.Transform)
}

// Ensure viewport implements Viewport interface.
var _ Viewport = &viewport{}

// NewViewport creates an active Viewport around the given controller. A camera following the
// controller is created unless one is supplied with WithCamera. Panics if ctrl is nil.
//
// Parameters:
//   - name: the name of the viewport
//   - ctrl: the camera controller to drive (must not be nil)
//   - options: functional options to further configure the viewport
//
// Returns:
//   - Viewport: the newly created viewport
func NewViewport(name string, ctrl camera.CameraController, options ...ViewportBuilderOption) Viewport {
	if ctrl == nil {
		panic("viewport: NewViewport requires a non-nil CameraController")
	}

	v := &viewport{
		mu:     &sync.RWMutex{},
		name:   name,
		active: true,
		ctrl:   ctrl,
	}
	for _, option := range options {
		option(v)
	}

	if v.cam == nil {
		v.cam = camera.NewCamera()
	}
	v.cam.SetController(ctrl)
	return v
}

func (v *viewport) Name() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.name
}

func (v *viewport) SetName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.name = name
}

func (v *viewport) Active() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

func (v *viewport) SetActive(active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = active
}

func (v *viewport) Controller() camera.CameraController {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ctrl
}

func (v *viewport) Camera() camera.Camera {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cam
}

func (v *viewport) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	cam.SetController(v.ctrl)
	v.cam = cam
}

func (v *viewport) SetOutputCallback(callback func(name string, t camera.Transform)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onOutput = callback
}

func (v *viewport) Tick(dt float64, input gesture.RawInput) camera.Transform {
	v.mu.RLock()
	ctrl, cam, name, onOutput := v.ctrl, v.cam, v.name, v.onOutput
	v.mu.RUnlock()

	t := ctrl.Tick(dt, input)
	cam.Update()
	if onOutput != nil {
		onOutput(name, t)
	}
	return t
}

func (v *viewport) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.mu.Lock()
	v.width, v.height = width, height
	cam := v.cam
	v.mu.Unlock()
	cam.SetAspect(float32(width) / float32(height))
}

func (v *viewport) Pick(x, y float64) (r3.Vec, bool) {
	v.mu.RLock()
	ctrl, cam, width, height := v.ctrl, v.cam, v.width, v.height
	v.mu.RUnlock()

	origin, dir, ok := cam.CursorRay(x, y, width, height)
	if !ok {
		return r3.Vec{}, false
	}
	return pivot.IntersectPlane(origin, dir, r3.Vec{}, ctrl.Config().UpAxis)
}
