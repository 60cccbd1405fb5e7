package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/kineticam/common"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye         r3.Vec
	orientation quat.Number

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix              [16]float32
	projectionMatrix        [16]float32
	viewProjectionMatrix    [16]float32
	inverseProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from the last Transform of an attached CameraController each frame via Update().
type Camera interface {
	// Eye returns the eye position used for the current view matrix.
	//
	// Returns:
	//   - r3.Vec: the world-space eye position
	Eye() r3.Vec

	// Fov returns the field of view in radians. A nonzero Fov in the controller's
	// Transform takes precedence over the camera's own setting.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseProjectionMatrix returns the inverse of the current projection matrix
	// as 16 floats (column-major). CursorRay unprojects through it.
	//
	// Returns:
	//   - [16]float32: the inverse projection matrix
	InverseProjectionMatrix() [16]float32

	// CursorRay unprojects a window pixel into a world-space ray starting at the eye.
	// Pixel (0, 0) is the top-left corner of the framebuffer.
	//
	// Parameters:
	//   - x, y: cursor position in pixels
	//   - width, height: framebuffer size in pixels
	//
	// Returns:
	//   - r3.Vec: the ray origin (the eye)
	//   - r3.Vec: the unit ray direction
	//   - bool: false if the size is empty or the projection cannot be inverted
	CursorRay(x, y float64, width, height int) (r3.Vec, r3.Vec, bool)

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads the controller's last Transform and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	// If no controller is attached, this method does nothing.
	Update()

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings.
// A controller must be attached via SetController or WithController option
// before the view matrix follows the controller.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		orientation:          quat.Number{Real: 1},
		fov:                  45.0 * (math.Pi / 180.0), // radians
		aspect:               1.0,
		near:                 0.1,
		far:                  1000.0,
		viewMatrix:           [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix:     [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		viewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Eye() r3.Vec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveFov()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) CursorRay(x, y float64, width, height int) (r3.Vec, r3.Vec, bool) {
	if width <= 0 || height <= 0 {
		return r3.Vec{}, r3.Vec{}, false
	}
	c.mu.Lock()
	eye, q, inv := c.eye, c.orientation, c.inverseProjectionMatrix
	c.mu.Unlock()

	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)
	var v [4]float64
	for i := range v {
		v[i] = float64(inv[i])*ndcX + float64(inv[4+i])*ndcY + float64(inv[12+i])
	}
	if v[3] == 0 {
		return r3.Vec{}, r3.Vec{}, false
	}

	// View space looks down -Z with +X right and +Y up.
	dir := r3.Add(
		r3.Add(r3.Scale(v[0]/v[3], common.Right(q)), r3.Scale(v[1]/v[3], common.Up(q))),
		r3.Scale(-v[2]/v[3], common.Forward(q)),
	)
	unit, ok := common.UnitVec(dir)
	if !ok {
		return r3.Vec{}, r3.Vec{}, false
	}
	return eye, unit, true
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// effectiveFov returns the controller's field of view when it carries one, else the camera's own.
// Caller must hold the mutex.
func (c *cameraImpl) effectiveFov() float32 {
	if c.controller == nil {
		return c.fov
	}
	return common.Coalesce(float32(c.controller.Transform().Fov), c.fov)
}

// updateMatrices recalculates the view, projection, view-projection, and inverse projection matrices.
// The view matrix comes from the controller's last Transform; without a controller it stays at
// the identity. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		t := c.controller.Transform()
		c.eye = t.Position
		c.orientation = t.Orientation
		common.ViewMatrix(c.viewMatrix[:], t.Position, t.Orientation)
	}

	common.Perspective(c.projectionMatrix[:],
		c.effectiveFov(), c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
}
