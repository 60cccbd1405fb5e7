package viewport

import "github.com/Carmen-Shannon/kineticam/engine/camera"

// ViewportBuilderOption is a functional option for configuring a Viewport.
// Use the With* functions to create options.
type ViewportBuilderOption func(v *viewport)

// WithActive sets whether the viewport is ticked by the host loop.
//
// Parameters:
//   - active: whether the viewport is active
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithActive(active bool) ViewportBuilderOption {
	return func(v *viewport) {
		v.active = active
	}
}

// WithCamera supplies the camera instead of a default perspective camera.
//
// Parameters:
//   - cam: the camera; the viewport's controller is attached to it
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithCamera(cam camera.Camera) ViewportBuilderOption {
	return func(v *viewport) {
		v.cam = cam
	}
}

// WithOutputCallback registers the output callback at construction.
//
// Parameters:
//   - callback: function receiving the viewport name and each tick's Transform
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithOutputCallback(callback func(name string, t camera.Transform)) ViewportBuilderOption {
	return func(v *viewport) {
		v.onOutput = callback
	}
}
