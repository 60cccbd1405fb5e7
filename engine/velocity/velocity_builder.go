package velocity

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*modelImpl)

// WithConfig sets the whole tuning.
//
// Parameters:
//   - cfg: the velocity configuration
//
// Returns:
//   - ModelOption: functional option to set the configuration
func WithConfig(cfg Config) ModelOption {
	return func(m *modelImpl) {
		m.cfg = cfg
	}
}

// WithState seeds the model with an initial velocity, e.g. when restoring a coasting camera.
//
// Parameters:
//   - state: the starting velocity
//
// Returns:
//   - ModelOption: functional option to set the state
func WithState(state State) ModelOption {
	return func(m *modelImpl) {
		m.state = state
	}
}
