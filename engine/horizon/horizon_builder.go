package horizon

// ConstraintOption is a functional option for configuring a Constraint.
type ConstraintOption func(*constraintImpl)

// WithConfig sets the whole horizon configuration.
//
// Parameters:
//   - cfg: the configuration to use
//
// Returns:
//   - ConstraintOption: functional option to set the configuration
func WithConfig(cfg Config) ConstraintOption {
	return func(c *constraintImpl) {
		c.cfg = cfg
	}
}

// WithEnabled turns leveling on or off.
//
// Parameters:
//   - enabled: true to level the horizon
//
// Returns:
//   - ConstraintOption: functional option to set the enabled flag
func WithEnabled(enabled bool) ConstraintOption {
	return func(c *constraintImpl) {
		c.cfg.Enabled = enabled
	}
}
