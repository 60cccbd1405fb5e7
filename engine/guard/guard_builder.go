package guard

// GuardOption is a functional option for configuring a Guard.
type GuardOption func(*guardImpl)

// WithPolicy replaces the whole policy.
//
// Parameters:
//   - policy: the thresholds and recovery action to use
//
// Returns:
//   - GuardOption: functional option to set the policy
func WithPolicy(policy Policy) GuardOption {
	return func(g *guardImpl) {
		g.policy = policy
	}
}

// WithCeiling sets the magnitude above which scalars and vectors are treated as corrupt.
// Non-positive values are ignored.
//
// Parameters:
//   - ceiling: the hard magnitude limit
//
// Returns:
//   - GuardOption: functional option to set the ceiling
func WithCeiling(ceiling float64) GuardOption {
	return func(g *guardImpl) {
		if ceiling > 0 {
			g.policy.Ceiling = ceiling
		}
	}
}

// WithAction sets the recovery action reported to callers.
//
// Parameters:
//   - action: the recovery strategy
//
// Returns:
//   - GuardOption: functional option to set the action
func WithAction(action Action) GuardOption {
	return func(g *guardImpl) {
		g.policy.Action = action
	}
}
