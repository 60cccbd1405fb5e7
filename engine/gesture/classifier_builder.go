package gesture

// ClassifierOption is a functional option for configuring a Classifier.
type ClassifierOption func(*classifierImpl)

// WithBindings sets the chord table.
//
// Parameters:
//   - bindings: the chord table to use
//
// Returns:
//   - ClassifierOption: functional option to set the bindings
func WithBindings(bindings Bindings) ClassifierOption {
	return func(c *classifierImpl) {
		c.bindings = bindings
	}
}

// WithPriority sets the tie-break order, highest first.
//
// Parameters:
//   - priority: a permutation of Orbit, Pan and Dolly
//
// Returns:
//   - ClassifierOption: functional option to set the priority
func WithPriority(priority Priority) ClassifierOption {
	return func(c *classifierImpl) {
		c.priority = append(Priority(nil), priority...)
	}
}
