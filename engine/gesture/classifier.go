package gesture

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Classifier turns a tick's raw input into a single Intent and reports the gesture edge.
// Classification is a pure function of the input; the only state carried between ticks is the
// previous Kind, used to compute the Edge.
type Classifier interface {
	// Classify maps one tick of raw input to an intent and its transition edge.
	// Zero-magnitude input classifies as Idle. Input is expected to be sanitized already.
	//
	// Parameters:
	//   - in: the tick's raw input
	//
	// Returns:
	//   - Intent: the winning gesture with its delta and flags
	//   - Edge: the transition relative to the previous call
	Classify(in RawInput) (Intent, Edge)

	// Interrupt forgets the previous gesture so the next active tick reports a rising edge.
	Interrupt()

	// SetBindings replaces the chord table and tie-break priority. Invalid values are rejected whole.
	//
	// Parameters:
	//   - bindings: the new chord table
	//   - priority: the new tie-break order
	//
	// Returns:
	//   - error: error if either value is invalid
	SetBindings(bindings Bindings, priority Priority) error

	// Bindings returns the active chord table.
	//
	// Returns:
	//   - Bindings: the current bindings
	Bindings() Bindings

	// Priority returns the active tie-break order.
	//
	// Returns:
	//   - Priority: highest priority first
	Priority() Priority
}

type classifierImpl struct {
	bindings Bindings
	priority Priority
	prev     Kind
}

var _ Classifier = &classifierImpl{}

// NewClassifier creates a Classifier with the default bindings and priority, modified by options.
// Invalid options leave the defaults in place.
//
// Parameters:
//   - options: functional options to configure the classifier
//
// Returns:
//   - Classifier: the newly created classifier
func NewClassifier(options ...ClassifierOption) Classifier {
	c := &classifierImpl{
		bindings: DefaultBindings(),
		priority: DefaultPriority(),
	}
	for _, option := range options {
		option(c)
	}
	if c.bindings.Validate() != nil {
		c.bindings = DefaultBindings()
	}
	if c.priority.Validate() != nil {
		c.priority = DefaultPriority()
	}
	return c
}

func (c *classifierImpl) Classify(in RawInput) (Intent, Edge) {
	intent := c.intent(in)
	edge := edgeBetween(c.prev, intent.Kind)
	c.prev = intent.Kind
	return intent, edge
}

func (c *classifierImpl) Interrupt() {
	c.prev = Idle
}

func (c *classifierImpl) SetBindings(bindings Bindings, priority Priority) error {
	if err := bindings.Validate(); err != nil {
		return err
	}
	if err := priority.Validate(); err != nil {
		return err
	}
	c.bindings = bindings
	c.priority = append(Priority(nil), priority...)
	return nil
}

func (c *classifierImpl) Bindings() Bindings {
	return c.bindings
}

func (c *classifierImpl) Priority() Priority {
	return append(Priority(nil), c.priority...)
}

func (c *classifierImpl) intent(in RawInput) Intent {
	flags := Flags(0)
	if c.bindings.PrecisionModifier != 0 && in.Modifiers.Has(c.bindings.PrecisionModifier) {
		flags |= Precision
	}
	if c.bindings.FreeLookModifier != 0 && in.Modifiers.Has(c.bindings.FreeLookModifier) {
		flags |= HorizonOff
	}
	chord := Binding{
		Buttons:   in.Buttons,
		Modifiers: in.Modifiers &^ (c.bindings.PrecisionModifier | c.bindings.FreeLookModifier),
	}
	drag := r3.Vec{X: in.Delta.X, Y: in.Delta.Y}

	for _, kind := range c.priority {
		if delta, ok := c.candidate(kind, chord, drag, in.Scroll); ok {
			return Intent{Kind: kind, Delta: delta, Flags: flags}
		}
	}
	return Intent{Kind: Idle, Flags: flags}
}

// candidate reports the delta kind would carry this tick, and whether kind qualifies at all.
func (c *classifierImpl) candidate(kind Kind, chord Binding, drag r3.Vec, scroll float64) (r3.Vec, bool) {
	bound := matches(c.bindings.chords(kind), chord)
	switch kind {
	case Dolly:
		if c.bindings.ScrollDolly && scroll != 0 {
			return r3.Vec{Y: scroll * c.bindings.ScrollStep}, true
		}
		if bound && drag.Y != 0 {
			return r3.Vec{Y: -drag.Y}, true
		}
	case Orbit, Pan:
		if bound && (drag.X != 0 || drag.Y != 0) {
			return drag, true
		}
	}
	return r3.Vec{}, false
}

func matches(chords []Binding, held Binding) bool {
	for _, b := range chords {
		if held.Buttons.Has(b.Buttons) && held.Modifiers == b.Modifiers {
			return true
		}
	}
	return false
}

func edgeBetween(prev, cur Kind) Edge {
	switch {
	case prev == Idle && cur == Idle:
		return EdgeNone
	case cur == Idle:
		return EdgeFalling
	case prev == cur:
		return EdgeContinue
	default:
		return EdgeRising
	}
}
