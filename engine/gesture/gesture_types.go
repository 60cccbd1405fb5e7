package gesture

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the semantic gesture a tick's input maps to.
type Kind uint8

const (
	Idle Kind = iota
	Orbit
	Pan
	Dolly
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Orbit:
		return "orbit"
	case Pan:
		return "pan"
	case Dolly:
		return "dolly"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind converts a configuration string into an active gesture Kind.
//
// Parameters:
//   - s: one of "orbit", "pan" or "dolly" (case-insensitive)
//
// Returns:
//   - Kind: the parsed kind
//   - error: error if s names no active gesture
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "orbit":
		return Orbit, nil
	case "pan":
		return Pan, nil
	case "dolly":
		return Dolly, nil
	}
	return Idle, fmt.Errorf("unknown gesture kind %q", s)
}

// Flags modify how an intent is applied.
type Flags uint8

const (
	// Precision scales the gesture's gain down for fine adjustment.
	Precision Flags = 1 << iota
	// HorizonOff bypasses horizon leveling for the tick (free look).
	HorizonOff
)

// Has reports whether every flag in f is set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Buttons is the set of held pointer buttons.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
)

// Has reports whether every button in b is held.
func (bs Buttons) Has(b Buttons) bool { return bs&b == b }

// Modifiers is the set of held keyboard modifiers.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every modifier in m is held.
func (ms Modifiers) Has(m Modifiers) bool { return ms&m == m }

// RawInput is everything the host reports for one tick.
type RawInput struct {
	// Delta is the pointer motion since the previous tick in device pixels. Z is ignored.
	Delta r3.Vec
	// Scroll is the wheel motion since the previous tick in notches, positive away from the user.
	Scroll float64
	// Buttons and Modifiers are the held sets at the time of the tick.
	Buttons   Buttons
	Modifiers Modifiers
	// CursorHit is the world-space point under the cursor, if the host resolved one.
	CursorHit *r3.Vec
	// Stop requests an immediate halt: velocity is zeroed and coasting is skipped.
	Stop bool
}

// Intent is the classified gesture for a single tick. For Dolly, Delta.X is 0 and Delta.Y is the dolly amount.
type Intent struct {
	Kind  Kind
	Delta r3.Vec
	Flags Flags
}

// Active reports whether the intent carries motion.
func (i Intent) Active() bool {
	return i.Kind != Idle
}

// Edge is the transition signal between consecutive intents.
type Edge uint8

const (
	// EdgeNone means idle followed idle.
	EdgeNone Edge = iota
	// EdgeRising marks the first tick of a gesture.
	EdgeRising
	// EdgeContinue marks a gesture that carries on from the previous tick.
	EdgeContinue
	// EdgeFalling marks the first idle tick after a gesture.
	EdgeFalling
)

func (e Edge) String() string {
	switch e {
	case EdgeNone:
		return "none"
	case EdgeRising:
		return "rising"
	case EdgeContinue:
		return "continue"
	case EdgeFalling:
		return "falling"
	default:
		return fmt.Sprintf("Edge(%d)", uint8(e))
	}
}

// Binding is a chord of buttons and modifiers that selects a gesture.
// A binding matches when all of its buttons are held and the held modifiers, excluding the
// precision and free-look modifiers, are exactly its modifiers.
type Binding struct {
	Buttons   Buttons
	Modifiers Modifiers
}

// Bindings maps chords to gestures. Orbit, Pan and Dolly each accept any of their chords.
type Bindings struct {
	Orbit []Binding
	Pan   []Binding
	Dolly []Binding
	// ScrollDolly routes wheel motion to Dolly.
	ScrollDolly bool
	// ScrollStep converts one scroll notch into dolly pixels.
	ScrollStep float64
	// PrecisionModifier sets the Precision flag while held.
	PrecisionModifier Modifiers
	// FreeLookModifier sets the HorizonOff flag while held.
	FreeLookModifier Modifiers
}

// DefaultBindings returns the viewport-style chord set: middle drag orbits, shift+middle or right
// drag pans, ctrl+middle drag and the wheel dolly, alt is precision and super is free look.
//
// Returns:
//   - Bindings: the default bindings
func DefaultBindings() Bindings {
	return Bindings{
		Orbit:             []Binding{{Buttons: ButtonMiddle}},
		Pan:               []Binding{{Buttons: ButtonMiddle, Modifiers: ModShift}, {Buttons: ButtonRight}},
		Dolly:             []Binding{{Buttons: ButtonMiddle, Modifiers: ModCtrl}},
		ScrollDolly:       true,
		ScrollStep:        10,
		PrecisionModifier: ModAlt,
		FreeLookModifier:  ModSuper,
	}
}

// Validate checks that every binding names at least one button and the scroll step is usable.
//
// Returns:
//   - error: error describing the first invalid binding, nil otherwise
func (b Bindings) Validate() error {
	for kind, chords := range map[Kind][]Binding{Orbit: b.Orbit, Pan: b.Pan, Dolly: b.Dolly} {
		for _, c := range chords {
			if c.Buttons == 0 {
				return fmt.Errorf("%s binding has no buttons", kind)
			}
		}
	}
	if b.ScrollDolly && !(b.ScrollStep > 0) {
		return fmt.Errorf("scroll step must be positive, got %v", b.ScrollStep)
	}
	return nil
}

func (b Bindings) chords(k Kind) []Binding {
	switch k {
	case Orbit:
		return b.Orbit
	case Pan:
		return b.Pan
	case Dolly:
		return b.Dolly
	}
	return nil
}

// Priority orders the active gestures for tie-breaking, highest first.
type Priority []Kind

// DefaultPriority returns Dolly > Orbit > Pan.
func DefaultPriority() Priority {
	return Priority{Dolly, Orbit, Pan}
}

// Validate checks that the priority is a permutation of Orbit, Pan and Dolly.
//
// Returns:
//   - error: error describing the problem, nil when valid
func (p Priority) Validate() error {
	if len(p) != 3 {
		return fmt.Errorf("priority must list orbit, pan and dolly exactly once, got %d entries", len(p))
	}
	seen := map[Kind]bool{}
	for _, k := range p {
		if k != Orbit && k != Pan && k != Dolly {
			return fmt.Errorf("priority contains non-gesture kind %s", k)
		}
		if seen[k] {
			return fmt.Errorf("priority lists %s twice", k)
		}
		seen[k] = true
	}
	return nil
}
