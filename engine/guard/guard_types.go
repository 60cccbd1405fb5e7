package guard

import (
	"fmt"
	"strings"
)

// Action selects how a caller recovers from a corrupted value.
// The guard itself always returns a clean value; Action tells the caller what to do with the rest of its state.
type Action uint8

const (
	// ActionRevert discards the whole update and keeps the last known-good state.
	ActionRevert Action = iota
	// ActionDiscard replaces only the corrupted value with its fallback and continues.
	ActionDiscard
	// ActionZeroVelocity zeroes the accumulated velocity and keeps the last known-good state.
	ActionZeroVelocity
)

var actionNames = map[Action]string{
	ActionRevert:       "revert",
	ActionDiscard:      "discard",
	ActionZeroVelocity: "zero_velocity",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction converts a configuration string into an Action.
//
// Parameters:
//   - s: one of "revert", "discard" or "zero_velocity" (case-insensitive)
//
// Returns:
//   - Action: the parsed action
//   - error: error if s names no known action
func ParseAction(s string) (Action, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == want {
			return a, nil
		}
	}
	return ActionRevert, fmt.Errorf("unknown guard action %q", s)
}

// Reason describes why a value was rejected.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonNaN
	ReasonInf
	ReasonCeiling
	// ReasonDegenerate marks a quaternion too short to normalize.
	ReasonDegenerate
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNaN:
		return "nan"
	case ReasonInf:
		return "inf"
	case ReasonCeiling:
		return "ceiling"
	case ReasonDegenerate:
		return "degenerate"
	default:
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
}

// Report is the flagged result of a sanitize call. A zero Report means the value passed unchanged
// (apart from routine re-normalization of quaternions).
type Report struct {
	Reason Reason
}

// Corrupt reports whether the value was replaced by a fallback.
func (r Report) Corrupt() bool {
	return r.Reason != ReasonNone
}

// Merge returns the first corrupt report of r and other.
func (r Report) Merge(other Report) Report {
	if r.Corrupt() {
		return r
	}
	return other
}

// Policy holds the corruption thresholds and the recovery action.
type Policy struct {
	// Ceiling is the largest magnitude a scalar or vector may have before it is treated as corrupt.
	Ceiling float64
	// Action is the recovery strategy the caller applies when a value is corrupt.
	Action Action
}

// DefaultPolicy returns the policy used when none is configured.
//
// Returns:
//   - Policy: ceiling 1e6 with ActionRevert
func DefaultPolicy() Policy {
	return Policy{Ceiling: 1e6, Action: ActionRevert}
}
