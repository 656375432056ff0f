package model

import (
	"fmt"
	"strings"
	"time"
)

// Regime classifies the balance between demand and generation.
type Regime int

const (
	Balanced Regime = iota
	Deficit
	Surplus
)

// String returns a human-readable representation of the regime.
func (r Regime) String() string {
	switch r {
	case Balanced:
		return "balanced"
	case Deficit:
		return "deficit"
	case Surplus:
		return "surplus"
	default:
		return "unknown"
	}
}

// ParseRegime converts the output of Regime.String back into a Regime.
func ParseRegime(s string) (Regime, error) {
	switch s {
	case "balanced":
		return Balanced, nil
	case "deficit":
		return Deficit, nil
	case "surplus":
		return Surplus, nil
	default:
		return Balanced, fmt.Errorf("unknown regime %q", s)
	}
}

// MarshalText encodes the regime by name.
func (r Regime) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a regime name.
func (r *Regime) UnmarshalText(b []byte) error {
	v, err := ParseRegime(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ImbalanceSample is one forecast interval consumed by the controller.
type ImbalanceSample struct {
	Timestamp    time.Time `json:"time"`
	DemandMW     float64   `json:"demand"`
	GenerationMW float64   `json:"generation"`
}

// Imbalance returns demand minus generation. Positive values are a deficit.
func (s ImbalanceSample) Imbalance() float64 {
	return s.DemandMW - s.GenerationMW
}

// Atomic actions written to the action log.
const (
	ActionNone         = "none"
	ActionSolverFailed = "solver failed"
	ActionDelimiter    = "; "

	shedPrefix    = "shed "
	restorePrefix = "restored "
)

// ShedAction formats the action emitted when a load is shed.
func ShedAction(name string) string { return shedPrefix + name }

// RestoreAction formats the action emitted when a load is restored.
func RestoreAction(name string) string { return restorePrefix + name }

// JoinActions builds the action description of a step.
func JoinActions(actions []string) string {
	if len(actions) == 0 {
		return ActionNone
	}
	return strings.Join(actions, ActionDelimiter)
}

// ActionRecord is the audit entry produced for each controller step.
type ActionRecord struct {
	Timestamp    time.Time `json:"time"`
	DemandMW     float64   `json:"demand"`
	GenerationMW float64   `json:"generation"`
	Regime       Regime    `json:"regime"`
	Action       string    `json:"action"`
}

// Actions splits the action description back into atomic actions.
func (r ActionRecord) Actions() []string {
	if r.Action == "" || r.Action == ActionNone {
		return nil
	}
	return strings.Split(r.Action, ActionDelimiter)
}

// HasShed reports whether the step shed at least one load.
func (r ActionRecord) HasShed() bool {
	for _, a := range r.Actions() {
		if strings.HasPrefix(a, shedPrefix) {
			return true
		}
	}
	return false
}

// HasRestore reports whether the step restored at least one load.
func (r ActionRecord) HasRestore() bool {
	for _, a := range r.Actions() {
		if strings.HasPrefix(a, restorePrefix) {
			return true
		}
	}
	return false
}

// Failed reports whether the step recorded a solver failure.
func (r ActionRecord) Failed() bool {
	for _, a := range r.Actions() {
		if a == ActionSolverFailed {
			return true
		}
	}
	return false
}
