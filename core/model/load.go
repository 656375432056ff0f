package model

import (
	"fmt"
	"strings"
)

// Load is a controllable consumer that the controller may shed.
type Load struct {
	Name     string  `json:"name" yaml:"name"`
	PowerMW  float64 `json:"power_mw" yaml:"power_mw"` // power freed when the load is shed
	Priority float64 `json:"priority" yaml:"priority"` // lower values are shed first
}

// Validate checks the static attributes of a load.
func (l Load) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("load name is required")
	}
	if strings.Contains(l.Name, ";") {
		return fmt.Errorf("load %q: name must not contain %q", l.Name, ";")
	}
	if !(l.PowerMW > 0) {
		return fmt.Errorf("load %s: power_mw must be > 0, got %v", l.Name, l.PowerMW)
	}
	if l.Priority < 0 {
		return fmt.Errorf("load %s: priority must be >= 0, got %v", l.Name, l.Priority)
	}
	return nil
}

// Phase is the cooldown state machine position of a load.
type Phase int

const (
	// PhaseOn means the load is connected.
	PhaseOn Phase = iota
	// PhaseCooling means the load was shed and is still cooling down.
	PhaseCooling
	// PhaseEligible means the load is off and may be restored.
	PhaseEligible
)

func (p Phase) String() string {
	switch p {
	case PhaseOn:
		return "ON"
	case PhaseCooling:
		return "OFF_COOLING"
	case PhaseEligible:
		return "OFF_ELIGIBLE"
	default:
		return "unknown"
	}
}

// LoadState is the mutable status of a load during a simulation.
// Cooldown > 0 implies On == false.
type LoadState struct {
	Name     string `json:"name"`
	On       bool   `json:"on"`
	Cooldown int    `json:"cooldown"`
}

// Phase derives the state machine position from On and Cooldown.
func (s LoadState) Phase() Phase {
	switch {
	case s.On:
		return PhaseOn
	case s.Cooldown > 0:
		return PhaseCooling
	default:
		return PhaseEligible
	}
}
