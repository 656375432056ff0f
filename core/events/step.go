package events

import (
	"time"

	"github.com/kilianp07/adms/core/model"
)

// StepEvent is published once per control step after the action record has
// been appended to the log.
type StepEvent struct {
	RunID  string
	Seq    int
	Record model.ActionRecord
	// Shed and Restored list the loads switched during the step in registry order.
	Shed     []string
	Restored []string
	// SolveStatus is empty unless the optimizer ran.
	SolveStatus   string
	SolveDuration time.Duration
	LoadsOff      int
}

// Solved reports whether the optimizer was invoked for this step.
func (e StepEvent) Solved() bool { return e.SolveStatus != "" }
