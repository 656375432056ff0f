package metrics

import "time"

// StepEvent summarises one control step.
type StepEvent struct {
	RunID        string
	Time         time.Time
	Regime       string
	DemandMW     float64
	GenerationMW float64
	Shed         []string
	Restored     []string
	Failed       bool
	LoadsOff     int
}

// ImbalanceMW returns demand minus generation.
func (e StepEvent) ImbalanceMW() float64 { return e.DemandMW - e.GenerationMW }

// Sink records control steps for observability purposes.
type Sink interface {
	RecordStep(ev StepEvent) error
}

// SolveEvent describes one invocation of the shedding optimizer.
type SolveEvent struct {
	RunID       string
	Time        time.Time
	Status      string
	DeficitMW   float64
	ShedPowerMW float64
	Cost        float64
	LowerBound  float64
	Nodes       int
	Duration    time.Duration
}

// SolveRecorder is implemented by sinks able to record optimizer solves.
type SolveRecorder interface {
	RecordSolve(ev SolveEvent) error
}

// NopSink implements Sink and SolveRecorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordStep(StepEvent) error   { return nil }
func (NopSink) RecordSolve(SolveEvent) error { return nil }
