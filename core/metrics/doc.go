// Package metrics defines the sinks used to observe the control loop. A Sink
// records one StepEvent per control step; sinks that also implement
// SolveRecorder receive the outcome of every shedding solve. Sinks are built
// from configuration through the factory registry and several configured
// sinks are combined with NewMultiSink.
package metrics
