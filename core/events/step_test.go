package events

import "testing"

func TestStepEventSolved(t *testing.T) {
	if (StepEvent{}).Solved() {
		t.Fatal("empty event should not report a solve")
	}
	if !(StepEvent{SolveStatus: "optimal"}).Solved() {
		t.Fatal("expected solve to be reported")
	}
}
