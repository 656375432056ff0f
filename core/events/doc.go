// Package events defines the controller events emitted on the event bus.
//
// Available event types:
//   - StepEvent: one control step with its action record and decision details
package events
