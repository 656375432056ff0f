// Package balance classifies the demand/generation balance of a time step.
package balance

import "github.com/kilianp07/adms/core/model"

// Classify returns Deficit when demand exceeds generation by more than
// buffer, Surplus when generation exceeds demand by more than buffer and
// Balanced otherwise. A gap exactly equal to buffer is Balanced.
func Classify(demand, generation, buffer float64) model.Regime {
	switch {
	case demand-generation > buffer:
		return model.Deficit
	case generation-demand > buffer:
		return model.Surplus
	default:
		return model.Balanced
	}
}
