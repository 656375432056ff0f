// Package restore decides which shed loads come back on during a surplus.
package restore

import "github.com/kilianp07/adms/core/model"

// Eligible returns, in the given order, the names of every load that is off
// with an expired cooldown. All of them are restored at once; no capacity
// check is made, so a large restore can re-create a deficit on the next step.
func Eligible(states []model.LoadState) []string {
	var names []string
	for _, st := range states {
		if st.Phase() == model.PhaseEligible {
			names = append(names, st.Name)
		}
	}
	return names
}
